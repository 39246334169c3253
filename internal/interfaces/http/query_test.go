package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/controlpos-api/internal/application/dto"
)

func captureMovementQuery(t *testing.T, rawQuery string) dto.MovementQuery {
	t.Helper()
	var got dto.MovementQuery
	app := fiber.New()
	app.Get("/m", func(c *fiber.Ctx) error {
		got = movementQuery(c)
		return c.SendStatus(fiber.StatusOK)
	})
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/m?"+rawQuery, nil), -1)
	require.NoError(t, err)
	resp.Body.Close()
	return got
}

func TestMovementQuery_ConCorchetes(t *testing.T) {
	q := captureMovementQuery(t,
		"pagination[page]=2&pagination[rowsPerPage]=5&pagination[sortBy]=quantity&pagination[descending]=true"+
			"&filters[startDate]=2026/10/01&filters[endDate]=2026-10-15")
	assert.Equal(t, dto.MovementQuery{
		Page: 2, RowsPerPage: 5, SortBy: "quantity", Descending: true,
		StartDate: "2026/10/01", EndDate: "2026-10-15",
	}, q)
}

func TestMovementQuery_SinCorchetes(t *testing.T) {
	q := captureMovementQuery(t, "page=3&rowsPerPage=10&sortBy=type&descending=false&startDate=2026-01-01")
	assert.Equal(t, 3, q.Page)
	assert.Equal(t, 10, q.RowsPerPage)
	assert.Equal(t, "type", q.SortBy)
	assert.False(t, q.Descending)
	assert.Equal(t, "2026-01-01", q.StartDate)
	assert.Empty(t, q.EndDate)
}

func TestMovementQuery_ValoresInvalidos(t *testing.T) {
	q := captureMovementQuery(t, "pagination[page]=abc&pagination[descending]=quizas")
	assert.Zero(t, q.Page)
	assert.False(t, q.Descending)
}
