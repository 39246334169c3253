package http

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/controlpos-api/internal/application/dto"
)

// pageQuery lee page y limit con el límite por defecto indicado.
func pageQuery(c *fiber.Ctx, defLimit int) dto.PageRequest {
	return dto.NewPageRequest(c.QueryInt("page", 1), c.QueryInt("limit", defLimit), defLimit)
}

// firstQuery primer parámetro no vacío entre las claves dadas.
func firstQuery(c *fiber.Ctx, keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(c.Query(k)); v != "" {
			return v
		}
	}
	return ""
}

// movementQuery acepta pagination[...] y filters[...] o las mismas claves sin corchetes.
func movementQuery(c *fiber.Ctx) dto.MovementQuery {
	atoi := func(s string) int {
		n, _ := strconv.Atoi(s)
		return n
	}
	desc, _ := strconv.ParseBool(firstQuery(c, "pagination[descending]", "descending"))
	return dto.MovementQuery{
		Page:        atoi(firstQuery(c, "pagination[page]", "page")),
		RowsPerPage: atoi(firstQuery(c, "pagination[rowsPerPage]", "rowsPerPage")),
		SortBy:      firstQuery(c, "pagination[sortBy]", "sortBy"),
		Descending:  desc,
		StartDate:   firstQuery(c, "filters[startDate]", "startDate"),
		EndDate:     firstQuery(c, "filters[endDate]", "endDate"),
	}
}
