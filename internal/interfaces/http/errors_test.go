package http

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/controlpos-api/internal/domain"
)

func TestStatusFor(t *testing.T) {
	shortage := domain.InsufficientStock([]domain.StockShortage{{VariantID: "v1", Available: 1, Requested: 3}})

	cases := []struct {
		name   string
		err    error
		status int
		code   string
		msg    string
	}{
		{"validación", domain.Invalid("nombre es requerido"), http.StatusBadRequest, CodeValidation, "nombre es requerido"},
		{"no encontrado envuelto", fmt.Errorf("repo: %w", domain.ErrNotFound), http.StatusNotFound, CodeNotFound, "Recurso no encontrado"},
		{"duplicado", domain.ErrDuplicate, http.StatusConflict, CodeDuplicate, "El recurso ya existe"},
		{"conflicto", domain.NewError(domain.ErrConflict, "La orden cambió"), http.StatusConflict, CodeConflict, "La orden cambió"},
		{"stock", shortage, http.StatusBadRequest, CodeInsufficientStock, "Stock insuficiente"},
		{"prohibido", domain.ErrForbidden, http.StatusForbidden, CodeForbidden, "Permisos insuficientes"},
		{"identidad 4xx", &domain.ExternalError{Status: 422, Message: "User already registered"}, http.StatusBadRequest, CodeIdentity, "User already registered"},
		{"identidad 5xx", &domain.ExternalError{Status: 503, Message: "upstream"}, http.StatusInternalServerError, CodeIdentity, "upstream"},
		{"fiber", fiber.ErrNotFound, http.StatusNotFound, "", "Cannot GET"},
		{"desconocido", fmt.Errorf("pgx: conn closed"), http.StatusInternalServerError, CodeInternal, "Error interno del servidor"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := statusFor(tc.err)
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.code, body.Code)
			if tc.name == "fiber" {
				assert.Equal(t, fiber.ErrNotFound.Message, body.Error)
				return
			}
			assert.Equal(t, tc.msg, body.Error)
		})
	}
}

func TestStatusFor_DetallesDeStock(t *testing.T) {
	shortages := []domain.StockShortage{{VariantID: "v1", Available: 1, Requested: 3}}
	_, body := statusFor(domain.InsufficientStock(shortages))
	assert.Equal(t, shortages, body.Details)
}

func TestStatusFor_InternoConservaCausa(t *testing.T) {
	err := fmt.Errorf("list orders: %w", errors.New("dial tcp: connection refused"))
	status, body := statusFor(err)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "Error interno del servidor", body.Error)
	assert.Equal(t, "list orders: dial tcp: connection refused", body.Details)
}

func TestBodyError(t *testing.T) {
	derr := domain.Invalid("Fecha inválida")
	assert.Same(t, derr, bodyError(derr))

	err := bodyError(fmt.Errorf("unexpected EOF"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, "Cuerpo inválido", err.Error())
}
