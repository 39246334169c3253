package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/controlpos-api/internal/application/dto"
	"github.com/jhoicas/controlpos-api/internal/domain"
	"github.com/jhoicas/controlpos-api/pkg/logger"
)

// Códigos de error devueltos en el campo code.
const (
	CodeValidation        = "VALIDATION"
	CodeNotFound          = "NOT_FOUND"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeForbidden         = "FORBIDDEN"
	CodeDuplicate         = "DUPLICATE"
	CodeConflict          = "CONFLICT"
	CodeInsufficientStock = "INSUFFICIENT_STOCK"
	CodeIdentity          = "IDENTITY"
	CodeRateLimited       = "RATE_LIMITED"
	CodeNotImplemented    = "NOT_IMPLEMENTED"
	CodeInternal          = "INTERNAL"
)

type errorMapping struct {
	kind    error
	status  int
	code    string
	message string
}

var errorTable = []errorMapping{
	{domain.ErrInsufficientStock, fiber.StatusBadRequest, CodeInsufficientStock, "Stock insuficiente"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, CodeValidation, "Datos inválidos"},
	{domain.ErrNotFound, fiber.StatusNotFound, CodeNotFound, "Recurso no encontrado"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, CodeUnauthorized, "No autorizado"},
	{domain.ErrForbidden, fiber.StatusForbidden, CodeForbidden, "Permisos insuficientes"},
	{domain.ErrDuplicate, fiber.StatusConflict, CodeDuplicate, "El recurso ya existe"},
	{domain.ErrConflict, fiber.StatusConflict, CodeConflict, "Conflicto con el estado actual"},
}

// statusFor traduce un error de la aplicación a status HTTP y cuerpo JSON.
func statusFor(err error) (int, dto.ErrorResponse) {
	var ext *domain.ExternalError
	if errors.As(err, &ext) {
		// Los rechazos del servicio de identidad (credenciales, email repetido) son 400.
		if ext.Status >= 400 && ext.Status < 500 {
			return fiber.StatusBadRequest, dto.ErrorResponse{Error: ext.Message, Code: CodeIdentity}
		}
		return fiber.StatusInternalServerError, dto.ErrorResponse{Error: ext.Message, Code: CodeIdentity}
	}

	var derr *domain.Error
	hasDetail := errors.As(err, &derr)
	for _, m := range errorTable {
		if !errors.Is(err, m.kind) {
			continue
		}
		body := dto.ErrorResponse{Error: m.message, Code: m.code}
		if hasDetail {
			body.Error = derr.Message
			body.Details = derr.Details
		}
		return m.status, body
	}

	var ferr *fiber.Error
	if errors.As(err, &ferr) {
		return ferr.Code, dto.ErrorResponse{Error: ferr.Message}
	}
	return fiber.StatusInternalServerError, dto.ErrorResponse{Error: "Error interno del servidor", Code: CodeInternal, Details: err.Error()}
}

// bodyError traduce un fallo de BodyParser. Los errores de dominio de la normalización se conservan.
func bodyError(err error) error {
	var derr *domain.Error
	if errors.As(err, &derr) {
		return err
	}
	return domain.Invalid("Cuerpo inválido")
}

// ErrorHandler manejador de errores de Fiber: registra los 5xx y responde con el formato común.
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	if log == nil {
		log = logger.Nop()
	}
	return func(c *fiber.Ctx, err error) error {
		status, body := statusFor(err)
		if status >= fiber.StatusInternalServerError {
			log.Error().
				Err(err).
				Str("method", c.Method()).
				Str("path", c.Path()).
				Str("request_id", requestID(c)).
				Msg("error no controlado")
		}
		return c.Status(status).JSON(body)
	}
}
