package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/controlpos-api/internal/application/dto"
	"github.com/jhoicas/controlpos-api/internal/application/usecase"
)

// BusinessHandler configuración del negocio (un registro por tenant).
type BusinessHandler struct {
	uc *usecase.BusinessUseCase
}

// NewBusinessHandler construye el handler.
func NewBusinessHandler(uc *usecase.BusinessUseCase) *BusinessHandler {
	return &BusinessHandler{uc: uc}
}

// Get godoc
// @Summary      Obtener configuración del negocio
// @Description  Devuelve null si el tenant aún no la tiene.
// @Tags         business
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.BusinessConfigResponse
// @Router       /api/business [get]
func (h *BusinessHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.Context(), GetTenantID(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Save godoc
// @Summary      Guardar configuración del negocio
// @Tags         business
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BusinessConfigRequest  true  "Configuración completa"
// @Success      200   {object}  dto.BusinessConfigResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/business [put]
func (h *BusinessHandler) Save(c *fiber.Ctx) error {
	var in dto.BusinessConfigRequest
	if err := c.BodyParser(&in); err != nil {
		return bodyError(err)
	}
	out, err := h.uc.Save(c.Context(), GetTenantID(c), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}
