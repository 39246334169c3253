package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/controlpos-api/internal/application/dto"
	"github.com/jhoicas/controlpos-api/internal/application/usecase"
)

// RouteHandler maneja las rutas de visita y su asignación de clientes.
type RouteHandler struct {
	uc *usecase.RouteUseCase
}

// NewRouteHandler construye el handler.
func NewRouteHandler(uc *usecase.RouteUseCase) *RouteHandler {
	return &RouteHandler{uc: uc}
}

// List godoc
// @Summary      Listar rutas
// @Tags         routes
// @Security     Bearer
// @Produce      json
// @Param        search      query  string  false  "Nombre"
// @Param        sortBy      query  string  false  "name | created_at"  default(name)
// @Param        descending  query  bool    false  "Orden descendente"
// @Param        page        query  int     false  "Página"  default(1)
// @Param        limit       query  int     false  "Límite"  default(20)
// @Success      200  {object}  dto.ListResponse[dto.RouteResponse]
// @Router       /api/routes [get]
func (h *RouteHandler) List(c *fiber.Ctx) error {
	var q dto.RouteListQuery
	if err := c.QueryParser(&q); err != nil {
		return bodyError(err)
	}
	out, err := h.uc.List(c.Context(), GetTenantID(c), q)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener ruta con sus clientes
// @Tags         routes
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la ruta"
// @Success      200  {object}  dto.RouteResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/routes/{id} [get]
func (h *RouteHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Context(), GetTenantID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear ruta
// @Tags         routes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RouteRequest  true  "Datos de la ruta"
// @Success      201   {object}  dto.RouteResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/routes [post]
func (h *RouteHandler) Create(c *fiber.Ctx) error {
	var in dto.RouteRequest
	if err := c.BodyParser(&in); err != nil {
		return bodyError(err)
	}
	out, err := h.uc.Create(c.Context(), GetTenantID(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Actualizar ruta
// @Tags         routes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string            true  "ID de la ruta"
// @Param        body  body  dto.RouteRequest  true  "Datos de la ruta"
// @Success      200   {object}  dto.RouteResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/routes/{id} [put]
func (h *RouteHandler) Update(c *fiber.Ctx) error {
	var in dto.RouteRequest
	if err := c.BodyParser(&in); err != nil {
		return bodyError(err)
	}
	out, err := h.uc.Update(c.Context(), GetTenantID(c), c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar ruta
// @Tags         routes
// @Security     Bearer
// @Param        id   path  string  true  "ID de la ruta"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/routes/{id} [delete]
func (h *RouteHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), GetTenantID(c), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AssignCustomers godoc
// @Summary      Reemplazar los clientes de la ruta
// @Tags         routes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID de la ruta"
// @Param        body  body  dto.RouteCustomersRequest  true  "IDs de clientes"
// @Success      200   {object}  dto.RouteCustomersResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/routes/{id}/customers [put]
func (h *RouteHandler) AssignCustomers(c *fiber.Ctx) error {
	var in dto.RouteCustomersRequest
	if err := c.BodyParser(&in); err != nil {
		return bodyError(err)
	}
	out, err := h.uc.AssignCustomers(c.Context(), GetTenantID(c), c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}
