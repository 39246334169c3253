package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/controlpos-api/internal/application/dto"
	"github.com/jhoicas/controlpos-api/internal/application/inventory"
)

// InventoryHandler maneja los registros de inventario (entradas/salidas) y el historial por producto.
type InventoryHandler struct {
	uc *inventory.RecordUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.RecordUseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// CreateRecord godoc
// @Summary      Registrar entrada o salida de inventario
// @Description  entrada suma stock; salida resta y falla si no alcanza.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.InventoryRecordRequest  true  "Tipo, fecha e ítems"
// @Success      201   {object}  dto.InventoryRecordResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/inventory/records [post]
func (h *InventoryHandler) CreateRecord(c *fiber.Ctx) error {
	var in dto.InventoryRecordRequest
	if err := c.BodyParser(&in); err != nil {
		return bodyError(err)
	}
	out, err := h.uc.Create(c.Context(), GetTenantID(c), GetUserID(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateRecord godoc
// @Summary      Actualizar registro de inventario
// @Description  Aplica el efecto neto nuevo − anterior por variante.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                      true  "ID del registro"
// @Param        body  body  dto.InventoryRecordRequest  true  "Registro completo"
// @Success      200   {object}  dto.InventoryRecordResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/records/{id} [put]
func (h *InventoryHandler) UpdateRecord(c *fiber.Ctx) error {
	var in dto.InventoryRecordRequest
	if err := c.BodyParser(&in); err != nil {
		return bodyError(err)
	}
	out, err := h.uc.Update(c.Context(), GetTenantID(c), c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// DeleteRecord godoc
// @Summary      Eliminar registro y revertir su efecto
// @Tags         inventory
// @Security     Bearer
// @Param        id   path  string  true  "ID del registro"
// @Success      204
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/records/{id} [delete]
func (h *InventoryHandler) DeleteRecord(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), GetTenantID(c), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetRecord godoc
// @Summary      Obtener registro con ítems
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del registro"
// @Success      200  {object}  dto.InventoryRecordResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/records/{id} [get]
func (h *InventoryHandler) GetRecord(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.Context(), GetTenantID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// ListRecords godoc
// @Summary      Listar registros de inventario
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        type   query  string  false  "entrada | salida"
// @Param        page   query  int     false  "Página"  default(1)
// @Param        limit  query  int     false  "Límite"  default(10)
// @Success      200  {object}  dto.ListResponse[dto.InventoryRecordResponse]
// @Router       /api/inventory/records [get]
func (h *InventoryHandler) ListRecords(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context(), GetTenantID(c), c.Query("type"), pageQuery(c, 10))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// ProductMovements godoc
// @Summary      Historial de movimientos de un producto
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        productId                path   string  true   "ID del producto"
// @Param        pagination[page]         query  int     false  "Página"
// @Param        pagination[rowsPerPage]  query  int     false  "Filas por página"
// @Param        pagination[sortBy]       query  string  false  "date | type | quantity"
// @Param        pagination[descending]   query  bool    false  "Orden descendente"
// @Param        filters[startDate]       query  string  false  "Desde (YYYY-MM-DD o YYYY/MM/DD)"
// @Param        filters[endDate]         query  string  false  "Hasta, inclusiva"
// @Success      200  {object}  dto.ListResponse[dto.ProductMovementResponse]
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements/{productId} [get]
func (h *InventoryHandler) ProductMovements(c *fiber.Ctx) error {
	out, err := h.uc.ProductMovements(c.Context(), GetTenantID(c), c.Params("productId"), movementQuery(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}
