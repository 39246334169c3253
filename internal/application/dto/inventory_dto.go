package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryItemInput ítem canónico de un registro de inventario.
// Acepta variantId | variant_id | variant.id.
type InventoryItemInput struct {
	VariantID string           `json:"variant_id" validate:"required"`
	Quantity  int              `json:"quantity" validate:"gt=0"`
	Cost      *decimal.Decimal `json:"cost" validate:"omitempty,gte=0"`
}

// UnmarshalJSON normaliza las distintas convenciones de nombres del cliente.
func (i *InventoryItemInput) UnmarshalJSON(b []byte) error {
	f, err := decodeFields(b)
	if err != nil {
		return err
	}
	*i = InventoryItemInput{}
	i.VariantID = f.str("variantId", "variant_id")
	if i.VariantID == "" {
		i.VariantID = f.nestedID("variant")
	}
	if _, err := f.decode(&i.Quantity, "quantity"); err != nil {
		return err
	}
	var cost decimal.Decimal
	ok, err := f.decode(&cost, "cost")
	if err != nil {
		return err
	}
	if ok {
		i.Cost = &cost
	}
	return nil
}

// InventoryRecordRequest entrada para crear o reemplazar un registro de inventario.
type InventoryRecordRequest struct {
	Type        string               `json:"type" validate:"required,oneof=entrada salida"`
	Description string               `json:"description" validate:"omitempty,max=1000"`
	Date        *Date                `json:"date"`
	Items       []InventoryItemInput `json:"items" validate:"required,min=1,dive"`
}

// InventoryRecordItemResponse ítem de un registro.
type InventoryRecordItemResponse struct {
	ID           string           `json:"id"`
	VariantID    string           `json:"variant_id"`
	Quantity     int              `json:"quantity"`
	Cost         *decimal.Decimal `json:"cost"`
	VariantTitle string           `json:"variant_title,omitempty"`
	ProductName  string           `json:"product_name,omitempty"`
}

// InventoryRecordResponse salida de un registro de inventario.
type InventoryRecordResponse struct {
	ID          string                        `json:"id"`
	TenantID    string                        `json:"tenant_id"`
	Type        string                        `json:"type"`
	Description string                        `json:"description"`
	Date        time.Time                     `json:"date"`
	CreatedBy   *string                       `json:"created_by"`
	CreatedAt   time.Time                     `json:"created_at"`
	UpdatedAt   time.Time                     `json:"updated_at"`
	Items       []InventoryRecordItemResponse `json:"items"`
}

// MovementQuery parámetros del historial de movimientos de un producto.
// En la URL llegan como pagination[...] y filters[...] o sin corchetes.
type MovementQuery struct {
	Page        int
	RowsPerPage int
	SortBy      string
	Descending  bool
	StartDate   string
	EndDate     string
}

// ProductMovementResponse ítem del historial de movimientos.
type ProductMovementResponse struct {
	RecordID     string    `json:"recordId"`
	Date         time.Time `json:"date"`
	Type         string    `json:"type"`
	Quantity     int       `json:"quantity"`
	VariantTitle string    `json:"variantTitle"`
	Description  string    `json:"description"`
}
