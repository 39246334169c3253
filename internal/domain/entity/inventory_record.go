package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de registro de inventario.
const (
	RecordTypeEntry = "entrada" // aumenta stock
	RecordTypeExit  = "salida"  // disminuye stock
)

// InventoryRecord entrada o salida manual de inventario.
type InventoryRecord struct {
	ID          string
	TenantID    string
	Type        string
	Description string
	Date        time.Time
	CreatedBy   *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Items       []InventoryRecordItem
}

// InventoryRecordItem cantidad de una variante dentro de un registro.
type InventoryRecordItem struct {
	ID        string
	RecordID  string
	TenantID  string
	VariantID string
	Quantity  int
	Cost      *decimal.Decimal

	// Solo lectura (join con la variante).
	VariantTitle string
	ProductName  string
}

// ProductMovement ítem de registro que toca una variante de un producto.
type ProductMovement struct {
	RecordID     string
	Date         time.Time
	Type         string
	Quantity     int
	VariantTitle string
	Description  string
}
