package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product agrupa variantes vendibles. El stock vive en cada ProductVariant.
type Product struct {
	ID           string
	TenantID     string
	CategoryID   *string
	CategoryName string // solo lectura (join)
	Name         string
	Description  string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Variants     []ProductVariant
}

// ProductVariant configuración vendible de un producto; unidad de control de stock.
// Stock nunca queda negativo por una orden o un registro de inventario.
type ProductVariant struct {
	ID        string
	TenantID  string
	ProductID string
	Code      string
	Title     string
	Stock     int
	Cost      decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
	Prices    []VariantPrice
}

// VariantPrice precio con nombre (ej. "detal", "mayorista") de una variante.
type VariantPrice struct {
	ID        string
	TenantID  string
	VariantID string
	Name      string
	Price     decimal.Decimal
}

// OrderListItem fila plana para la pantalla de toma de pedidos.
type OrderListItem struct {
	VariantID    string
	ProductID    string
	ProductName  string
	VariantTitle string
	Code         string
	Stock        int
	Price        decimal.Decimal
}
