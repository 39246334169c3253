package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatusCompleted estado por defecto de una orden creada en caja.
const OrderStatusCompleted = "completed"

// Order venta de un tenant. Total = Σ(cantidad × precio) de sus ítems al último write.
type Order struct {
	ID         string
	TenantID   string
	CustomerID *string
	CreatedBy  *string // vendedor
	Total      decimal.Decimal
	Status     string
	Notes      string
	Date       time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Items      []OrderItem

	// Solo lectura (joins).
	Customer   *Customer
	ItemsCount int
}

// OrderItem línea de una orden; precio y títulos capturados al momento de la venta.
type OrderItem struct {
	ID           string
	OrderID      string
	TenantID     string
	VariantID    string
	Quantity     int
	Price        decimal.Decimal
	Name         string
	VariantTitle string

	// Solo lectura (join con la variante).
	VariantCode  string
	VariantStock int
	ProductName  string
}

// Subtotal cantidad × precio.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// OrderTotal suma los subtotales de los ítems.
func OrderTotal(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal())
	}
	return total
}

// SalesSummary agregado de ventas en un rango.
type SalesSummary struct {
	Orders  int
	Revenue decimal.Decimal
}

// TopVariant variante más vendida en un rango.
type TopVariant struct {
	VariantID    string
	ProductName  string
	VariantTitle string
	Quantity     int
	Revenue      decimal.Decimal
}
