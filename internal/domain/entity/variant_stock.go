package entity

import "github.com/shopspring/decimal"

// VariantStock fila de stock bloqueada dentro de una transacción.
type VariantStock struct {
	VariantID string
	TenantID  string
	Stock     int
	Cost      decimal.Decimal
}
