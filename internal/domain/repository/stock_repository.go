package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/controlpos-api/internal/domain/entity"
)

// StockRepository define el puerto para leer y escribir el stock de variantes.
// Usado dentro de transacciones para garantizar consistencia.
type StockRepository interface {
	// GetForUpdate bloquea la fila de la variante (SELECT FOR UPDATE). (nil, nil) si no existe en el tenant.
	GetForUpdate(ctx context.Context, tenantID, variantID string) (*entity.VariantStock, error)
	SetStock(ctx context.Context, tenantID, variantID string, stock int) error
	SetCost(ctx context.Context, tenantID, variantID string, cost decimal.Decimal) error
}
