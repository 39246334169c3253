package inventory

import (
	"context"

	"github.com/jhoicas/controlpos-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad de registro + stock.
type TxRunner interface {
	RunInventory(ctx context.Context, fn func(
		records repository.InventoryRecordRepository,
		stock repository.StockRepository,
	) error) error
}
