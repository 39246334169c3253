// Package order contiene el ciclo de vida de las órdenes: checkout, reconciliación de
// ítems con el stock, eliminación, consultas, estadísticas y recibos.
package order

import (
	"context"

	"github.com/jhoicas/controlpos-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con repositorios atados a esa tx.
// Es la única vía por la que una orden modifica stock.
type TxRunner interface {
	RunOrder(ctx context.Context, fn func(
		orders repository.OrderRepository,
		stock repository.StockRepository,
	) error) error
}

// Actor usuario autenticado que ejecuta la operación. TenantID sale siempre del perfil.
type Actor struct {
	UserID   string
	TenantID string
	Role     string
}
