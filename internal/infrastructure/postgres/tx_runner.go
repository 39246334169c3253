package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/controlpos-api/internal/application/inventory"
	"github.com/jhoicas/controlpos-api/internal/application/order"
	"github.com/jhoicas/controlpos-api/internal/application/usecase"
	"github.com/jhoicas/controlpos-api/internal/domain/repository"
)

var (
	_ order.TxRunner          = (*TxRunner)(nil)
	_ inventory.TxRunner      = (*TxRunner)(nil)
	_ usecase.CatalogTxRunner = (*TxRunner)(nil)
	_ usecase.RouteTxRunner   = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// run inicia una transacción, ejecuta fn con la tx y hace Commit o Rollback.
func (r *TxRunner) run(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunOrder transacción de checkout, actualización o borrado de una orden.
func (r *TxRunner) RunOrder(ctx context.Context, fn func(
	orders repository.OrderRepository,
	stock repository.StockRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewOrderRepository(tx), NewStockRepository(tx))
	})
}

// RunInventory transacción de alta, edición o borrado de un registro de inventario.
func (r *TxRunner) RunInventory(ctx context.Context, fn func(
	records repository.InventoryRecordRepository,
	stock repository.StockRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewInventoryRecordRepository(tx), NewStockRepository(tx))
	})
}

// RunCatalog producto con variantes y precios en una sola transacción.
func (r *TxRunner) RunCatalog(ctx context.Context, fn func(products repository.ProductRepository) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewProductRepository(tx))
	})
}

// RunRoutes reasignación de clientes de una ruta.
func (r *TxRunner) RunRoutes(ctx context.Context, fn func(routes repository.RouteRepository) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewRouteRepository(tx))
	})
}
