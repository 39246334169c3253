package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/controlpos-api/internal/domain"
	"github.com/jhoicas/controlpos-api/internal/domain/entity"
	"github.com/jhoicas/controlpos-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo lectura con bloqueo y escritura del stock de variantes. Usar siempre con una tx.
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador. Pasar la tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// GetForUpdate bloquea la fila de la variante hasta el fin de la transacción.
func (r *StockRepo) GetForUpdate(ctx context.Context, tenantID, variantID string) (*entity.VariantStock, error) {
	if !validIDs(tenantID, variantID) {
		return nil, nil
	}
	query := `
		SELECT id, tenant_id, stock, cost
		FROM product_variants
		WHERE id = $1 AND tenant_id = $2
		FOR UPDATE`
	var s entity.VariantStock
	err := r.q.QueryRow(ctx, query, variantID, tenantID).Scan(&s.VariantID, &s.TenantID, &s.Stock, &s.Cost)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("lock variant stock: %w", err)
	}
	return &s, nil
}

// SetStock escribe el stock absoluto. El CHECK (stock >= 0) de la tabla es la última barrera.
func (r *StockRepo) SetStock(ctx context.Context, tenantID, variantID string, stock int) error {
	query := `UPDATE product_variants SET stock = $3, updated_at = now() WHERE id = $1 AND tenant_id = $2`
	tag, err := r.q.Exec(ctx, query, variantID, tenantID, stock)
	if err != nil {
		if isCheckViolation(err) {
			return domain.NewError(domain.ErrInsufficientStock, "Stock insuficiente")
		}
		return fmt.Errorf("update variant stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetCost escribe el costo promedio ponderado.
func (r *StockRepo) SetCost(ctx context.Context, tenantID, variantID string, cost decimal.Decimal) error {
	query := `UPDATE product_variants SET cost = $3, updated_at = now() WHERE id = $1 AND tenant_id = $2`
	tag, err := r.q.Exec(ctx, query, variantID, tenantID, cost)
	if err != nil {
		return fmt.Errorf("update variant cost: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
