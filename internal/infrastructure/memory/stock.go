package memory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/controlpos-api/internal/domain"
	"github.com/jhoicas/controlpos-api/internal/domain/entity"
	"github.com/jhoicas/controlpos-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo StockRepository en memoria.
type StockRepo struct{ s *Store }

// Stock devuelve el repositorio de stock.
func (s *Store) Stock() *StockRepo { return &StockRepo{s: s} }

func (r *StockRepo) GetForUpdate(ctx context.Context, tenantID, variantID string) (*entity.VariantStock, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	v, ok := r.s.st.variants[variantID]
	if !ok || v.TenantID != tenantID {
		return nil, nil
	}
	return &entity.VariantStock{VariantID: v.ID, TenantID: v.TenantID, Stock: v.Stock, Cost: v.Cost}, nil
}

func (r *StockRepo) SetStock(ctx context.Context, tenantID, variantID string, stock int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.st.variants[variantID]
	if !ok || v.TenantID != tenantID {
		return domain.ErrNotFound
	}
	if stock < 0 {
		// equivale al CHECK (stock >= 0) de la tabla
		return domain.InsufficientStock([]domain.StockShortage{{VariantID: variantID, Available: v.Stock, Requested: v.Stock - stock}})
	}
	v.Stock = stock
	r.s.st.variants[variantID] = v
	r.s.stockWrites++
	return nil
}

func (r *StockRepo) SetCost(ctx context.Context, tenantID, variantID string, cost decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.st.variants[variantID]
	if !ok || v.TenantID != tenantID {
		return domain.ErrNotFound
	}
	v.Cost = cost
	r.s.st.variants[variantID] = v
	return nil
}
