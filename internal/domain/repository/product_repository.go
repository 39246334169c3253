package repository

import (
	"context"

	"github.com/jhoicas/controlpos-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product, sus variantes y precios.
type ProductRepository interface {
	Create(ctx context.Context, p *entity.Product) error
	CreateVariant(ctx context.Context, v *entity.ProductVariant) error
	CreatePrice(ctx context.Context, p *entity.VariantPrice) error
	// GetByID incluye categoría, variantes y precios. (nil, nil) si no existe en el tenant.
	GetByID(ctx context.Context, tenantID, id string) (*entity.Product, error)
	Update(ctx context.Context, p *entity.Product) error
	Delete(ctx context.Context, tenantID, id string) error
	List(ctx context.Context, tenantID string, f ProductFilter) ([]*entity.Product, int, error)
	OrderList(ctx context.Context, tenantID string) ([]entity.OrderListItem, error)
}
