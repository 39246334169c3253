package repository

import (
	"context"

	"github.com/jhoicas/controlpos-api/internal/domain/entity"
)

// Recursos contables por tenant (estadísticas).
const (
	ResourceUsers     = "users"
	ResourceProducts  = "products"
	ResourceOrders    = "orders"
	ResourceCustomers = "customers"
)

// TenantRepository define el puerto de persistencia para Tenant (credencial elevada).
type TenantRepository interface {
	Create(ctx context.Context, t *entity.Tenant) error
	GetByID(ctx context.Context, id string) (*entity.Tenant, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Tenant, error)
	Update(ctx context.Context, t *entity.Tenant) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f TenantFilter) ([]*entity.Tenant, int, error)
	// Count cuenta filas del recurso indicado (Resource*) que pertenecen al tenant.
	Count(ctx context.Context, tenantID, resource string) (int, error)
}
