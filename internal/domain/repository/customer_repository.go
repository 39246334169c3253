package repository

import (
	"context"

	"github.com/jhoicas/controlpos-api/internal/domain/entity"
)

// CustomerRepository define el puerto de persistencia para Customer.
type CustomerRepository interface {
	Create(ctx context.Context, c *entity.Customer) error
	GetByID(ctx context.Context, tenantID, id string) (*entity.Customer, error)
	Update(ctx context.Context, c *entity.Customer) error
	Delete(ctx context.Context, tenantID, id string) error
	List(ctx context.Context, tenantID string, f CustomerFilter) ([]*entity.Customer, int, error)
}
