package repository

import (
	"context"

	"github.com/jhoicas/controlpos-api/internal/domain/entity"
)

// RouteRepository define el puerto de persistencia para Route y su asignación de clientes.
type RouteRepository interface {
	Create(ctx context.Context, r *entity.Route) error
	GetByID(ctx context.Context, tenantID, id string) (*entity.Route, error)
	Update(ctx context.Context, r *entity.Route) error
	Delete(ctx context.Context, tenantID, id string) error
	List(ctx context.Context, tenantID string, f RouteFilter) ([]*entity.Route, int, error)
	ListCustomers(ctx context.Context, tenantID, routeID string) ([]entity.Customer, error)
	// ReplaceCustomers deja exactamente customerIDs (del tenant) asignados a la ruta. Devuelve cuántos quedaron.
	ReplaceCustomers(ctx context.Context, tenantID, routeID string, customerIDs []string) (int, error)
}
