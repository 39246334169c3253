package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/controlpos-api/internal/application/dto"
	"github.com/jhoicas/controlpos-api/internal/domain"
	"github.com/jhoicas/controlpos-api/internal/domain/entity"
	"github.com/jhoicas/controlpos-api/internal/domain/repository"
)

// RouteTxRunner ejecuta la reasignación de clientes de una ruta en una transacción.
type RouteTxRunner interface {
	RunRoutes(ctx context.Context, fn func(routes repository.RouteRepository) error) error
}

var routeSorts = map[string]bool{"name": true, "created_at": true}

// RouteUseCase rutas de visita y su conjunto de clientes.
type RouteUseCase struct {
	txRunner RouteTxRunner
	repo     repository.RouteRepository
}

// NewRouteUseCase construye el caso de uso.
func NewRouteUseCase(txRunner RouteTxRunner, repo repository.RouteRepository) *RouteUseCase {
	return &RouteUseCase{txRunner: txRunner, repo: repo}
}

func (uc *RouteUseCase) Create(ctx context.Context, tenantID string, in dto.RouteRequest) (*dto.RouteResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	rt := &entity.Route{
		ID:          uuid.New().String(),
		TenantID:    tenantID,
		Name:        in.Name,
		Description: in.Description,
		Day:         in.Day,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, rt); err != nil {
		return nil, err
	}
	return toRouteResponse(rt), nil
}

// GetByID obtiene la ruta con sus clientes asignados.
func (uc *RouteUseCase) GetByID(ctx context.Context, tenantID, id string) (*dto.RouteResponse, error) {
	rt, err := uc.repo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if rt == nil {
		return nil, domain.NotFound("Ruta no encontrada")
	}
	customers, err := uc.repo.ListCustomers(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	rt.Customers = customers
	out := toRouteResponse(rt)
	out.Customers = make([]dto.CustomerResponse, 0, len(customers))
	for i := range customers {
		out.Customers = append(out.Customers, *toCustomerResponse(&customers[i]))
	}
	return out, nil
}

func (uc *RouteUseCase) Update(ctx context.Context, tenantID, id string, in dto.RouteRequest) (*dto.RouteResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	rt, err := uc.repo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if rt == nil {
		return nil, domain.NotFound("Ruta no encontrada")
	}
	rt.Name = in.Name
	rt.Description = in.Description
	rt.Day = in.Day
	rt.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, rt); err != nil {
		return nil, err
	}
	return toRouteResponse(rt), nil
}

// Delete elimina la ruta; sus clientes quedan sin ruta.
func (uc *RouteUseCase) Delete(ctx context.Context, tenantID, id string) error {
	return uc.repo.Delete(ctx, tenantID, id)
}

// List rutas del tenant. sortBy admite name | created_at (por defecto name).
func (uc *RouteUseCase) List(ctx context.Context, tenantID string, q dto.RouteListQuery) (*dto.ListResponse[dto.RouteResponse], error) {
	page := dto.NewPageRequest(q.Page, q.Limit, dto.DefaultLimit)
	sortBy := q.SortBy
	if !routeSorts[sortBy] {
		sortBy = "name"
	}
	list, total, err := uc.repo.List(ctx, tenantID, repository.RouteFilter{
		Search:     q.Search,
		SortBy:     sortBy,
		Descending: q.Descending,
		Limit:      page.Limit,
		Offset:     page.Offset(),
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.RouteResponse, 0, len(list))
	for _, rt := range list {
		items = append(items, *toRouteResponse(rt))
	}
	return dto.NewListResponse(items, page, total), nil
}

// AssignCustomers reemplaza atómicamente el conjunto de clientes de la ruta.
// Ids que no sean clientes del tenant se ignoran.
func (uc *RouteUseCase) AssignCustomers(ctx context.Context, tenantID, id string, in dto.RouteCustomersRequest) (*dto.RouteCustomersResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	var assigned int
	err := uc.txRunner.RunRoutes(ctx, func(routes repository.RouteRepository) error {
		rt, err := routes.GetByID(ctx, tenantID, id)
		if err != nil {
			return err
		}
		if rt == nil {
			return domain.NotFound("Ruta no encontrada")
		}
		assigned, err = routes.ReplaceCustomers(ctx, tenantID, id, in.CustomerIDs)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &dto.RouteCustomersResponse{RouteID: id, Assigned: assigned}, nil
}

func toRouteResponse(rt *entity.Route) *dto.RouteResponse {
	return &dto.RouteResponse{
		ID:          rt.ID,
		TenantID:    rt.TenantID,
		Name:        rt.Name,
		Description: rt.Description,
		Day:         rt.Day,
		CreatedAt:   rt.CreatedAt,
		UpdatedAt:   rt.UpdatedAt,
	}
}
