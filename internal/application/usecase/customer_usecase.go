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

// CustomerUseCase CRUD de clientes del tenant.
type CustomerUseCase struct {
	repo      repository.CustomerRepository
	routeRepo repository.RouteRepository
}

// NewCustomerUseCase construye el caso de uso.
func NewCustomerUseCase(repo repository.CustomerRepository, routeRepo repository.RouteRepository) *CustomerUseCase {
	return &CustomerUseCase{repo: repo, routeRepo: routeRepo}
}

// Create registra un cliente. La ruta, si viene, debe ser del tenant.
func (uc *CustomerUseCase) Create(ctx context.Context, tenantID string, in dto.CustomerRequest) (*dto.CustomerResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if err := uc.ensureRoute(ctx, tenantID, in.RouteID); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	c := &entity.Customer{
		ID:        uuid.New().String(),
		TenantID:  tenantID,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Phone:     in.Phone,
		Address:   in.Address,
		RouteID:   in.RouteID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return toCustomerResponse(c), nil
}

// GetByID obtiene un cliente del tenant.
func (uc *CustomerUseCase) GetByID(ctx context.Context, tenantID, id string) (*dto.CustomerResponse, error) {
	c, err := uc.repo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.NotFound("Cliente no encontrado")
	}
	return toCustomerResponse(c), nil
}

// Update reemplaza los datos del cliente.
func (uc *CustomerUseCase) Update(ctx context.Context, tenantID, id string, in dto.CustomerRequest) (*dto.CustomerResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	c, err := uc.repo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.NotFound("Cliente no encontrado")
	}
	if err := uc.ensureRoute(ctx, tenantID, in.RouteID); err != nil {
		return nil, err
	}
	c.FirstName = in.FirstName
	c.LastName = in.LastName
	c.Email = in.Email
	c.Phone = in.Phone
	c.Address = in.Address
	c.RouteID = in.RouteID
	c.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return toCustomerResponse(c), nil
}

func (uc *CustomerUseCase) Delete(ctx context.Context, tenantID, id string) error {
	return uc.repo.Delete(ctx, tenantID, id)
}

// List busca por nombre, apellido o email.
func (uc *CustomerUseCase) List(ctx context.Context, tenantID string, q dto.CustomerListQuery) (*dto.ListResponse[dto.CustomerResponse], error) {
	page := dto.NewPageRequest(q.Page, q.Limit, dto.DefaultLimit)
	list, total, err := uc.repo.List(ctx, tenantID, repository.CustomerFilter{
		Search: q.Search,
		Limit:  page.Limit,
		Offset: page.Offset(),
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.CustomerResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *toCustomerResponse(c))
	}
	return dto.NewListResponse(items, page, total), nil
}

func (uc *CustomerUseCase) ensureRoute(ctx context.Context, tenantID string, routeID *string) error {
	if routeID == nil {
		return nil
	}
	rt, err := uc.routeRepo.GetByID(ctx, tenantID, *routeID)
	if err != nil {
		return err
	}
	if rt == nil {
		return domain.NotFound("Ruta no encontrada")
	}
	return nil
}

func toCustomerResponse(c *entity.Customer) *dto.CustomerResponse {
	return &dto.CustomerResponse{
		ID:        c.ID,
		TenantID:  c.TenantID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
		Phone:     c.Phone,
		Address:   c.Address,
		RouteID:   c.RouteID,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
