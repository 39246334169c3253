package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/controlpos-api/internal/application/dto"
	"github.com/jhoicas/controlpos-api/internal/domain"
	"github.com/jhoicas/controlpos-api/internal/domain/entity"
	"github.com/jhoicas/controlpos-api/internal/domain/repository"
	"github.com/jhoicas/controlpos-api/pkg/slug"
)

// TenantUseCase administración de tenants (solo super admin, credencial elevada).
type TenantUseCase struct {
	repo            repository.TenantRepository
	users           *UserUseCase
	defaultTenantID string
}

// NewTenantUseCase construye el caso de uso. defaultTenantID no puede eliminarse.
func NewTenantUseCase(repo repository.TenantRepository, users *UserUseCase, defaultTenantID string) *TenantUseCase {
	return &TenantUseCase{repo: repo, users: users, defaultTenantID: defaultTenantID}
}

// Create crea un tenant con slug normalizado y único. Plan por defecto basic, estado active.
func (uc *TenantUseCase) Create(ctx context.Context, in dto.CreateTenantRequest) (*dto.TenantResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Invalid("El nombre es requerido")
	}
	s, err := uc.uniqueSlug(ctx, in.Slug, "")
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	t := &entity.Tenant{
		ID:        uuid.New().String(),
		Name:      name,
		Slug:      s,
		Domain:    in.Domain,
		Plan:      in.Plan,
		Settings:  in.Settings,
		Status:    in.Status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if t.Plan == "" {
		t.Plan = entity.TenantPlanBasic
	}
	if t.Status == "" {
		t.Status = entity.TenantStatusActive
	}
	if t.Settings == nil {
		t.Settings = map[string]any{}
	}
	if err := uc.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	return toTenantResponse(t), nil
}

// GetByID obtiene un tenant.
func (uc *TenantUseCase) GetByID(ctx context.Context, id string) (*dto.TenantResponse, error) {
	t, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toTenantResponse(t), nil
}

// Update actualización parcial. El slug debe seguir siendo único excluyendo al propio tenant.
func (uc *TenantUseCase) Update(ctx context.Context, id string, in dto.UpdateTenantRequest) (*dto.TenantResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	t, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		t.Name = strings.TrimSpace(*in.Name)
	}
	if in.Slug != nil {
		s, err := uc.uniqueSlug(ctx, *in.Slug, t.ID)
		if err != nil {
			return nil, err
		}
		t.Slug = s
	}
	if in.Domain != nil {
		t.Domain = in.Domain
	}
	if in.Plan != nil {
		t.Plan = *in.Plan
	}
	if in.Settings != nil {
		t.Settings = in.Settings
	}
	if in.Status != nil {
		t.Status = *in.Status
	}
	t.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, t); err != nil {
		return nil, err
	}
	return toTenantResponse(t), nil
}

// Delete elimina un tenant. El tenant por defecto está protegido.
func (uc *TenantUseCase) Delete(ctx context.Context, id string) error {
	if uc.defaultTenantID != "" && id == uc.defaultTenantID {
		return domain.Invalid("No se puede eliminar el tenant por defecto")
	}
	if _, err := uc.get(ctx, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

// List tenants con filtro de estado y búsqueda por nombre o slug.
func (uc *TenantUseCase) List(ctx context.Context, q dto.TenantListQuery) (*dto.ListResponse[dto.TenantResponse], error) {
	page := dto.NewPageRequest(q.Page, q.Limit, dto.DefaultLimit)
	list, total, err := uc.repo.List(ctx, repository.TenantFilter{
		Status: q.Status,
		Search: q.Search,
		Limit:  page.Limit,
		Offset: page.Offset(),
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.TenantResponse, 0, len(list))
	for _, t := range list {
		items = append(items, *toTenantResponse(t))
	}
	return dto.NewListResponse(items, page, total), nil
}

// Users perfiles del tenant indicado.
func (uc *TenantUseCase) Users(ctx context.Context, id string, page dto.PageRequest) (*dto.ListResponse[dto.ProfileResponse], error) {
	if _, err := uc.get(ctx, id); err != nil {
		return nil, err
	}
	return uc.users.List(ctx, id, page)
}

// CreateUser crea un usuario en el tenant indicado.
func (uc *TenantUseCase) CreateUser(ctx context.Context, id string, in dto.CreateUserRequest) (*dto.CreatedUserResponse, error) {
	if _, err := uc.get(ctx, id); err != nil {
		return nil, err
	}
	return uc.users.Create(ctx, id, in)
}

// Stats cuenta usuarios, productos, órdenes y clientes del tenant en paralelo.
func (uc *TenantUseCase) Stats(ctx context.Context, id string) (*dto.TenantStatsResponse, error) {
	if _, err := uc.get(ctx, id); err != nil {
		return nil, err
	}
	resources := []string{
		repository.ResourceUsers,
		repository.ResourceProducts,
		repository.ResourceOrders,
		repository.ResourceCustomers,
	}
	type countResult struct {
		resource string
		n        int
		err      error
	}
	ch := make(chan countResult, len(resources))
	for _, r := range resources {
		go func(resource string) {
			n, err := uc.repo.Count(ctx, id, resource)
			ch <- countResult{resource, n, err}
		}(r)
	}
	counts := make(map[string]int, len(resources))
	for range resources {
		res := <-ch
		if res.err != nil {
			return nil, fmt.Errorf("tenant stats: %s: %w", res.resource, res.err)
		}
		counts[res.resource] = res.n
	}
	return &dto.TenantStatsResponse{
		Users:     counts[repository.ResourceUsers],
		Products:  counts[repository.ResourceProducts],
		Orders:    counts[repository.ResourceOrders],
		Customers: counts[repository.ResourceCustomers],
	}, nil
}

func (uc *TenantUseCase) get(ctx context.Context, id string) (*entity.Tenant, error) {
	t, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.NotFound("Tenant no encontrado")
	}
	return t, nil
}

// uniqueSlug normaliza raw y verifica que ningún otro tenant (distinto de selfID) lo use.
func (uc *TenantUseCase) uniqueSlug(ctx context.Context, raw, selfID string) (string, error) {
	s := slug.Make(raw)
	if s == "" {
		return "", domain.Invalid("El slug es requerido")
	}
	existing, err := uc.repo.GetBySlug(ctx, s)
	if err != nil {
		return "", err
	}
	if existing != nil && existing.ID != selfID {
		return "", domain.NewError(domain.ErrDuplicate, "El slug ya está en uso")
	}
	return s, nil
}

func toTenantResponse(t *entity.Tenant) *dto.TenantResponse {
	return &dto.TenantResponse{
		ID:        t.ID,
		Name:      t.Name,
		Slug:      t.Slug,
		Domain:    t.Domain,
		Plan:      t.Plan,
		Settings:  t.Settings,
		Status:    t.Status,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}
