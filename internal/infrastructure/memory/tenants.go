package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/controlpos-api/internal/domain"
	"github.com/jhoicas/controlpos-api/internal/domain/entity"
	"github.com/jhoicas/controlpos-api/internal/domain/repository"
)

var _ repository.TenantRepository = (*TenantRepo)(nil)

// TenantRepo TenantRepository en memoria.
type TenantRepo struct{ s *Store }

// Tenants devuelve el repositorio de tenants.
func (s *Store) Tenants() *TenantRepo { return &TenantRepo{s: s} }

func (r *TenantRepo) Create(ctx context.Context, t *entity.Tenant) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, other := range r.s.st.tenants {
		if other.Slug == t.Slug {
			return domain.ErrDuplicate
		}
	}
	r.s.st.tenants[t.ID] = *t
	return nil
}

func (r *TenantRepo) GetByID(ctx context.Context, id string) (*entity.Tenant, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	t, ok := r.s.st.tenants[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (r *TenantRepo) GetBySlug(ctx context.Context, slug string) (*entity.Tenant, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, t := range r.s.st.tenants {
		if t.Slug == slug {
			t := t
			return &t, nil
		}
	}
	return nil, nil
}

func (r *TenantRepo) Update(ctx context.Context, t *entity.Tenant) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.tenants[t.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.st.tenants[t.ID] = *t
	return nil
}

func (r *TenantRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.tenants[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.st.tenants, id)
	return nil
}

func (r *TenantRepo) List(ctx context.Context, f repository.TenantFilter) ([]*entity.Tenant, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	q := strings.ToLower(f.Search)
	var all []*entity.Tenant
	for _, t := range r.s.st.tenants {
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(t.Name), q) && !strings.Contains(t.Slug, q) {
			continue
		}
		t := t
		all = append(all, &t)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return page(all, f.Limit, f.Offset), len(all), nil
}

func (r *TenantRepo) Count(ctx context.Context, tenantID, resource string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	n := 0
	switch resource {
	case repository.ResourceUsers:
		for _, p := range r.s.st.profiles {
			if p.TenantID != nil && *p.TenantID == tenantID {
				n++
			}
		}
	case repository.ResourceProducts:
		for _, p := range r.s.st.products {
			if p.TenantID == tenantID {
				n++
			}
		}
	case repository.ResourceOrders:
		for _, o := range r.s.st.orders {
			if o.TenantID == tenantID {
				n++
			}
		}
	case repository.ResourceCustomers:
		for _, c := range r.s.st.customers {
			if c.TenantID == tenantID {
				n++
			}
		}
	default:
		return 0, domain.Invalid("recurso desconocido: " + resource)
	}
	return n, nil
}
