package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/controlpos-api/internal/domain"
	"github.com/jhoicas/controlpos-api/internal/domain/entity"
	"github.com/jhoicas/controlpos-api/internal/domain/repository"
)

var (
	_ repository.CategoryRepository = (*CategoryRepo)(nil)
	_ repository.RouteRepository    = (*RouteRepo)(nil)
)

// CategoryRepo CategoryRepository en memoria.
type CategoryRepo struct{ s *Store }

// Categories devuelve el repositorio de categorías.
func (s *Store) Categories() *CategoryRepo { return &CategoryRepo{s: s} }

func (r *CategoryRepo) Create(ctx context.Context, c *entity.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.st.categories[c.ID] = *c
	return nil
}

func (r *CategoryRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.st.categories[id]
	if !ok || c.TenantID != tenantID {
		return nil, nil
	}
	return &c, nil
}

func (r *CategoryRepo) Update(ctx context.Context, c *entity.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.st.categories[c.ID]
	if !ok || cur.TenantID != c.TenantID {
		return domain.ErrNotFound
	}
	r.s.st.categories[c.ID] = *c
	return nil
}

func (r *CategoryRepo) Delete(ctx context.Context, tenantID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.st.categories[id]
	if !ok || c.TenantID != tenantID {
		return domain.ErrNotFound
	}
	delete(r.s.st.categories, id)
	for pid, p := range r.s.st.products {
		if p.CategoryID != nil && *p.CategoryID == id {
			p.CategoryID = nil
			r.s.st.products[pid] = p
		}
	}
	return nil
}

func (r *CategoryRepo) ListByTenant(ctx context.Context, tenantID string) ([]*entity.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.Category
	for _, c := range r.s.st.categories {
		if c.TenantID == tenantID {
			c := c
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// RouteRepo RouteRepository en memoria.
type RouteRepo struct{ s *Store }

// Routes devuelve el repositorio de rutas.
func (s *Store) Routes() *RouteRepo { return &RouteRepo{s: s} }

func (r *RouteRepo) Create(ctx context.Context, rt *entity.Route) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row := *rt
	row.Customers = nil
	r.s.st.routes[rt.ID] = row
	return nil
}

func (r *RouteRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.Route, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rt, ok := r.s.st.routes[id]
	if !ok || rt.TenantID != tenantID {
		return nil, nil
	}
	return &rt, nil
}

func (r *RouteRepo) Update(ctx context.Context, rt *entity.Route) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.st.routes[rt.ID]
	if !ok || cur.TenantID != rt.TenantID {
		return domain.ErrNotFound
	}
	row := *rt
	row.Customers = nil
	r.s.st.routes[rt.ID] = row
	return nil
}

func (r *RouteRepo) Delete(ctx context.Context, tenantID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rt, ok := r.s.st.routes[id]
	if !ok || rt.TenantID != tenantID {
		return domain.ErrNotFound
	}
	delete(r.s.st.routes, id)
	for cid, c := range r.s.st.customers {
		if c.RouteID != nil && *c.RouteID == id {
			c.RouteID = nil
			r.s.st.customers[cid] = c
		}
	}
	return nil
}

func (r *RouteRepo) List(ctx context.Context, tenantID string, f repository.RouteFilter) ([]*entity.Route, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	q := strings.ToLower(f.Search)
	var all []*entity.Route
	for _, rt := range r.s.st.routes {
		if rt.TenantID != tenantID || (q != "" && !strings.Contains(strings.ToLower(rt.Name), q)) {
			continue
		}
		rt := rt
		all = append(all, &rt)
	}
	sort.Slice(all, func(i, j int) bool {
		less := all[i].Name < all[j].Name
		if f.SortBy == "created_at" {
			less = all[i].CreatedAt.Before(all[j].CreatedAt)
		}
		if f.Descending {
			return !less
		}
		return less
	})
	return page(all, f.Limit, f.Offset), len(all), nil
}

func (r *RouteRepo) ListCustomers(ctx context.Context, tenantID, routeID string) ([]entity.Customer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []entity.Customer
	for _, c := range r.s.st.customers {
		if c.TenantID == tenantID && c.RouteID != nil && *c.RouteID == routeID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FirstName < out[j].FirstName })
	return out, nil
}

func (r *RouteRepo) ReplaceCustomers(ctx context.Context, tenantID, routeID string, customerIDs []string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	want := make(map[string]bool, len(customerIDs))
	for _, id := range customerIDs {
		want[id] = true
	}
	n := 0
	for id, c := range r.s.st.customers {
		if c.TenantID != tenantID {
			continue
		}
		switch {
		case want[id]:
			rid := routeID
			c.RouteID = &rid
			n++
		case c.RouteID != nil && *c.RouteID == routeID:
			c.RouteID = nil
		}
		r.s.st.customers[id] = c
	}
	return n, nil
}
