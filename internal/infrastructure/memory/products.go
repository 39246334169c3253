package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/controlpos-api/internal/domain"
	"github.com/jhoicas/controlpos-api/internal/domain/entity"
	"github.com/jhoicas/controlpos-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo ProductRepository en memoria.
type ProductRepo struct{ s *Store }

// Products devuelve el repositorio de productos.
func (s *Store) Products() *ProductRepo { return &ProductRepo{s: s} }

func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row := *p
	row.Variants = nil
	r.s.st.products[p.ID] = row
	return nil
}

func (r *ProductRepo) CreateVariant(ctx context.Context, v *entity.ProductVariant) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, other := range r.s.st.variants {
		if v.Code != "" && other.TenantID == v.TenantID && other.Code == v.Code {
			return domain.NewError(domain.ErrDuplicate, "El código de variante ya existe")
		}
	}
	row := *v
	row.Prices = nil
	r.s.st.variants[v.ID] = row
	return nil
}

func (r *ProductRepo) CreatePrice(ctx context.Context, p *entity.VariantPrice) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.st.prices[p.ID] = *p
	return nil
}

func (st state) productWithVariants(p entity.Product) entity.Product {
	if p.CategoryID != nil {
		p.CategoryName = st.categories[*p.CategoryID].Name
	}
	for _, v := range st.variants {
		if v.ProductID != p.ID {
			continue
		}
		for _, pr := range st.prices {
			if pr.VariantID == v.ID {
				v.Prices = append(v.Prices, pr)
			}
		}
		p.Variants = append(p.Variants, v)
	}
	sort.Slice(p.Variants, func(i, j int) bool { return p.Variants[i].Title < p.Variants[j].Title })
	return p
}

func (r *ProductRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.st.products[id]
	if !ok || p.TenantID != tenantID {
		return nil, nil
	}
	out := r.s.st.productWithVariants(p)
	return &out, nil
}

func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.st.products[p.ID]
	if !ok || cur.TenantID != p.TenantID {
		return domain.ErrNotFound
	}
	row := *p
	row.Variants = nil
	r.s.st.products[p.ID] = row
	return nil
}

func (r *ProductRepo) Delete(ctx context.Context, tenantID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p, ok := r.s.st.products[id]; !ok || p.TenantID != tenantID {
		return domain.ErrNotFound
	}
	delete(r.s.st.products, id)
	for vid, v := range r.s.st.variants {
		if v.ProductID == id {
			delete(r.s.st.variants, vid)
		}
	}
	return nil
}

func (r *ProductRepo) List(ctx context.Context, tenantID string, f repository.ProductFilter) ([]*entity.Product, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	q := strings.ToLower(f.Search)
	var all []*entity.Product
	for _, p := range r.s.st.products {
		if p.TenantID != tenantID {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(p.Name), q) {
			continue
		}
		if f.CategoryID != "" && (p.CategoryID == nil || *p.CategoryID != f.CategoryID) {
			continue
		}
		out := r.s.st.productWithVariants(p)
		all = append(all, &out)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return page(all, f.Limit, f.Offset), len(all), nil
}

func (r *ProductRepo) OrderList(ctx context.Context, tenantID string) ([]entity.OrderListItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []entity.OrderListItem
	for _, v := range r.s.st.variants {
		if v.TenantID != tenantID {
			continue
		}
		price := decimal.Zero
		for _, pr := range r.s.st.prices {
			if pr.VariantID == v.ID {
				price = pr.Price
				break
			}
		}
		out = append(out, entity.OrderListItem{
			VariantID:    v.ID,
			ProductID:    v.ProductID,
			ProductName:  r.s.st.products[v.ProductID].Name,
			VariantTitle: v.Title,
			Code:         v.Code,
			Stock:        v.Stock,
			Price:        price,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ProductName != out[j].ProductName {
			return out[i].ProductName < out[j].ProductName
		}
		return out[i].VariantTitle < out[j].VariantTitle
	})
	return out, nil
}
