package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/controlpos-api/internal/domain"
	"github.com/jhoicas/controlpos-api/internal/domain/entity"
	"github.com/jhoicas/controlpos-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo OrderRepository en memoria.
type OrderRepo struct{ s *Store }

// Orders devuelve el repositorio de órdenes.
func (s *Store) Orders() *OrderRepo { return &OrderRepo{s: s} }

func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.orders[o.ID]; ok {
		return domain.ErrDuplicate
	}
	row := *o
	row.Items, row.Customer = nil, nil
	r.s.st.orders[o.ID] = row
	return nil
}

func (r *OrderRepo) CreateItems(ctx context.Context, items []entity.OrderItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, it := range items {
		r.s.st.orderItems[it.OrderID] = append(r.s.st.orderItems[it.OrderID], it)
	}
	return nil
}

func (r *OrderRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	o, ok := r.s.st.orders[id]
	if !ok || o.TenantID != tenantID {
		return nil, nil
	}
	out := r.s.st.withJoins(o)
	for _, it := range r.s.st.orderItems[id] {
		if v, ok := r.s.st.variants[it.VariantID]; ok {
			it.VariantCode = v.Code
			it.VariantStock = v.Stock
			it.ProductName = r.s.st.products[v.ProductID].Name
		}
		out.Items = append(out.Items, it)
	}
	return &out, nil
}

func (st state) withJoins(o entity.Order) entity.Order {
	if o.CustomerID != nil {
		if c, ok := st.customers[*o.CustomerID]; ok {
			o.Customer = &c
		}
	}
	count := 0
	for _, it := range st.orderItems[o.ID] {
		count += it.Quantity
	}
	o.ItemsCount = count
	return o
}

func (r *OrderRepo) GetForUpdate(ctx context.Context, tenantID, id string) (*entity.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	o, ok := r.s.st.orders[id]
	if !ok || o.TenantID != tenantID {
		return nil, nil
	}
	return &o, nil
}

func (r *OrderRepo) ListItems(ctx context.Context, tenantID, orderID string) ([]entity.OrderItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []entity.OrderItem
	for _, it := range r.s.st.orderItems[orderID] {
		if it.TenantID == tenantID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (r *OrderRepo) DeleteItems(ctx context.Context, tenantID, orderID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if o, ok := r.s.st.orders[orderID]; ok && o.TenantID == tenantID {
		delete(r.s.st.orderItems, orderID)
	}
	return nil
}

func (r *OrderRepo) Update(ctx context.Context, o *entity.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.st.orders[o.ID]
	if !ok || cur.TenantID != o.TenantID {
		return domain.ErrNotFound
	}
	cur.CustomerID = o.CustomerID
	cur.CreatedBy = o.CreatedBy
	cur.Status = o.Status
	cur.Notes = o.Notes
	cur.Total = o.Total
	cur.UpdatedAt = o.UpdatedAt
	r.s.st.orders[o.ID] = cur
	return nil
}

func (r *OrderRepo) UpdateMetadata(ctx context.Context, tenantID, id string, m repository.OrderMetadata) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.st.orders[id]
	if !ok || cur.TenantID != tenantID {
		return domain.ErrNotFound
	}
	if m.CustomerSet {
		cur.CustomerID = m.CustomerID
	}
	if m.CreatedBySet {
		cur.CreatedBy = m.CreatedBy
	}
	if m.Status != nil {
		cur.Status = *m.Status
	}
	if m.Notes != nil {
		cur.Notes = *m.Notes
	}
	cur.UpdatedAt = m.UpdatedAt
	r.s.st.orders[id] = cur
	return nil
}

func (r *OrderRepo) Delete(ctx context.Context, tenantID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.st.orders[id]
	if !ok || o.TenantID != tenantID {
		return domain.ErrNotFound
	}
	delete(r.s.st.orders, id)
	delete(r.s.st.orderItems, id)
	return nil
}

func inRange(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && !t.Before(*to) {
		return false
	}
	return true
}

func (r *OrderRepo) List(ctx context.Context, tenantID string, f repository.OrderFilter) ([]*entity.Order, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var all []*entity.Order
	for _, o := range r.s.st.orders {
		if o.TenantID != tenantID || (f.Status != "" && o.Status != f.Status) || !inRange(o.Date, f.From, f.To) {
			continue
		}
		row := r.s.st.withJoins(o)
		all = append(all, &row)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Date.After(all[j].Date) })
	return page(all, f.Limit, f.Offset), len(all), nil
}

func (r *OrderRepo) SalesSummary(ctx context.Context, tenantID string, from, to *time.Time) (entity.SalesSummary, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := entity.SalesSummary{Revenue: decimal.Zero}
	for _, o := range r.s.st.orders {
		if o.TenantID == tenantID && inRange(o.Date, from, to) {
			out.Orders++
			out.Revenue = out.Revenue.Add(o.Total)
		}
	}
	return out, nil
}

func (r *OrderRepo) TopVariants(ctx context.Context, tenantID string, from, to time.Time, limit int) ([]entity.TopVariant, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	acc := map[string]*entity.TopVariant{}
	for id, o := range r.s.st.orders {
		if o.TenantID != tenantID || !inRange(o.Date, &from, &to) {
			continue
		}
		for _, it := range r.s.st.orderItems[id] {
			tv, ok := acc[it.VariantID]
			if !ok {
				v := r.s.st.variants[it.VariantID]
				tv = &entity.TopVariant{
					VariantID:    it.VariantID,
					ProductName:  r.s.st.products[v.ProductID].Name,
					VariantTitle: v.Title,
					Revenue:      decimal.Zero,
				}
				acc[it.VariantID] = tv
			}
			tv.Quantity += it.Quantity
			tv.Revenue = tv.Revenue.Add(it.Subtotal())
		}
	}
	out := make([]entity.TopVariant, 0, len(acc))
	for _, tv := range acc {
		out = append(out, *tv)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Revenue.GreaterThan(out[j].Revenue) })
	return page(out, limit, 0), nil
}
