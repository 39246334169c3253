package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/controlpos-api/internal/domain"
	"github.com/jhoicas/controlpos-api/internal/domain/entity"
	"github.com/jhoicas/controlpos-api/internal/domain/repository"
)

var _ repository.InventoryRecordRepository = (*RecordRepo)(nil)

// RecordRepo InventoryRecordRepository en memoria.
type RecordRepo struct{ s *Store }

// Records devuelve el repositorio de registros de inventario.
func (s *Store) Records() *RecordRepo { return &RecordRepo{s: s} }

func (r *RecordRepo) Create(ctx context.Context, rec *entity.InventoryRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row := *rec
	row.Items = nil
	r.s.st.records[rec.ID] = row
	return nil
}

func (r *RecordRepo) CreateItems(ctx context.Context, items []entity.InventoryRecordItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, it := range items {
		r.s.st.recordItems[it.RecordID] = append(r.s.st.recordItems[it.RecordID], it)
	}
	return nil
}

func (r *RecordRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.InventoryRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rec, ok := r.s.st.records[id]
	if !ok || rec.TenantID != tenantID {
		return nil, nil
	}
	for _, it := range r.s.st.recordItems[id] {
		v := r.s.st.variants[it.VariantID]
		it.VariantTitle = v.Title
		it.ProductName = r.s.st.products[v.ProductID].Name
		rec.Items = append(rec.Items, it)
	}
	return &rec, nil
}

func (r *RecordRepo) GetForUpdate(ctx context.Context, tenantID, id string) (*entity.InventoryRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rec, ok := r.s.st.records[id]
	if !ok || rec.TenantID != tenantID {
		return nil, nil
	}
	return &rec, nil
}

func (r *RecordRepo) ListItems(ctx context.Context, tenantID, recordID string) ([]entity.InventoryRecordItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []entity.InventoryRecordItem
	for _, it := range r.s.st.recordItems[recordID] {
		if it.TenantID == tenantID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (r *RecordRepo) DeleteItems(ctx context.Context, tenantID, recordID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if rec, ok := r.s.st.records[recordID]; ok && rec.TenantID == tenantID {
		delete(r.s.st.recordItems, recordID)
	}
	return nil
}

func (r *RecordRepo) Update(ctx context.Context, rec *entity.InventoryRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.st.records[rec.ID]
	if !ok || cur.TenantID != rec.TenantID {
		return domain.ErrNotFound
	}
	row := *rec
	row.Items = nil
	r.s.st.records[rec.ID] = row
	return nil
}

func (r *RecordRepo) Delete(ctx context.Context, tenantID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rec, ok := r.s.st.records[id]
	if !ok || rec.TenantID != tenantID {
		return domain.ErrNotFound
	}
	delete(r.s.st.records, id)
	delete(r.s.st.recordItems, id)
	return nil
}

func (r *RecordRepo) List(ctx context.Context, tenantID string, f repository.RecordFilter) ([]*entity.InventoryRecord, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var all []*entity.InventoryRecord
	for id, rec := range r.s.st.records {
		if rec.TenantID != tenantID || (f.Type != "" && rec.Type != f.Type) {
			continue
		}
		rec := rec
		rec.Items = append([]entity.InventoryRecordItem(nil), r.s.st.recordItems[id]...)
		all = append(all, &rec)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Date.After(all[j].Date) })
	return page(all, f.Limit, f.Offset), len(all), nil
}

func (r *RecordRepo) ProductMovements(ctx context.Context, tenantID, productID string, f repository.MovementFilter) ([]entity.ProductMovement, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var all []entity.ProductMovement
	for id, rec := range r.s.st.records {
		if rec.TenantID != tenantID || !inRange(rec.Date, f.From, f.To) {
			continue
		}
		for _, it := range r.s.st.recordItems[id] {
			v := r.s.st.variants[it.VariantID]
			if v.ProductID != productID {
				continue
			}
			all = append(all, entity.ProductMovement{
				RecordID:     id,
				Date:         rec.Date,
				Type:         rec.Type,
				Quantity:     it.Quantity,
				VariantTitle: v.Title,
				Description:  rec.Description,
			})
		}
	}
	less := func(i, j int) bool {
		switch f.SortBy {
		case "type":
			return all[i].Type < all[j].Type
		case "quantity":
			return all[i].Quantity < all[j].Quantity
		default:
			return all[i].Date.Before(all[j].Date)
		}
	}
	sort.SliceStable(all, func(i, j int) bool {
		if f.Descending {
			return less(j, i)
		}
		return less(i, j)
	})
	return page(all, f.Limit, f.Offset), len(all), nil
}
