package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/controlpos-api/internal/domain"
	"github.com/jhoicas/controlpos-api/internal/domain/entity"
	"github.com/jhoicas/controlpos-api/internal/domain/repository"
)

var _ repository.InventoryRecordRepository = (*InventoryRecordRepo)(nil)

// InventoryRecordRepo implementación de InventoryRecordRepository (registros de entrada y salida).
type InventoryRecordRepo struct {
	q Querier
}

// NewInventoryRecordRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryRecordRepository(q Querier) *InventoryRecordRepo {
	return &InventoryRecordRepo{q: q}
}

const recordColumns = `id, tenant_id, type, description, date, created_by, created_at, updated_at`

func scanRecord(row pgxScanner) (*entity.InventoryRecord, error) {
	var rec entity.InventoryRecord
	if err := row.Scan(&rec.ID, &rec.TenantID, &rec.Type, &rec.Description, &rec.Date, &rec.CreatedBy, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *InventoryRecordRepo) Create(ctx context.Context, rec *entity.InventoryRecord) error {
	query := `
		INSERT INTO inventory_records (id, tenant_id, type, description, date, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query, rec.ID, rec.TenantID, rec.Type, rec.Description, rec.Date, rec.CreatedBy, rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert inventory record: %w", err)
	}
	return nil
}

func (r *InventoryRecordRepo) CreateItems(ctx context.Context, items []entity.InventoryRecordItem) error {
	query := `
		INSERT INTO inventory_record_items (id, record_id, tenant_id, variant_id, quantity, cost)
		VALUES ($1, $2, $3, $4, $5, $6)`
	for _, it := range items {
		if _, err := r.q.Exec(ctx, query, it.ID, it.RecordID, it.TenantID, it.VariantID, it.Quantity, it.Cost); err != nil {
			return fmt.Errorf("insert inventory record item: %w", err)
		}
	}
	return nil
}

// GetByID registro con ítems, título de variante y nombre de producto.
func (r *InventoryRecordRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.InventoryRecord, error) {
	rec, err := r.get(ctx, tenantID, id, false)
	if err != nil || rec == nil {
		return rec, err
	}
	rows, err := r.q.Query(ctx, `
		SELECT i.id, i.record_id, i.tenant_id, i.variant_id, i.quantity, i.cost,
			COALESCE(v.title, ''), COALESCE(p.name, '')
		FROM inventory_record_items i
		LEFT JOIN product_variants v ON v.id = i.variant_id
		LEFT JOIN products p ON p.id = v.product_id
		WHERE i.record_id = $1 AND i.tenant_id = $2
		ORDER BY p.name, v.title`, id, tenantID)
	if err != nil {
		return nil, fmt.Errorf("get inventory record items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.InventoryRecordItem
		if err := rows.Scan(&it.ID, &it.RecordID, &it.TenantID, &it.VariantID, &it.Quantity, &it.Cost, &it.VariantTitle, &it.ProductName); err != nil {
			return nil, fmt.Errorf("scan inventory record item: %w", err)
		}
		rec.Items = append(rec.Items, it)
	}
	return rec, rows.Err()
}

// GetForUpdate bloquea la fila del registro hasta el fin de la transacción.
func (r *InventoryRecordRepo) GetForUpdate(ctx context.Context, tenantID, id string) (*entity.InventoryRecord, error) {
	return r.get(ctx, tenantID, id, true)
}

func (r *InventoryRecordRepo) get(ctx context.Context, tenantID, id string, lock bool) (*entity.InventoryRecord, error) {
	if !validIDs(id) {
		return nil, nil
	}
	query := `SELECT ` + recordColumns + ` FROM inventory_records WHERE id = $1 AND tenant_id = $2`
	if lock {
		query += ` FOR UPDATE`
	}
	rec, err := scanRecord(r.q.QueryRow(ctx, query, id, tenantID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory record: %w", err)
	}
	return rec, nil
}

func (r *InventoryRecordRepo) ListItems(ctx context.Context, tenantID, recordID string) ([]entity.InventoryRecordItem, error) {
	byRecord, err := r.itemsOf(ctx, tenantID, []string{recordID})
	if err != nil {
		return nil, err
	}
	return byRecord[recordID], nil
}

func (r *InventoryRecordRepo) itemsOf(ctx context.Context, tenantID string, recordIDs []string) (map[string][]entity.InventoryRecordItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, record_id, tenant_id, variant_id, quantity, cost
		FROM inventory_record_items
		WHERE tenant_id = $1 AND record_id = ANY($2::uuid[])`, tenantID, recordIDs)
	if err != nil {
		return nil, fmt.Errorf("list inventory record items: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]entity.InventoryRecordItem)
	for rows.Next() {
		var it entity.InventoryRecordItem
		if err := rows.Scan(&it.ID, &it.RecordID, &it.TenantID, &it.VariantID, &it.Quantity, &it.Cost); err != nil {
			return nil, fmt.Errorf("scan inventory record item: %w", err)
		}
		out[it.RecordID] = append(out[it.RecordID], it)
	}
	return out, rows.Err()
}

func (r *InventoryRecordRepo) DeleteItems(ctx context.Context, tenantID, recordID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM inventory_record_items WHERE record_id = $1 AND tenant_id = $2`, recordID, tenantID); err != nil {
		return fmt.Errorf("delete inventory record items: %w", err)
	}
	return nil
}

func (r *InventoryRecordRepo) Update(ctx context.Context, rec *entity.InventoryRecord) error {
	query := `
		UPDATE inventory_records SET type = $3, description = $4, date = $5, updated_at = $6
		WHERE id = $1 AND tenant_id = $2`
	tag, err := r.q.Exec(ctx, query, rec.ID, rec.TenantID, rec.Type, rec.Description, rec.Date, rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update inventory record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *InventoryRecordRepo) Delete(ctx context.Context, tenantID, id string) error {
	if !validIDs(id) {
		return domain.ErrNotFound
	}
	tag, err := r.q.Exec(ctx, `DELETE FROM inventory_records WHERE id = $1 AND tenant_id = $2`, id, tenantID)
	if err != nil {
		return fmt.Errorf("delete inventory record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List más recientes primero; cada registro trae sus ítems.
func (r *InventoryRecordRepo) List(ctx context.Context, tenantID string, f repository.RecordFilter) ([]*entity.InventoryRecord, int, error) {
	where := `WHERE tenant_id = $1 AND ($2 = '' OR type = $2)`

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM inventory_records `+where, tenantID, f.Type).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count inventory records: %w", err)
	}

	query := `SELECT ` + recordColumns + ` FROM inventory_records ` + where + ` ORDER BY date DESC LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, tenantID, f.Type, limitOrAll(f.Limit), f.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list inventory records: %w", err)
	}
	var list []*entity.InventoryRecord
	var ids []string
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			rows.Close()
			return nil, 0, fmt.Errorf("scan inventory record: %w", err)
		}
		list = append(list, rec)
		ids = append(ids, rec.ID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list inventory records: %w", err)
	}
	if len(ids) == 0 {
		return list, total, nil
	}

	items, err := r.itemsOf(ctx, tenantID, ids)
	if err != nil {
		return nil, 0, err
	}
	for _, rec := range list {
		rec.Items = items[rec.ID]
	}
	return list, total, nil
}

// ProductMovements ítems de registros que tocan variantes del producto.
func (r *InventoryRecordRepo) ProductMovements(ctx context.Context, tenantID, productID string, f repository.MovementFilter) ([]entity.ProductMovement, int, error) {
	if !validIDs(productID) {
		return []entity.ProductMovement{}, 0, nil
	}
	from := `
		FROM inventory_record_items i
		JOIN inventory_records rec ON rec.id = i.record_id
		JOIN product_variants v ON v.id = i.variant_id
		WHERE rec.tenant_id = $1 AND v.product_id = $2
			AND ($3::timestamptz IS NULL OR rec.date >= $3)
			AND ($4::timestamptz IS NULL OR rec.date < $4)`
	args := []any{tenantID, productID, f.From, f.To}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) `+from, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count product movements: %w", err)
	}

	orderBy := map[string]string{"date": "rec.date", "type": "rec.type", "quantity": "i.quantity"}[f.SortBy]
	if orderBy == "" {
		orderBy = "rec.date"
	}
	if f.Descending {
		orderBy += " DESC"
	}
	query := `SELECT rec.id, rec.date, rec.type, i.quantity, v.title, rec.description ` + from +
		` ORDER BY ` + orderBy + ` LIMIT $5 OFFSET $6`
	rows, err := r.q.Query(ctx, query, append(args, limitOrAll(f.Limit), f.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list product movements: %w", err)
	}
	defer rows.Close()

	list := []entity.ProductMovement{}
	for rows.Next() {
		var m entity.ProductMovement
		if err := rows.Scan(&m.RecordID, &m.Date, &m.Type, &m.Quantity, &m.VariantTitle, &m.Description); err != nil {
			return nil, 0, fmt.Errorf("scan product movement: %w", err)
		}
		list = append(list, m)
	}
	return list, total, rows.Err()
}
