package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/controlpos-api/internal/domain"
	"github.com/jhoicas/controlpos-api/internal/domain/entity"
	"github.com/jhoicas/controlpos-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implementación de OrderRepository sobre orders y order_items.
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

const orderColumns = `o.id, o.tenant_id, o.customer_id, o.created_by, o.total, o.status, o.notes, o.date, o.created_at, o.updated_at`

func scanOrder(row pgxScanner, extra ...any) (*entity.Order, error) {
	var o entity.Order
	dest := append([]any{
		&o.ID, &o.TenantID, &o.CustomerID, &o.CreatedBy, &o.Total, &o.Status, &o.Notes, &o.Date, &o.CreatedAt, &o.UpdatedAt,
	}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &o, nil
}

// Create persiste la cabecera de la orden.
func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	query := `
		INSERT INTO orders (id, tenant_id, customer_id, created_by, total, status, notes, date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		o.ID, o.TenantID, o.CustomerID, o.CreatedBy, o.Total, o.Status, o.Notes, o.Date, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// CreateItems inserta los ítems de la orden.
func (r *OrderRepo) CreateItems(ctx context.Context, items []entity.OrderItem) error {
	query := `
		INSERT INTO order_items (id, order_id, tenant_id, variant_id, quantity, price, name, variant_title)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	for _, it := range items {
		_, err := r.q.Exec(ctx, query, it.ID, it.OrderID, it.TenantID, it.VariantID, it.Quantity, it.Price, it.Name, it.VariantTitle)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}
	return nil
}

// GetByID orden con cliente e ítems (con código, stock y producto de cada variante).
func (r *OrderRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.Order, error) {
	if !validIDs(id) {
		return nil, nil
	}
	query := `SELECT ` + orderColumns + ` FROM orders o WHERE o.id = $1 AND o.tenant_id = $2`
	o, err := scanOrder(r.q.QueryRow(ctx, query, id, tenantID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	if o.CustomerID != nil {
		c, err := NewCustomerRepository(r.q).GetByID(ctx, tenantID, *o.CustomerID)
		if err != nil {
			return nil, err
		}
		o.Customer = c
	}

	rows, err := r.q.Query(ctx, `
		SELECT i.id, i.order_id, i.tenant_id, i.variant_id, i.quantity, i.price, i.name, i.variant_title,
			COALESCE(v.code, ''), COALESCE(v.stock, 0), COALESCE(p.name, '')
		FROM order_items i
		LEFT JOIN product_variants v ON v.id = i.variant_id
		LEFT JOIN products p ON p.id = v.product_id
		WHERE i.order_id = $1 AND i.tenant_id = $2
		ORDER BY i.name, i.variant_title`, id, tenantID)
	if err != nil {
		return nil, fmt.Errorf("get order items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.OrderItem
		if err := rows.Scan(
			&it.ID, &it.OrderID, &it.TenantID, &it.VariantID, &it.Quantity, &it.Price, &it.Name, &it.VariantTitle,
			&it.VariantCode, &it.VariantStock, &it.ProductName,
		); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		o.Items = append(o.Items, it)
		o.ItemsCount += it.Quantity
	}
	return o, rows.Err()
}

// GetForUpdate bloquea la fila de la orden; actualizaciones concurrentes de la misma orden se serializan aquí.
func (r *OrderRepo) GetForUpdate(ctx context.Context, tenantID, id string) (*entity.Order, error) {
	if !validIDs(id) {
		return nil, nil
	}
	query := `SELECT ` + orderColumns + ` FROM orders o WHERE o.id = $1 AND o.tenant_id = $2 FOR UPDATE`
	o, err := scanOrder(r.q.QueryRow(ctx, query, id, tenantID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("lock order: %w", err)
	}
	return o, nil
}

// ListItems ítems almacenados, sin joins.
func (r *OrderRepo) ListItems(ctx context.Context, tenantID, orderID string) ([]entity.OrderItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, order_id, tenant_id, variant_id, quantity, price, name, variant_title
		FROM order_items WHERE order_id = $1 AND tenant_id = $2`, orderID, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()

	var items []entity.OrderItem
	for rows.Next() {
		var it entity.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.TenantID, &it.VariantID, &it.Quantity, &it.Price, &it.Name, &it.VariantTitle); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *OrderRepo) DeleteItems(ctx context.Context, tenantID, orderID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM order_items WHERE order_id = $1 AND tenant_id = $2`, orderID, tenantID); err != nil {
		return fmt.Errorf("delete order items: %w", err)
	}
	return nil
}

// Update escribe cliente, vendedor, estado, notas y total.
func (r *OrderRepo) Update(ctx context.Context, o *entity.Order) error {
	query := `
		UPDATE orders SET customer_id = $3, created_by = $4, status = $5, notes = $6, total = $7, updated_at = $8
		WHERE id = $1 AND tenant_id = $2`
	tag, err := r.q.Exec(ctx, query, o.ID, o.TenantID, o.CustomerID, o.CreatedBy, o.Status, o.Notes, o.Total, o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateMetadata no toca total: el total solo cambia junto con los ítems, bajo bloqueo.
func (r *OrderRepo) UpdateMetadata(ctx context.Context, tenantID, id string, m repository.OrderMetadata) error {
	if !validIDs(id) {
		return domain.ErrNotFound
	}
	query := `
		UPDATE orders SET
			customer_id = CASE WHEN $3::boolean THEN $4::uuid ELSE customer_id END,
			created_by  = CASE WHEN $5::boolean THEN $6::uuid ELSE created_by END,
			status      = COALESCE($7::text, status),
			notes       = COALESCE($8::text, notes),
			updated_at  = $9
		WHERE id = $1 AND tenant_id = $2`
	tag, err := r.q.Exec(ctx, query, id, tenantID,
		m.CustomerSet, m.CustomerID, m.CreatedBySet, m.CreatedBy, m.Status, m.Notes, m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update order metadata: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete borra la orden; sus ítems se van en cascada.
func (r *OrderRepo) Delete(ctx context.Context, tenantID, id string) error {
	if !validIDs(id) {
		return domain.ErrNotFound
	}
	tag, err := r.q.Exec(ctx, `DELETE FROM orders WHERE id = $1 AND tenant_id = $2`, id, tenantID)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List más recientes primero, con nombre del cliente y unidades vendidas.
func (r *OrderRepo) List(ctx context.Context, tenantID string, f repository.OrderFilter) ([]*entity.Order, int, error) {
	where := `
		WHERE o.tenant_id = $1 AND ($2 = '' OR o.status = $2)
			AND ($3::timestamptz IS NULL OR o.date >= $3)
			AND ($4::timestamptz IS NULL OR o.date < $4)`
	args := []any{tenantID, f.Status, f.From, f.To}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM orders o `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	query := `
		SELECT ` + orderColumns + `, c.first_name, c.last_name,
			COALESCE((SELECT SUM(i.quantity) FROM order_items i WHERE i.order_id = o.id), 0)
		FROM orders o LEFT JOIN customers c ON c.id = o.customer_id
		` + where + `
		ORDER BY o.date DESC LIMIT $5 OFFSET $6`
	rows, err := r.q.Query(ctx, query, append(args, limitOrAll(f.Limit), f.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var list []*entity.Order
	for rows.Next() {
		var first, last *string
		var count int
		o, err := scanOrder(rows, &first, &last, &count)
		if err != nil {
			return nil, 0, fmt.Errorf("scan order: %w", err)
		}
		if o.CustomerID != nil && first != nil {
			o.Customer = &entity.Customer{ID: *o.CustomerID, TenantID: tenantID, FirstName: *first, LastName: derefString(last)}
		}
		o.ItemsCount = count
		list = append(list, o)
	}
	return list, total, rows.Err()
}

// SalesSummary cantidad de órdenes e ingresos en [from, to). Extremos nil = sin límite.
func (r *OrderRepo) SalesSummary(ctx context.Context, tenantID string, from, to *time.Time) (entity.SalesSummary, error) {
	query := `
		SELECT COUNT(*), COALESCE(SUM(total), 0)
		FROM orders
		WHERE tenant_id = $1
			AND ($2::timestamptz IS NULL OR date >= $2)
			AND ($3::timestamptz IS NULL OR date < $3)`
	out := entity.SalesSummary{Revenue: decimal.Zero}
	if err := r.q.QueryRow(ctx, query, tenantID, from, to).Scan(&out.Orders, &out.Revenue); err != nil {
		return entity.SalesSummary{}, fmt.Errorf("sales summary: %w", err)
	}
	return out, nil
}

// TopVariants variantes con mayor ingreso en [from, to).
func (r *OrderRepo) TopVariants(ctx context.Context, tenantID string, from, to time.Time, limit int) ([]entity.TopVariant, error) {
	query := `
		SELECT i.variant_id, COALESCE(p.name, MAX(i.name)), COALESCE(v.title, MAX(i.variant_title)),
			SUM(i.quantity), SUM(i.quantity * i.price)
		FROM order_items i
		JOIN orders o ON o.id = i.order_id
		LEFT JOIN product_variants v ON v.id = i.variant_id
		LEFT JOIN products p ON p.id = v.product_id
		WHERE o.tenant_id = $1 AND o.date >= $2 AND o.date < $3
		GROUP BY i.variant_id, p.name, v.title
		ORDER BY SUM(i.quantity * i.price) DESC
		LIMIT $4`
	rows, err := r.q.Query(ctx, query, tenantID, from, to, limitOrAll(limit))
	if err != nil {
		return nil, fmt.Errorf("top variants: %w", err)
	}
	defer rows.Close()

	var list []entity.TopVariant
	for rows.Next() {
		var tv entity.TopVariant
		if err := rows.Scan(&tv.VariantID, &tv.ProductName, &tv.VariantTitle, &tv.Quantity, &tv.Revenue); err != nil {
			return nil, fmt.Errorf("scan top variant: %w", err)
		}
		list = append(list, tv)
	}
	return list, rows.Err()
}
