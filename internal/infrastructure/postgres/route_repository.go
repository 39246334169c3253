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

var _ repository.RouteRepository = (*RouteRepo)(nil)

// RouteRepo implementación de RouteRepository; la asignación vive en customers.route_id.
type RouteRepo struct {
	q Querier
}

// NewRouteRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRouteRepository(q Querier) *RouteRepo {
	return &RouteRepo{q: q}
}

const routeColumns = `id, tenant_id, name, description, day, created_at, updated_at`

func scanRoute(row pgxScanner) (*entity.Route, error) {
	var rt entity.Route
	if err := row.Scan(&rt.ID, &rt.TenantID, &rt.Name, &rt.Description, &rt.Day, &rt.CreatedAt, &rt.UpdatedAt); err != nil {
		return nil, err
	}
	return &rt, nil
}

func (r *RouteRepo) Create(ctx context.Context, rt *entity.Route) error {
	query := `
		INSERT INTO routes (id, tenant_id, name, description, day, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := r.q.Exec(ctx, query, rt.ID, rt.TenantID, rt.Name, rt.Description, rt.Day, rt.CreatedAt, rt.UpdatedAt); err != nil {
		return fmt.Errorf("insert route: %w", err)
	}
	return nil
}

func (r *RouteRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.Route, error) {
	if !validIDs(id) {
		return nil, nil
	}
	rt, err := scanRoute(r.q.QueryRow(ctx, `SELECT `+routeColumns+` FROM routes WHERE id = $1 AND tenant_id = $2`, id, tenantID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get route: %w", err)
	}
	return rt, nil
}

func (r *RouteRepo) Update(ctx context.Context, rt *entity.Route) error {
	query := `UPDATE routes SET name = $3, description = $4, day = $5, updated_at = $6 WHERE id = $1 AND tenant_id = $2`
	tag, err := r.q.Exec(ctx, query, rt.ID, rt.TenantID, rt.Name, rt.Description, rt.Day, rt.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update route: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete borra la ruta; sus clientes quedan sin ruta (ON DELETE SET NULL).
func (r *RouteRepo) Delete(ctx context.Context, tenantID, id string) error {
	if !validIDs(id) {
		return domain.ErrNotFound
	}
	tag, err := r.q.Exec(ctx, `DELETE FROM routes WHERE id = $1 AND tenant_id = $2`, id, tenantID)
	if err != nil {
		return fmt.Errorf("delete route: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List el orden sale de una lista cerrada (name | created_at).
func (r *RouteRepo) List(ctx context.Context, tenantID string, f repository.RouteFilter) ([]*entity.Route, int, error) {
	where := `WHERE tenant_id = $1 AND ($2 = '' OR name ILIKE $3)`
	args := []any{tenantID, f.Search, likePattern(f.Search)}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM routes `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count routes: %w", err)
	}

	order := "name"
	if f.SortBy == "created_at" {
		order = "created_at"
	}
	if f.Descending {
		order += " DESC"
	}
	query := `SELECT ` + routeColumns + ` FROM routes ` + where + ` ORDER BY ` + order + ` LIMIT $4 OFFSET $5`
	rows, err := r.q.Query(ctx, query, append(args, limitOrAll(f.Limit), f.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list routes: %w", err)
	}
	defer rows.Close()

	var list []*entity.Route
	for rows.Next() {
		rt, err := scanRoute(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan route: %w", err)
		}
		list = append(list, rt)
	}
	return list, total, rows.Err()
}

func (r *RouteRepo) ListCustomers(ctx context.Context, tenantID, routeID string) ([]entity.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE tenant_id = $1 AND route_id = $2 ORDER BY first_name`
	rows, err := r.q.Query(ctx, query, tenantID, routeID)
	if err != nil {
		return nil, fmt.Errorf("list route customers: %w", err)
	}
	defer rows.Close()

	var list []entity.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		list = append(list, *c)
	}
	return list, rows.Err()
}

// ReplaceCustomers libera los clientes que ya no están en la lista y asigna los nuevos.
// Ids de otros tenants se ignoran.
func (r *RouteRepo) ReplaceCustomers(ctx context.Context, tenantID, routeID string, customerIDs []string) (int, error) {
	ids := make([]string, 0, len(customerIDs))
	for _, id := range customerIDs {
		if validIDs(id) {
			ids = append(ids, id)
		}
	}
	release := `
		UPDATE customers SET route_id = NULL, updated_at = now()
		WHERE tenant_id = $1 AND route_id = $2 AND NOT (id = ANY($3::uuid[]))`
	if _, err := r.q.Exec(ctx, release, tenantID, routeID, ids); err != nil {
		return 0, fmt.Errorf("release route customers: %w", err)
	}
	assign := `
		UPDATE customers SET route_id = $2, updated_at = now()
		WHERE tenant_id = $1 AND id = ANY($3::uuid[])`
	tag, err := r.q.Exec(ctx, assign, tenantID, routeID, ids)
	if err != nil {
		return 0, fmt.Errorf("assign route customers: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
