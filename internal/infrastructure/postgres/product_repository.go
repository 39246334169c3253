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

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste el producto sin variantes.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO products (id, tenant_id, category_id, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query, p.ID, p.TenantID, p.CategoryID, p.Name, p.Description, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// CreateVariant persiste una variante. El código es único por tenant.
func (r *ProductRepo) CreateVariant(ctx context.Context, v *entity.ProductVariant) error {
	query := `
		INSERT INTO product_variants (id, tenant_id, product_id, code, title, stock, cost, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		v.ID, v.TenantID, v.ProductID, nullIfEmpty(v.Code), v.Title, v.Stock, v.Cost, v.CreatedAt, v.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.NewError(domain.ErrDuplicate, "El código de variante ya existe")
		}
		if isCheckViolation(err) {
			return domain.Invalid("El stock inicial no puede ser negativo")
		}
		return fmt.Errorf("insert variant: %w", err)
	}
	return nil
}

// CreatePrice persiste un precio con nombre de una variante.
func (r *ProductRepo) CreatePrice(ctx context.Context, p *entity.VariantPrice) error {
	query := `INSERT INTO variant_prices (id, tenant_id, variant_id, name, price) VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.q.Exec(ctx, query, p.ID, p.TenantID, p.VariantID, p.Name, p.Price); err != nil {
		return fmt.Errorf("insert variant price: %w", err)
	}
	return nil
}

const productColumns = `p.id, p.tenant_id, p.category_id, COALESCE(c.name, ''), p.name, p.description, p.created_at, p.updated_at`

func scanProduct(row pgxScanner) (*entity.Product, error) {
	var p entity.Product
	if err := row.Scan(&p.ID, &p.TenantID, &p.CategoryID, &p.CategoryName, &p.Name, &p.Description, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByID obtiene un producto del tenant con categoría, variantes y precios.
func (r *ProductRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.Product, error) {
	if !validIDs(id) {
		return nil, nil
	}
	query := `
		SELECT ` + productColumns + `
		FROM products p LEFT JOIN categories c ON c.id = p.category_id
		WHERE p.id = $1 AND p.tenant_id = $2`
	p, err := scanProduct(r.q.QueryRow(ctx, query, id, tenantID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	if err := r.attachVariants(ctx, tenantID, []*entity.Product{p}); err != nil {
		return nil, err
	}
	return p, nil
}

// attachVariants carga variantes y precios de los productos dados con dos consultas.
func (r *ProductRepo) attachVariants(ctx context.Context, tenantID string, products []*entity.Product) error {
	if len(products) == 0 {
		return nil
	}
	ids := make([]string, len(products))
	byID := make(map[string]*entity.Product, len(products))
	for i, p := range products {
		ids[i] = p.ID
		byID[p.ID] = p
	}

	rows, err := r.q.Query(ctx, `
		SELECT id, tenant_id, product_id, COALESCE(code, ''), title, stock, cost, created_at, updated_at
		FROM product_variants
		WHERE tenant_id = $1 AND product_id = ANY($2::uuid[])
		ORDER BY title`, tenantID, ids)
	if err != nil {
		return fmt.Errorf("list variants: %w", err)
	}
	var variants []entity.ProductVariant
	for rows.Next() {
		var v entity.ProductVariant
		if err := rows.Scan(&v.ID, &v.TenantID, &v.ProductID, &v.Code, &v.Title, &v.Stock, &v.Cost, &v.CreatedAt, &v.UpdatedAt); err != nil {
			rows.Close()
			return fmt.Errorf("scan variant: %w", err)
		}
		variants = append(variants, v)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("list variants: %w", err)
	}

	prices := make(map[string][]entity.VariantPrice)
	priceRows, err := r.q.Query(ctx, `
		SELECT vp.id, vp.tenant_id, vp.variant_id, vp.name, vp.price
		FROM variant_prices vp JOIN product_variants v ON v.id = vp.variant_id
		WHERE v.tenant_id = $1 AND v.product_id = ANY($2::uuid[])
		ORDER BY vp.name`, tenantID, ids)
	if err != nil {
		return fmt.Errorf("list variant prices: %w", err)
	}
	defer priceRows.Close()
	for priceRows.Next() {
		var p entity.VariantPrice
		if err := priceRows.Scan(&p.ID, &p.TenantID, &p.VariantID, &p.Name, &p.Price); err != nil {
			return fmt.Errorf("scan variant price: %w", err)
		}
		prices[p.VariantID] = append(prices[p.VariantID], p)
	}
	if err := priceRows.Err(); err != nil {
		return fmt.Errorf("list variant prices: %w", err)
	}

	for _, v := range variants {
		v.Prices = prices[v.ID]
		if p, ok := byID[v.ProductID]; ok {
			p.Variants = append(p.Variants, v)
		}
	}
	return nil
}

// Update actualiza nombre, descripción y categoría.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	query := `
		UPDATE products SET category_id = $3, name = $4, description = $5, updated_at = $6
		WHERE id = $1 AND tenant_id = $2`
	tag, err := r.q.Exec(ctx, query, p.ID, p.TenantID, p.CategoryID, p.Name, p.Description, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete borra el producto con sus variantes y precios. Falla si alguna variante tiene ventas o movimientos.
func (r *ProductRepo) Delete(ctx context.Context, tenantID, id string) error {
	if !validIDs(id) {
		return domain.ErrNotFound
	}
	tag, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1 AND tenant_id = $2`, id, tenantID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.NewError(domain.ErrConflict, "El producto tiene ventas o movimientos de inventario")
		}
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List filtra por nombre y categoría; ordenado por nombre.
func (r *ProductRepo) List(ctx context.Context, tenantID string, f repository.ProductFilter) ([]*entity.Product, int, error) {
	categoryID := f.CategoryID
	if categoryID != "" && !validIDs(categoryID) {
		return []*entity.Product{}, 0, nil
	}
	where := `WHERE p.tenant_id = $1 AND ($2 = '' OR p.name ILIKE $3) AND ($4 = '' OR p.category_id::text = $4)`
	args := []any{tenantID, f.Search, likePattern(f.Search), categoryID}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM products p `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	query := `
		SELECT ` + productColumns + `
		FROM products p LEFT JOIN categories c ON c.id = p.category_id
		` + where + `
		ORDER BY p.name LIMIT $5 OFFSET $6`
	rows, err := r.q.Query(ctx, query, append(args, limitOrAll(f.Limit), f.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			rows.Close()
			return nil, 0, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	if err := r.attachVariants(ctx, tenantID, list); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// OrderList una fila por variante con su precio "detal" (o el primero disponible).
func (r *ProductRepo) OrderList(ctx context.Context, tenantID string) ([]entity.OrderListItem, error) {
	query := `
		SELECT v.id, p.id, p.name, v.title, COALESCE(v.code, ''), v.stock,
			COALESCE((
				SELECT vp.price FROM variant_prices vp
				WHERE vp.variant_id = v.id
				ORDER BY (vp.name = 'detal') DESC, vp.name
				LIMIT 1
			), 0)
		FROM product_variants v JOIN products p ON p.id = v.product_id
		WHERE v.tenant_id = $1
		ORDER BY p.name, v.title`
	rows, err := r.q.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("order list: %w", err)
	}
	defer rows.Close()

	var list []entity.OrderListItem
	for rows.Next() {
		var it entity.OrderListItem
		if err := rows.Scan(&it.VariantID, &it.ProductID, &it.ProductName, &it.VariantTitle, &it.Code, &it.Stock, &it.Price); err != nil {
			return nil, fmt.Errorf("scan order list item: %w", err)
		}
		list = append(list, it)
	}
	return list, rows.Err()
}
