//go:build integration

package postgres_test

// Pruebas contra PostgreSQL real vía testcontainers.
// Ejecutar con: go test -tags integration ./internal/infrastructure/postgres/... -v

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/jhoicas/controlpos-api/internal/application/dto"
	"github.com/jhoicas/controlpos-api/internal/application/inventory"
	"github.com/jhoicas/controlpos-api/internal/application/order"
	"github.com/jhoicas/controlpos-api/internal/domain"
	"github.com/jhoicas/controlpos-api/internal/domain/entity"
	"github.com/jhoicas/controlpos-api/internal/infrastructure/postgres"
	"github.com/jhoicas/controlpos-api/pkg/config"
)

const (
	tenantA  = "11111111-1111-1111-1111-111111111111"
	tenantB  = "22222222-2222-2222-2222-222222222222"
	adminA   = "aaaaaaaa-0000-0000-0000-000000000001"
	productX = "bbbbbbbb-0000-0000-0000-000000000001"
	variantX = "cccccccc-0000-0000-0000-000000000001"
	variantY = "cccccccc-0000-0000-0000-000000000002"
	variantB = "cccccccc-0000-0000-0000-000000000003"
)

func setupPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("controlpos_test"),
		tcPostgres.WithUsername("controlpos"),
		tcPostgres.WithPassword("controlpos"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	dsn, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: dsn, MaxConns: 10})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, postgres.Migrate(ctx, pool))
	seed(t, pool)
	return pool
}

func seed(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	ctx := context.Background()
	stmts := []struct {
		sql  string
		args []any
	}{
		{`INSERT INTO tenants (id, name, slug) VALUES ($1, 'Tienda A', 'tienda-a'), ($2, 'Tienda B', 'tienda-b')`, []any{tenantA, tenantB}},
		{`INSERT INTO profiles (id, tenant_id, role, email) VALUES ($1, $2, 'admin', 'admin@a.co')`, []any{adminA, tenantA}},
		{`INSERT INTO products (id, tenant_id, name) VALUES ($1, $2, 'Café')`, []any{productX, tenantA}},
		{`INSERT INTO product_variants (id, tenant_id, product_id, code, title, stock) VALUES
			($1, $3, $4, 'CAF-500', '500g', 10),
			($2, $3, $4, 'CAF-1K', '1kg', 5)`, []any{variantX, variantY, tenantA, productX}},
		{`INSERT INTO products (id, tenant_id, name) VALUES ('bbbbbbbb-0000-0000-0000-000000000002', $1, 'Té')`, []any{tenantB}},
		{`INSERT INTO product_variants (id, tenant_id, product_id, title, stock) VALUES ($1, $2, 'bbbbbbbb-0000-0000-0000-000000000002', 'caja', 100)`, []any{variantB, tenantB}},
	}
	for _, s := range stmts {
		_, err := pool.Exec(ctx, s.sql, s.args...)
		require.NoError(t, err)
	}
}

func stockOf(t *testing.T, pool *pgxpool.Pool, variantID string) int {
	t.Helper()
	var n int
	require.NoError(t, pool.QueryRow(context.Background(), `SELECT stock FROM product_variants WHERE id = $1`, variantID).Scan(&n))
	return n
}

func newOrderUseCase(pool *pgxpool.Pool) *order.UseCase {
	return order.NewUseCase(
		postgres.NewTxRunner(pool),
		postgres.NewOrderRepository(pool),
		postgres.NewCustomerRepository(pool),
		postgres.NewProfileRepository(pool),
		nil, nil,
	)
}

func line(variantID string, qty int, price int64) dto.OrderItemInput {
	return dto.OrderItemInput{VariantID: variantID, Quantity: qty, Price: decimal.NewFromInt(price)}
}

func TestCicloDeVidaOrden_Postgres(t *testing.T) {
	pool := setupPool(t)
	ctx := context.Background()
	uc := newOrderUseCase(pool)
	actor := order.Actor{UserID: adminA, TenantID: tenantA, Role: entity.RoleAdmin}

	created, err := uc.Checkout(ctx, actor, dto.CheckoutRequest{Items: []dto.OrderItemInput{line(variantX, 4, 12)}})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(48).Equal(created.Total))
	assert.Equal(t, 6, stockOf(t, pool, variantX))

	updated, err := uc.Update(ctx, actor, created.ID, dto.UpdateOrderRequest{
		ItemsSet: true,
		Items:    []dto.OrderItemInput{line(variantX, 2, 12), line(variantY, 1, 20)},
	})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(44).Equal(updated.Total))
	assert.Equal(t, 8, stockOf(t, pool, variantX))
	assert.Equal(t, 4, stockOf(t, pool, variantY))

	got, err := uc.Get(ctx, tenantA, created.ID)
	require.NoError(t, err)
	assert.Len(t, got.Items, 2)
	assert.Equal(t, 3, got.ItemsCount)

	status, notes := "pending", "fiado"
	meta, err := uc.Update(ctx, actor, created.ID, dto.UpdateOrderRequest{Status: &status, Notes: &notes})
	require.NoError(t, err)
	assert.Equal(t, "pending", meta.Status)
	assert.Equal(t, "fiado", meta.Notes)
	assert.True(t, decimal.NewFromInt(44).Equal(meta.Total))
	require.NotNil(t, meta.CreatedBy)
	assert.Equal(t, adminA, *meta.CreatedBy)

	require.NoError(t, uc.Delete(ctx, actor, created.ID))
	assert.Equal(t, 10, stockOf(t, pool, variantX))
	assert.Equal(t, 5, stockOf(t, pool, variantY))

	_, err = uc.Get(ctx, tenantA, created.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestCheckout_StockInsuficienteRevierte_Postgres(t *testing.T) {
	pool := setupPool(t)
	ctx := context.Background()
	uc := newOrderUseCase(pool)
	actor := order.Actor{UserID: adminA, TenantID: tenantA, Role: entity.RoleAdmin}

	_, err := uc.Checkout(ctx, actor, dto.CheckoutRequest{Items: []dto.OrderItemInput{line(variantX, 2, 12), line(variantY, 50, 20)}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))
	assert.Equal(t, 10, stockOf(t, pool, variantX))

	var orders int
	require.NoError(t, pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders`).Scan(&orders))
	assert.Zero(t, orders)
}

func TestCheckout_VarianteAjenaNoExiste_Postgres(t *testing.T) {
	pool := setupPool(t)
	uc := newOrderUseCase(pool)
	actor := order.Actor{UserID: adminA, TenantID: tenantA, Role: entity.RoleAdmin}

	_, err := uc.Checkout(context.Background(), actor, dto.CheckoutRequest{Items: []dto.OrderItemInput{line(variantB, 1, 7)}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.Equal(t, 100, stockOf(t, pool, variantB))
}

func TestCheckout_ConcurrenteNuncaSobrevende_Postgres(t *testing.T) {
	pool := setupPool(t)
	ctx := context.Background()
	uc := newOrderUseCase(pool)
	actor := order.Actor{UserID: adminA, TenantID: tenantA, Role: entity.RoleAdmin}

	var wg sync.WaitGroup
	var mu sync.Mutex
	ok, short := 0, 0
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.Checkout(ctx, actor, dto.CheckoutRequest{Items: []dto.OrderItemInput{line(variantX, 3, 12)}})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, domain.ErrInsufficientStock):
				short++
			default:
				t.Errorf("error inesperado: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 3, ok)
	assert.Equal(t, 2, short)
	assert.Equal(t, 1, stockOf(t, pool, variantX))
}

func TestRegistroInventario_CostoPromedio_Postgres(t *testing.T) {
	pool := setupPool(t)
	ctx := context.Background()
	uc := inventory.NewRecordUseCase(postgres.NewTxRunner(pool), postgres.NewInventoryRecordRepository(pool), postgres.NewProductRepository(pool))

	cost := decimal.NewFromInt(8)
	rec, err := uc.Create(ctx, tenantA, adminA, dto.InventoryRecordRequest{
		Type:  entity.RecordTypeEntry,
		Items: []dto.InventoryItemInput{{VariantID: variantX, Quantity: 10, Cost: &cost}},
	})
	require.NoError(t, err)
	assert.Equal(t, 20, stockOf(t, pool, variantX))

	var got decimal.Decimal
	require.NoError(t, pool.QueryRow(ctx, `SELECT cost FROM product_variants WHERE id = $1`, variantX).Scan(&got))
	assert.True(t, decimal.NewFromInt(4).Equal(got), "10@0 + 10@8 = 4")

	moves, err := uc.ProductMovements(ctx, tenantA, productX, dto.MovementQuery{})
	require.NoError(t, err)
	require.Len(t, moves.Items, 1)
	assert.Equal(t, rec.ID, moves.Items[0].RecordID)

	require.NoError(t, uc.Delete(ctx, tenantA, rec.ID))
	assert.Equal(t, 10, stockOf(t, pool, variantX))
}
