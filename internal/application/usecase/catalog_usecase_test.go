package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/controlpos-api/internal/application/dto"
	"github.com/jhoicas/controlpos-api/internal/application/usecase"
	"github.com/jhoicas/controlpos-api/internal/domain"
	"github.com/jhoicas/controlpos-api/internal/domain/entity"
	"github.com/jhoicas/controlpos-api/internal/infrastructure/memory"
)

// ─────────────────────────────────────────────────────────────────────────────
// Productos y categorías
// ─────────────────────────────────────────────────────────────────────────────

func TestProductCreate_ConVariantesYPrecios(t *testing.T) {
	store := memory.NewStore()
	categories := usecase.NewCategoryUseCase(store.Categories())
	products := usecase.NewProductUseCase(store, store.Products(), store.Categories())
	ctx := context.Background()

	cat, err := categories.Create(ctx, tenantA, dto.CategoryRequest{Name: "Bebidas"})
	require.NoError(t, err)

	out, err := products.Create(ctx, tenantA, dto.CreateProductRequest{
		Name:       "Café",
		CategoryID: &cat.ID,
		Variants: []dto.VariantInput{
			{Title: "500g", Code: "CAF-500", Stock: 10, Cost: decimal.NewFromInt(7), Prices: []dto.VariantPriceInput{
				{Price: decimal.NewFromInt(12)},
				{Name: "mayorista", Price: decimal.NewFromInt(10)},
			}},
			{Title: "1kg", Stock: 3},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, out.Category)
	assert.Equal(t, "Bebidas", out.Category.Name)
	require.Len(t, out.Variants, 2)

	var v500 *dto.VariantResponse
	for i := range out.Variants {
		if out.Variants[i].Title == "500g" {
			v500 = &out.Variants[i]
		}
	}
	require.NotNil(t, v500)
	assert.Equal(t, 10, v500.Stock)
	assert.Len(t, v500.Prices, 2)

	list, err := products.OrderList(ctx, tenantA)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	found, err := products.List(ctx, tenantA, dto.ProductListQuery{Search: "caf", Category: cat.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, found.Pagination.Total)

	other, err := products.List(ctx, tenantB, dto.ProductListQuery{})
	require.NoError(t, err)
	assert.Empty(t, other.Items)
}

func TestProductCreate_CategoriaDeOtroTenant(t *testing.T) {
	store := memory.NewStore()
	categories := usecase.NewCategoryUseCase(store.Categories())
	products := usecase.NewProductUseCase(store, store.Products(), store.Categories())
	ctx := context.Background()

	cat, err := categories.Create(ctx, tenantB, dto.CategoryRequest{Name: "Ajena"})
	require.NoError(t, err)

	_, err = products.Create(ctx, tenantA, dto.CreateProductRequest{Name: "X", CategoryID: &cat.ID})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductUpdateYDelete(t *testing.T) {
	store := memory.NewStore()
	store.AddProduct(tenantA, "p1", "Arroz", "v1", "kg", 4, decimal.NewFromInt(3))
	products := usecase.NewProductUseCase(store, store.Products(), store.Categories())
	ctx := context.Background()

	name := "Arroz integral"
	out, err := products.Update(ctx, tenantA, "p1", dto.UpdateProductRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Arroz integral", out.Name)
	assert.Equal(t, 4, out.Variants[0].Stock)

	_, err = products.Update(ctx, tenantB, "p1", dto.UpdateProductRequest{Name: &name})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, products.Delete(ctx, tenantB, "p1"), domain.ErrNotFound)
	require.NoError(t, products.Delete(ctx, tenantA, "p1"))
	_, err = products.GetByID(ctx, tenantA, "p1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ─────────────────────────────────────────────────────────────────────────────
// Rutas y clientes
// ─────────────────────────────────────────────────────────────────────────────

func TestRouteAssignCustomers_ReemplazaConjunto(t *testing.T) {
	store := memory.NewStore()
	store.AddCustomer(entity.Customer{ID: "c1", TenantID: tenantA, FirstName: "Ana"})
	store.AddCustomer(entity.Customer{ID: "c2", TenantID: tenantA, FirstName: "Beto"})
	store.AddCustomer(entity.Customer{ID: "c3", TenantID: tenantA, FirstName: "Carla"})
	store.AddCustomer(entity.Customer{ID: "cx", TenantID: tenantB, FirstName: "Ajeno"})
	routes := usecase.NewRouteUseCase(store, store.Routes())
	ctx := context.Background()

	rt, err := routes.Create(ctx, tenantA, dto.RouteRequest{Name: "Norte", Day: "lunes"})
	require.NoError(t, err)

	res, err := routes.AssignCustomers(ctx, tenantA, rt.ID, dto.RouteCustomersRequest{CustomerIDs: []string{"c1", "c2", "cx"}})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Assigned)

	res, err = routes.AssignCustomers(ctx, tenantA, rt.ID, dto.RouteCustomersRequest{CustomerIDs: []string{"c3"}})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Assigned)

	got, err := routes.GetByID(ctx, tenantA, rt.ID)
	require.NoError(t, err)
	require.Len(t, got.Customers, 1)
	assert.Equal(t, "c3", got.Customers[0].ID)

	_, err = routes.AssignCustomers(ctx, tenantB, rt.ID, dto.RouteCustomersRequest{CustomerIDs: []string{"cx"}})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCustomer_RutaDebeSerDelTenant(t *testing.T) {
	store := memory.NewStore()
	routes := usecase.NewRouteUseCase(store, store.Routes())
	customers := usecase.NewCustomerUseCase(store.Customers(), store.Routes())
	ctx := context.Background()

	rtB, err := routes.Create(ctx, tenantB, dto.RouteRequest{Name: "Sur"})
	require.NoError(t, err)

	_, err = customers.Create(ctx, tenantA, dto.CustomerRequest{FirstName: "Ana", RouteID: &rtB.ID})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	c, err := customers.Create(ctx, tenantA, dto.CustomerRequest{FirstName: "Ana", LastName: "Gil", Email: "ana@x.co"})
	require.NoError(t, err)

	found, err := customers.List(ctx, tenantA, dto.CustomerListQuery{Search: "gil"})
	require.NoError(t, err)
	assert.Equal(t, 1, found.Pagination.Total)

	_, err = customers.GetByID(ctx, tenantB, c.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ─────────────────────────────────────────────────────────────────────────────
// Configuración del negocio
// ─────────────────────────────────────────────────────────────────────────────

func TestBusiness_GetNuloYLuegoUpsert(t *testing.T) {
	store := memory.NewStore()
	uc := usecase.NewBusinessUseCase(store.Business())
	ctx := context.Background()

	got, err := uc.Get(ctx, tenantA)
	require.NoError(t, err)
	assert.Nil(t, got)

	saved, err := uc.Save(ctx, tenantA, dto.BusinessConfigRequest{BusinessName: "Mi Tienda", Currency: "usd"})
	require.NoError(t, err)
	assert.Equal(t, "USD", saved.Currency)

	saved, err = uc.Save(ctx, tenantA, dto.BusinessConfigRequest{BusinessName: "Mi Tienda 2"})
	require.NoError(t, err)
	assert.Equal(t, "COP", saved.Currency)

	got, err = uc.Get(ctx, tenantA)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Mi Tienda 2", got.BusinessName)
}
