package http_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLimiter struct {
	allow bool
	retry time.Duration
	err   error
	keys  []string
}

func (f *fakeLimiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	f.keys = append(f.keys, key)
	return f.allow, f.retry, f.err
}

func checkoutBody(lines ...map[string]any) map[string]any {
	return map[string]any{
		"customerId": custA,
		"tenantId":   tenantB, // nunca se lee
		"createdBy":  adminB,  // nunca se lee
		"items":      lines,
	}
}

func itemLine(variantID string, qty int, price int) map[string]any {
	return map[string]any{"variantId": variantID, "quantity": qty, "price": price}
}

// ──────────────────────────────────────────────────────────────────────────────
// Auth
// ──────────────────────────────────────────────────────────────────────────────

func TestSignIn_UsuarioSinArroba_UsaDominioVirtual(t *testing.T) {
	h := newHarness(t)
	resp := h.do(t, http.MethodPost, "/api/auth/signin", "", map[string]any{
		"identifier": "vendedor",
		"password":   "secret1",
	})
	body := decode[map[string]any](t, resp)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	session := body["session"].(map[string]any)
	assert.NotEmpty(t, session["access_token"])
	user := body["user"].(map[string]any)
	assert.Equal(t, sellerA, user["id"])
	profile := user["profile"].(map[string]any)
	assert.Equal(t, "seller", profile["role"])
}

func TestSignIn_CredencialesInvalidas_Retorna400(t *testing.T) {
	h := newHarness(t)
	resp := h.do(t, http.MethodPost, "/api/auth/signin", "", map[string]any{
		"email":    "admin@a.test",
		"password": "otra",
	})
	body := decode[map[string]any](t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid login credentials", body["error"])
}

func TestSignIn_LimiteAlcanzado_Retorna429(t *testing.T) {
	limiter := &fakeLimiter{allow: false, retry: 42 * time.Second}
	h := newHarness(t, withSignInLimiter(limiter))
	resp := h.do(t, http.MethodPost, "/api/auth/signin", "", map[string]any{
		"identifier": "vendedor",
		"password":   "secret1",
	})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "42", resp.Header.Get("Retry-After"))
	assert.Len(t, limiter.keys, 1, "la clave es la IP del cliente")
}

func TestSignIn_LimitadorCaido_NoBloquea(t *testing.T) {
	limiter := &fakeLimiter{err: errors.New("redis: connection refused")}
	h := newHarness(t, withSignInLimiter(limiter))
	resp := h.do(t, http.MethodPost, "/api/auth/signin", "", map[string]any{
		"identifier": "vendedor",
		"password":   "secret1",
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSignOut_RevocaSesion(t *testing.T) {
	h := newHarness(t)
	resp := h.do(t, http.MethodPost, "/api/auth/signout", sellerA, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = h.do(t, http.MethodGet, "/api/orders", sellerA, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "el token revocado ya no es válido")
}

// ──────────────────────────────────────────────────────────────────────────────
// Orders
// ──────────────────────────────────────────────────────────────────────────────

func TestCheckout_TenantYCreadorSalenDelActor(t *testing.T) {
	h := newHarness(t)
	resp := h.do(t, http.MethodPost, "/api/orders/checkout", sellerA, checkoutBody(itemLine(variantX, 3, 12)))
	body := decode[map[string]any](t, resp)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	assert.Equal(t, tenantA, body["tenant_id"])
	assert.Equal(t, sellerA, body["created_by"])
	assert.Equal(t, "36", body["total"])
	assert.Equal(t, 7, h.store.StockOf(variantX))
}

func TestCheckout_StockInsuficiente_Retorna400ConDetalle(t *testing.T) {
	h := newHarness(t)
	resp := h.do(t, http.MethodPost, "/api/orders/checkout", sellerA,
		checkoutBody(itemLine(variantX, 11, 12), itemLine(variantY, 6, 5)))
	body := decode[map[string]any](t, resp)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Stock insuficiente", body["error"])
	assert.Equal(t, "INSUFFICIENT_STOCK", body["code"])
	assert.Len(t, body["details"], 2, "se reportan todas las variantes faltantes")
	assert.Equal(t, 10, h.store.StockOf(variantX))
	assert.Equal(t, 5, h.store.StockOf(variantY))
}

func TestCheckout_SinItems_Retorna400Validacion(t *testing.T) {
	h := newHarness(t)
	resp := h.do(t, http.MethodPost, "/api/orders/checkout", sellerA, checkoutBody())
	body := decode[map[string]any](t, resp)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", body["code"])
	assert.NotNil(t, body["details"])
}

func TestCheckout_VarianteDeOtroTenant_Retorna404(t *testing.T) {
	h := newHarness(t)
	resp := h.do(t, http.MethodPost, "/api/orders/checkout", sellerA, checkoutBody(itemLine(variantB, 1, 7)))
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, 100, h.store.StockOf(variantB))
}

func TestUpdateOrder_MismosItemsReordenados_NoTocaStock(t *testing.T) {
	h := newHarness(t)
	resp := h.do(t, http.MethodPost, "/api/orders/checkout", sellerA,
		checkoutBody(itemLine(variantX, 2, 12), itemLine(variantY, 1, 5)))
	created := decode[map[string]any](t, resp)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id := created["id"].(string)
	writes := h.store.StockWrites()

	resp = h.do(t, http.MethodPut, "/api/orders/"+id, sellerA, map[string]any{
		"items":  []map[string]any{itemLine(variantY, 1, 5), itemLine(variantX, 1, 12), itemLine(variantX, 1, 12)},
		"status": "entregado",
	})
	updated := decode[map[string]any](t, resp)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, "entregado", updated["status"])
	assert.Equal(t, writes, h.store.StockWrites(), "ítems equivalentes no generan escritura de stock")
	assert.Equal(t, 8, h.store.StockOf(variantX))
}

func TestUpdateOrder_CambioDeCantidad_AplicaDelta(t *testing.T) {
	h := newHarness(t)
	resp := h.do(t, http.MethodPost, "/api/orders/checkout", sellerA, checkoutBody(itemLine(variantX, 2, 12)))
	created := decode[map[string]any](t, resp)
	id := created["id"].(string)

	resp = h.do(t, http.MethodPut, "/api/orders/"+id, sellerA, map[string]any{
		"items": []map[string]any{itemLine(variantX, 5, 12)},
	})
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 5, h.store.StockOf(variantX))
}

func TestUpdateOrder_ListaVacia_Retorna400(t *testing.T) {
	h := newHarness(t)
	resp := h.do(t, http.MethodPost, "/api/orders/checkout", sellerA, checkoutBody(itemLine(variantX, 2, 12)))
	created := decode[map[string]any](t, resp)

	resp = h.do(t, http.MethodPut, "/api/orders/"+created["id"].(string), sellerA, map[string]any{"items": []any{}})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDeleteOrder_RestauraStock(t *testing.T) {
	h := newHarness(t)
	resp := h.do(t, http.MethodPost, "/api/orders/checkout", sellerA, checkoutBody(itemLine(variantX, 4, 12)))
	created := decode[map[string]any](t, resp)
	require.Equal(t, 6, h.store.StockOf(variantX))

	resp = h.do(t, http.MethodDelete, "/api/orders/"+created["id"].(string), sellerA, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, 10, h.store.StockOf(variantX))
}

func TestGetOrder_DeOtroTenant_Retorna404(t *testing.T) {
	h := newHarness(t)
	resp := h.do(t, http.MethodPost, "/api/orders/checkout", sellerA, checkoutBody(itemLine(variantX, 1, 12)))
	created := decode[map[string]any](t, resp)
	id := created["id"].(string)

	resp = h.do(t, http.MethodGet, "/api/orders/"+id, adminB, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = h.do(t, http.MethodDelete, "/api/orders/"+id, adminB, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, 9, h.store.StockOf(variantX))
}

func TestCreateOrder_NoImplementado(t *testing.T) {
	h := newHarness(t)
	resp := h.do(t, http.MethodPost, "/api/orders", sellerA, map[string]any{})
	body := decode[map[string]any](t, resp)
	assert.Equal(t, http.StatusNotImplemented, resp.StatusCode)
	assert.Contains(t, body["error"], "/checkout")
}

func TestListOrders_Paginacion(t *testing.T) {
	h := newHarness(t)
	for i := 0; i < 3; i++ {
		resp := h.do(t, http.MethodPost, "/api/orders/checkout", sellerA, checkoutBody(itemLine(variantX, 1, 12)))
		resp.Body.Close()
	}
	resp := h.do(t, http.MethodGet, "/api/orders?page=1&limit=2", sellerA, nil)
	body := decode[map[string]any](t, resp)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Len(t, body["items"], 2)
	pagination := body["pagination"].(map[string]any)
	assert.EqualValues(t, 3, pagination["total"])
	assert.EqualValues(t, 2, pagination["pages"])
}

func TestOrderReceipt_DevuelvePDF(t *testing.T) {
	h := newHarness(t)
	resp := h.do(t, http.MethodPost, "/api/orders/checkout", sellerA, checkoutBody(itemLine(variantX, 1, 12)))
	created := decode[map[string]any](t, resp)

	resp = h.do(t, http.MethodGet, "/api/orders/"+created["id"].(string)+"/receipt", sellerA, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(b[:4]))
}

func TestOrderStats_Resumen(t *testing.T) {
	h := newHarness(t)
	resp := h.do(t, http.MethodPost, "/api/orders/checkout", sellerA, checkoutBody(itemLine(variantX, 2, 12)))
	resp.Body.Close()

	resp = h.do(t, http.MethodGet, "/api/orders/stats/summary", sellerA, nil)
	body := decode[map[string]any](t, resp)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "today")
}

// ──────────────────────────────────────────────────────────────────────────────
// Guards de catálogo e inventario
// ──────────────────────────────────────────────────────────────────────────────

func TestProducts_VendedorNoPuedeCrear(t *testing.T) {
	h := newHarness(t)
	resp := h.do(t, http.MethodPost, "/api/products", sellerA, map[string]any{"name": "Pan"})
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestProducts_VendedorPuedeListar(t *testing.T) {
	h := newHarness(t)
	resp := h.do(t, http.MethodGet, "/api/products/order-list", sellerA, nil)
	body := decode[[]map[string]any](t, resp)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body, 2, "solo variantes del tenant del actor")
}

func TestInventoryRecords_EntradaSumaStock(t *testing.T) {
	h := newHarness(t)
	resp := h.do(t, http.MethodPost, "/api/inventory/records", adminA, map[string]any{
		"type":  "entrada",
		"date":  "2026/10/15",
		"items": []map[string]any{{"variant_id": variantY, "quantity": 10, "cost": 3}},
	})
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, 15, h.store.StockOf(variantY))

	resp = h.do(t, http.MethodPost, "/api/inventory/records", sellerA, map[string]any{
		"type":  "entrada",
		"items": []map[string]any{{"variant_id": variantY, "quantity": 1}},
	})
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestProductMovements_AceptaCorchetes(t *testing.T) {
	h := newHarness(t)
	resp := h.do(t, http.MethodPost, "/api/inventory/records", adminA, map[string]any{
		"type":  "salida",
		"date":  "2026-10-15",
		"items": []map[string]any{{"variantId": variantX, "quantity": 2}},
	})
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = h.do(t, http.MethodGet,
		"/api/inventory/movements/prod-x?pagination[page]=1&pagination[rowsPerPage]=5&filters[startDate]=2026/10/15&filters[endDate]=2026-10-15",
		sellerA, nil)
	body := decode[map[string]any](t, resp)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["items"], 1)
}

func TestBusiness_SinConfiguracion_DevuelveNull(t *testing.T) {
	h := newHarness(t)
	resp := h.do(t, http.MethodGet, "/api/business", sellerA, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	b, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "null", string(b))
}

// ──────────────────────────────────────────────────────────────────────────────
// Usuarios y tenants
// ──────────────────────────────────────────────────────────────────────────────

func TestUsers_NoPuedeEliminarseASiMismo(t *testing.T) {
	h := newHarness(t)
	resp := h.do(t, http.MethodDelete, "/api/users/"+adminA, adminA, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUsers_UsuarioDeOtroTenant_Retorna404(t *testing.T) {
	h := newHarness(t)
	resp := h.do(t, http.MethodDelete, "/api/users/"+adminB, adminA, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Empty(t, h.ident.Deleted())
}

func TestTenants_NoSeEliminaElTenantPorDefecto(t *testing.T) {
	h := newHarness(t)
	resp := h.do(t, http.MethodDelete, "/api/tenants/"+tenantA, superU, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestTenants_SlugDuplicado_Retorna409(t *testing.T) {
	h := newHarness(t)
	resp := h.do(t, http.MethodPost, "/api/tenants", superU, map[string]any{"name": "Otra", "slug": "Tienda A"})
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}
