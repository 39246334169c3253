package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/controlpos-api/internal/application/auth"
	"github.com/jhoicas/controlpos-api/internal/application/inventory"
	"github.com/jhoicas/controlpos-api/internal/application/order"
	"github.com/jhoicas/controlpos-api/internal/application/usecase"
	"github.com/jhoicas/controlpos-api/internal/domain/entity"
	"github.com/jhoicas/controlpos-api/internal/infrastructure/memory"
	"github.com/jhoicas/controlpos-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/controlpos-api/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	tenantA  = "11111111-1111-1111-1111-111111111111"
	tenantB  = "22222222-2222-2222-2222-222222222222"
	adminA   = "aaaaaaaa-0000-0000-0000-000000000001"
	sellerA  = "aaaaaaaa-0000-0000-0000-000000000002"
	superU   = "aaaaaaaa-0000-0000-0000-000000000003"
	adminB   = "bbbbbbbb-0000-0000-0000-000000000001"
	orphanU  = "cccccccc-0000-0000-0000-000000000001"
	variantX = "var-x"
	variantY = "var-y"
	variantB = "var-b"
	custA    = "cust-a"
)

type harness struct {
	app    *fiber.App
	store  *memory.Store
	ident  *memory.Identity
	tokens map[string]string // user id → access token
}

type harnessOption func(*apphttp.RouterDeps)

func withSignInLimiter(l apphttp.SignInLimiter) harnessOption {
	return func(d *apphttp.RouterDeps) { d.SignInLimit = l }
}

// newHarness arma la API completa sobre el almacén en memoria con dos tenants,
// un admin, un vendedor y un super admin en el tenant A, y un admin en el tenant B.
func newHarness(t *testing.T, opts ...harnessOption) *harness {
	t.Helper()
	store := memory.NewStore()
	ident := memory.NewIdentity()

	store.AddTenant(tenantA, "Tienda A", "tienda-a")
	store.AddTenant(tenantB, "Tienda B", "tienda-b")
	store.AddProduct(tenantA, "prod-x", "Café", variantX, "500g", 10, decimal.NewFromInt(12))
	store.AddProduct(tenantA, "prod-y", "Azúcar", variantY, "1kg", 5, decimal.NewFromInt(5))
	store.AddProduct(tenantB, "prod-b", "Té", variantB, "caja", 100, decimal.NewFromInt(7))
	store.AddCustomer(entity.Customer{ID: custA, TenantID: tenantA, FirstName: "Ana"})

	h := &harness{store: store, ident: ident, tokens: map[string]string{}}
	addUser := func(id, email, tenant, role string) {
		h.tokens[id] = ident.AddUser(id, email, "secret1")
		if tenant == "" {
			return
		}
		tid := tenant
		store.AddProfile(entity.Profile{ID: id, TenantID: &tid, Role: role, Email: email})
	}
	addUser(adminA, "admin@a.test", tenantA, entity.RoleAdmin)
	addUser(sellerA, "vendedor@user.local", tenantA, entity.RoleSeller)
	addUser(superU, "root@a.test", tenantA, entity.RoleSuperAdmin)
	addUser(adminB, "admin@b.test", tenantB, entity.RoleAdmin)
	addUser(orphanU, "nadie@a.test", "", "")

	userUC := usecase.NewUserUseCase(store.Profiles(), ident, "tenant.local", nil)
	deps := apphttp.RouterDeps{
		AuthUC:     auth.NewAuthUseCase(ident, store.Profiles(), "user.local"),
		OrderUC:    order.NewUseCase(store, store.Orders(), store.Customers(), store.Profiles(), nil, nil),
		OrderStats: order.NewStatsUseCase(store.Orders()),
		Receipts:   order.NewReceiptUseCase(store.Orders(), store.Business(), pdf.NewReceiptGenerator()),
		RecordUC:   inventory.NewRecordUseCase(store, store.Records(), store.Products()),
		ProductUC:  usecase.NewProductUseCase(store, store.Products(), store.Categories()),
		CategoryUC: usecase.NewCategoryUseCase(store.Categories()),
		CustomerUC: usecase.NewCustomerUseCase(store.Customers(), store.Routes()),
		RouteUC:    usecase.NewRouteUseCase(store, store.Routes()),
		BusinessUC: usecase.NewBusinessUseCase(store.Business()),
		UserUC:     userUC,
		TenantUC:   usecase.NewTenantUseCase(store.Tenants(), userUC, tenantA),
		Verifier:   ident,
		Profiles:   store.Profiles(),
	}
	for _, opt := range opts {
		opt(&deps)
	}

	h.app = apphttp.NewApp("controlpos-test", nil)
	apphttp.Router(h.app, deps)
	return h
}

// do lanza la petición con el token del usuario indicado ("" = sin Authorization).
func (h *harness) do(t *testing.T, method, path, userID string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if userID != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+h.tokens[userID])
	}
	resp, err := h.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}
