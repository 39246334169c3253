package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/controlpos-api/internal/domain"
	"github.com/jhoicas/controlpos-api/internal/domain/entity"
	"github.com/jhoicas/controlpos-api/internal/infrastructure/identity"
	"github.com/jhoicas/controlpos-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/controlpos-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/controlpos-api/pkg/jwt"
)

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testExpMin    = 60
)

// buildTestApp construye una aplicación Fiber mínima con:
//   - AuthMiddleware con verificación local HS256 y perfiles en memoria
//   - RequireRole para autorizar el acceso
//   - Un handler dummy que devuelve 200 si pasa los middlewares
func buildTestApp(t *testing.T, allowedRoles ...string) *fiber.App {
	t.Helper()
	store := memory.NewStore()
	for id, role := range map[string]string{adminA: entity.RoleAdmin, sellerA: entity.RoleSeller, superU: ""} {
		tid := tenantA
		store.AddProfile(entity.Profile{ID: id, TenantID: &tid, Role: role})
	}
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(nil)})
	app.Get("/protected",
		apphttp.AuthMiddleware(identity.NewJWTVerifier(testJWTSecret), store.Profiles()),
		apphttp.RequireRole(allowedRoles...),
		func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{
				"ok":        true,
				"role":      apphttp.GetRole(c),
				"user_id":   apphttp.GetUserID(c),
				"tenant_id": apphttp.GetTenantID(c),
				"email":     apphttp.GetEmail(c),
			})
		},
	)
	return app
}

// tokenFor genera un JWT del servicio de identidad para el usuario indicado.
func tokenFor(t *testing.T, userID string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, userID, "user@a.test", testExpMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

// doRequest lanza una petición GET /protected y devuelve la respuesta.
func doRequest(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RequireRole
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireRole_AdminAccedeRutaAdmin(t *testing.T) {
	app := buildTestApp(t, entity.RoleAdmin)
	resp := doRequest(t, app, tokenFor(t, adminA))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode, "admin debe poder acceder a ruta restringida a admin")

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "admin", body["role"])
	assert.Equal(t, tenantA, body["tenant_id"], "el tenant sale del perfil, no del token")
	assert.Equal(t, "user@a.test", body["email"])
}

func TestRequireRole_VendedorAccedeRutaMultiRol(t *testing.T) {
	app := buildTestApp(t, entity.RoleAdmin, entity.RoleSeller)
	resp := doRequest(t, app, tokenFor(t, sellerA))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequireRole_VendedorBloqueadoEnRutaAdmin(t *testing.T) {
	app := buildTestApp(t, entity.RoleAdmin)
	resp := doRequest(t, app, tokenFor(t, sellerA))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "seller no debe acceder a ruta de admin")
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "FORBIDDEN")
}

func TestRequireRole_PerfilSinRol_Retorna401(t *testing.T) {
	app := buildTestApp(t, entity.RoleAdmin)
	resp := doRequest(t, app, tokenFor(t, superU)) // perfil con rol vacío
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_ROLE")
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_SinAuthHeader_Retorna401(t *testing.T) {
	resp := doRequest(t, buildTestApp(t, entity.RoleAdmin), "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_FormatoInvalido_Retorna401(t *testing.T) {
	resp := doRequest(t, buildTestApp(t, entity.RoleAdmin), "Token abc")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_TokenInvalido_Retorna401(t *testing.T) {
	resp := doRequest(t, buildTestApp(t, entity.RoleAdmin), "Bearer token.invalido.aqui")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_TokenExpirado_Retorna401(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, adminA, "user@a.test", -1)
	require.NoError(t, err)
	resp := doRequest(t, buildTestApp(t, entity.RoleAdmin), "Bearer "+tok)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_UsuarioSinPerfil_Retorna401(t *testing.T) {
	resp := doRequest(t, buildTestApp(t, entity.RoleAdmin), tokenFor(t, orphanU))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

type failingProfiles struct{}

func (failingProfiles) GetByID(ctx context.Context, id string) (*entity.Profile, error) {
	return nil, domain.ErrExternal
}

func TestAuthMiddleware_FalloDePerfiles_Retorna500(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(nil)})
	app.Get("/protected",
		apphttp.AuthMiddleware(identity.NewJWTVerifier(testJWTSecret), failingProfiles{}),
		func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) },
	)
	resp := doRequest(t, app, tokenFor(t, adminA))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests AdminAuth sobre la API completa
// ──────────────────────────────────────────────────────────────────────────────

func TestAdminAuth_AdminDeTenantBloqueado(t *testing.T) {
	h := newHarness(t)
	resp := h.do(t, http.MethodGet, "/api/tenants", adminA, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestAdminAuth_SuperAdminAccede(t *testing.T) {
	h := newHarness(t)
	resp := h.do(t, http.MethodGet, "/api/tenants", superU, nil)
	body := decode[map[string]any](t, resp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["items"], 2)
}

func TestAdminAuth_SinToken_Retorna401(t *testing.T) {
	h := newHarness(t)
	resp := h.do(t, http.MethodGet, "/api/tenants", "", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
