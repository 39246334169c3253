package http

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/controlpos-api/internal/application/dto"
	"github.com/jhoicas/controlpos-api/internal/application/order"
	"github.com/jhoicas/controlpos-api/internal/application/ports"
	"github.com/jhoicas/controlpos-api/internal/domain/entity"
)

// Locals keys del actor autenticado en Fiber.
const (
	LocalUserID   = "user_id"
	LocalEmail    = "email"
	LocalTenantID = "tenant_id"
	LocalRole     = "role"
	LocalToken    = "access_token"
)

// profileReader es el contrato mínimo que necesita el middleware para resolver rol y tenant.
// Lo implementa repository.ProfileRepository.
type profileReader interface {
	GetByID(ctx context.Context, id string) (*entity.Profile, error)
}

func unauthorized(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: msg, Code: CodeUnauthorized})
}

func forbidden(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Error: msg, Code: CodeForbidden})
}

// bearerToken extrae el token de "Authorization: Bearer <token>". Vacío si falta o está mal formado.
func bearerToken(c *fiber.Ctx) string {
	parts := strings.SplitN(c.Get(fiber.HeaderAuthorization), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// authenticate valida el token y carga el perfil en c.Locals.
// Si devuelve false la respuesta ya quedó escrita (o err debe propagarse).
func authenticate(c *fiber.Ctx, verifier ports.TokenVerifier, profiles profileReader) (bool, error) {
	token := bearerToken(c)
	if token == "" {
		return false, unauthorized(c, "No autorizado")
	}
	userID, email, err := verifier.Verify(c.Context(), token)
	if err != nil || userID == "" {
		return false, unauthorized(c, "Token inválido")
	}
	profile, err := profiles.GetByID(c.Context(), userID)
	if err != nil {
		return false, err
	}
	if profile == nil || profile.TenantID == nil || *profile.TenantID == "" {
		return false, unauthorized(c, "Usuario sin perfil o sin tenant asignado")
	}
	c.Locals(LocalUserID, userID)
	c.Locals(LocalEmail, email)
	c.Locals(LocalTenantID, *profile.TenantID)
	c.Locals(LocalRole, profile.Role)
	c.Locals(LocalToken, token)
	return true, nil
}

// AuthMiddleware valida el Bearer Token contra el servicio de identidad y carga el perfil.
// Deja en c.Locals el id, email, tenant y rol del actor.
//
//   - 401 → token ausente, mal formado o rechazado; usuario sin perfil o sin tenant.
func AuthMiddleware(verifier ports.TokenVerifier, profiles profileReader) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if ok, err := authenticate(c, verifier, profiles); !ok {
			return err
		}
		return c.Next()
	}
}

// AdminAuth igual que AuthMiddleware pero exige rol super_admin (403 en otro caso).
func AdminAuth(verifier ports.TokenVerifier, profiles profileReader) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if ok, err := authenticate(c, verifier, profiles); !ok {
			return err
		}
		if GetRole(c) != entity.RoleSuperAdmin {
			return forbidden(c, "Se requieren permisos de super administrador")
		}
		return c.Next()
	}
}

// RequireRole autoriza solo a los roles indicados. Debe usarse DESPUÉS de AuthMiddleware.
//
//   - 401 → el contexto no tiene rol.
//   - 403 → el rol no está permitido.
func RequireRole(allowed ...string) fiber.Handler {
	set := make(map[string]struct{}, len(allowed))
	for _, r := range allowed {
		set[r] = struct{}{}
	}
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: "Usuario sin rol", Code: "MISSING_ROLE"})
		}
		if _, ok := set[role]; !ok {
			return forbidden(c, "Permisos insuficientes")
		}
		return c.Next()
	}
}

func localString(c *fiber.Ctx, key string) string {
	s, _ := c.Locals(key).(string)
	return s
}

// GetUserID devuelve el id del actor (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string { return localString(c, LocalUserID) }

// GetEmail devuelve el email del actor.
func GetEmail(c *fiber.Ctx) string { return localString(c, LocalEmail) }

// GetTenantID devuelve el tenant del actor, tomado siempre de su perfil.
func GetTenantID(c *fiber.Ctx) string { return localString(c, LocalTenantID) }

// GetRole devuelve el rol del actor.
func GetRole(c *fiber.Ctx) string { return localString(c, LocalRole) }

func actorOf(c *fiber.Ctx) order.Actor {
	return order.Actor{UserID: GetUserID(c), TenantID: GetTenantID(c), Role: GetRole(c)}
}
