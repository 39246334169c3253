package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jhoicas/controlpos-api/internal/application/dto"
	"github.com/jhoicas/controlpos-api/internal/application/ports"
	"github.com/jhoicas/controlpos-api/internal/domain"
	"github.com/jhoicas/controlpos-api/internal/domain/entity"
	"github.com/jhoicas/controlpos-api/internal/domain/repository"
	"github.com/jhoicas/controlpos-api/pkg/logger"
)

const minPasswordLen = 6

// UserUseCase usuarios de un tenant: perfil en la base y cuenta en el servicio de identidad.
type UserUseCase struct {
	profileRepo repository.ProfileRepository
	identity    ports.IdentityService
	emailDomain string
	log         *logger.Logger
}

// NewUserUseCase construye el caso de uso. emailDomain se usa para usuarios creados solo con username.
func NewUserUseCase(profileRepo repository.ProfileRepository, identity ports.IdentityService, emailDomain string, log *logger.Logger) *UserUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UserUseCase{profileRepo: profileRepo, identity: identity, emailDomain: emailDomain, log: log}
}

// NormalizeRole traduce administrador/vendedor a los roles guardados. Vacío equivale a seller.
func NormalizeRole(role string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case "administrador", entity.RoleAdmin:
		return entity.RoleAdmin, nil
	case "vendedor", entity.RoleSeller, "":
		return entity.RoleSeller, nil
	default:
		return "", domain.Invalid("Rol inválido: use administrador o vendedor")
	}
}

func roleLabel(role string) string {
	if role == entity.RoleAdmin {
		return "administrador"
	}
	return "vendedor"
}

// List perfiles del tenant.
func (uc *UserUseCase) List(ctx context.Context, tenantID string, page dto.PageRequest) (*dto.ListResponse[dto.ProfileResponse], error) {
	list, total, err := uc.profileRepo.ListByTenant(ctx, tenantID, page.Limit, page.Offset())
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProfileResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProfileResponse(p))
	}
	return dto.NewListResponse(items, page, total), nil
}

// Create crea la cuenta de identidad (email confirmado) y su perfil en el tenant.
// Si el perfil no se puede escribir, la cuenta de identidad se elimina.
func (uc *UserUseCase) Create(ctx context.Context, tenantID string, in dto.CreateUserRequest) (*dto.CreatedUserResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if len(in.Password) < minPasswordLen {
		return nil, domain.Invalid("La contraseña debe tener al menos 6 caracteres")
	}
	role, err := NormalizeRole(string(in.Role))
	if err != nil {
		return nil, err
	}
	username := strings.TrimSpace(in.Username)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if username == "" && email == "" {
		return nil, domain.Invalid("Se requiere username o email")
	}
	if username != "" {
		existing, err := uc.profileRepo.GetByUsername(ctx, username)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, domain.NewError(domain.ErrDuplicate, "El nombre de usuario ya existe")
		}
	}
	if email == "" {
		email = strings.ToLower(username) + "@" + uc.emailDomain
	}

	user, err := uc.identity.CreateUser(ctx, ports.NewIdentityUser{
		Email:        email,
		Password:     in.Password,
		EmailConfirm: true,
		Metadata: map[string]any{
			"tenant_id":  tenantID,
			"role":       role,
			"first_name": in.FirstName,
			"last_name":  in.LastName,
			"username":   username,
		},
	})
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	profile := &entity.Profile{
		ID:        user.ID,
		TenantID:  &tenantID,
		Role:      role,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Username:  username,
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.profileRepo.Upsert(ctx, profile); err != nil {
		if derr := uc.identity.DeleteUser(ctx, user.ID); derr != nil {
			uc.log.Error().Err(derr).Str("user_id", user.ID).Msg("no se pudo revertir el usuario de identidad")
		}
		return nil, err
	}

	return &dto.CreatedUserResponse{
		ID:        user.ID,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Username:  username,
		Role:      roleLabel(role),
		Email:     email,
		Status:    "active",
	}, nil
}

// Invite envía la invitación del servicio de identidad con rol y tenant como metadatos.
func (uc *UserUseCase) Invite(ctx context.Context, tenantID string, in dto.InviteUserRequest) (*dto.CreatedUserResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	role, err := NormalizeRole(string(in.Role))
	if err != nil {
		return nil, err
	}
	email := strings.ToLower(in.Email)
	user, err := uc.identity.InviteUser(ctx, email, map[string]any{"role": role, "tenant_id": tenantID})
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	if err := uc.profileRepo.Upsert(ctx, &entity.Profile{
		ID:        user.ID,
		TenantID:  &tenantID,
		Role:      role,
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}); err != nil {
		if derr := uc.identity.DeleteUser(ctx, user.ID); derr != nil {
			uc.log.Error().Err(derr).Str("user_id", user.ID).Msg("no se pudo revertir la invitación de identidad")
		}
		return nil, err
	}
	return &dto.CreatedUserResponse{ID: user.ID, Role: roleLabel(role), Email: email, Status: "invited"}, nil
}

// Delete elimina un usuario del tenant del actor. No permite eliminarse a sí mismo.
func (uc *UserUseCase) Delete(ctx context.Context, tenantID, actorID, id string) error {
	if id == actorID {
		return domain.Invalid("No puede eliminar su propio usuario")
	}
	p, err := uc.profileRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil || p.TenantID == nil || *p.TenantID != tenantID {
		return domain.NotFound("Usuario no encontrado")
	}
	if err := uc.identity.DeleteUser(ctx, id); err != nil {
		return err
	}
	// el perfil puede haberse eliminado en cascada con la cuenta
	if err := uc.profileRepo.Delete(ctx, id); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	return nil
}

func toProfileResponse(p *entity.Profile) *dto.ProfileResponse {
	return &dto.ProfileResponse{
		ID:        p.ID,
		TenantID:  p.TenantID,
		Role:      p.Role,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Username:  p.Username,
		Email:     p.Email,
		CreatedAt: p.CreatedAt,
	}
}
