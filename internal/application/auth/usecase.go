package auth

import (
	"context"
	"strings"

	"github.com/jhoicas/controlpos-api/internal/application/dto"
	"github.com/jhoicas/controlpos-api/internal/application/ports"
	"github.com/jhoicas/controlpos-api/internal/domain"
	"github.com/jhoicas/controlpos-api/internal/domain/entity"
	"github.com/jhoicas/controlpos-api/internal/domain/repository"
)

// AuthUseCase registro, inicio de sesión, renovación y cierre, delegados al servicio de identidad.
type AuthUseCase struct {
	identity           ports.IdentityService
	profileRepo        repository.ProfileRepository
	virtualEmailDomain string
}

// NewAuthUseCase construye el caso de uso. virtualEmailDomain completa identificadores sin @.
func NewAuthUseCase(identity ports.IdentityService, profileRepo repository.ProfileRepository, virtualEmailDomain string) *AuthUseCase {
	return &AuthUseCase{identity: identity, profileRepo: profileRepo, virtualEmailDomain: virtualEmailDomain}
}

// SignUp crea la cuenta en el servicio de identidad. El perfil se asigna después por un administrador.
func (uc *AuthUseCase) SignUp(ctx context.Context, in dto.SignUpRequest) (*dto.SignUpResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	user, err := uc.identity.SignUp(ctx, strings.ToLower(strings.TrimSpace(in.Email)), in.Password)
	if err != nil {
		return nil, err
	}
	return &dto.SignUpResponse{User: toAuthUser(user, nil)}, nil
}

// SignIn acepta email o nombre de usuario; este último se completa con el dominio virtual.
func (uc *AuthUseCase) SignIn(ctx context.Context, in dto.SignInRequest) (*dto.AuthResponse, error) {
	identifier := strings.TrimSpace(in.Identifier)
	if identifier == "" {
		identifier = strings.TrimSpace(in.Email)
	}
	if identifier == "" || in.Password == "" {
		return nil, domain.Invalid("Usuario y contraseña son requeridos")
	}
	email := strings.ToLower(identifier)
	if !strings.Contains(email, "@") {
		email = email + "@" + uc.virtualEmailDomain
	}
	session, err := uc.identity.SignInWithPassword(ctx, email, in.Password)
	if err != nil {
		return nil, err
	}
	return uc.withProfile(ctx, session)
}

// Refresh renueva la sesión con el refresh token.
func (uc *AuthUseCase) Refresh(ctx context.Context, in dto.RefreshRequest) (*dto.AuthResponse, error) {
	token := strings.TrimSpace(in.Token())
	if token == "" {
		return nil, domain.Invalid("refreshToken es requerido")
	}
	session, err := uc.identity.Refresh(ctx, token)
	if err != nil {
		return nil, err
	}
	return uc.withProfile(ctx, session)
}

// SignOut revoca la sesión del access token. Sin token no hay nada que revocar.
func (uc *AuthUseCase) SignOut(ctx context.Context, accessToken string) error {
	if accessToken == "" {
		return nil
	}
	return uc.identity.SignOut(ctx, accessToken)
}

func (uc *AuthUseCase) withProfile(ctx context.Context, s *ports.Session) (*dto.AuthResponse, error) {
	profile, err := uc.profileRepo.GetByID(ctx, s.User.ID)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{
		Session: dto.SessionResponse{
			AccessToken:  s.AccessToken,
			RefreshToken: s.RefreshToken,
			TokenType:    s.TokenType,
			ExpiresIn:    s.ExpiresIn,
			ExpiresAt:    s.ExpiresAt,
		},
		User: toAuthUser(&s.User, profile),
	}, nil
}

func toAuthUser(u *ports.IdentityUser, p *entity.Profile) dto.AuthUserResponse {
	out := dto.AuthUserResponse{
		ID:        u.ID,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		Metadata:  u.Metadata,
	}
	if p != nil {
		out.Profile = &dto.ProfileResponse{
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
	return out
}
