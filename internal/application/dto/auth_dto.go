package dto

import "time"

// SignUpRequest entrada de POST /api/auth/signup.
type SignUpRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// SignInRequest entrada de POST /api/auth/signin. Identifier puede ser email o usuario.
type SignInRequest struct {
	Identifier string `json:"identifier"`
	Email      string `json:"email"`
	Password   string `json:"password"`
}

// RefreshRequest entrada de POST /api/auth/refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
	Snake        string `json:"refresh_token"`
}

// Token devuelve el refresh token en cualquiera de las dos convenciones.
func (r RefreshRequest) Token() string {
	if r.RefreshToken != "" {
		return r.RefreshToken
	}
	return r.Snake
}

// SessionResponse sesión emitida por el servicio de identidad.
type SessionResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at"`
}

// AuthUserResponse usuario de identidad con su perfil de negocio.
type AuthUserResponse struct {
	ID        string           `json:"id"`
	Email     string           `json:"email"`
	CreatedAt time.Time        `json:"created_at"`
	Metadata  map[string]any   `json:"user_metadata,omitempty"`
	Profile   *ProfileResponse `json:"profile,omitempty"`
}

// AuthResponse salida de signin y refresh.
type AuthResponse struct {
	Session SessionResponse  `json:"session"`
	User    AuthUserResponse `json:"user"`
}

// SignUpResponse salida de signup.
type SignUpResponse struct {
	User AuthUserResponse `json:"user"`
}
