package identity

import (
	"context"
	"errors"
	"net/http"

	"github.com/jhoicas/controlpos-api/internal/application/ports"
	"github.com/jhoicas/controlpos-api/internal/domain"
	"github.com/jhoicas/controlpos-api/pkg/jwt"
)

var (
	_ ports.TokenVerifier = (*JWTVerifier)(nil)
	_ ports.TokenVerifier = (*RemoteVerifier)(nil)
)

// JWTVerifier valida tokens localmente con el secreto HS256 del servicio de identidad.
type JWTVerifier struct {
	secret string
}

// NewJWTVerifier construye el verificador local.
func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: secret}
}

func (v *JWTVerifier) Verify(ctx context.Context, accessToken string) (string, string, error) {
	userID, email, err := jwt.Parse(v.secret, accessToken)
	if err != nil {
		return "", "", domain.NewError(domain.ErrUnauthorized, "Token inválido o expirado")
	}
	return userID, email, nil
}

// RemoteVerifier valida cada token con GET /user del servicio.
type RemoteVerifier struct {
	client ports.IdentityService
}

// NewRemoteVerifier construye el verificador remoto.
func NewRemoteVerifier(client ports.IdentityService) *RemoteVerifier {
	return &RemoteVerifier{client: client}
}

func (v *RemoteVerifier) Verify(ctx context.Context, accessToken string) (string, string, error) {
	u, err := v.client.GetUser(ctx, accessToken)
	if err != nil {
		var ext *domain.ExternalError
		if errors.As(err, &ext) && (ext.Status == http.StatusUnauthorized || ext.Status == http.StatusForbidden) {
			return "", "", domain.NewError(domain.ErrUnauthorized, "Token inválido o expirado")
		}
		return "", "", err
	}
	if u == nil || u.ID == "" {
		return "", "", domain.NewError(domain.ErrUnauthorized, "Token inválido o expirado")
	}
	return u.ID, u.Email, nil
}

// NewVerifier usa validación local si hay secreto; si no, valida contra el servicio.
func NewVerifier(secret string, client ports.IdentityService) ports.TokenVerifier {
	if secret != "" {
		return NewJWTVerifier(secret)
	}
	return NewRemoteVerifier(client)
}
