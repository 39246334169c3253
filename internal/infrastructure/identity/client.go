// Package identity adapta el servicio de identidad (API de GoTrue/Supabase Auth).
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/jhoicas/controlpos-api/internal/application/ports"
	"github.com/jhoicas/controlpos-api/internal/domain"
	"github.com/jhoicas/controlpos-api/pkg/config"
)

var _ ports.IdentityService = (*Client)(nil)

// Client cliente HTTP del servicio de identidad.
// anonKey para operaciones de usuario; serviceKey para las administrativas.
type Client struct {
	baseURL    string
	anonKey    string
	serviceKey string
	httpClient *http.Client
}

// NewClient construye el adaptador a partir de la configuración.
func NewClient(cfg config.IdentityConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    cfg.URL + "/auth/v1",
		anonKey:    cfg.AnonKey,
		serviceKey: cfg.ServiceRoleKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// ── Estructuras del protocolo ────────────────────────────────────────────────

type userPayload struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	UserMetadata map[string]any `json:"user_metadata"`
	CreatedAt    time.Time      `json:"created_at"`
}

type sessionPayload struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	TokenType    string       `json:"token_type"`
	ExpiresIn    int          `json:"expires_in"`
	ExpiresAt    int64        `json:"expires_at"`
	User         *userPayload `json:"user"`
}

type errorPayload struct {
	Msg              string `json:"msg"`
	Message          string `json:"message"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func (e errorPayload) text() string {
	for _, s := range []string{e.Msg, e.Message, e.ErrorDescription, e.Error} {
		if s != "" {
			return s
		}
	}
	return ""
}

func (u *userPayload) toPort() *ports.IdentityUser {
	if u == nil {
		return nil
	}
	return &ports.IdentityUser{ID: u.ID, Email: u.Email, Metadata: u.UserMetadata, CreatedAt: u.CreatedAt}
}

func (s *sessionPayload) toPort() *ports.Session {
	out := &ports.Session{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		TokenType:    s.TokenType,
		ExpiresIn:    s.ExpiresIn,
		ExpiresAt:    s.ExpiresAt,
	}
	if s.User != nil {
		out.User = *s.User.toPort()
	}
	return out
}

// do envía la petición y decodifica la respuesta en out. Los errores HTTP vuelven como *domain.ExternalError.
func (c *Client) do(ctx context.Context, method, path, bearer, apiKey string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("identity: serializar request: %w", err)
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("identity: crear HTTP request: %w", err)
	}
	req.Header.Set("apikey", apiKey)
	req.Header.Set("Authorization", "Bearer "+bearer)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("identity: timeout o cancelación: %w", ctx.Err())
		}
		return fmt.Errorf("identity: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 256*1024))
	if err != nil {
		return fmt.Errorf("identity: leer respuesta: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var e errorPayload
		msg := ""
		if json.Unmarshal(raw, &e) == nil {
			msg = e.text()
		}
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &domain.ExternalError{Status: resp.StatusCode, Message: msg}
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("identity: deserializar respuesta: %w", err)
	}
	return nil
}

// ── Operaciones de usuario ───────────────────────────────────────────────────

// SignUp registra un usuario. Según la configuración del servicio la respuesta trae sesión o solo el usuario.
func (c *Client) SignUp(ctx context.Context, email, password string) (*ports.IdentityUser, error) {
	var raw json.RawMessage
	in := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/signup", c.anonKey, c.anonKey, in, &raw); err != nil {
		return nil, err
	}
	var withSession sessionPayload
	if err := json.Unmarshal(raw, &withSession); err == nil && withSession.User != nil && withSession.User.ID != "" {
		return withSession.User.toPort(), nil
	}
	var u userPayload
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil, fmt.Errorf("identity: deserializar usuario: %w", err)
	}
	return u.toPort(), nil
}

func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*ports.Session, error) {
	var s sessionPayload
	in := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/token?grant_type=password", c.anonKey, c.anonKey, in, &s); err != nil {
		return nil, err
	}
	return s.toPort(), nil
}

func (c *Client) Refresh(ctx context.Context, refreshToken string) (*ports.Session, error) {
	var s sessionPayload
	in := map[string]string{"refresh_token": refreshToken}
	if err := c.do(ctx, http.MethodPost, "/token?grant_type=refresh_token", c.anonKey, c.anonKey, in, &s); err != nil {
		return nil, err
	}
	return s.toPort(), nil
}

// SignOut revoca la sesión del access token.
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	return c.do(ctx, http.MethodPost, "/logout", accessToken, c.anonKey, nil, nil)
}

// GetUser valida el token contra el servicio.
func (c *Client) GetUser(ctx context.Context, accessToken string) (*ports.IdentityUser, error) {
	var u userPayload
	if err := c.do(ctx, http.MethodGet, "/user", accessToken, c.anonKey, nil, &u); err != nil {
		return nil, err
	}
	return u.toPort(), nil
}

// ── Operaciones administrativas (service role) ───────────────────────────────

func (c *Client) admin() (string, error) {
	if c.serviceKey == "" {
		return "", &domain.ExternalError{Status: http.StatusInternalServerError, Message: "SUPABASE_SERVICE_ROLE_KEY no configurado"}
	}
	return c.serviceKey, nil
}

func (c *Client) CreateUser(ctx context.Context, in ports.NewIdentityUser) (*ports.IdentityUser, error) {
	key, err := c.admin()
	if err != nil {
		return nil, err
	}
	payload := map[string]any{
		"email":         in.Email,
		"password":      in.Password,
		"email_confirm": in.EmailConfirm,
		"user_metadata": in.Metadata,
	}
	var u userPayload
	if err := c.do(ctx, http.MethodPost, "/admin/users", key, key, payload, &u); err != nil {
		return nil, err
	}
	return u.toPort(), nil
}

func (c *Client) DeleteUser(ctx context.Context, id string) error {
	key, err := c.admin()
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, "/admin/users/"+url.PathEscape(id), key, key, nil, nil)
}

// InviteUser envía la invitación por email con data como metadata del usuario.
func (c *Client) InviteUser(ctx context.Context, email string, data map[string]any) (*ports.IdentityUser, error) {
	key, err := c.admin()
	if err != nil {
		return nil, err
	}
	var u userPayload
	in := map[string]any{"email": email, "data": data}
	if err := c.do(ctx, http.MethodPost, "/invite", key, key, in, &u); err != nil {
		return nil, err
	}
	return u.toPort(), nil
}
