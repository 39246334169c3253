package memory

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/controlpos-api/internal/application/ports"
	"github.com/jhoicas/controlpos-api/internal/domain"
)

var (
	_ ports.IdentityService = (*Identity)(nil)
	_ ports.TokenVerifier   = (*Identity)(nil)
)

// Identity servicio de identidad en memoria: cuentas, sesiones y tokens opacos.
type Identity struct {
	mu       sync.Mutex
	users    map[string]ports.IdentityUser // por id
	byEmail  map[string]string
	password map[string]string // id → password
	access   map[string]string // access token → id
	refresh  map[string]string // refresh token → id
	deleted  []string
}

// NewIdentity crea un servicio vacío.
func NewIdentity() *Identity {
	return &Identity{
		users:    map[string]ports.IdentityUser{},
		byEmail:  map[string]string{},
		password: map[string]string{},
		access:   map[string]string{},
		refresh:  map[string]string{},
	}
}

func extErr(status int, msg string) error {
	return &domain.ExternalError{Status: status, Message: msg}
}

// AddUser registra una cuenta con id fijo y devuelve un access token válido para ella.
func (i *Identity) AddUser(id, email, password string) string {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.users[id] = ports.IdentityUser{ID: id, Email: email, CreatedAt: time.Now().UTC()}
	i.byEmail[email] = id
	i.password[id] = password
	tok := "access-" + uuid.New().String()
	i.access[tok] = id
	return tok
}

// Deleted ids eliminados con DeleteUser.
func (i *Identity) Deleted() []string {
	i.mu.Lock()
	defer i.mu.Unlock()
	return append([]string(nil), i.deleted...)
}

// HasUser indica si existe una cuenta con ese email.
func (i *Identity) HasUser(email string) bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	_, ok := i.byEmail[email]
	return ok
}

func (i *Identity) create(email, password string, metadata map[string]any) (*ports.IdentityUser, error) {
	if _, ok := i.byEmail[email]; ok {
		return nil, extErr(http.StatusUnprocessableEntity, "User already registered")
	}
	u := ports.IdentityUser{ID: uuid.New().String(), Email: email, Metadata: metadata, CreatedAt: time.Now().UTC()}
	i.users[u.ID] = u
	i.byEmail[email] = u.ID
	i.password[u.ID] = password
	return &u, nil
}

func (i *Identity) session(id string) *ports.Session {
	acc, ref := "access-"+uuid.New().String(), "refresh-"+uuid.New().String()
	i.access[acc] = id
	i.refresh[ref] = id
	return &ports.Session{
		AccessToken:  acc,
		RefreshToken: ref,
		TokenType:    "bearer",
		ExpiresIn:    3600,
		ExpiresAt:    time.Now().Add(time.Hour).Unix(),
		User:         i.users[id],
	}
}

func (i *Identity) SignUp(ctx context.Context, email, password string) (*ports.IdentityUser, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.create(email, password, nil)
}

func (i *Identity) SignInWithPassword(ctx context.Context, email, password string) (*ports.Session, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	id, ok := i.byEmail[email]
	if !ok || i.password[id] != password {
		return nil, extErr(http.StatusBadRequest, "Invalid login credentials")
	}
	return i.session(id), nil
}

func (i *Identity) Refresh(ctx context.Context, refreshToken string) (*ports.Session, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	id, ok := i.refresh[refreshToken]
	if !ok {
		return nil, extErr(http.StatusBadRequest, "Invalid Refresh Token")
	}
	delete(i.refresh, refreshToken)
	return i.session(id), nil
}

func (i *Identity) SignOut(ctx context.Context, accessToken string) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	delete(i.access, accessToken)
	return nil
}

func (i *Identity) GetUser(ctx context.Context, accessToken string) (*ports.IdentityUser, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	id, ok := i.access[accessToken]
	if !ok {
		return nil, extErr(http.StatusUnauthorized, "invalid JWT")
	}
	u := i.users[id]
	return &u, nil
}

func (i *Identity) Verify(ctx context.Context, accessToken string) (string, string, error) {
	u, err := i.GetUser(ctx, accessToken)
	if err != nil {
		return "", "", domain.ErrUnauthorized
	}
	return u.ID, u.Email, nil
}

func (i *Identity) CreateUser(ctx context.Context, in ports.NewIdentityUser) (*ports.IdentityUser, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.create(in.Email, in.Password, in.Metadata)
}

func (i *Identity) DeleteUser(ctx context.Context, id string) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	u, ok := i.users[id]
	if !ok {
		return extErr(http.StatusNotFound, "User not found")
	}
	delete(i.users, id)
	delete(i.byEmail, u.Email)
	i.deleted = append(i.deleted, id)
	return nil
}

func (i *Identity) InviteUser(ctx context.Context, email string, data map[string]any) (*ports.IdentityUser, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.create(email, "", data)
}
