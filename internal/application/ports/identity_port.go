package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// IdentityUser usuario del servicio de identidad.
type IdentityUser struct {
	ID        string
	Email     string
	Metadata  map[string]any
	CreatedAt time.Time
}

// Session tokens emitidos por el servicio de identidad.
type Session struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
	ExpiresIn    int
	ExpiresAt    int64
	User         IdentityUser
}

// NewIdentityUser datos para crear un usuario con la credencial elevada.
type NewIdentityUser struct {
	Email        string
	Password     string
	EmailConfirm bool
	Metadata     map[string]any
}

// IdentityService define el puerto de salida hacia el servicio de identidad/sesiones.
// Los errores del servicio se devuelven como *domain.ExternalError.
type IdentityService interface {
	SignUp(ctx context.Context, email, password string) (*IdentityUser, error)
	SignInWithPassword(ctx context.Context, email, password string) (*Session, error)
	Refresh(ctx context.Context, refreshToken string) (*Session, error)
	SignOut(ctx context.Context, accessToken string) error
	// GetUser valida el access token contra el servicio y devuelve su usuario.
	GetUser(ctx context.Context, accessToken string) (*IdentityUser, error)

	// Operaciones administrativas (service role).
	CreateUser(ctx context.Context, in NewIdentityUser) (*IdentityUser, error)
	DeleteUser(ctx context.Context, id string) error
	InviteUser(ctx context.Context, email string, data map[string]any) (*IdentityUser, error)
}

// TokenVerifier valida un access token y devuelve el id del usuario y su email.
type TokenVerifier interface {
	Verify(ctx context.Context, accessToken string) (userID, email string, err error)
}

// OrderEvent evento de ciclo de vida de una orden.
type OrderEvent struct {
	Type       string // order.created | order.updated | order.deleted
	OrderID    string
	TenantID   string
	ActorID    string
	Total      string
	StockMoved bool
	OccurredAt time.Time
}

// Tipos de OrderEvent.
const (
	OrderCreated = "order.created"
	OrderUpdated = "order.updated"
	OrderDeleted = "order.deleted"
)

// EventPublisher publica eventos después del commit. Nunca se reintenta.
type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, evt OrderEvent) error
}

// ReceiptGenerator genera el PDF de un recibo de orden.
type ReceiptGenerator interface {
	GenerateReceipt(ctx context.Context, data ReceiptData) ([]byte, error)
}

// ReceiptLine línea del recibo.
type ReceiptLine struct {
	Description string
	Quantity    int
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
}

// ReceiptData datos del recibo de una orden.
type ReceiptData struct {
	BusinessName string
	TaxID        string
	Address      string
	Phone        string
	Currency     string
	Footer       string
	OrderID      string
	Date         time.Time
	CustomerName string
	Status       string
	Lines        []ReceiptLine
	Total        decimal.Decimal
}
