package repository

import (
	"context"
	"time"

	"github.com/jhoicas/controlpos-api/internal/domain/entity"
)

// OrderRepository define el puerto de persistencia para Order y sus ítems.
type OrderRepository interface {
	Create(ctx context.Context, o *entity.Order) error
	CreateItems(ctx context.Context, items []entity.OrderItem) error
	// GetByID incluye cliente e ítems con datos de la variante. (nil, nil) si no existe en el tenant.
	GetByID(ctx context.Context, tenantID, id string) (*entity.Order, error)
	// GetForUpdate bloquea la fila de la orden (sin ítems).
	GetForUpdate(ctx context.Context, tenantID, id string) (*entity.Order, error)
	ListItems(ctx context.Context, tenantID, orderID string) ([]entity.OrderItem, error)
	DeleteItems(ctx context.Context, tenantID, orderID string) error
	// Update escribe cliente, vendedor, estado, notas y total. Solo bajo GetForUpdate.
	Update(ctx context.Context, o *entity.Order) error
	// UpdateMetadata escribe solo las columnas de cabecera indicadas; nunca el total.
	UpdateMetadata(ctx context.Context, tenantID, id string, m OrderMetadata) error
	Delete(ctx context.Context, tenantID, id string) error
	List(ctx context.Context, tenantID string, f OrderFilter) ([]*entity.Order, int, error)
	SalesSummary(ctx context.Context, tenantID string, from, to *time.Time) (entity.SalesSummary, error)
	TopVariants(ctx context.Context, tenantID string, from, to time.Time, limit int) ([]entity.TopVariant, error)
}

// OrderMetadata cambios de cabecera. CustomerSet y CreatedBySet distinguen "dejar en NULL" de "no tocar".
type OrderMetadata struct {
	CustomerSet  bool
	CustomerID   *string
	CreatedBySet bool
	CreatedBy    *string
	Status       *string
	Notes        *string
	UpdatedAt    time.Time
}
