package repository

import (
	"context"

	"github.com/jhoicas/controlpos-api/internal/domain/entity"
)

// InventoryRecordRepository define el puerto de persistencia para registros de inventario.
type InventoryRecordRepository interface {
	Create(ctx context.Context, r *entity.InventoryRecord) error
	CreateItems(ctx context.Context, items []entity.InventoryRecordItem) error
	// GetByID incluye ítems con datos de la variante. (nil, nil) si no existe en el tenant.
	GetByID(ctx context.Context, tenantID, id string) (*entity.InventoryRecord, error)
	// GetForUpdate bloquea la fila del registro (sin ítems).
	GetForUpdate(ctx context.Context, tenantID, id string) (*entity.InventoryRecord, error)
	ListItems(ctx context.Context, tenantID, recordID string) ([]entity.InventoryRecordItem, error)
	DeleteItems(ctx context.Context, tenantID, recordID string) error
	Update(ctx context.Context, r *entity.InventoryRecord) error
	Delete(ctx context.Context, tenantID, id string) error
	List(ctx context.Context, tenantID string, f RecordFilter) ([]*entity.InventoryRecord, int, error)
	ProductMovements(ctx context.Context, tenantID, productID string, f MovementFilter) ([]entity.ProductMovement, int, error)
}
