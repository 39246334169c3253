package repository

import (
	"context"

	"github.com/jhoicas/controlpos-api/internal/domain/entity"
)

// BusinessConfigRepository define el puerto para la configuración del negocio (una por tenant).
type BusinessConfigRepository interface {
	// Get devuelve (nil, nil) si el tenant aún no la configuró.
	Get(ctx context.Context, tenantID string) (*entity.BusinessConfig, error)
	Upsert(ctx context.Context, cfg *entity.BusinessConfig) error
}
