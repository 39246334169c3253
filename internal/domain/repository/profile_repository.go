package repository

import (
	"context"

	"github.com/jhoicas/controlpos-api/internal/domain/entity"
)

// ProfileRepository define el puerto de persistencia para Profile.
// GetByID y GetByUsername devuelven (nil, nil) si no existe.
type ProfileRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Profile, error)
	GetByUsername(ctx context.Context, username string) (*entity.Profile, error)
	Upsert(ctx context.Context, p *entity.Profile) error
	ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]*entity.Profile, int, error)
	Delete(ctx context.Context, id string) error
}
