package memory

import (
	"context"

	"github.com/jhoicas/controlpos-api/internal/domain/entity"
	"github.com/jhoicas/controlpos-api/internal/domain/repository"
)

var _ repository.BusinessConfigRepository = (*BusinessRepo)(nil)

// BusinessRepo BusinessConfigRepository en memoria.
type BusinessRepo struct{ s *Store }

// Business devuelve el repositorio de configuración del negocio.
func (s *Store) Business() *BusinessRepo { return &BusinessRepo{s: s} }

func (r *BusinessRepo) Get(ctx context.Context, tenantID string) (*entity.BusinessConfig, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	cfg, ok := r.s.st.business[tenantID]
	if !ok {
		return nil, nil
	}
	return &cfg, nil
}

func (r *BusinessRepo) Upsert(ctx context.Context, cfg *entity.BusinessConfig) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.st.business[cfg.TenantID] = *cfg
	return nil
}
