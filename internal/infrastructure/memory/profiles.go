package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/controlpos-api/internal/domain"
	"github.com/jhoicas/controlpos-api/internal/domain/entity"
	"github.com/jhoicas/controlpos-api/internal/domain/repository"
)

var _ repository.ProfileRepository = (*ProfileRepo)(nil)

// ProfileRepo ProfileRepository en memoria.
type ProfileRepo struct {
	s *Store
	// FailUpsert simula un fallo de escritura del perfil.
	FailUpsert error
}

// Profiles devuelve el repositorio de perfiles.
func (s *Store) Profiles() *ProfileRepo { return &ProfileRepo{s: s} }

func (r *ProfileRepo) GetByID(ctx context.Context, id string) (*entity.Profile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.st.profiles[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *ProfileRepo) GetByUsername(ctx context.Context, username string) (*entity.Profile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, p := range r.s.st.profiles {
		if p.Username != "" && p.Username == username {
			p := p
			return &p, nil
		}
	}
	return nil, nil
}

func (r *ProfileRepo) Upsert(ctx context.Context, p *entity.Profile) error {
	if r.FailUpsert != nil {
		return r.FailUpsert
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, other := range r.s.st.profiles {
		if id != p.ID && p.Username != "" && other.Username == p.Username {
			return domain.ErrDuplicate
		}
	}
	r.s.st.profiles[p.ID] = *p
	return nil
}

func (r *ProfileRepo) ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]*entity.Profile, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var all []*entity.Profile
	for _, p := range r.s.st.profiles {
		if p.TenantID != nil && *p.TenantID == tenantID {
			p := p
			all = append(all, &p)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Email < all[j].Email })
	return page(all, limit, offset), len(all), nil
}

func (r *ProfileRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.profiles[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.st.profiles, id)
	return nil
}
