package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/controlpos-api/internal/domain"
	"github.com/jhoicas/controlpos-api/internal/domain/entity"
	"github.com/jhoicas/controlpos-api/internal/domain/repository"
)

var _ repository.ProfileRepository = (*ProfileRepo)(nil)

// ProfileRepo implementación de ProfileRepository sobre la tabla profiles.
type ProfileRepo struct {
	q Querier
}

// NewProfileRepository construye el adaptador de perfiles.
func NewProfileRepository(q Querier) *ProfileRepo {
	return &ProfileRepo{q: q}
}

const profileColumns = `id, tenant_id, role, first_name, last_name, username, email, created_at, updated_at`

func scanProfile(row pgxScanner) (*entity.Profile, error) {
	var p entity.Profile
	var username *string
	if err := row.Scan(&p.ID, &p.TenantID, &p.Role, &p.FirstName, &p.LastName, &username, &p.Email, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.Username = derefString(username)
	return &p, nil
}

func (r *ProfileRepo) get(ctx context.Context, where string, arg any) (*entity.Profile, error) {
	p, err := scanProfile(r.q.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE `+where, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

func (r *ProfileRepo) GetByID(ctx context.Context, id string) (*entity.Profile, error) {
	if !validIDs(id) {
		return nil, nil
	}
	return r.get(ctx, `id = $1`, id)
}

func (r *ProfileRepo) GetByUsername(ctx context.Context, username string) (*entity.Profile, error) {
	return r.get(ctx, `username = $1`, username)
}

// Upsert crea o reemplaza el perfil del usuario de identidad.
func (r *ProfileRepo) Upsert(ctx context.Context, p *entity.Profile) error {
	query := `
		INSERT INTO profiles (id, tenant_id, role, first_name, last_name, username, email, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			tenant_id = EXCLUDED.tenant_id,
			role = EXCLUDED.role,
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			username = EXCLUDED.username,
			email = EXCLUDED.email,
			updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(ctx, query, p.ID, p.TenantID, p.Role, p.FirstName, p.LastName, nullIfEmpty(p.Username), p.Email, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}

func (r *ProfileRepo) ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]*entity.Profile, int, error) {
	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM profiles WHERE tenant_id = $1`, tenantID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count profiles: %w", err)
	}
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE tenant_id = $1 ORDER BY email LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, tenantID, limitOrAll(limit), offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	var list []*entity.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan profile: %w", err)
		}
		list = append(list, p)
	}
	return list, total, rows.Err()
}

func (r *ProfileRepo) Delete(ctx context.Context, id string) error {
	if !validIDs(id) {
		return domain.ErrNotFound
	}
	tag, err := r.q.Exec(ctx, `DELETE FROM profiles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
