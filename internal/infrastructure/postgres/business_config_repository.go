package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/controlpos-api/internal/domain/entity"
	"github.com/jhoicas/controlpos-api/internal/domain/repository"
)

var _ repository.BusinessConfigRepository = (*BusinessConfigRepo)(nil)

// BusinessConfigRepo configuración del negocio, una fila por tenant.
type BusinessConfigRepo struct {
	q Querier
}

// NewBusinessConfigRepository construye el adaptador.
func NewBusinessConfigRepository(q Querier) *BusinessConfigRepo {
	return &BusinessConfigRepo{q: q}
}

func (r *BusinessConfigRepo) Get(ctx context.Context, tenantID string) (*entity.BusinessConfig, error) {
	query := `
		SELECT tenant_id, business_name, tax_id, address, phone, email, currency, logo_url, receipt_footer, updated_at
		FROM business_config WHERE tenant_id = $1`
	var c entity.BusinessConfig
	err := r.q.QueryRow(ctx, query, tenantID).Scan(
		&c.TenantID, &c.BusinessName, &c.TaxID, &c.Address, &c.Phone, &c.Email,
		&c.Currency, &c.LogoURL, &c.ReceiptFooter, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get business config: %w", err)
	}
	return &c, nil
}

func (r *BusinessConfigRepo) Upsert(ctx context.Context, c *entity.BusinessConfig) error {
	query := `
		INSERT INTO business_config (tenant_id, business_name, tax_id, address, phone, email, currency, logo_url, receipt_footer, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (tenant_id) DO UPDATE SET
			business_name = EXCLUDED.business_name,
			tax_id = EXCLUDED.tax_id,
			address = EXCLUDED.address,
			phone = EXCLUDED.phone,
			email = EXCLUDED.email,
			currency = EXCLUDED.currency,
			logo_url = EXCLUDED.logo_url,
			receipt_footer = EXCLUDED.receipt_footer,
			updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(ctx, query,
		c.TenantID, c.BusinessName, c.TaxID, c.Address, c.Phone, c.Email,
		c.Currency, c.LogoURL, c.ReceiptFooter, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert business config: %w", err)
	}
	return nil
}
