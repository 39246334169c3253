package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/controlpos-api/internal/application/dto"
	"github.com/jhoicas/controlpos-api/internal/domain/entity"
	"github.com/jhoicas/controlpos-api/internal/domain/repository"
)

const defaultCurrency = "COP"

// BusinessUseCase configuración del negocio del tenant (una fila por tenant).
type BusinessUseCase struct {
	repo repository.BusinessConfigRepository
}

func NewBusinessUseCase(repo repository.BusinessConfigRepository) *BusinessUseCase {
	return &BusinessUseCase{repo: repo}
}

// Get devuelve la configuración o nil si el tenant aún no la tiene.
func (uc *BusinessUseCase) Get(ctx context.Context, tenantID string) (*dto.BusinessConfigResponse, error) {
	cfg, err := uc.repo.Get(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, nil
	}
	return toBusinessResponse(cfg), nil
}

// Save crea o reemplaza la configuración.
func (uc *BusinessUseCase) Save(ctx context.Context, tenantID string, in dto.BusinessConfigRequest) (*dto.BusinessConfigResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	currency := strings.ToUpper(in.Currency)
	if currency == "" {
		currency = defaultCurrency
	}
	cfg := &entity.BusinessConfig{
		TenantID:      tenantID,
		BusinessName:  in.BusinessName,
		TaxID:         in.TaxID,
		Address:       in.Address,
		Phone:         in.Phone,
		Email:         in.Email,
		Currency:      currency,
		LogoURL:       in.LogoURL,
		ReceiptFooter: in.ReceiptFooter,
		UpdatedAt:     time.Now().UTC(),
	}
	if err := uc.repo.Upsert(ctx, cfg); err != nil {
		return nil, err
	}
	return toBusinessResponse(cfg), nil
}

func toBusinessResponse(c *entity.BusinessConfig) *dto.BusinessConfigResponse {
	return &dto.BusinessConfigResponse{
		TenantID:      c.TenantID,
		BusinessName:  c.BusinessName,
		TaxID:         c.TaxID,
		Address:       c.Address,
		Phone:         c.Phone,
		Email:         c.Email,
		Currency:      c.Currency,
		LogoURL:       c.LogoURL,
		ReceiptFooter: c.ReceiptFooter,
		UpdatedAt:     c.UpdatedAt,
	}
}
