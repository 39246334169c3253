package dto

import "time"

// BusinessConfigRequest entrada de PUT /api/business.
type BusinessConfigRequest struct {
	BusinessName  string `json:"business_name" validate:"required,max=200"`
	TaxID         string `json:"tax_id" validate:"omitempty,max=50"`
	Address       string `json:"address" validate:"omitempty,max=300"`
	Phone         string `json:"phone" validate:"omitempty,max=40"`
	Email         string `json:"email" validate:"omitempty,email"`
	Currency      string `json:"currency" validate:"omitempty,len=3"`
	LogoURL       string `json:"logo_url" validate:"omitempty,url"`
	ReceiptFooter string `json:"receipt_footer" validate:"omitempty,max=500"`
}

// BusinessConfigResponse salida de la configuración del negocio.
type BusinessConfigResponse struct {
	TenantID      string    `json:"tenant_id"`
	BusinessName  string    `json:"business_name"`
	TaxID         string    `json:"tax_id"`
	Address       string    `json:"address"`
	Phone         string    `json:"phone"`
	Email         string    `json:"email"`
	Currency      string    `json:"currency"`
	LogoURL       string    `json:"logo_url"`
	ReceiptFooter string    `json:"receipt_footer"`
	UpdatedAt     time.Time `json:"updated_at"`
}
