package entity

import "time"

// BusinessConfig datos del negocio (uno por tenant), usados en recibos.
type BusinessConfig struct {
	TenantID      string
	BusinessName  string
	TaxID         string
	Address       string
	Phone         string
	Email         string
	Currency      string
	LogoURL       string
	ReceiptFooter string
	UpdatedAt     time.Time
}
