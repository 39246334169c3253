package dto

import "time"

// CreateTenantRequest entrada para crear un tenant.
type CreateTenantRequest struct {
	Name     string         `json:"name" validate:"required,max=200"`
	Slug     string         `json:"slug" validate:"required,max=100"`
	Domain   *string        `json:"domain"`
	Plan     string         `json:"plan" validate:"omitempty,max=50"`
	Settings map[string]any `json:"settings"`
	Status   string         `json:"status" validate:"omitempty,oneof=active suspended"`
}

// UpdateTenantRequest actualización parcial de un tenant.
type UpdateTenantRequest struct {
	Name     *string        `json:"name" validate:"omitempty,min=1,max=200"`
	Slug     *string        `json:"slug"`
	Domain   *string        `json:"domain"`
	Plan     *string        `json:"plan" validate:"omitempty,max=50"`
	Settings map[string]any `json:"settings"`
	Status   *string        `json:"status" validate:"omitempty,oneof=active suspended"`
}

// TenantListQuery filtros de GET /api/tenants.
type TenantListQuery struct {
	Page   int    `query:"page"`
	Limit  int    `query:"limit"`
	Status string `query:"status"`
	Search string `query:"search"`
}

// TenantResponse salida de un tenant.
type TenantResponse struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Slug      string         `json:"slug"`
	Domain    *string        `json:"domain"`
	Plan      string         `json:"plan"`
	Settings  map[string]any `json:"settings"`
	Status    string         `json:"status"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// TenantStatsResponse conteos de un tenant.
type TenantStatsResponse struct {
	Users     int `json:"users"`
	Products  int `json:"products"`
	Orders    int `json:"orders"`
	Customers int `json:"customers"`
}
