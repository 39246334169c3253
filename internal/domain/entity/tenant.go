package entity

import "time"

// Estados de un Tenant.
const (
	TenantStatusActive    = "active"
	TenantStatusSuspended = "suspended"
	TenantPlanBasic       = "basic"
)

// Tenant cuenta aislada de un cliente del POS; todos los datos de negocio se particionan por él.
type Tenant struct {
	ID        string
	Name      string
	Slug      string // único global, normalizado
	Domain    *string
	Plan      string
	Settings  map[string]any
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TenantStats conteos de registros de un tenant.
type TenantStats struct {
	Users     int
	Products  int
	Orders    int
	Customers int
}
