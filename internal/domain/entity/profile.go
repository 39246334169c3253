package entity

import "time"

// Roles válidos para Profile.
const (
	RoleSuperAdmin = "super_admin"
	RoleAdmin      = "admin"
	RoleSeller     = "seller"
)

// Profile datos de negocio de un usuario del servicio de identidad.
// ID coincide con el id del usuario en el servicio de identidad.
type Profile struct {
	ID        string
	TenantID  *string // nil: usuario sin tenant asignado
	Role      string
	FirstName string
	LastName  string
	Username  string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsAdmin indica si el rol permite administrar el tenant.
func (p *Profile) IsAdmin() bool {
	return p.Role == RoleAdmin || p.Role == RoleSuperAdmin
}
