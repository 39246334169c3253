package entity

import (
	"strings"
	"time"
)

// Customer cliente de un tenant; opcionalmente asignado a una ruta.
type Customer struct {
	ID        string
	TenantID  string
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Address   string
	RouteID   *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// FullName nombre y apellido separados por espacio.
func (c *Customer) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}
