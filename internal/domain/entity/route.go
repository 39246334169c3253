package entity

import "time"

// Route ruta de visitas/entregas con sus clientes asignados.
type Route struct {
	ID          string
	TenantID    string
	Name        string
	Description string
	Day         string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Customers   []Customer
}
