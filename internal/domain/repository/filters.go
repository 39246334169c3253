package repository

import "time"

// TenantFilter filtros del listado de tenants.
type TenantFilter struct {
	Status string
	Search string // nombre o slug
	Limit  int
	Offset int
}

// ProductFilter filtros del listado de productos.
type ProductFilter struct {
	Search     string // nombre
	CategoryID string
	Limit      int
	Offset     int
}

// CustomerFilter filtros del listado de clientes.
type CustomerFilter struct {
	Search string // nombre, apellido o email
	Limit  int
	Offset int
}

// RouteFilter filtros y orden del listado de rutas.
type RouteFilter struct {
	Search     string
	SortBy     string // name | created_at
	Descending bool
	Limit      int
	Offset     int
}

// OrderFilter filtros del listado de órdenes. To es exclusivo.
type OrderFilter struct {
	Status string
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

// RecordFilter filtros del listado de registros de inventario.
type RecordFilter struct {
	Type   string
	Limit  int
	Offset int
}

// MovementFilter filtros y orden del historial de movimientos de un producto. To es exclusivo.
type MovementFilter struct {
	From       *time.Time
	To         *time.Time
	SortBy     string // date | type | quantity
	Descending bool
	Limit      int
	Offset     int
}
