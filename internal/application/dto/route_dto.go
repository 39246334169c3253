package dto

import "time"

// RouteRequest entrada para crear o actualizar una ruta.
type RouteRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=120"`
	Description string `json:"description" validate:"omitempty,max=500"`
	Day         string `json:"day" validate:"omitempty,max=20"`
}

// RouteCustomersRequest entrada de PUT /api/routes/:id/customers.
type RouteCustomersRequest struct {
	CustomerIDs []string `json:"customer_ids" validate:"dive,required"`
}

// UnmarshalJSON acepta customerIds | customer_ids.
func (r *RouteCustomersRequest) UnmarshalJSON(b []byte) error {
	f, err := decodeFields(b)
	if err != nil {
		return err
	}
	*r = RouteCustomersRequest{CustomerIDs: []string{}}
	_, err = f.decode(&r.CustomerIDs, "customerIds", "customer_ids")
	return err
}

// RouteListQuery filtros de GET /api/routes.
type RouteListQuery struct {
	Page       int    `query:"page"`
	Limit      int    `query:"limit"`
	SortBy     string `query:"sortBy"`
	Descending bool   `query:"descending"`
	Search     string `query:"search"`
}

// RouteResponse salida de una ruta.
type RouteResponse struct {
	ID          string             `json:"id"`
	TenantID    string             `json:"tenant_id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Day         string             `json:"day"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
	Customers   []CustomerResponse `json:"customers,omitempty"`
}

// RouteCustomersResponse resultado de la reasignación.
type RouteCustomersResponse struct {
	RouteID  string `json:"route_id"`
	Assigned int    `json:"assigned"`
}
