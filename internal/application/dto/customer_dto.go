package dto

import "time"

// CustomerRequest entrada para crear o actualizar un cliente.
type CustomerRequest struct {
	FirstName string  `json:"first_name" validate:"required,min=1,max=120"`
	LastName  string  `json:"last_name" validate:"omitempty,max=120"`
	Email     string  `json:"email" validate:"omitempty,email"`
	Phone     string  `json:"phone" validate:"omitempty,max=40"`
	Address   string  `json:"address" validate:"omitempty,max=300"`
	RouteID   *string `json:"route_id" validate:"omitempty,uuid"`
}

// UnmarshalJSON acepta firstName | first_name, lastName | last_name y routeId | route_id.
func (r *CustomerRequest) UnmarshalJSON(b []byte) error {
	f, err := decodeFields(b)
	if err != nil {
		return err
	}
	*r = CustomerRequest{
		FirstName: f.str("firstName", "first_name"),
		LastName:  f.str("lastName", "last_name"),
		Email:     f.str("email"),
		Phone:     f.str("phone"),
		Address:   f.str("address"),
	}
	r.RouteID, _ = f.optionalID([]string{"routeId", "route_id"}, "route")
	return nil
}

// CustomerListQuery filtros de GET /api/customers.
type CustomerListQuery struct {
	Page   int    `query:"page"`
	Limit  int    `query:"limit"`
	Search string `query:"search"`
}

// CustomerResponse salida de un cliente.
type CustomerResponse struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	RouteID   *string   `json:"route_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
