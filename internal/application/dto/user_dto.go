package dto

import (
	"encoding/json"
	"time"
)

// RoleInput rol enviado como texto o como opción de un select {label, value}.
type RoleInput string

// UnmarshalJSON acepta "vendedor" o {"label": "Vendedor", "value": "vendedor"}.
func (r *RoleInput) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*r = RoleInput(s)
		return nil
	}
	var opt struct {
		Value string `json:"value"`
		Label string `json:"label"`
	}
	if err := json.Unmarshal(b, &opt); err != nil {
		return err
	}
	if opt.Value != "" {
		*r = RoleInput(opt.Value)
	} else {
		*r = RoleInput(opt.Label)
	}
	return nil
}

// CreateUserRequest entrada para crear un usuario dentro de un tenant.
type CreateUserRequest struct {
	FirstName string    `json:"first_name" validate:"omitempty,max=120"`
	LastName  string    `json:"last_name" validate:"omitempty,max=120"`
	Username  string    `json:"username" validate:"omitempty,max=60"`
	Email     string    `json:"email" validate:"omitempty,email"`
	Password  string    `json:"password"`
	Role      RoleInput `json:"role"`
}

// UnmarshalJSON acepta firstName | first_name y lastName | last_name.
func (r *CreateUserRequest) UnmarshalJSON(b []byte) error {
	f, err := decodeFields(b)
	if err != nil {
		return err
	}
	*r = CreateUserRequest{
		FirstName: f.str("firstName", "first_name"),
		LastName:  f.str("lastName", "last_name"),
		Username:  f.str("username"),
		Email:     f.str("email"),
		Password:  f.str("password"),
	}
	_, err = f.decode(&r.Role, "role")
	return err
}

// CreatedUserResponse salida de la creación de un usuario de tenant.
type CreatedUserResponse struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Username  string `json:"username"`
	Role      string `json:"role"` // administrador | vendedor
	Email     string `json:"email"`
	Status    string `json:"status"`
}

// InviteUserRequest entrada de POST /api/users/invite.
type InviteUserRequest struct {
	Email string    `json:"email" validate:"required,email"`
	Role  RoleInput `json:"role"`
}

// ProfileResponse salida de un perfil.
type ProfileResponse struct {
	ID        string    `json:"id"`
	TenantID  *string   `json:"tenant_id"`
	Role      string    `json:"role"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}
