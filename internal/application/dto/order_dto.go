package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItemInput ítem canónico de una orden.
// Acepta variantId | variant_id | variant.id y variantTitle | variant_title.
type OrderItemInput struct {
	VariantID    string          `json:"variant_id" validate:"required"`
	Quantity     int             `json:"quantity" validate:"gt=0"`
	Price        decimal.Decimal `json:"price" validate:"gte=0"`
	Name         string          `json:"name"`
	VariantTitle string          `json:"variant_title"`
}

// UnmarshalJSON normaliza las distintas convenciones de nombres del cliente.
func (i *OrderItemInput) UnmarshalJSON(b []byte) error {
	f, err := decodeFields(b)
	if err != nil {
		return err
	}
	*i = OrderItemInput{}
	i.VariantID = f.str("variantId", "variant_id")
	if i.VariantID == "" {
		i.VariantID = f.nestedID("variant")
	}
	if _, err := f.decode(&i.Quantity, "quantity"); err != nil {
		return err
	}
	if _, err := f.decode(&i.Price, "price"); err != nil {
		return err
	}
	i.Name = f.str("name")
	i.VariantTitle = f.str("variantTitle", "variant_title")
	return nil
}

// CheckoutRequest entrada de POST /api/orders/checkout.
// Tenant y creador nunca se leen del cuerpo.
type CheckoutRequest struct {
	CustomerID *string          `json:"customer_id"`
	Items      []OrderItemInput `json:"items" validate:"required,min=1,dive"`
	Status     string           `json:"status" validate:"omitempty,max=50"`
	Notes      string           `json:"notes" validate:"omitempty,max=1000"`
	Date       *time.Time       `json:"date"`
}

// UnmarshalJSON acepta customerId | customer_id | customer.id.
func (r *CheckoutRequest) UnmarshalJSON(b []byte) error {
	f, err := decodeFields(b)
	if err != nil {
		return err
	}
	*r = CheckoutRequest{}
	r.CustomerID, _ = f.optionalID([]string{"customerId", "customer_id"}, "customer")
	if _, err := f.decode(&r.Items, "items"); err != nil {
		return err
	}
	r.Status = f.str("status")
	r.Notes = f.str("notes")
	var d Date
	if _, err := f.decode(&d, "date"); err != nil {
		return err
	}
	r.Date = d.Ptr()
	return nil
}

// UpdateOrderRequest entrada de PUT /api/orders/:id.
// Items nil significa que el cliente no envió ítems (solo metadatos).
type UpdateOrderRequest struct {
	Items          []OrderItemInput `json:"items" validate:"omitempty,dive"`
	ItemsSet       bool             `json:"-"`
	CustomerID     *string          `json:"customer_id"`
	CustomerSet    bool             `json:"-"`
	SalespersonID  *string          `json:"salesperson_id"`
	SalespersonSet bool             `json:"-"`
	Status         *string          `json:"status" validate:"omitempty,max=50"`
	Notes          *string          `json:"notes" validate:"omitempty,max=1000"`
}

// UnmarshalJSON registra qué campos vinieron para distinguir "no enviado" de "limpiar".
func (r *UpdateOrderRequest) UnmarshalJSON(b []byte) error {
	f, err := decodeFields(b)
	if err != nil {
		return err
	}
	*r = UpdateOrderRequest{}
	if f.has("items") {
		r.ItemsSet = true
		r.Items = []OrderItemInput{}
		if _, err := f.decode(&r.Items, "items"); err != nil {
			return err
		}
	}
	r.CustomerID, r.CustomerSet = f.optionalID([]string{"customerId", "customer_id"}, "customer")
	r.SalespersonID, r.SalespersonSet = f.optionalID([]string{"salespersonId", "salesperson_id"}, "salesperson")
	if f.has("status") {
		s := f.str("status")
		r.Status = &s
	}
	if f.has("notes") {
		s := f.str("notes")
		r.Notes = &s
	}
	return nil
}

// OrderListQuery filtros de GET /api/orders.
type OrderListQuery struct {
	Page      int    `query:"page"`
	Limit     int    `query:"limit"`
	Status    string `query:"status"`
	StartDate string `query:"startDate"`
	EndDate   string `query:"endDate"`
}

// CustomerRef datos mínimos del cliente embebidos en una orden.
type CustomerRef struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// VariantRef datos de la variante embebidos en un ítem.
type VariantRef struct {
	ID          string `json:"id"`
	Code        string `json:"code"`
	Title       string `json:"title"`
	Stock       int    `json:"stock"`
	ProductName string `json:"product_name"`
}

// OrderItemResponse ítem de orden.
type OrderItemResponse struct {
	ID           string          `json:"id"`
	VariantID    string          `json:"variant_id"`
	Quantity     int             `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	Name         string          `json:"name"`
	VariantTitle string          `json:"variant_title"`
	Variant      *VariantRef     `json:"variant,omitempty"`
}

// OrderResponse salida de una orden.
type OrderResponse struct {
	ID         string              `json:"id"`
	TenantID   string              `json:"tenant_id"`
	CustomerID *string             `json:"customer_id"`
	CreatedBy  *string             `json:"created_by"`
	Total      decimal.Decimal     `json:"total"`
	Status     string              `json:"status"`
	Notes      string              `json:"notes"`
	Date       time.Time           `json:"date"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
	Customer   *CustomerRef        `json:"customer,omitempty"`
	ItemsCount int                 `json:"items_count"`
	Items      []OrderItemResponse `json:"items,omitempty"`
}

// SalesPeriodDTO ventas de un período.
type SalesPeriodDTO struct {
	Orders        int             `json:"orders"`
	Revenue       decimal.Decimal `json:"revenue"`
	AverageTicket decimal.Decimal `json:"average_ticket"`
}

// TopVariantDTO variante más vendida del mes.
type TopVariantDTO struct {
	VariantID    string          `json:"variant_id"`
	ProductName  string          `json:"product_name"`
	VariantTitle string          `json:"variant_title"`
	Quantity     int             `json:"quantity"`
	Revenue      decimal.Decimal `json:"revenue"`
}

// OrderStatsDTO respuesta de GET /api/orders/stats/summary.
type OrderStatsDTO struct {
	Today       SalesPeriodDTO  `json:"today"`
	Month       SalesPeriodDTO  `json:"month"`
	AllTime     SalesPeriodDTO  `json:"all_time"`
	TopVariants []TopVariantDTO `json:"top_variants"`
	DateLabel   string          `json:"date_label"` // ej: "Octubre 2026"
}
