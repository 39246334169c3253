package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// VariantPriceInput precio con nombre de una variante.
type VariantPriceInput struct {
	Name  string          `json:"name" validate:"omitempty,max=100"`
	Price decimal.Decimal `json:"price" validate:"gte=0"`
}

// VariantInput variante a crear junto con el producto.
type VariantInput struct {
	Code   string              `json:"code" validate:"omitempty,max=100"`
	Title  string              `json:"title" validate:"required,max=200"`
	Stock  int                 `json:"stock" validate:"gte=0"`
	Cost   decimal.Decimal     `json:"cost" validate:"gte=0"`
	Prices []VariantPriceInput `json:"prices" validate:"omitempty,dive"`
}

// CreateProductRequest entrada para crear un producto con sus variantes y precios.
type CreateProductRequest struct {
	Name        string         `json:"name" validate:"required,min=1,max=200"`
	Description string         `json:"description"`
	CategoryID  *string        `json:"category_id" validate:"omitempty,uuid"`
	Variants    []VariantInput `json:"variants" validate:"omitempty,dive"`
}

// UpdateProductRequest entrada para actualizar un producto (sin variantes ni stock).
type UpdateProductRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description"`
	CategoryID  *string `json:"category_id" validate:"omitempty,uuid"`
}

// ProductListQuery filtros de GET /api/products.
type ProductListQuery struct {
	Page        int    `query:"page"`
	RowsPerPage int    `query:"rowsPerPage"`
	Search      string `query:"search"`
	Category    string `query:"category"`
}

// VariantPriceResponse precio de una variante.
type VariantPriceResponse struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// VariantResponse variante con precios.
type VariantResponse struct {
	ID     string                 `json:"id"`
	Code   string                 `json:"code"`
	Title  string                 `json:"title"`
	Stock  int                    `json:"stock"`
	Cost   decimal.Decimal        `json:"cost"`
	Prices []VariantPriceResponse `json:"prices"`
}

// CategoryRef categoría embebida en un producto.
type CategoryRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID          string            `json:"id"`
	TenantID    string            `json:"tenant_id"`
	CategoryID  *string           `json:"category_id"`
	Category    *CategoryRef      `json:"category"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Variants    []VariantResponse `json:"variants"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// OrderListItemResponse variante para la pantalla de pedidos.
type OrderListItemResponse struct {
	VariantID    string          `json:"variant_id"`
	ProductID    string          `json:"product_id"`
	ProductName  string          `json:"product_name"`
	VariantTitle string          `json:"variant_title"`
	Code         string          `json:"code"`
	Stock        int             `json:"stock"`
	Price        decimal.Decimal `json:"price"`
}
