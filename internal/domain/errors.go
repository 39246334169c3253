package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrExternal          = errors.New("error del servicio de identidad")
)

// Error asocia un mensaje para el cliente a una de las categorías de dominio.
// Details es opcional y viaja tal cual en la respuesta HTTP.
type Error struct {
	Kind    error
	Message string
	Details any
}

func (e *Error) Error() string { return e.Message }

// Unwrap permite errors.Is(err, domain.ErrNotFound) y similares.
func (e *Error) Unwrap() error { return e.Kind }

// NewError construye un *Error de la categoría indicada.
func NewError(kind error, message string) error {
	return &Error{Kind: kind, Message: message}
}

// Invalid atajo para errores de validación (400).
func Invalid(message string) error {
	return &Error{Kind: ErrInvalidInput, Message: message}
}

// NotFound atajo para recursos inexistentes o de otro tenant (404).
func NotFound(message string) error {
	return &Error{Kind: ErrNotFound, Message: message}
}

// StockShortage faltante de una variante al aplicar una variación de stock.
type StockShortage struct {
	VariantID string `json:"variant_id"`
	Available int    `json:"available"`
	Requested int    `json:"requested"`
}

// InsufficientStock error de negocio con el detalle por variante.
func InsufficientStock(shortages []StockShortage) error {
	return &Error{Kind: ErrInsufficientStock, Message: "Stock insuficiente", Details: shortages}
}

// ExternalError respuesta de error del servicio de identidad.
type ExternalError struct {
	Status  int
	Message string
}

func (e *ExternalError) Error() string { return e.Message }

func (e *ExternalError) Unwrap() error { return ErrExternal }
