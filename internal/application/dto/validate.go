package dto

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/controlpos-api/internal/domain"
)

var validate = validator.New()

func init() {
	// decimal.Decimal como numérico para min/gt/gte.
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
}

// Validate ejecuta las etiquetas validate del struct. Devuelve un error de dominio
// ErrInvalidInput con el detalle por campo.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return domain.Invalid(err.Error())
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fieldPath(fe)] = fe.Tag()
	}
	return &domain.Error{
		Kind:    domain.ErrInvalidInput,
		Message: fmt.Sprintf("Datos inválidos: %s", describe(verrs[0])),
		Details: fields,
	}
}

// fieldPath quita el nombre del struct raíz: "CheckoutRequest.items[0].quantity" → "items[0].quantity".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fieldPath(fe) + " es requerido"
	case "min", "gt", "gte":
		return fieldPath(fe) + " fuera de rango"
	case "oneof":
		return fieldPath(fe) + " debe ser uno de: " + fe.Param()
	case "email":
		return fieldPath(fe) + " no es un email válido"
	default:
		return fieldPath(fe) + " inválido"
	}
}
