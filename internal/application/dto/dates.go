package dto

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/jhoicas/controlpos-api/internal/domain"
)

// Formatos aceptados para fechas de entrada.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDay interpreta YYYY-MM-DD o YYYY/MM/DD como el inicio de ese día (UTC).
func ParseDay(s string) (time.Time, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, "/", "-"))
	if s == "" {
		return time.Time{}, false
	}
	if len(s) > 10 {
		s = s[:10]
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// DayRange convierte fechas inicio/fin (inclusivas, por día) a un rango [from, to).
// Fechas vacías o inválidas se ignoran.
func DayRange(start, end string) (from, to *time.Time) {
	if t, ok := ParseDay(start); ok {
		from = &t
	}
	if t, ok := ParseDay(end); ok {
		next := t.AddDate(0, 0, 1)
		to = &next
	}
	return from, to
}

// ParseDate acepta RFC3339 o fecha simple (con - o /).
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, strings.ReplaceAll(s, "/", "-")); err == nil {
			return t, nil
		}
	}
	return time.Time{}, domain.Invalid("Fecha inválida: " + s)
}

// Date fecha de entrada tolerante a varios formatos.
type Date struct {
	time.Time
}

// UnmarshalJSON acepta cadenas en cualquiera de los formatos de ParseDate.
func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return domain.Invalid("Fecha inválida")
	}
	if s == "" {
		d.Time = time.Time{}
		return nil
	}
	t, err := ParseDate(s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// Ptr devuelve nil si la fecha no fue enviada.
func (d *Date) Ptr() *time.Time {
	if d == nil || d.IsZero() {
		return nil
	}
	t := d.Time
	return &t
}
