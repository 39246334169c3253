// Package stock contiene la lógica pura de reconciliación de cantidades por variante.
package stock

import (
	"sort"

	"github.com/jhoicas/controlpos-api/internal/domain/entity"
)

// Line cantidad solicitada de una variante.
type Line struct {
	VariantID string
	Quantity  int
}

// QuantityMap normaliza un conjunto de líneas a variante → Σcantidad.
// Variantes repetidas se suman; el orden no importa.
func QuantityMap(lines []Line) map[string]int {
	m := make(map[string]int, len(lines))
	for _, l := range lines {
		m[l.VariantID] += l.Quantity
	}
	return m
}

// Equivalent indica si dos conjuntos tienen las mismas variantes con la misma cantidad total.
// Los precios no participan.
func Equivalent(a, b []Line) bool {
	ma, mb := QuantityMap(a), QuantityMap(b)
	if len(ma) != len(mb) {
		return false
	}
	for id, qa := range ma {
		qb, ok := mb[id]
		if !ok || qa != qb {
			return false
		}
	}
	return true
}

// NetDelta consumo adicional por variante: nuevo − anterior.
// Positivo descuenta stock, negativo lo devuelve. Las variantes sin cambio se omiten.
func NetDelta(proposed, previous []Line) map[string]int {
	delta := QuantityMap(proposed)
	for id, q := range QuantityMap(previous) {
		delta[id] -= q
	}
	for id, q := range delta {
		if q == 0 {
			delete(delta, id)
		}
	}
	return delta
}

// RecordEffect variación de stock por variante de un registro de inventario:
// entrada suma y salida resta.
func RecordEffect(recordType string, lines []Line) map[string]int {
	sign := 1
	if recordType == entity.RecordTypeExit {
		sign = -1
	}
	effect := QuantityMap(lines)
	for id := range effect {
		effect[id] *= sign
	}
	return effect
}

// Diff resta dos efectos (a − b) omitiendo ceros.
func Diff(a, b map[string]int) map[string]int {
	out := make(map[string]int, len(a)+len(b))
	for id, q := range a {
		out[id] += q
	}
	for id, q := range b {
		out[id] -= q
	}
	for id, q := range out {
		if q == 0 {
			delete(out, id)
		}
	}
	return out
}

// Negate invierte el signo de cada variación.
func Negate(m map[string]int) map[string]int {
	out := make(map[string]int, len(m))
	for id, q := range m {
		out[id] = -q
	}
	return out
}

// SortedIDs claves ordenadas; fija el orden de bloqueo de filas para evitar deadlocks.
func SortedIDs(m map[string]int) []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// OrderLines convierte ítems de orden a líneas.
func OrderLines(items []entity.OrderItem) []Line {
	lines := make([]Line, 0, len(items))
	for _, it := range items {
		lines = append(lines, Line{VariantID: it.VariantID, Quantity: it.Quantity})
	}
	return lines
}

// RecordLines convierte ítems de registro a líneas.
func RecordLines(items []entity.InventoryRecordItem) []Line {
	lines := make([]Line, 0, len(items))
	for _, it := range items {
		lines = append(lines, Line{VariantID: it.VariantID, Quantity: it.Quantity})
	}
	return lines
}
