package dto

import (
	"bytes"
	"encoding/json"
)

// fields cuerpo JSON indexado por clave, para aceptar camelCase y snake_case.
type fields map[string]json.RawMessage

func decodeFields(b []byte) (fields, error) {
	var f fields
	if err := json.Unmarshal(b, &f); err != nil {
		return nil, err
	}
	return f, nil
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// has indica si alguna de las claves está presente (aunque sea null).
func (f fields) has(keys ...string) bool {
	for _, k := range keys {
		if _, ok := f[k]; ok {
			return true
		}
	}
	return false
}

// first devuelve el primer valor no nulo entre las claves.
func (f fields) first(keys ...string) (json.RawMessage, bool) {
	for _, k := range keys {
		if raw, ok := f[k]; ok && !isNull(raw) {
			return raw, true
		}
	}
	return nil, false
}

// str primer string no vacío entre las claves. Números se aceptan como texto.
func (f fields) str(keys ...string) string {
	for _, k := range keys {
		raw, ok := f[k]
		if !ok || isNull(raw) {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			if s != "" {
				return s
			}
			continue
		}
		var n json.Number
		if err := json.Unmarshal(raw, &n); err == nil {
			return n.String()
		}
	}
	return ""
}

// nestedID id de un objeto anidado, ej. {"variant": {"id": "..."}}.
func (f fields) nestedID(key string) string {
	raw, ok := f[key]
	if !ok || isNull(raw) {
		return ""
	}
	var obj struct {
		ID json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return ""
	}
	return fields{"id": obj.ID}.str("id")
}

// decode decodifica el primer valor no nulo en dst. false si ninguna clave está presente.
func (f fields) decode(dst any, keys ...string) (bool, error) {
	raw, ok := f.first(keys...)
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dst)
}

// optionalID referencia que puede asignarse o limpiarse (null).
// Set indica que la clave vino en el cuerpo.
func (f fields) optionalID(keys []string, nested string) (value *string, set bool) {
	if !f.has(keys...) && (nested == "" || !f.has(nested)) {
		return nil, false
	}
	if s := f.str(keys...); s != "" {
		return &s, true
	}
	if nested != "" {
		if s := f.nestedID(nested); s != "" {
			return &s, true
		}
	}
	return nil, true
}
