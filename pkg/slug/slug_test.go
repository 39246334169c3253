package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMake(t *testing.T) {
	cases := map[string]string{
		"Tienda Ñandú":        "tienda-nandu",
		"  Café & Panadería ": "cafe-panaderia",
		"mi_tienda--2":        "mi-tienda-2",
		"ya-normalizado":      "ya-normalizado",
		"¡¡!!":                "",
	}
	for in, want := range cases {
		assert.Equal(t, want, Make(in), in)
	}
}
