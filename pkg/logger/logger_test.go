package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONConServicioYTenant(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Env: "production", Level: "warn", Service: "controlpos-api", Out: &buf})

	l.Info().Msg("descartado")
	assert.Zero(t, buf.Len(), "info queda por debajo del nivel warn")

	l.WithTenant("t-1").Warn().Str("order_id", "o-1").Msg("evento no publicado")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "warn", line["level"])
	assert.Equal(t, "controlpos-api", line["service"])
	assert.Equal(t, "t-1", line["tenant_id"])
	assert.Equal(t, "o-1", line["order_id"])
	assert.Equal(t, "evento no publicado", line["message"])
}

func TestNew_NivelDesconocido(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Env: "production", Level: "verbose", Out: &buf})
	l.Debug().Msg("debug")
	l.Info().Msg("info")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "info", line["level"])
	assert.NotContains(t, line, "service")
}

func TestNop(t *testing.T) {
	assert.NotPanics(t, func() { Nop().WithTenant("t").Error().Msg("x") })
}
