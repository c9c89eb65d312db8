package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProducts(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  map[string]string
	}{
		{
			name:  "default pair",
			input: "DI1:prim_du,DAP:dia_15",
			want:  map[string]string{"DI1": "prim_du", "DAP": "dia_15"},
		},
		{
			name:  "whitespace tolerated",
			input: " DI1 : prim_du , DDI : ult_du ",
			want:  map[string]string{"DI1": "prim_du", "DDI": "ult_du"},
		},
		{
			name:  "malformed entries skipped",
			input: "DI1:prim_du,nocolon,:missing_code,missing_conv:,,",
			want:  map[string]string{"DI1": "prim_du"},
		},
		{
			name:  "empty string",
			input: "",
			want:  map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseProducts(tt.input))
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8090", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "builtin", cfg.Calendar.Source)
	assert.Equal(t, "BMF", cfg.Calendar.Exchange)
	assert.Equal(t, 2.0, cfg.B3.RequestsPerSecond)
	assert.Equal(t, 30*time.Second, cfg.B3.Timeout)
	assert.Equal(t, map[string]string{"DI1": "prim_du", "DAP": "dia_15"}, cfg.Collect.Products)
	assert.Equal(t, "0 0 20 * * MON-FRI", cfg.Collect.Schedule)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("ENV", "production")
	t.Setenv("COLLECT_PRODUCTS", "DDI:ult_du")
	t.Setenv("B3_REQUESTS_PER_SECOND", "0.5")
	t.Setenv("B3_TIMEOUT", "10s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, map[string]string{"DDI": "ult_du"}, cfg.Collect.Products)
	assert.Equal(t, 0.5, cfg.B3.RequestsPerSecond)
	assert.Equal(t, 10*time.Second, cfg.B3.Timeout)
}

func TestLoad_InvalidEnv(t *testing.T) {
	t.Setenv("ENV", "qa")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ENV must be one of")
}

func TestLoad_DatabaseCalendarRequiresURL(t *testing.T) {
	t.Setenv("CALENDAR_SOURCE", "database")
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL is required")
}

func TestLoad_InvalidCalendarSource(t *testing.T) {
	t.Setenv("CALENDAR_SOURCE", "file")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CALENDAR_SOURCE must be builtin or database")
}

func TestLoad_EmptyProducts(t *testing.T) {
	t.Setenv("COLLECT_PRODUCTS", ",,")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one product")
}
