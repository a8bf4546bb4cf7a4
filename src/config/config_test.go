package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"candle-chart/src/helpers"
	"candle-chart/src/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
name: candle-chart
host: 0.0.0.0
port: 8090
log_level: INFO
grpc_host: 0.0.0.0
grpc_port: 50061
storage:
  db_type: sqlite
  db_path: data/candles.db
network:
  enabled: false
  timeout: 10
  retries: 2
  concurrent_requests: 4
data_source:
  data_retention_days: 30
  update_interval_seconds: 60
  max_candles: 5000
  sources:
    - name: yahoo
      symbols: [AAPL, MSFT]
      interval: 5m
      range: 5d
timeframes: [5m, 15m, 1h, 1d]
render:
  width: 1024
  bullish: "#00ff00"
  animation_duration: 250ms
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestNewConfig_RenderOverridesDefaults(t *testing.T) {
	cfg, err := NewConfig(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	def := models.DefaultRenderStyle()
	assert.Equal(t, 1024.0, cfg.Render.Width)
	assert.Equal(t, models.MColor("#00ff00"), cfg.Render.Bullish)
	assert.Equal(t, 250*time.Millisecond, cfg.Render.AnimationDuration)
	assert.Equal(t, def.Height, cfg.Render.Height)
	assert.Equal(t, def.Bearish, cfg.Render.Bearish)
	assert.True(t, cfg.Render.ClampTooltip)

	require.Len(t, cfg.DataSource.Sources, 1)
	assert.Equal(t, []string{"AAPL", "MSFT"}, cfg.DataSource.Sources[0].Symbols)
}

func TestNewConfig_ValidationErrors(t *testing.T) {
	cases := []struct {
		name     string
		old, new string
	}{
		{"bad port", "port: 8090", "port: 80"},
		{"no sqlite path", "db_path: data/candles.db", "db_path: \"\""},
		{"unknown db", "db_type: sqlite", "db_type: mongo"},
		{"bad render", "width: 1024", "width: 0"},
		{"no interval", "interval: 5m", "interval: \"\""},
		{"negative divisions", "width: 1024", "width: 1024\n  vertical_divisions: -1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body := strings.Replace(sampleYAML, tc.old, tc.new, 1)
			require.NotEqual(t, sampleYAML, body)

			_, err := NewConfig(writeConfig(t, body))
			require.Error(t, err)
			var cfgErr *helpers.ConfigurationError
			assert.True(t, errors.As(err, &cfgErr), "got %v", err)
		})
	}
}

func TestNewConfig_MissingFile(t *testing.T) {
	_, err := NewConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestAddSymbolAndSave(t *testing.T) {
	path := writeConfig(t, sampleYAML)
	cfg, err := NewConfig(path)
	require.NoError(t, err)

	assert.False(t, cfg.AddSymbol("yahoo", "AAPL", "5m"))
	assert.True(t, cfg.AddSymbol("yahoo", "NVDA", "5m"))
	assert.True(t, cfg.AddSymbol("manual", "BTC-USD", "1h"))
	require.NoError(t, cfg.Save(path))

	reloaded, err := NewConfig(path)
	require.NoError(t, err)
	require.Len(t, reloaded.DataSource.Sources, 2)
	assert.Equal(t, []string{"AAPL", "MSFT", "NVDA"}, reloaded.DataSource.Sources[0].Symbols)
	assert.Equal(t, "1h", reloaded.DataSource.Sources[1].Interval)
	assert.Equal(t, 250*time.Millisecond, reloaded.Render.AnimationDuration)
}
