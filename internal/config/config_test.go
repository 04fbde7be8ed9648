package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 250, cfg.Engine.LookbackDays)
	assert.Equal(t, "SPY", cfg.Engine.MarketSymbol)
	assert.Equal(t, "VIX", cfg.Engine.VolatilitySymbol)
	assert.Equal(t, 10, cfg.Scanner.Workers)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
engine:
  lookback_days: 300
  market_symbol: QQQ
scanner:
  workers: 4
server:
  port: 9090
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 300, cfg.Engine.LookbackDays)
	assert.Equal(t, "QQQ", cfg.Engine.MarketSymbol)
	assert.Equal(t, "VIX", cfg.Engine.VolatilitySymbol, "untouched keys keep defaults")
	assert.Equal(t, 4, cfg.Scanner.Workers)
	assert.Equal(t, 9090, cfg.Server.Port)
}

func TestLoad_EnvBeatsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
api:
  polygon:
    key: from-file
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))
	t.Setenv("POLYGON_API_KEY", "from-env")
	t.Setenv("ALPACA_API_KEY", "alpaca-key")
	t.Setenv("ALPACA_SECRET_KEY", "alpaca-secret")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.API.Polygon.Key)
	assert.Equal(t, "alpaca-key", cfg.API.Alpaca.KeyID)
	assert.Equal(t, "alpaca-secret", cfg.API.Alpaca.SecretKey)
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("engine: [not a map"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults are valid", func(*Config) {}, ""},
		{"short lookback", func(c *Config) { c.Engine.LookbackDays = 100 }, "lookback_days"},
		{"missing market symbol", func(c *Config) { c.Engine.MarketSymbol = "" }, "market_symbol"},
		{"zero workers", func(c *Config) { c.Scanner.Workers = 0 }, "workers"},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "port"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}
