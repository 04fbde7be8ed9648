// Package config loads the application configuration from YAML, a
// local .env file, and environment variable overrides.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	API     APIConfig     `yaml:"api"`
	Engine  EngineConfig  `yaml:"engine"`
	Scanner ScannerConfig `yaml:"scanner"`
	Server  ServerConfig  `yaml:"server"`
}

// APIConfig holds API provider credentials
type APIConfig struct {
	Alpaca  AlpacaConfig   `yaml:"alpaca"`
	Polygon ProviderConfig `yaml:"polygon"`
	OpenAI  ProviderConfig `yaml:"openai"`
}

// AlpacaConfig holds the Alpaca data API key pair
type AlpacaConfig struct {
	KeyID     string `yaml:"key_id"`
	SecretKey string `yaml:"secret_key"`
	RateLimit int    `yaml:"rate_limit"` // requests per minute
}

// ProviderConfig holds a single-key provider's settings
type ProviderConfig struct {
	Key       string `yaml:"key"`
	RateLimit int    `yaml:"rate_limit"` // requests per minute
}

// EngineConfig holds scoring parameters
type EngineConfig struct {
	LookbackDays     int    `yaml:"lookback_days"`
	MarketSymbol     string `yaml:"market_symbol"`
	VolatilitySymbol string `yaml:"volatility_symbol"`
}

// ScannerConfig holds scanner settings
type ScannerConfig struct {
	Workers  int           `yaml:"workers"`
	Timeout  time.Duration `yaml:"timeout"`
	MinScore int           `yaml:"min_score"`
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port int `yaml:"port"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			Alpaca:  AlpacaConfig{RateLimit: 200},
			Polygon: ProviderConfig{RateLimit: 5},
			OpenAI:  ProviderConfig{RateLimit: 60},
		},
		Engine: EngineConfig{
			LookbackDays:     250,
			MarketSymbol:     "SPY",
			VolatilitySymbol: "VIX",
		},
		Scanner: ScannerConfig{
			Workers: 10,
			Timeout: 5 * time.Minute,
		},
		Server: ServerConfig{
			Port: 8080,
		},
	}
}

// Load loads configuration from a YAML file, then applies .env and
// environment variable overrides. A missing file yields defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Best effort: credentials usually live in a local .env
	_ = godotenv.Load()

	applyEnvOverrides(cfg)

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if key := os.Getenv("ALPACA_API_KEY"); key != "" {
		cfg.API.Alpaca.KeyID = key
	}
	if key := os.Getenv("ALPACA_SECRET_KEY"); key != "" {
		cfg.API.Alpaca.SecretKey = key
	}
	if key := os.Getenv("POLYGON_API_KEY"); key != "" {
		cfg.API.Polygon.Key = key
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		cfg.API.OpenAI.Key = key
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Engine.LookbackDays < 200 {
		return fmt.Errorf("lookback_days must be at least 200 to cover the long trend filter")
	}
	if c.Engine.MarketSymbol == "" {
		return fmt.Errorf("market_symbol is required")
	}
	if c.Scanner.Workers < 1 {
		return fmt.Errorf("workers must be at least 1")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535")
	}
	return nil
}
