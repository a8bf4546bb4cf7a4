package config

import (
	"fmt"
	"os"

	"candle-chart/src/helpers"
	"candle-chart/src/models"

	"gopkg.in/yaml.v3"
)

// -----------------------------------------------------------------------------

// Config wraps models.MConfig and provides business logic methods
type Config struct {
	*models.MConfig
}

// -----------------------------------------------------------------------------

// NewConfig creates a new MConfig instance from YAML file
func NewConfig(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", configPath, err)
	}
	return Parse(data)
}

// Parse decodes YAML config. Fields missing from the render block keep
// their DefaultRenderStyle value.
func Parse(data []byte) (*Config, error) {
	modelConfig := models.MConfig{
		Render: models.DefaultRenderStyle(),
	}
	if err := yaml.Unmarshal(data, &modelConfig); err != nil {
		return nil, &helpers.ConfigurationError{ChartError: helpers.ChartError{Message: "failed to parse config from YAML", Cause: err}}
	}

	config := &Config{MConfig: &modelConfig}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return config, nil
}

// -----------------------------------------------------------------------------

// Validate performs basic configuration validation
func (c *Config) Validate() error {
	if c.Name == "" {
		return helpers.NewConfigurationError("application name cannot be empty")
	}

	if c.Host == "" {
		return helpers.NewConfigurationError("server host cannot be empty")
	}
	if c.Port <= 1024 || c.Port > 65535 {
		return helpers.NewConfigurationError("invalid server port number: %d (must be between 1025 and 65535)", c.Port)
	}
	if c.GrpcPort != 0 && (c.GrpcPort <= 1024 || c.GrpcPort > 65535 || c.GrpcPort == c.Port) {
		return helpers.NewConfigurationError("invalid grpc port number: %d", c.GrpcPort)
	}

	switch c.Storage.DBType {
	case "sqlite":
		if c.Storage.DBPath == "" {
			return helpers.NewConfigurationError("database path cannot be empty for sqlite")
		}
	case "postgres":
		if c.Storage.DBConnectionString == "" {
			return helpers.NewConfigurationError("connection string cannot be empty for postgres")
		}
	case "":
		return helpers.NewConfigurationError("database type cannot be empty")
	default:
		return helpers.NewConfigurationError("unsupported database type: %s", c.Storage.DBType)
	}

	if c.Network.RequestTimeout <= 0 {
		return helpers.NewConfigurationError("request timeout must be greater than 0")
	}
	if c.Network.MaxRetries < 0 {
		return helpers.NewConfigurationError("max retries cannot be negative")
	}
	if c.Network.ConcurrentRequests <= 0 {
		return helpers.NewConfigurationError("concurrent requests must be greater than 0")
	}

	if c.DataSource.UpdateIntervalSeconds <= 0 {
		return helpers.NewConfigurationError("update interval must be greater than 0")
	}
	if c.DataSource.DataRetentionDays <= 0 {
		return helpers.NewConfigurationError("data retention days must be greater than 0")
	}
	if c.DataSource.MaxCandles < 0 || c.DataSource.MaxMemoryMB < 0 {
		return helpers.NewConfigurationError("max candles and max memory cannot be negative")
	}
	for i, src := range c.DataSource.Sources {
		if src.Name == "" {
			return helpers.NewConfigurationError("source %d must have a name", i)
		}
		if len(src.Symbols) == 0 {
			return helpers.NewConfigurationError("source '%s' must have at least one symbol", src.Name)
		}
		if src.Interval == "" {
			return helpers.NewConfigurationError("source '%s' must have an interval", src.Name)
		}
	}

	for i, tf := range c.Timeframes {
		if tf == "" {
			return helpers.NewConfigurationError("timeframe %d cannot be empty", i)
		}
	}

	return validateRender(c.Render)
}

func validateRender(r models.MRenderStyle) error {
	switch {
	case r.Width <= 0 || r.Height <= 0:
		return helpers.NewConfigurationError("render size must be positive, got %gx%g", r.Width, r.Height)
	case r.CandleWidth <= 0:
		return helpers.NewConfigurationError("render candle_width must be positive")
	case r.SpacingRatio < 0:
		return helpers.NewConfigurationError("render spacing_ratio cannot be negative")
	case r.MinCandleWidth > r.MaxCandleWidth && r.MaxCandleWidth > 0:
		return helpers.NewConfigurationError("render min_candle_width exceeds max_candle_width")
	case r.HorizontalDivisions < 0 || r.VerticalDivisions < 0:
		return helpers.NewConfigurationError("render divisions cannot be negative")
	case r.PriceDecimals < 0 || r.PriceDecimals > 10:
		return helpers.NewConfigurationError("render price_decimals must be within 0..10")
	case r.AnimationDuration < 0:
		return helpers.NewConfigurationError("render animation_duration cannot be negative")
	}
	return nil
}

// -----------------------------------------------------------------------------

// AddSymbol registers symbol with the named source, creating the source
// entry with fallback interval if it does not exist. It reports whether
// anything changed.
func (c *Config) AddSymbol(source, symbol, interval string) bool {
	for i := range c.DataSource.Sources {
		src := &c.DataSource.Sources[i]
		if src.Name != source {
			continue
		}
		for _, s := range src.Symbols {
			if s == symbol {
				return false
			}
		}
		src.Symbols = append(src.Symbols, symbol)
		return true
	}

	c.DataSource.Sources = append(c.DataSource.Sources, models.MSourceConfig{
		Name:     source,
		Symbols:  []string{symbol},
		Interval: interval,
	})
	return true
}

// -----------------------------------------------------------------------------

// Save persists the current configuration to the specified YAML file path
func (c *Config) Save(configPath string) error {
	data, err := yaml.Marshal(c.MConfig)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config to file '%s': %w", configPath, err)
	}

	return nil
}
