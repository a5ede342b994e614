// Package config handles configuration loading for volsurf.
// It supports YAML config files with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/volsurf/volsurf/pkg/models"
)

// Config represents the complete application configuration.
type Config struct {
	Pricing PricingConfig `mapstructure:"pricing" yaml:"pricing"`
	Surface SurfaceConfig `mapstructure:"surface" yaml:"surface"`
	Display DisplayConfig `mapstructure:"display" yaml:"display"`
	API     APIConfig     `mapstructure:"api"     yaml:"api"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

// PricingConfig holds the default pricing parameters a new session
// starts from.
type PricingConfig struct {
	Spot       float64 `mapstructure:"spot"       yaml:"spot"`
	Strike     float64 `mapstructure:"strike"     yaml:"strike"`
	Maturity   float64 `mapstructure:"maturity"   yaml:"maturity"`   // years
	Rate       float64 `mapstructure:"rate"       yaml:"rate"`       // decimal, 0.05 = 5%
	Volatility float64 `mapstructure:"volatility" yaml:"volatility"` // decimal, 0.2 = 20%
}

// SurfaceConfig holds the default grid ranges and the evaluator
// settings.
type SurfaceConfig struct {
	SpotMin     float64 `mapstructure:"spot_min"     yaml:"spot_min"`
	SpotMax     float64 `mapstructure:"spot_max"     yaml:"spot_max"`
	SpotSamples int     `mapstructure:"spot_samples" yaml:"spot_samples"`
	VolMin      float64 `mapstructure:"vol_min"      yaml:"vol_min"`
	VolMax      float64 `mapstructure:"vol_max"      yaml:"vol_max"`
	VolSamples  int     `mapstructure:"vol_samples"  yaml:"vol_samples"`
	Workers     int     `mapstructure:"workers"      yaml:"workers"` // rows evaluated concurrently, 1 = serial
}

// DisplayConfig holds output formatting settings.
type DisplayConfig struct {
	Precision int  `mapstructure:"precision" yaml:"precision"` // axis label decimals
	Color     bool `mapstructure:"color"     yaml:"color"`     // ANSI heatmap colors in terminal output
}

// APIConfig holds HTTP API server settings.
type APIConfig struct {
	Host        string   `mapstructure:"host"         yaml:"host"`
	Port        int      `mapstructure:"port"         yaml:"port"`
	CORSOrigins []string `mapstructure:"cors_origins" yaml:"cors_origins"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `mapstructure:"format" yaml:"format"` // "text" or "json"
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/config.yaml (project root)
//  2. ~/.volsurf/config.yaml (home directory)
//  3. /etc/volsurf/config.yaml (system)
//
// Environment variables override config file values.
// Format: VOLSURF_<SECTION>_<KEY>, e.g., VOLSURF_API_PORT
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Config file settings
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".volsurf"))
	v.AddConfigPath("/etc/volsurf")

	// Environment variable settings
	v.SetEnvPrefix("VOLSURF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (not required to exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found — that's fine, use defaults + env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetEnvPrefix("VOLSURF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// DefaultInputs assembles the session starting state from the
// configured defaults.
func (c *Config) DefaultInputs() models.Inputs {
	return models.Inputs{
		Spot:       c.Pricing.Spot,
		Strike:     c.Pricing.Strike,
		Maturity:   c.Pricing.Maturity,
		Rate:       c.Pricing.Rate,
		Volatility: c.Pricing.Volatility,

		SpotMin:     c.Surface.SpotMin,
		SpotMax:     c.Surface.SpotMax,
		SpotSamples: c.Surface.SpotSamples,
		VolMin:      c.Surface.VolMin,
		VolMax:      c.Surface.VolMax,
		VolSamples:  c.Surface.VolSamples,

		Precision: c.Display.Precision,
	}
}

// setDefaults sets sensible defaults for all config values.
func setDefaults(v *viper.Viper) {
	// Pricing defaults: an at-the-money one-year option
	v.SetDefault("pricing.spot", 100.0)
	v.SetDefault("pricing.strike", 100.0)
	v.SetDefault("pricing.maturity", 1.0)
	v.SetDefault("pricing.rate", 0.05)
	v.SetDefault("pricing.volatility", 0.2)

	// Surface defaults: ±20% around spot, 10% to 30% vol
	v.SetDefault("surface.spot_min", 80.0)
	v.SetDefault("surface.spot_max", 120.0)
	v.SetDefault("surface.spot_samples", 10)
	v.SetDefault("surface.vol_min", 0.1)
	v.SetDefault("surface.vol_max", 0.3)
	v.SetDefault("surface.vol_samples", 10)
	v.SetDefault("surface.workers", 1)

	// Display defaults
	v.SetDefault("display.precision", 2)
	v.SetDefault("display.color", true)

	// API defaults
	v.SetDefault("api.host", "0.0.0.0")
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.cors_origins", []string{"http://localhost:3000"})

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
