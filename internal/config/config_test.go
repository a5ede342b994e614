package config

import (
	"os"
	"path/filepath"
	"testing"
)

// ── Load / Defaults ──

func TestLoadReturnsDefaults(t *testing.T) {
	// Unset any env vars that would interfere
	envVars := []string{
		"VOLSURF_PRICING_SPOT", "VOLSURF_PRICING_RATE", "VOLSURF_PRICING_VOLATILITY",
		"VOLSURF_SURFACE_SPOT_SAMPLES", "VOLSURF_SURFACE_WORKERS",
		"VOLSURF_API_PORT", "VOLSURF_LOGGING_LEVEL",
	}
	for _, e := range envVars {
		os.Unsetenv(e)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	// Pricing defaults
	if cfg.Pricing.Spot != 100.0 {
		t.Errorf("Pricing.Spot: got %f, want 100.0", cfg.Pricing.Spot)
	}
	if cfg.Pricing.Strike != 100.0 {
		t.Errorf("Pricing.Strike: got %f, want 100.0", cfg.Pricing.Strike)
	}
	if cfg.Pricing.Maturity != 1.0 {
		t.Errorf("Pricing.Maturity: got %f, want 1.0", cfg.Pricing.Maturity)
	}
	if cfg.Pricing.Rate != 0.05 {
		t.Errorf("Pricing.Rate: got %f, want 0.05", cfg.Pricing.Rate)
	}
	if cfg.Pricing.Volatility != 0.2 {
		t.Errorf("Pricing.Volatility: got %f, want 0.2", cfg.Pricing.Volatility)
	}

	// Surface defaults
	if cfg.Surface.SpotMin != 80.0 {
		t.Errorf("Surface.SpotMin: got %f, want 80.0", cfg.Surface.SpotMin)
	}
	if cfg.Surface.SpotMax != 120.0 {
		t.Errorf("Surface.SpotMax: got %f, want 120.0", cfg.Surface.SpotMax)
	}
	if cfg.Surface.SpotSamples != 10 {
		t.Errorf("Surface.SpotSamples: got %d, want 10", cfg.Surface.SpotSamples)
	}
	if cfg.Surface.VolMin != 0.1 {
		t.Errorf("Surface.VolMin: got %f, want 0.1", cfg.Surface.VolMin)
	}
	if cfg.Surface.VolMax != 0.3 {
		t.Errorf("Surface.VolMax: got %f, want 0.3", cfg.Surface.VolMax)
	}
	if cfg.Surface.VolSamples != 10 {
		t.Errorf("Surface.VolSamples: got %d, want 10", cfg.Surface.VolSamples)
	}
	if cfg.Surface.Workers != 1 {
		t.Errorf("Surface.Workers: got %d, want 1", cfg.Surface.Workers)
	}

	// Display defaults
	if cfg.Display.Precision != 2 {
		t.Errorf("Display.Precision: got %d, want 2", cfg.Display.Precision)
	}
	if !cfg.Display.Color {
		t.Error("Display.Color should be true by default")
	}

	// API defaults
	if cfg.API.Host != "0.0.0.0" {
		t.Errorf("API.Host: got %q, want %q", cfg.API.Host, "0.0.0.0")
	}
	if cfg.API.Port != 8080 {
		t.Errorf("API.Port: got %d, want 8080", cfg.API.Port)
	}
	if len(cfg.API.CORSOrigins) != 1 || cfg.API.CORSOrigins[0] != "http://localhost:3000" {
		t.Errorf("API.CORSOrigins: got %v", cfg.API.CORSOrigins)
	}

	// Logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level: got %q, want %q", cfg.Logging.Level, "info")
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("Logging.Format: got %q, want %q", cfg.Logging.Format, "text")
	}
}

func TestLoadEnvOverride(t *testing.T) {
	os.Setenv("VOLSURF_API_PORT", "9090")
	os.Setenv("VOLSURF_LOGGING_LEVEL", "debug")
	defer func() {
		os.Unsetenv("VOLSURF_API_PORT")
		os.Unsetenv("VOLSURF_LOGGING_LEVEL")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.API.Port != 9090 {
		t.Errorf("API.Port: got %d, want 9090 from env", cfg.API.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level: got %q, want %q from env", cfg.Logging.Level, "debug")
	}
}

// ── LoadFromFile ──

func TestLoadFromFile(t *testing.T) {
	// Create a temp config file
	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "test_config.yaml")
	content := []byte(`
pricing:
  spot: 250.0
  strike: 240.0
  maturity: 0.5
  rate: 0.03
  volatility: 0.35
surface:
  spot_min: 200.0
  spot_max: 300.0
  spot_samples: 21
  workers: 4
display:
  precision: 3
  color: false
api:
  port: 9090
logging:
  level: "debug"
  format: "json"
`)
	if err := os.WriteFile(cfgPath, content, 0644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}

	os.Unsetenv("VOLSURF_API_PORT")
	os.Unsetenv("VOLSURF_LOGGING_LEVEL")

	cfg, err := LoadFromFile(cfgPath)
	if err != nil {
		t.Fatalf("LoadFromFile() error: %v", err)
	}
	if cfg.Pricing.Spot != 250.0 {
		t.Errorf("Pricing.Spot: got %f, want 250.0", cfg.Pricing.Spot)
	}
	if cfg.Pricing.Maturity != 0.5 {
		t.Errorf("Pricing.Maturity: got %f, want 0.5", cfg.Pricing.Maturity)
	}
	if cfg.Pricing.Volatility != 0.35 {
		t.Errorf("Pricing.Volatility: got %f, want 0.35", cfg.Pricing.Volatility)
	}
	if cfg.Surface.SpotSamples != 21 {
		t.Errorf("Surface.SpotSamples: got %d, want 21", cfg.Surface.SpotSamples)
	}
	if cfg.Surface.Workers != 4 {
		t.Errorf("Surface.Workers: got %d, want 4", cfg.Surface.Workers)
	}
	if cfg.Display.Precision != 3 {
		t.Errorf("Display.Precision: got %d, want 3", cfg.Display.Precision)
	}
	if cfg.Display.Color {
		t.Error("Display.Color should be false from file")
	}
	if cfg.API.Port != 9090 {
		t.Errorf("API.Port: got %d, want 9090", cfg.API.Port)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Logging.Format: got %q, want %q", cfg.Logging.Format, "json")
	}

	// Sections absent from the file keep their defaults.
	if cfg.Surface.VolSamples != 10 {
		t.Errorf("Surface.VolSamples: got %d, want default 10", cfg.Surface.VolSamples)
	}
	if cfg.API.Host != "0.0.0.0" {
		t.Errorf("API.Host: got %q, want default %q", cfg.API.Host, "0.0.0.0")
	}
}

func TestLoadFromFileNotFound(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("LoadFromFile() with nonexistent path should return error")
	}
}

// ── DefaultInputs ──

func TestDefaultInputs(t *testing.T) {
	cfg := &Config{
		Pricing: PricingConfig{Spot: 100, Strike: 100, Maturity: 1, Rate: 0.05, Volatility: 0.2},
		Surface: SurfaceConfig{
			SpotMin: 80, SpotMax: 120, SpotSamples: 10,
			VolMin: 0.1, VolMax: 0.3, VolSamples: 10,
			Workers: 1,
		},
		Display: DisplayConfig{Precision: 2, Color: true},
	}

	in := cfg.DefaultInputs()
	if in.Spot != 100 || in.Strike != 100 || in.Maturity != 1 {
		t.Errorf("pricing fields: got %+v", in)
	}
	if in.Rate != 0.05 || in.Volatility != 0.2 {
		t.Errorf("rate/volatility: got %g/%g, want 0.05/0.2", in.Rate, in.Volatility)
	}
	if in.SpotMin != 80 || in.SpotMax != 120 || in.SpotSamples != 10 {
		t.Errorf("spot range: got %g-%g x%d", in.SpotMin, in.SpotMax, in.SpotSamples)
	}
	if in.VolMin != 0.1 || in.VolMax != 0.3 || in.VolSamples != 10 {
		t.Errorf("vol range: got %g-%g x%d", in.VolMin, in.VolMax, in.VolSamples)
	}
	if in.Precision != 2 {
		t.Errorf("Precision: got %d, want 2", in.Precision)
	}
}

// ── homeDir ──

func TestHomeDirReturnsNonEmpty(t *testing.T) {
	h := homeDir()
	if h == "" {
		t.Error("homeDir() should not return empty string")
	}
}
