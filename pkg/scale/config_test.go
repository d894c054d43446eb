package scale

import (
	"testing"

	"github.com/mbuehler/facezoom/pkg/errors"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Factor != 1.2 {
		t.Errorf("Factor = %v, want 1.2", cfg.Factor)
	}
	if cfg.MinHeight != 100 || cfg.MaxHeight != 1000 {
		t.Errorf("bounds = [%d, %d], want [100, 1000]", cfg.MinHeight, cfg.MaxHeight)
	}
	if cfg.DefaultHeight != 180 {
		t.Errorf("DefaultHeight = %d, want 180", cfg.DefaultHeight)
	}
	if len(cfg.Excluded) != 5 {
		t.Errorf("Excluded has %d entries, want the 5 chrome faces", len(cfg.Excluded))
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate, got %v", err)
	}
}

func TestApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()

	if cfg.Factor != 1.2 {
		t.Errorf("Factor = %v, want 1.2", cfg.Factor)
	}
	if cfg.MinHeight != 100 || cfg.MaxHeight != 1000 || cfg.DefaultHeight != 180 {
		t.Errorf("defaults not applied: %+v", cfg)
	}
	if cfg.Excluded == nil {
		t.Error("Excluded should be filled with defaults")
	}
}

func TestApplyDefaultsKeepsExplicitValues(t *testing.T) {
	cfg := Config{Factor: 1.1, MinHeight: 50, Excluded: []string{}}
	cfg.ApplyDefaults()

	if cfg.Factor != 1.1 {
		t.Errorf("Factor = %v, want explicit 1.1", cfg.Factor)
	}
	if cfg.MinHeight != 50 {
		t.Errorf("MinHeight = %d, want explicit 50", cfg.MinHeight)
	}
	if len(cfg.Excluded) != 0 {
		t.Error("an explicitly empty exclusion list must be preserved")
	}
	if cfg.MaxHeight != 1000 || cfg.DefaultHeight != 180 {
		t.Error("zero fields should still receive defaults")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(c *Config) {}, true},
		{"factor one", func(c *Config) { c.Factor = 1 }, false},
		{"factor below one", func(c *Config) { c.Factor = 0.8 }, false},
		{"negative min", func(c *Config) { c.MinHeight = -1 }, false},
		{"min above max", func(c *Config) { c.MinHeight = 1200 }, false},
		{"min equals max", func(c *Config) { c.MinHeight = 1000 }, false},
		{"zero default height", func(c *Config) { c.DefaultHeight = -5 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.ok && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
			if !tt.ok {
				if err == nil {
					t.Fatal("Validate() = nil, want error")
				}
				if !errors.Is(err, errors.ErrCodeInvalidConfig) {
					t.Errorf("error code = %q, want INVALID_CONFIG", errors.GetCode(err))
				}
			}
		})
	}
}
