package scale

import (
	"github.com/mbuehler/facezoom/pkg/errors"
)

// Default configuration values.
const (
	// DefaultFactor is the multiplicative step per grow/shrink call.
	DefaultFactor = 1.2

	// DefaultMinHeight and DefaultMaxHeight are the inclusive clamp bounds.
	DefaultMinHeight = 100
	DefaultMaxHeight = 1000

	// DefaultHeight is the fallback when an inheritance chain bottoms out
	// without finding an explicit height.
	DefaultHeight = 180
)

// DefaultExcluded lists the editor chrome faces exempt from scaling.
// Scaling these makes the mode line and minibuffer jump around, which is
// exactly the visual noise this tool exists to avoid.
var DefaultExcluded = []string{
	"mode-line",
	"mode-line-inactive",
	"header-line",
	"minibuffer-prompt",
	"tab-bar",
}

// Config holds the scaling parameters. A Config is plain data injected into
// the Scaler, so tests can run multiple configurations side by side.
type Config struct {
	// Factor is the multiplicative step. Grow multiplies by it, Shrink
	// divides. Must be greater than 1.
	Factor float64 `toml:"factor"`

	// MinHeight and MaxHeight bound written heights, inclusive.
	MinHeight int `toml:"min_height"`
	MaxHeight int `toml:"max_height"`

	// DefaultHeight is used when height resolution finds nothing.
	DefaultHeight int `toml:"default_height"`

	// Excluded names faces exempt from scaling. They are pinned to their
	// effective height before each run instead.
	Excluded []string `toml:"excluded"`
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		Factor:        DefaultFactor,
		MinHeight:     DefaultMinHeight,
		MaxHeight:     DefaultMaxHeight,
		DefaultHeight: DefaultHeight,
		Excluded:      append([]string(nil), DefaultExcluded...),
	}
}

// ApplyDefaults fills zero-valued fields with the documented defaults.
// An explicitly empty exclusion list is preserved only when non-nil.
func (c *Config) ApplyDefaults() {
	if c.Factor == 0 {
		c.Factor = DefaultFactor
	}
	if c.MinHeight == 0 {
		c.MinHeight = DefaultMinHeight
	}
	if c.MaxHeight == 0 {
		c.MaxHeight = DefaultMaxHeight
	}
	if c.DefaultHeight == 0 {
		c.DefaultHeight = DefaultHeight
	}
	if c.Excluded == nil {
		c.Excluded = append([]string(nil), DefaultExcluded...)
	}
}

// Validate checks the configuration invariants.
func (c Config) Validate() error {
	if c.Factor <= 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "factor must be greater than 1, got %v", c.Factor)
	}
	if c.MinHeight <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "min_height must be positive, got %d", c.MinHeight)
	}
	if c.MinHeight >= c.MaxHeight {
		return errors.New(errors.ErrCodeInvalidConfig, "min_height %d must be below max_height %d", c.MinHeight, c.MaxHeight)
	}
	if c.DefaultHeight <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "default_height must be positive, got %d", c.DefaultHeight)
	}
	return nil
}
