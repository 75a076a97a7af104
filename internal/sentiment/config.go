package sentiment

import (
	"fmt"
	"math"
)

// Weights control how an angry reaction on an opposition-criticism post is
// split between polarities.
type Weights struct {
	OppositionPositive float64 `toml:"opposition_positive"`
	OppositionNegative float64 `toml:"opposition_negative"`
}

// DefaultWeights returns the standard opposition split.
func DefaultWeights() Weights {
	return Weights{
		OppositionPositive: 0.7,
		OppositionNegative: 0.3,
	}
}

// Config holds sentiment analysis tuning.
type Config struct {
	Workers int     `toml:"workers"`
	Weights Weights `toml:"weights"`
}

// Finalize applies defaults and validation.
func (c *Config) Finalize() error {
	c.loadDefaults()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Workers != 0 {
		c.Workers = overlay.Workers
	}
	if overlay.Weights.OppositionPositive != 0 {
		c.Weights.OppositionPositive = overlay.Weights.OppositionPositive
	}
	if overlay.Weights.OppositionNegative != 0 {
		c.Weights.OppositionNegative = overlay.Weights.OppositionNegative
	}
}

func (c *Config) loadDefaults() {
	if c.Workers == 0 {
		c.Workers = 4
	}
	if c.Weights.OppositionPositive == 0 && c.Weights.OppositionNegative == 0 {
		c.Weights = DefaultWeights()
	}
}

func (c *Config) validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("workers must be positive: %d", c.Workers)
	}
	if c.Weights.OppositionPositive < 0 || c.Weights.OppositionNegative < 0 {
		return fmt.Errorf("opposition weights must be non-negative")
	}
	sum := c.Weights.OppositionPositive + c.Weights.OppositionNegative
	if math.Abs(sum-1) > 1e-9 {
		return fmt.Errorf("opposition weights must sum to 1: %f", sum)
	}
	return nil
}
