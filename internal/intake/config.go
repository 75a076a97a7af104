package intake

import (
	"fmt"
	"os"

	"github.com/google/uuid"
)

// Config holds channel intake settings. PoliticianID is the office this
// channel serves; events may override it per message.
type Config struct {
	PoliticianID string `toml:"politician_id"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	PoliticianID string
}

// Finalize applies environment variable overrides and validation.
func (c *Config) Finalize(env *Env) error {
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.PoliticianID != "" {
		c.PoliticianID = overlay.PoliticianID
	}
}

// Politician returns the configured politician id, or uuid.Nil when unset.
func (c *Config) Politician() uuid.UUID {
	id, err := uuid.Parse(c.PoliticianID)
	if err != nil {
		return uuid.Nil
	}
	return id
}

func (c *Config) loadEnv(env *Env) {
	if env.PoliticianID != "" {
		if v := os.Getenv(env.PoliticianID); v != "" {
			c.PoliticianID = v
		}
	}
}

func (c *Config) validate() error {
	if c.PoliticianID == "" {
		return nil
	}
	if _, err := uuid.Parse(c.PoliticianID); err != nil {
		return fmt.Errorf("invalid politician_id: %w", err)
	}
	return nil
}
