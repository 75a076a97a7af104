package identity

import (
	"fmt"
	"os"
)

// Config holds OIDC verification parameters. When DevToken is set, a request
// bearing exactly that token is authenticated as a registrar without touching
// the OIDC provider; intended for local runs only.
type Config struct {
	Issuer   string `toml:"issuer"`
	ClientID string `toml:"client_id"`
	DevToken string `toml:"dev_token"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Issuer   string
	ClientID string
	DevToken string
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
	if overlay.Issuer != "" {
		c.Issuer = overlay.Issuer
	}
	if overlay.ClientID != "" {
		c.ClientID = overlay.ClientID
	}
	if overlay.DevToken != "" {
		c.DevToken = overlay.DevToken
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Issuer != "" {
		if v := os.Getenv(env.Issuer); v != "" {
			c.Issuer = v
		}
	}
	if env.ClientID != "" {
		if v := os.Getenv(env.ClientID); v != "" {
			c.ClientID = v
		}
	}
	if env.DevToken != "" {
		if v := os.Getenv(env.DevToken); v != "" {
			c.DevToken = v
		}
	}
}

func (c *Config) validate() error {
	if c.DevToken != "" {
		return nil
	}
	if c.Issuer == "" {
		return fmt.Errorf("issuer required")
	}
	if c.ClientID == "" {
		return fmt.Errorf("client_id required")
	}
	return nil
}
