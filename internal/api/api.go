// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"net/http"

	"github.com/nivaranhq/nivaran/internal/config"
	"github.com/nivaranhq/nivaran/internal/infrastructure"
	"github.com/nivaranhq/nivaran/pkg/middleware"
	"github.com/nivaranhq/nivaran/pkg/module"
)

// NewModule creates the API module with all domain handlers and middleware.
// Every API route sits behind bearer-token verification.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(cfg, runtime)

	mux := http.NewServeMux()
	registerRoutes(mux, domain, cfg, runtime)

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Logger))
	m.Use(runtime.Identity.Middleware())

	return m, nil
}
