package api

import (
	"net/http"

	"github.com/nivaranhq/nivaran/internal/config"
	"github.com/nivaranhq/nivaran/pkg/routes"
	"github.com/nivaranhq/nivaran/pkg/storage"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
	runtime *Runtime,
) {
	evidenceHandler := newStorageHandler(
		runtime.Storage,
		runtime.Logger,
		storage.MaxListCap,
	)

	routes.Register(
		mux,
		domain.Grievances.Handler(cfg.API.MaxUploadSizeBytes()).Routes(),
		domain.Sentiment.Handler().Routes(),
		domain.Intake.Handler().Routes(),
		domain.Prompts.Handler().Routes(),
		evidenceHandler.routes(),
	)
}
