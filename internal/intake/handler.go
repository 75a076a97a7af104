package intake

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/nivaranhq/nivaran/pkg/handlers"
	"github.com/nivaranhq/nivaran/pkg/routes"
)

var errInvalidRequest = errors.New("invalid request body")

// Handler provides the HTTP webhook endpoint for channel intake.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "intake"),
	}
}

// Routes returns the route group definition for intake endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/intake",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/webhook", Handler: h.Webhook},
		},
	}
}

// Webhook processes one inbound channel message and returns the reply body.
func (h *Handler) Webhook(w http.ResponseWriter, r *http.Request) {
	var event Event
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, errInvalidRequest)
		return
	}

	reply, err := h.sys.Process(r.Context(), event)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, reply)
}
