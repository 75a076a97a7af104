package sentiment

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/nivaranhq/nivaran/pkg/handlers"
	"github.com/nivaranhq/nivaran/pkg/routes"
)

var (
	errInvalidRequest    = errors.New("invalid request body")
	errMissingPolitician = errors.New("politician_id is required")
)

// Handler provides HTTP endpoints for sentiment operations.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "sentiment"),
	}
}

// Routes returns the route group definition for sentiment endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/sentiment",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/record", Handler: h.Record},
			{Method: "POST", Pattern: "/summarize", Handler: h.Summarize},
			{Method: "POST", Pattern: "/analyze", Handler: h.Analyze},
			{Method: "GET", Pattern: "/overview", Handler: h.Overview},
		},
	}
}

type recordRequest struct {
	Key
	Counts
	Score *float64 `json:"score"`
}

// Record accumulates a sentiment delta onto a daily per-platform record.
// A raw polarity score, when present, is partitioned into a unit delta;
// otherwise the pre-partitioned counts are taken as-is.
func (h *Handler) Record(w http.ResponseWriter, r *http.Request) {
	var req recordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, errInvalidRequest)
		return
	}

	if req.PoliticianID == uuid.Nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, errMissingPolitician)
		return
	}

	delta := req.Counts
	if req.Score != nil {
		delta = Delta(*req.Score)
	}

	rec, err := h.sys.Record(r.Context(), req.Key, delta)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, rec)
}

// Summarize aggregates one post's activity without persisting it.
func (h *Handler) Summarize(w http.ResponseWriter, r *http.Request) {
	var activity PostActivity
	if err := json.NewDecoder(r.Body).Decode(&activity); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, errInvalidRequest)
		return
	}

	summary := h.sys.Summarize(r.Context(), activity)
	handlers.RespondJSON(w, http.StatusOK, summary)
}

type analyzeRequest struct {
	Posts []PostActivity `json:"posts"`
}

// Analyze aggregates a batch of posts and flushes the results to storage.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, errInvalidRequest)
		return
	}

	report, err := h.sys.Analyze(r.Context(), req.Posts)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, report)
}

// Overview reports per-platform sentiment rollups for a politician over an
// inclusive day range.
func (h *Handler) Overview(w http.ResponseWriter, r *http.Request) {
	politicianID, err := uuid.Parse(r.URL.Query().Get("politician_id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, errMissingPolitician)
		return
	}

	overview, err := h.sys.Overview(
		r.Context(),
		politicianID,
		r.URL.Query().Get("from"),
		r.URL.Query().Get("to"),
	)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, overview)
}
