package grievances

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/nivaranhq/nivaran/internal/identity"
	"github.com/nivaranhq/nivaran/pkg/handlers"
	"github.com/nivaranhq/nivaran/pkg/pagination"
	"github.com/nivaranhq/nivaran/pkg/routes"
)

var (
	errInvalidRequest     = errors.New("invalid request body")
	errInvalidID          = errors.New("invalid grievance id")
	errInvalidFile        = errors.New("invalid evidence file")
	errFileTooLarge       = errors.New("evidence exceeds maximum upload size")
	errMissingPolitician  = errors.New("politician_id is required")
	errMissingDescription = errors.New("description is required")
)

// Handler provides HTTP endpoints for grievance operations.
type Handler struct {
	sys           System
	logger        *slog.Logger
	pagination    pagination.Config
	maxUploadSize int64
}

// SearchRequest combines pagination and filter criteria for the search endpoint.
type SearchRequest struct {
	pagination.PageRequest
	Filters
}

// NewHandler creates a Handler with the given system, logger, pagination
// config, and upload size limit.
func NewHandler(
	sys System,
	logger *slog.Logger,
	pagination pagination.Config,
	maxUploadSize int64,
) *Handler {
	return &Handler{
		sys:           sys,
		logger:        logger.With("handler", "grievances"),
		pagination:    pagination,
		maxUploadSize: maxUploadSize,
	}
}

// Routes returns the route group definition for grievance endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/grievances",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "GET", Pattern: "/metrics", Handler: h.Metrics},
			{Method: "GET", Pattern: "/stability", Handler: h.Stability},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find},
			{Method: "POST", Pattern: "", Handler: h.Create},
			{Method: "POST", Pattern: "/search", Handler: h.Search},
			{Method: "POST", Pattern: "/{id}/start", Handler: h.StartWork},
			{Method: "POST", Pattern: "/{id}/assign", Handler: h.Assign},
			{Method: "POST", Pattern: "/{id}/evidence", Handler: h.UploadEvidence},
			{Method: "POST", Pattern: "/{id}/resolve", Handler: h.Resolve},
			{Method: "POST", Pattern: "/{id}/reverify", Handler: h.Reverify},
			{Method: "POST", Pattern: "/{id}/rate", Handler: h.Rate},
			{Method: "POST", Pattern: "/{id}/retriage", Handler: h.Retriage},
			{Method: "DELETE", Pattern: "/{id}", Handler: h.Delete},
		},
	}
}

// List returns a paginated list of grievances with optional query parameter filters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())

	result, err := h.sys.List(r.Context(), page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Search accepts a JSON body with pagination and filter criteria and returns
// matching grievances.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, errInvalidRequest)
		return
	}

	req.PageRequest.Normalize(h.pagination)

	result, err := h.sys.List(r.Context(), req.PageRequest, req.Filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Find returns a single grievance by its UUID path parameter.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	g, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, g)
}

// Create registers a new grievance, classifying it for category, priority,
// and deadline.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.actor(w, r); !ok {
		return
	}

	var cmd CreateCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, errInvalidRequest)
		return
	}

	if cmd.PoliticianID == uuid.Nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, errMissingPolitician)
		return
	}

	if strings.TrimSpace(cmd.Description) == "" {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, errMissingDescription)
		return
	}

	g, err := h.sys.Create(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, g)
}

type startRequest struct {
	Version int `json:"version"`
}

// StartWork moves a pending grievance into IN_PROGRESS.
func (h *Handler) StartWork(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var req startRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, errInvalidRequest)
		return
	}

	g, err := h.sys.StartWork(r.Context(), id, req.Version, actor)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, g)
}

type assignRequest struct {
	Version  int    `json:"version"`
	Assignee string `json:"assignee"`
}

// Assign sets the responsible worker for a grievance.
func (h *Handler) Assign(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var req assignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, errInvalidRequest)
		return
	}

	if strings.TrimSpace(req.Assignee) == "" {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, errInvalidRequest)
		return
	}

	g, err := h.sys.Assign(r.Context(), id, req.Version, req.Assignee, actor)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, g)
}

// UploadEvidence processes a multipart form upload containing resolution
// evidence and the caller's last-seen version.
func (h *Handler) UploadEvidence(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.actor(w, r); !ok {
		return
	}

	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, errFileTooLarge)
		return
	}

	version, err := strconv.Atoi(r.FormValue("version"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, errInvalidRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, errInvalidFile)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, errInvalidFile)
		return
	}

	contentType := detectContentType(header.Header.Get("Content-Type"), data)

	receipt, err := h.sys.UploadEvidence(r.Context(), id, version, data, contentType)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, receipt)
}

type resolveRequest struct {
	Version int     `json:"version"`
	Notes   *string `json:"notes"`
}

// Resolve runs the verification gate and applies its judgment.
func (h *Handler) Resolve(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var req resolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, errInvalidRequest)
		return
	}

	g, err := h.sys.Resolve(r.Context(), id, req.Version, req.Notes, actor)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, g)
}

type reverifyRequest struct {
	Version  int     `json:"version"`
	Approved bool    `json:"approved"`
	Notes    *string `json:"notes"`
}

// Reverify records a human reviewer's verdict on a flagged grievance.
func (h *Handler) Reverify(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var req reverifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, errInvalidRequest)
		return
	}

	g, err := h.sys.Reverify(r.Context(), id, req.Version, req.Approved, req.Notes, actor)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, g)
}

type rateRequest struct {
	Version int `json:"version"`
	Rating  int `json:"rating"`
}

// Rate records the reporter's satisfaction with a resolved grievance.
func (h *Handler) Rate(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.actor(w, r); !ok {
		return
	}

	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var req rateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, errInvalidRequest)
		return
	}

	g, err := h.sys.Rate(r.Context(), id, req.Version, req.Rating)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, g)
}

type retriageRequest struct {
	Version int `json:"version"`
}

// Retriage reclassifies an open grievance.
func (h *Handler) Retriage(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var req retriageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, errInvalidRequest)
		return
	}

	g, err := h.sys.Retriage(r.Context(), id, req.Version, actor)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, g)
}

// Delete removes a grievance by its UUID path parameter.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	if err := h.sys.Delete(r.Context(), id, actor); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Metrics returns workload counts for a politician's grievances.
func (h *Handler) Metrics(w http.ResponseWriter, r *http.Request) {
	politicianID, ok := h.politicianID(w, r)
	if !ok {
		return
	}

	report, err := h.sys.Metrics(r.Context(), politicianID)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, report)
}

// Stability returns the SLA compliance report for a politician's grievances.
func (h *Handler) Stability(w http.ResponseWriter, r *http.Request) {
	politicianID, ok := h.politicianID(w, r)
	if !ok {
		return
	}

	report, err := h.sys.Stability(r.Context(), politicianID)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, report)
}

func (h *Handler) actor(w http.ResponseWriter, r *http.Request) (identity.Actor, bool) {
	actor, ok := identity.ActorFrom(r.Context())
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, identity.ErrUnauthorized)
		return identity.Actor{}, false
	}
	return actor, true
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, errInvalidID)
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) politicianID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.URL.Query().Get("politician_id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, errMissingPolitician)
		return uuid.Nil, false
	}
	return id, true
}

func detectContentType(header string, data []byte) string {
	header = strings.TrimSpace(header)
	if header != "" && header != "application/octet-stream" {
		return header
	}
	return http.DetectContentType(data)
}
