package grievances

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/nivaranhq/nivaran/internal/identity"
	"github.com/nivaranhq/nivaran/internal/sla"
	"github.com/nivaranhq/nivaran/internal/triage"
	"github.com/nivaranhq/nivaran/internal/verification"
	"github.com/nivaranhq/nivaran/pkg/pagination"
	"github.com/nivaranhq/nivaran/pkg/query"
	"github.com/nivaranhq/nivaran/pkg/repository"
	"github.com/nivaranhq/nivaran/pkg/storage"
)

const returningColumns = `id, politician_id, reporter_name, reporter_phone, description,
		category, priority, status, location, source, assignee, created_at, deadline,
		resolution_notes, report_evidence_key, evidence_key, resolved_at, resolved_by,
		verification_status, confidence, verification_notes, requires_review, rating,
		version, updated_at`

type repo struct {
	db         *sql.DB
	storage    storage.System
	triage     triage.System
	gate       verification.System
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a grievance repository implementing the System interface.
func New(
	db *sql.DB,
	store storage.System,
	classifier triage.System,
	gate verification.System,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		storage:    store,
		triage:     classifier,
		gate:       gate,
		logger:     logger.With("system", "grievances"),
		pagination: pagination,
	}
}

func (r *repo) Handler(maxUploadSize int64) *Handler {
	return NewHandler(r, r.logger, r.pagination, maxUploadSize)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Grievance], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Description", "Location", "Assignee")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count grievances: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	grievances, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanGrievance)
	if err != nil {
		return nil, fmt.Errorf("query grievances: %w", err)
	}

	result := pagination.NewPageResult(grievances, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Grievance, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	g, err := repository.QueryOne(ctx, r.db, q, args, scanGrievance)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrConflict)
	}
	return &g, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Grievance, error) {
	classified := r.triage.Classify(ctx, cmd.Description, cmd.CategoryHint)

	source := cmd.Source
	if source == "" {
		source = SourceWeb
	}

	now := time.Now().UTC()
	deadline := sla.DeadlineHours(now, classified.DeadlineHours)

	q := fmt.Sprintf(`
		INSERT INTO grievances(
			id, politician_id, reporter_name, reporter_phone, description,
			category, priority, status, location, source, created_at, deadline,
			verification_status, version, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING %s`, returningColumns)

	args := []any{
		uuid.New(),
		cmd.PoliticianID,
		cmd.ReporterName,
		cmd.ReporterPhone,
		cmd.Description,
		classified.Category,
		classified.Priority,
		StatusPending,
		cmd.Location,
		source,
		now,
		deadline,
		VerificationUnverified,
		1,
		now,
	}

	g, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Grievance, error) {
		return repository.QueryOne(ctx, tx, q, args, scanGrievance)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrConflict)
	}

	r.logger.Info(
		"grievance created",
		"id", g.ID,
		"category", g.Category,
		"priority", g.Priority,
		"triage_source", classified.Source,
	)
	return &g, nil
}

func (r *repo) StartWork(ctx context.Context, id uuid.UUID, version int, actor identity.Actor) (*Grievance, error) {
	return r.mutate(ctx, id, version, StartWork{Actor: actor})
}

func (r *repo) Assign(ctx context.Context, id uuid.UUID, version int, assignee string, actor identity.Actor) (*Grievance, error) {
	return r.mutate(ctx, id, version, Assign{Actor: actor, Assignee: assignee})
}

func (r *repo) UploadEvidence(
	ctx context.Context,
	id uuid.UUID,
	version int,
	data []byte,
	contentType string,
) (*EvidenceReceipt, error) {
	key := resolutionEvidenceKey(id)

	if err := r.storage.Upload(ctx, key, bytes.NewReader(data), contentType); err != nil {
		return nil, fmt.Errorf("upload evidence blob: %w", err)
	}

	g, err := r.mutate(ctx, id, version, AttachEvidence{Key: key})
	if err != nil {
		if delErr := r.storage.Delete(ctx, key); delErr != nil {
			r.logger.Warn("compensating blob delete failed", "key", key, "error", delErr)
		}
		return nil, err
	}

	return &EvidenceReceipt{
		Grievance:  g,
		CanResolve: Resolvable(*g) == nil,
	}, nil
}

func (r *repo) AttachReportEvidence(
	ctx context.Context,
	id uuid.UUID,
	version int,
	data []byte,
	contentType string,
) (*Grievance, error) {
	key := reportEvidenceKey(id)

	if err := r.storage.Upload(ctx, key, bytes.NewReader(data), contentType); err != nil {
		return nil, fmt.Errorf("upload report evidence blob: %w", err)
	}

	g, err := r.mutate(ctx, id, version, AttachReport{Key: key})
	if err != nil {
		if delErr := r.storage.Delete(ctx, key); delErr != nil {
			r.logger.Warn("compensating blob delete failed", "key", key, "error", delErr)
		}
		return nil, err
	}

	return g, nil
}

// Resolve obtains the verification judgment before any mutation so no
// database state is held across the oracle call. The version is rechecked
// by the compare-and-set write afterwards.
func (r *repo) Resolve(
	ctx context.Context,
	id uuid.UUID,
	version int,
	notes *string,
	actor identity.Actor,
) (*Grievance, error) {
	if !actor.Privileged() {
		return nil, ErrForbidden
	}

	current, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Version != version {
		return nil, ErrConflict
	}
	if err := Resolvable(*current); err != nil {
		return nil, err
	}

	judgment := r.judgeEvidence(ctx, *current)

	return r.mutate(ctx, id, version, Resolve{
		Actor:    actor,
		Notes:    notes,
		Judgment: judgment,
	})
}

func (r *repo) Reverify(
	ctx context.Context,
	id uuid.UUID,
	version int,
	approved bool,
	notes *string,
	actor identity.Actor,
) (*Grievance, error) {
	return r.mutate(ctx, id, version, Reverify{
		Actor:    actor,
		Approved: approved,
		Notes:    notes,
	})
}

func (r *repo) Rate(ctx context.Context, id uuid.UUID, version int, rating int) (*Grievance, error) {
	return r.mutate(ctx, id, version, Rate{Rating: rating})
}

func (r *repo) Retriage(ctx context.Context, id uuid.UUID, version int, actor identity.Actor) (*Grievance, error) {
	current, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Version != version {
		return nil, ErrConflict
	}

	classified := r.triage.Classify(ctx, current.Description, nil)

	return r.mutate(ctx, id, version, Retriage{Actor: actor, Result: classified})
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID, actor identity.Actor) error {
	if err := CanDelete(actor); err != nil {
		return err
	}

	g, err := r.Find(ctx, id)
	if err != nil {
		return err
	}

	_, err = repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM grievances WHERE id = $1",
			id,
		); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrConflict)
	}

	for _, key := range evidenceKeys(*g) {
		if delErr := r.storage.Delete(ctx, key); delErr != nil && !errors.Is(delErr, storage.ErrNotFound) {
			r.logger.Warn("blob delete failed after DB delete", "key", key, "error", delErr)
		}
	}

	r.logger.Info("grievance deleted", "id", id, "by", actor.UserID)
	return nil
}

const itemsQuery = `
	SELECT priority, created_at, deadline, status, resolved_at, rating
	FROM grievances
	WHERE politician_id = $1`

func (r *repo) Metrics(ctx context.Context, politicianID uuid.UUID) (*sla.MetricsReport, error) {
	items, err := repository.QueryMany(ctx, r.db, itemsQuery, []any{politicianID}, scanItem)
	if err != nil {
		return nil, fmt.Errorf("query grievance items: %w", err)
	}

	report := sla.Metrics(items, time.Now().UTC())
	return &report, nil
}

func (r *repo) Stability(ctx context.Context, politicianID uuid.UUID) (*sla.StabilityReport, error) {
	items, err := repository.QueryMany(ctx, r.db, itemsQuery, []any{politicianID}, scanItem)
	if err != nil {
		return nil, fmt.Errorf("query grievance items: %w", err)
	}

	report := sla.Stability(items)
	return &report, nil
}

// mutate loads the current row, checks the expected version, applies the
// pure transition, and writes with a compare-and-set on version. A lost
// race yields ErrConflict.
func (r *repo) mutate(ctx context.Context, id uuid.UUID, version int, cmd Command) (*Grievance, error) {
	g, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Grievance, error) {
		findQ, findArgs := query.NewBuilder(projection).BuildSingle("ID", id)
		current, err := repository.QueryOne(ctx, tx, findQ, findArgs, scanGrievance)
		if err != nil {
			return Grievance{}, err
		}

		if current.Version != version {
			return Grievance{}, ErrConflict
		}

		next, err := Apply(current, cmd, time.Now().UTC())
		if err != nil {
			return Grievance{}, err
		}

		return r.write(ctx, tx, next, version)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrConflict)
	}

	return &g, nil
}

func (r *repo) write(ctx context.Context, tx *sql.Tx, g Grievance, expected int) (Grievance, error) {
	q := fmt.Sprintf(`
		UPDATE grievances
		SET category = $1, priority = $2, status = $3, assignee = $4, deadline = $5,
			resolution_notes = $6, report_evidence_key = $7, evidence_key = $8,
			resolved_at = $9, resolved_by = $10, verification_status = $11,
			confidence = $12, verification_notes = $13, requires_review = $14,
			rating = $15, updated_at = $16, version = version + 1
		WHERE id = $17 AND version = $18
		RETURNING %s`, returningColumns)

	args := []any{
		g.Category,
		g.Priority,
		g.Status,
		g.Assignee,
		g.Deadline,
		g.ResolutionNotes,
		g.ReportEvidenceKey,
		g.EvidenceKey,
		g.ResolvedAt,
		g.ResolvedBy,
		g.VerificationStatus,
		g.Confidence,
		g.VerificationNotes,
		g.RequiresReview,
		g.Rating,
		g.UpdatedAt,
		g.ID,
		expected,
	}

	updated, err := repository.QueryOne(ctx, tx, q, args, scanGrievance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Grievance{}, ErrConflict
		}
		return Grievance{}, err
	}

	return updated, nil
}

// judgeEvidence prepares the gate request from stored blobs. Any failure to
// materialize the resolution evidence yields the manual-review judgment;
// a missing report blob just downgrades to an after-only judgment.
func (r *repo) judgeEvidence(ctx context.Context, g Grievance) verification.Result {
	after, err := r.evidenceDataURL(ctx, *g.EvidenceKey)
	if err != nil {
		r.logger.Warn("resolution evidence unavailable", "id", g.ID, "error", err)
		return verification.Result{
			Analysis:       "resolution evidence unavailable",
			Recommendation: verification.OutcomeManualReview,
		}
	}

	var before string
	if g.ReportEvidenceKey != nil {
		before, err = r.evidenceDataURL(ctx, *g.ReportEvidenceKey)
		if err != nil {
			r.logger.Warn("report evidence unavailable", "id", g.ID, "error", err)
			before = ""
		}
	}

	return r.gate.Verify(ctx, verification.Request{
		BeforeEvidence: before,
		AfterEvidence:  after,
		Issue:          g.Description,
		Category:       string(g.Category),
	})
}

func (r *repo) evidenceDataURL(ctx context.Context, key string) (string, error) {
	dl, err := r.storage.Download(ctx, key)
	if err != nil {
		return "", fmt.Errorf("download blob %s: %w", key, err)
	}
	defer dl.Body.Close()

	data, err := io.ReadAll(dl.Body)
	if err != nil {
		return "", fmt.Errorf("read blob %s: %w", key, err)
	}

	contentType := dl.ContentType
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	return fmt.Sprintf(
		"data:%s;base64,%s",
		contentType,
		base64.StdEncoding.EncodeToString(data),
	), nil
}

func resolutionEvidenceKey(id uuid.UUID) string {
	return fmt.Sprintf("evidence/%s/resolution", id)
}

func reportEvidenceKey(id uuid.UUID) string {
	return fmt.Sprintf("evidence/%s/report", id)
}

func evidenceKeys(g Grievance) []string {
	var keys []string
	if g.ReportEvidenceKey != nil {
		keys = append(keys, *g.ReportEvidenceKey)
	}
	if g.EvidenceKey != nil {
		keys = append(keys, *g.EvidenceKey)
	}
	return keys
}
