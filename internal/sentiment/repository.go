package sentiment

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/nivaranhq/nivaran/internal/prompts"
	"github.com/nivaranhq/nivaran/pkg/formatting"
	"github.com/nivaranhq/nivaran/pkg/oracle"
	"github.com/nivaranhq/nivaran/pkg/repository"
)

type repo struct {
	db      *sql.DB
	oracle  oracle.System
	prompts prompts.System
	config  *Config
	logger  *slog.Logger
}

// New creates a sentiment repository implementing the System interface.
func New(
	db *sql.DB,
	orc oracle.System,
	ps prompts.System,
	cfg *Config,
	logger *slog.Logger,
) System {
	return &repo{
		db:      db,
		oracle:  orc,
		prompts: ps,
		config:  cfg,
		logger:  logger.With("system", "sentiment"),
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger)
}

func scanRecord(s repository.Scanner) (Record, error) {
	var rec Record
	err := s.Scan(
		&rec.PoliticianID,
		&rec.Platform,
		&rec.Day,
		&rec.Positive,
		&rec.Neutral,
		&rec.Negative,
		&rec.UpdatedAt,
	)
	return rec, err
}

// Record uses a single-statement upsert so concurrent writers on the same
// key serialize in storage; increments are never lost to read-modify-write
// races.
func (r *repo) Record(ctx context.Context, key Key, delta Counts) (*Record, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	q := `
		INSERT INTO sentiment_records(politician_id, platform, day, positive, neutral, negative)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (politician_id, platform, day)
		DO UPDATE SET
			positive = sentiment_records.positive + EXCLUDED.positive,
			neutral = sentiment_records.neutral + EXCLUDED.neutral,
			negative = sentiment_records.negative + EXCLUDED.negative,
			updated_at = now()
		RETURNING politician_id, platform, day, positive, neutral, negative, updated_at`

	args := []any{key.PoliticianID, key.Platform, key.Day, delta.Positive, delta.Neutral, delta.Negative}

	rec, err := repository.QueryOne(ctx, r.db, q, args, scanRecord)
	if err != nil {
		return nil, fmt.Errorf("record sentiment: %w", err)
	}

	return &rec, nil
}

func (r *repo) Summarize(ctx context.Context, activity PostActivity) Summary {
	summary := Summarize(
		activity.CommentScores,
		activity.Reactions,
		activity.PostText,
		r.config.Weights,
	)
	summary.Narrative = r.narrate(ctx, summary.Counts, activity.PostText)
	return summary
}

func (r *repo) Analyze(ctx context.Context, posts []PostActivity) (*AnalysisReport, error) {
	if len(posts) == 0 {
		return nil, ErrMissingActivity
	}

	ledger := NewLedger()

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(r.config.Workers)

	for _, post := range posts {
		g.Go(func() error {
			summary := Summarize(
				post.CommentScores,
				post.Reactions,
				post.PostText,
				r.config.Weights,
			)
			ledger.Add(Key{
				PoliticianID: post.PoliticianID,
				Platform:     post.Platform,
				Day:          DayOf(post.PostedAt),
			}, summary.Counts)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("analyze posts: %w", err)
	}

	report := &AnalysisReport{Posts: len(posts)}
	for key, counts := range ledger.Drain() {
		if _, err := r.Record(ctx, key, counts); err != nil {
			r.logger.Warn(
				"sentiment flush failed",
				"politician_id", key.PoliticianID,
				"platform", key.Platform,
				"day", key.Day,
				"error", err,
			)
			report.Failures++
			continue
		}
		report.Records++
	}

	r.logger.Info(
		"sentiment batch analyzed",
		"posts", report.Posts,
		"records", report.Records,
		"failures", report.Failures,
	)
	return report, nil
}

// Overview degrades to an empty typed result on storage failure; the mood
// report is advisory and must not take dependent pages down with it.
func (r *repo) Overview(ctx context.Context, politicianID uuid.UUID, from, to string) (*Overview, error) {
	if err := validateRange(from, to); err != nil {
		return nil, err
	}

	overview := &Overview{
		PoliticianID: politicianID,
		From:         from,
		To:           to,
		Platforms:    []PlatformRollup{},
		Overall:      PolarityNeutral,
	}

	q := `
		SELECT platform,
			COALESCE(SUM(positive), 0),
			COALESCE(SUM(neutral), 0),
			COALESCE(SUM(negative), 0)
		FROM sentiment_records
		WHERE politician_id = $1 AND day >= $2 AND day <= $3
		GROUP BY platform
		ORDER BY platform`

	rollups, err := repository.QueryMany(
		ctx, r.db, q,
		[]any{politicianID, from, to},
		func(s repository.Scanner) (PlatformRollup, error) {
			var p PlatformRollup
			err := s.Scan(&p.Platform, &p.Positive, &p.Neutral, &p.Negative)
			p.Overall = p.Counts.Overall()
			return p, err
		},
	)
	if err != nil {
		r.logger.Warn("sentiment overview query failed", "politician_id", politicianID, "error", err)
		return overview, nil
	}

	overview.Platforms = rollups
	for _, p := range rollups {
		overview.Totals = overview.Totals.Add(p.Counts)
	}
	overview.Overall = overview.Totals.Overall()
	overview.Narrative = r.narrate(
		ctx,
		overview.Totals,
		fmt.Sprintf("public reaction across %d platforms from %s to %s", len(rollups), from, to),
	)

	return overview, nil
}

type oracleNarrative struct {
	Summary string `json:"summary"`
}

// narrate asks the oracle for a plain-language reading of the counts.
// Failure degrades to an empty narrative.
func (r *repo) narrate(ctx context.Context, counts Counts, contextText string) string {
	system, err := prompts.Compose(ctx, r.prompts, prompts.StageSentiment)
	if err != nil {
		r.logger.Warn("sentiment prompt composition failed", "error", err)
		return ""
	}

	prompt := fmt.Sprintf(
		"Positive: %.1f\nNeutral: %.1f\nNegative: %.1f\nContext: %s",
		counts.Positive, counts.Neutral, counts.Negative, contextText,
	)

	content, err := r.oracle.Complete(ctx, system, prompt)
	if err != nil {
		r.logger.Warn("sentiment oracle call failed", "error", err)
		return ""
	}

	parsed, err := formatting.Parse[oracleNarrative](content)
	if err != nil {
		r.logger.Warn("sentiment oracle response unparseable", "error", err)
		return ""
	}

	return parsed.Summary
}

func validateKey(key Key) error {
	if key.Platform == "" {
		return ErrInvalidPlatform
	}
	if _, err := time.Parse(time.DateOnly, key.Day); err != nil {
		return ErrInvalidDay
	}
	return nil
}

func validateRange(from, to string) error {
	start, err := time.Parse(time.DateOnly, from)
	if err != nil {
		return ErrInvalidDay
	}
	end, err := time.Parse(time.DateOnly, to)
	if err != nil {
		return ErrInvalidDay
	}
	if start.After(end) {
		return ErrInvalidRange
	}
	return nil
}
