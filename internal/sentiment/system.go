package sentiment

import (
	"context"

	"github.com/google/uuid"
)

// System defines the public contract for sentiment domain operations.
type System interface {
	Handler() *Handler

	// Record atomically accumulates a delta onto a daily per-platform record.
	Record(ctx context.Context, key Key, delta Counts) (*Record, error)
	// Summarize aggregates one post's activity, attaching an oracle
	// narrative when available.
	Summarize(ctx context.Context, activity PostActivity) Summary
	// Analyze runs bounded concurrent aggregation over a batch of posts and
	// flushes the accumulated counts to storage.
	Analyze(ctx context.Context, posts []PostActivity) (*AnalysisReport, error)
	// Overview reports per-platform rollups for a politician over an
	// inclusive day range.
	Overview(ctx context.Context, politicianID uuid.UUID, from, to string) (*Overview, error)
}
