package grievances

import (
	"context"

	"github.com/google/uuid"

	"github.com/nivaranhq/nivaran/internal/identity"
	"github.com/nivaranhq/nivaran/internal/sla"
	"github.com/nivaranhq/nivaran/pkg/pagination"
)

// System defines the public contract for grievance domain operations.
// Every mutation takes the caller's last-seen version; a stale version
// yields ErrConflict with no state change.
type System interface {
	Handler(maxUploadSize int64) *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Grievance], error)

	Find(ctx context.Context, id uuid.UUID) (*Grievance, error)
	Create(ctx context.Context, cmd CreateCommand) (*Grievance, error)

	StartWork(ctx context.Context, id uuid.UUID, version int, actor identity.Actor) (*Grievance, error)
	Assign(ctx context.Context, id uuid.UUID, version int, assignee string, actor identity.Actor) (*Grievance, error)
	UploadEvidence(ctx context.Context, id uuid.UUID, version int, data []byte, contentType string) (*EvidenceReceipt, error)
	AttachReportEvidence(ctx context.Context, id uuid.UUID, version int, data []byte, contentType string) (*Grievance, error)
	Resolve(ctx context.Context, id uuid.UUID, version int, notes *string, actor identity.Actor) (*Grievance, error)
	Reverify(ctx context.Context, id uuid.UUID, version int, approved bool, notes *string, actor identity.Actor) (*Grievance, error)
	Rate(ctx context.Context, id uuid.UUID, version int, rating int) (*Grievance, error)
	Retriage(ctx context.Context, id uuid.UUID, version int, actor identity.Actor) (*Grievance, error)
	Delete(ctx context.Context, id uuid.UUID, actor identity.Actor) error

	Metrics(ctx context.Context, politicianID uuid.UUID) (*sla.MetricsReport, error)
	Stability(ctx context.Context, politicianID uuid.UUID) (*sla.StabilityReport, error)
}
