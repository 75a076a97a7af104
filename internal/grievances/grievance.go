// Package grievances implements the constituent grievance domain for Nivaran.
// It provides the grievance lifecycle state machine, data access with
// optimistic concurrency, evidence handling, and the verification-gated
// resolution flow.
package grievances

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/nivaranhq/nivaran/internal/sla"
	"github.com/nivaranhq/nivaran/internal/triage"
)

// Status represents a grievance's position in its lifecycle.
// Transitions are monotonic: PENDING to IN_PROGRESS to RESOLVED.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusInProgress Status = "IN_PROGRESS"
	StatusResolved   Status = "RESOLVED"
)

// Statuses returns all valid statuses in lifecycle order.
func Statuses() []Status {
	return []Status{StatusPending, StatusInProgress, StatusResolved}
}

// ParseStatus validates a string and returns the matching Status.
// Returns ErrInvalidStatus if the value is not a valid status.
func ParseStatus(value string) (Status, error) {
	status := Status(value)
	for _, valid := range Statuses() {
		if status == valid {
			return status, nil
		}
	}
	return "", ErrInvalidStatus
}

// UnmarshalJSON implements json.Unmarshaler with status validation.
func (s *Status) UnmarshalJSON(data []byte) error {
	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}

	status, err := ParseStatus(value)
	if err != nil {
		return err
	}

	*s = status
	return nil
}

// VerificationStatus records the evidence gate's judgment of a grievance.
type VerificationStatus string

const (
	VerificationUnverified VerificationStatus = "unverified"
	VerificationVerified   VerificationStatus = "verified"
	VerificationRejected   VerificationStatus = "rejected"
)

// Source identifies the channel a grievance arrived through.
type Source string

const (
	SourceWeb     Source = "web"
	SourceChannel Source = "channel"
)

// Grievance represents a constituent complaint moving through the
// resolution workflow. Version is the optimistic concurrency token; every
// mutation is a compare-and-set against it.
type Grievance struct {
	ID                 uuid.UUID          `json:"id"`
	PoliticianID       uuid.UUID          `json:"politician_id"`
	ReporterName       *string            `json:"reporter_name"`
	ReporterPhone      *string            `json:"reporter_phone"`
	Description        string             `json:"description"`
	Category           triage.Category    `json:"category"`
	Priority           sla.Priority       `json:"priority"`
	Status             Status             `json:"status"`
	Location           *string            `json:"location"`
	Source             Source             `json:"source"`
	Assignee           *string            `json:"assignee"`
	CreatedAt          time.Time          `json:"created_at"`
	Deadline           time.Time          `json:"deadline"`
	ResolutionNotes    *string            `json:"resolution_notes"`
	ReportEvidenceKey  *string            `json:"report_evidence_key"`
	EvidenceKey        *string            `json:"evidence_key"`
	ResolvedAt         *time.Time         `json:"resolved_at"`
	ResolvedBy         *string            `json:"resolved_by"`
	VerificationStatus VerificationStatus `json:"verification_status"`
	Confidence         float64            `json:"confidence"`
	VerificationNotes  *string            `json:"verification_notes"`
	RequiresReview     bool               `json:"requires_review"`
	Rating             *int               `json:"rating"`
	Version            int                `json:"version"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

// SLAItem projects the grievance into the shape the SLA report
// calculations consume.
func (g Grievance) SLAItem() sla.Item {
	return sla.Item{
		Priority:   g.Priority,
		CreatedAt:  g.CreatedAt,
		Deadline:   g.Deadline,
		Resolved:   g.Status == StatusResolved,
		InProgress: g.Status == StatusInProgress,
		ResolvedAt: g.ResolvedAt,
		Rating:     g.Rating,
	}
}

// CreateCommand carries the data needed to register a new grievance.
// CategoryHint, when valid, is authoritative for classification.
type CreateCommand struct {
	PoliticianID  uuid.UUID        `json:"politician_id"`
	ReporterName  *string          `json:"reporter_name"`
	ReporterPhone *string          `json:"reporter_phone"`
	Description   string           `json:"description"`
	CategoryHint  *triage.Category `json:"category_hint"`
	Location      *string          `json:"location"`
	Source        Source           `json:"source"`
}

// EvidenceReceipt reports the outcome of an evidence upload. CanResolve
// indicates the grievance now satisfies the resolution preconditions.
type EvidenceReceipt struct {
	Grievance  *Grievance `json:"grievance"`
	CanResolve bool       `json:"can_resolve"`
}
