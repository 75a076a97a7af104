package grievances

import (
	"time"

	"github.com/nivaranhq/nivaran/internal/identity"
	"github.com/nivaranhq/nivaran/internal/sla"
	"github.com/nivaranhq/nivaran/internal/triage"
	"github.com/nivaranhq/nivaran/internal/verification"
)

// Command is a pure lifecycle transition. Commands validate role gating and
// state preconditions; they never touch storage.
type Command interface {
	apply(g Grievance, now time.Time) (Grievance, error)
}

// Apply runs a command against a grievance snapshot and returns the
// transitioned copy. The input is never mutated; on error the grievance is
// returned unchanged.
func Apply(g Grievance, cmd Command, now time.Time) (Grievance, error) {
	next, err := cmd.apply(g, now)
	if err != nil {
		return g, err
	}
	next.UpdatedAt = now
	return next, nil
}

// StartWork moves a pending grievance into IN_PROGRESS.
type StartWork struct {
	Actor identity.Actor
}

func (c StartWork) apply(g Grievance, _ time.Time) (Grievance, error) {
	if !c.Actor.Privileged() {
		return g, ErrForbidden
	}
	if g.Status != StatusPending {
		return g, ErrInvalidTransition
	}
	g.Status = StatusInProgress
	return g, nil
}

// Assign sets the responsible worker, moving a pending grievance into
// IN_PROGRESS as a side effect.
type Assign struct {
	Actor    identity.Actor
	Assignee string
}

func (c Assign) apply(g Grievance, _ time.Time) (Grievance, error) {
	if !c.Actor.Privileged() {
		return g, ErrForbidden
	}
	if g.Status == StatusResolved {
		return g, ErrTerminalState
	}
	g.Assignee = &c.Assignee
	if g.Status == StatusPending {
		g.Status = StatusInProgress
	}
	return g, nil
}

// AttachEvidence records the storage key of uploaded resolution evidence.
// Only a grievance under active work can carry a resolution claim.
type AttachEvidence struct {
	Key string
}

func (c AttachEvidence) apply(g Grievance, _ time.Time) (Grievance, error) {
	if g.Status == StatusResolved {
		return g, ErrTerminalState
	}
	if g.Status != StatusInProgress {
		return g, ErrInvalidTransition
	}
	g.EvidenceKey = &c.Key
	return g, nil
}

// AttachReport records the storage key of imagery captured when the issue
// was reported; the gate uses it for comparative judgment.
type AttachReport struct {
	Key string
}

func (c AttachReport) apply(g Grievance, _ time.Time) (Grievance, error) {
	if g.Status == StatusResolved {
		return g, ErrTerminalState
	}
	g.ReportEvidenceKey = &c.Key
	return g, nil
}

// Resolve applies the verification gate's judgment to a resolution attempt.
// An approving recommendation resolves the grievance; manual review leaves
// it IN_PROGRESS with requires_review set.
type Resolve struct {
	Actor    identity.Actor
	Notes    *string
	Judgment verification.Result
}

func (c Resolve) apply(g Grievance, now time.Time) (Grievance, error) {
	if !c.Actor.Privileged() {
		return g, ErrForbidden
	}
	if err := Resolvable(g); err != nil {
		return g, err
	}

	g.Confidence = c.Judgment.Confidence
	if c.Judgment.Analysis != "" {
		analysis := c.Judgment.Analysis
		g.VerificationNotes = &analysis
	}
	if c.Notes != nil {
		g.ResolutionNotes = c.Notes
	}
	if c.Judgment.Verified {
		g.VerificationStatus = VerificationVerified
	} else {
		g.VerificationStatus = VerificationRejected
	}

	switch c.Judgment.Recommendation {
	case verification.OutcomeAutoApprove:
		g.RequiresReview = false
		resolve(&g, c.Actor, now)
	case verification.OutcomeApproveWithReview:
		g.RequiresReview = true
		resolve(&g, c.Actor, now)
	default:
		// Gate declined or was unavailable; the grievance stays open for
		// a human verdict.
		g.RequiresReview = true
	}

	return g, nil
}

// Reverify records a human reviewer's verdict on a grievance flagged for
// review. Approval resolves an open grievance; rejection reopens a resolved
// one.
type Reverify struct {
	Actor    identity.Actor
	Approved bool
	Notes    *string
}

func (c Reverify) apply(g Grievance, now time.Time) (Grievance, error) {
	if !c.Actor.Privileged() {
		return g, ErrForbidden
	}
	if !g.RequiresReview {
		return g, ErrNoReviewPending
	}

	g.RequiresReview = false
	if c.Notes != nil {
		g.VerificationNotes = c.Notes
	}

	if c.Approved {
		g.VerificationStatus = VerificationVerified
		if g.Status != StatusResolved {
			resolve(&g, c.Actor, now)
		}
		return g, nil
	}

	g.VerificationStatus = VerificationRejected
	g.Status = StatusInProgress
	g.ResolvedAt = nil
	g.ResolvedBy = nil
	return g, nil
}

// Rate records the reporter's satisfaction with a resolved grievance.
type Rate struct {
	Rating int
}

func (c Rate) apply(g Grievance, _ time.Time) (Grievance, error) {
	if g.Status != StatusResolved {
		return g, ErrNotResolved
	}
	if c.Rating < 1 || c.Rating > 5 {
		return g, ErrInvalidRating
	}
	g.Rating = &c.Rating
	return g, nil
}

// Retriage reclassifies an open grievance, recomputing priority and
// deadline from the original creation time.
type Retriage struct {
	Actor  identity.Actor
	Result triage.Result
}

func (c Retriage) apply(g Grievance, _ time.Time) (Grievance, error) {
	if !c.Actor.Privileged() {
		return g, ErrForbidden
	}
	if g.Status == StatusResolved {
		return g, ErrTerminalState
	}
	g.Category = c.Result.Category
	g.Priority = c.Result.Priority
	g.Deadline = sla.DeadlineHours(g.CreatedAt, c.Result.DeadlineHours)
	return g, nil
}

// Resolvable reports whether a grievance satisfies the resolution
// preconditions: it must be IN_PROGRESS with uploaded evidence.
func Resolvable(g Grievance) error {
	switch g.Status {
	case StatusResolved:
		return ErrTerminalState
	case StatusInProgress:
	default:
		return ErrNotResolvable
	}
	if g.EvidenceKey == nil || *g.EvidenceKey == "" {
		return ErrEvidenceRequired
	}
	return nil
}

// CanDelete reports whether the actor's role permits grievance deletion.
func CanDelete(actor identity.Actor) error {
	if actor.Privileged() || actor.Role == identity.RoleRegistrar {
		return nil
	}
	return ErrForbidden
}

func resolve(g *Grievance, actor identity.Actor, now time.Time) {
	g.Status = StatusResolved
	resolvedAt := now
	g.ResolvedAt = &resolvedAt
	resolvedBy := actor.UserID
	g.ResolvedBy = &resolvedBy
}
