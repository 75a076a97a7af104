package grievances

import (
	"net/url"
	"strconv"

	"github.com/google/uuid"

	"github.com/nivaranhq/nivaran/internal/sla"
	"github.com/nivaranhq/nivaran/internal/triage"
	"github.com/nivaranhq/nivaran/pkg/query"
	"github.com/nivaranhq/nivaran/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "grievances", "g").
	Project("id", "ID").
	Project("politician_id", "PoliticianID").
	Project("reporter_name", "ReporterName").
	Project("reporter_phone", "ReporterPhone").
	Project("description", "Description").
	Project("category", "Category").
	Project("priority", "Priority").
	Project("status", "Status").
	Project("location", "Location").
	Project("source", "Source").
	Project("assignee", "Assignee").
	Project("created_at", "CreatedAt").
	Project("deadline", "Deadline").
	Project("resolution_notes", "ResolutionNotes").
	Project("report_evidence_key", "ReportEvidenceKey").
	Project("evidence_key", "EvidenceKey").
	Project("resolved_at", "ResolvedAt").
	Project("resolved_by", "ResolvedBy").
	Project("verification_status", "VerificationStatus").
	Project("confidence", "Confidence").
	Project("verification_notes", "VerificationNotes").
	Project("requires_review", "RequiresReview").
	Project("rating", "Rating").
	Project("version", "Version").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for grievance queries.
// Nil fields are ignored; all filters use exact matching.
type Filters struct {
	PoliticianID   *uuid.UUID `json:"politician_id,omitempty"`
	Status         *Status    `json:"status,omitempty"`
	Category       *string    `json:"category,omitempty"`
	Priority       *string    `json:"priority,omitempty"`
	RequiresReview *bool      `json:"requires_review,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("PoliticianID", f.PoliticianID).
		WhereEquals("Status", f.Status).
		WhereEquals("Category", f.Category).
		WhereEquals("Priority", f.Priority).
		WhereEquals("RequiresReview", f.RequiresReview)
}

// FiltersFromQuery extracts filter values from URL query parameters.
// Invalid values are ignored rather than rejected.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if pid := values.Get("politician_id"); pid != "" {
		if id, err := uuid.Parse(pid); err == nil {
			f.PoliticianID = &id
		}
	}

	if s := values.Get("status"); s != "" {
		if status, err := ParseStatus(s); err == nil {
			f.Status = &status
		}
	}

	if c := values.Get("category"); c != "" {
		if category, err := triage.ParseCategory(c); err == nil {
			value := string(category)
			f.Category = &value
		}
	}

	if p := values.Get("priority"); p != "" {
		if priority, err := sla.ParsePriority(p); err == nil {
			value := string(priority)
			f.Priority = &value
		}
	}

	if rr := values.Get("requires_review"); rr != "" {
		if v, err := strconv.ParseBool(rr); err == nil {
			f.RequiresReview = &v
		}
	}

	return f
}

func scanGrievance(s repository.Scanner) (Grievance, error) {
	var g Grievance
	err := s.Scan(
		&g.ID,
		&g.PoliticianID,
		&g.ReporterName,
		&g.ReporterPhone,
		&g.Description,
		&g.Category,
		&g.Priority,
		&g.Status,
		&g.Location,
		&g.Source,
		&g.Assignee,
		&g.CreatedAt,
		&g.Deadline,
		&g.ResolutionNotes,
		&g.ReportEvidenceKey,
		&g.EvidenceKey,
		&g.ResolvedAt,
		&g.ResolvedBy,
		&g.VerificationStatus,
		&g.Confidence,
		&g.VerificationNotes,
		&g.RequiresReview,
		&g.Rating,
		&g.Version,
		&g.UpdatedAt,
	)
	return g, err
}

func scanItem(s repository.Scanner) (sla.Item, error) {
	var (
		item   sla.Item
		status Status
	)
	err := s.Scan(
		&item.Priority,
		&item.CreatedAt,
		&item.Deadline,
		&status,
		&item.ResolvedAt,
		&item.Rating,
	)
	item.Resolved = status == StatusResolved
	item.InProgress = status == StatusInProgress
	return item, err
}
