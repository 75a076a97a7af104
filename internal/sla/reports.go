package sla

import "time"

// Item is the narrow grievance view the reporting computations consume.
// Domain packages project their entities into Items so reports never
// depend on storage types.
type Item struct {
	Priority   Priority
	CreatedAt  time.Time
	Deadline   time.Time
	Resolved   bool
	InProgress bool
	ResolvedAt *time.Time
	Rating     *int
}

// StabilityReport summarizes SLA compliance and citizen satisfaction
// over a set of grievances.
type StabilityReport struct {
	Total             int     `json:"total"`
	Resolved          int     `json:"resolved"`
	ResolvedWithinSLA int     `json:"resolved_within_sla"`
	SLAPercentage     float64 `json:"sla_percentage"`
	StatusLabel       string  `json:"status_label"`
	CitizenRating     float64 `json:"citizen_rating"`
	RatingCount       int     `json:"rating_count"`
}

// MetricsReport summarizes grievance volume and throughput.
type MetricsReport struct {
	Total          int     `json:"total"`
	Resolved       int     `json:"resolved"`
	Unresolved     int     `json:"unresolved"`
	Pending        int     `json:"pending"`
	InProgress     int     `json:"in_progress"`
	LongPending    int     `json:"long_pending"`
	ResolutionRate float64 `json:"resolution_rate"`
}

// Stability computes the SLA compliance report over a set of grievances.
// A grievance counts as resolved-within-SLA only when its resolution
// timestamp is at or before its deadline; resolved items with no recorded
// resolution timestamp do not count as compliant.
func Stability(items []Item) StabilityReport {
	report := StabilityReport{Total: len(items)}

	var ratingSum int
	for _, item := range items {
		if item.Resolved {
			report.Resolved++
			if item.ResolvedAt != nil && !item.ResolvedAt.After(item.Deadline) {
				report.ResolvedWithinSLA++
			}
		}

		if item.Rating != nil {
			ratingSum += *item.Rating
			report.RatingCount++
		}
	}

	if report.Total > 0 {
		report.SLAPercentage = float64(report.ResolvedWithinSLA) / float64(report.Total) * 100
	}
	if report.RatingCount > 0 {
		report.CitizenRating = float64(ratingSum) / float64(report.RatingCount)
	}

	report.StatusLabel = statusLabel(report.SLAPercentage)
	return report
}

// Metrics computes the volume report over a set of grievances.
// long_pending counts unresolved grievances already past their deadline at now.
func Metrics(items []Item, now time.Time) MetricsReport {
	report := MetricsReport{Total: len(items)}

	for _, item := range items {
		switch {
		case item.Resolved:
			report.Resolved++
		case item.InProgress:
			report.InProgress++
			report.Unresolved++
		default:
			report.Pending++
			report.Unresolved++
		}

		if !item.Resolved && now.After(item.Deadline) {
			report.LongPending++
		}
	}

	if report.Total > 0 {
		report.ResolutionRate = float64(report.Resolved) / float64(report.Total) * 100
	}

	return report
}

func statusLabel(pct float64) string {
	switch {
	case pct >= 75:
		return "Excellent"
	case pct >= 50:
		return "Good"
	case pct >= 30:
		return "Needs Improvement"
	default:
		return "Critical"
	}
}
