// Package verification judges whether uploaded evidence demonstrates that a
// reported issue has been resolved. The judgment is advisory: it produces a
// recommendation, and the grievance domain decides what to do with it.
package verification

// Outcome is the gate's recommendation for a resolution attempt.
type Outcome string

const (
	// OutcomeAutoApprove marks resolutions backed by high-confidence
	// verified evidence.
	OutcomeAutoApprove Outcome = "auto_approve"
	// OutcomeApproveWithReview marks verified resolutions whose confidence
	// warrants a human second look.
	OutcomeApproveWithReview Outcome = "approve_with_review"
	// OutcomeManualReview marks everything else, including every failure
	// mode of the gate itself.
	OutcomeManualReview Outcome = "manual_review"
)

// Request describes a resolution attempt to be judged.
type Request struct {
	// BeforeEvidence is an optional URL to imagery captured when the issue
	// was reported. When present the judgment is comparative.
	BeforeEvidence string
	// AfterEvidence is the URL to imagery captured after the claimed fix.
	AfterEvidence string
	Issue         string
	Category      string
}

// Result is the gate's judgment of a resolution attempt.
type Result struct {
	Verified       bool
	Confidence     float64
	Analysis       string
	Recommendation Outcome
}

// Decide maps a raw verdict to a recommendation using the configured
// confidence thresholds. Only a verified verdict can approve; an unverified
// verdict always routes to manual review regardless of confidence.
func Decide(verified bool, confidence float64, cfg *Config) Outcome {
	if !verified {
		return OutcomeManualReview
	}
	if confidence >= cfg.AutoApproveThreshold {
		return OutcomeAutoApprove
	}
	if confidence >= cfg.ReviewThreshold {
		return OutcomeApproveWithReview
	}
	return OutcomeManualReview
}
