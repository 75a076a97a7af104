package verification

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nivaranhq/nivaran/internal/prompts"
	"github.com/nivaranhq/nivaran/pkg/formatting"
	"github.com/nivaranhq/nivaran/pkg/oracle"
)

// System defines the contract for evidence verification.
type System interface {
	// Verify judges a resolution attempt. It never returns an error: any
	// failure of the oracle or its output yields the manual-review result.
	Verify(ctx context.Context, req Request) Result
}

type gate struct {
	oracle  oracle.System
	prompts prompts.System
	config  *Config
	logger  *slog.Logger
}

// New creates a verification gate backed by the vision oracle.
func New(orc oracle.System, ps prompts.System, cfg *Config, logger *slog.Logger) System {
	return &gate{
		oracle:  orc,
		prompts: ps,
		config:  cfg,
		logger:  logger.With("system", "verification"),
	}
}

type oracleVerdict struct {
	IsVerified      bool    `json:"is_verified"`
	ConfidenceScore float64 `json:"confidence_score"`
	Analysis        string  `json:"analysis"`
}

func (g *gate) Verify(ctx context.Context, req Request) Result {
	system, err := prompts.Compose(ctx, g.prompts, prompts.StageVerify)
	if err != nil {
		return g.fallback("verify prompt composition failed", err)
	}

	content, err := g.oracle.CompleteVision(ctx, system, buildPrompt(req), imageURLs(req))
	if err != nil {
		return g.fallback("verify oracle call failed", err)
	}

	verdict, err := formatting.Parse[oracleVerdict](content)
	if err != nil {
		return g.fallback("verify oracle response unparseable", err)
	}

	if verdict.ConfidenceScore < 0 || verdict.ConfidenceScore > 1 {
		return g.fallback(
			"verify confidence out of range",
			fmt.Errorf("confidence_score %f", verdict.ConfidenceScore),
		)
	}

	result := Result{
		Verified:       verdict.IsVerified,
		Confidence:     verdict.ConfidenceScore,
		Analysis:       verdict.Analysis,
		Recommendation: Decide(verdict.IsVerified, verdict.ConfidenceScore, g.config),
	}

	g.logger.Info(
		"evidence judged",
		"verified", result.Verified,
		"confidence", result.Confidence,
		"recommendation", result.Recommendation,
	)

	return result
}

func (g *gate) fallback(msg string, err error) Result {
	g.logger.Warn(msg, "error", err)
	return Result{
		Verified:       false,
		Confidence:     0,
		Analysis:       "automatic verification unavailable",
		Recommendation: OutcomeManualReview,
	}
}

func buildPrompt(req Request) string {
	var sb strings.Builder

	sb.WriteString("Complaint: ")
	sb.WriteString(req.Issue)
	sb.WriteString("\nCategory: ")
	sb.WriteString(req.Category)
	sb.WriteString("\n\n")

	if req.BeforeEvidence != "" {
		sb.WriteString("The first image was captured when the issue was reported. ")
		sb.WriteString("The second image was captured after the claimed resolution. ")
		sb.WriteString("Judge whether the second image shows the specific problem resolved.")
	} else {
		sb.WriteString("The attached image was captured after the claimed resolution. ")
		sb.WriteString("Judge whether it shows the specific problem resolved.")
	}

	return sb.String()
}

func imageURLs(req Request) []string {
	if req.BeforeEvidence != "" {
		return []string{req.BeforeEvidence, req.AfterEvidence}
	}
	return []string{req.AfterEvidence}
}
