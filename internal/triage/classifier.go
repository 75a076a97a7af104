package triage

import (
	"context"
	"log/slog"

	"github.com/nivaranhq/nivaran/internal/prompts"
	"github.com/nivaranhq/nivaran/internal/sla"
	"github.com/nivaranhq/nivaran/pkg/formatting"
	"github.com/nivaranhq/nivaran/pkg/oracle"
)

// System defines the public contract for grievance classification.
type System interface {
	Classify(ctx context.Context, text string, hint *Category) Result
}

type classifier struct {
	oracle  oracle.System
	prompts prompts.System
	logger  *slog.Logger
}

// New creates an oracle-assisted classifier. The oracle is consulted only
// when keyword matching is inconclusive; oracle failure degrades to the
// keyword result, never to an error.
func New(orc oracle.System, ps prompts.System, logger *slog.Logger) System {
	return &classifier{
		oracle:  orc,
		prompts: ps,
		logger:  logger.With("system", "triage"),
	}
}

// Classify maps grievance text to category, priority, and deadline hours
// using only the fixed rule tables. A valid hint is authoritative for the
// category. Emergency terms force CRITICAL priority with the emergency
// window regardless of category.
func Classify(text string, hint *Category) Result {
	category, source := resolveCategory(text, hint)

	if ContainsEmergency(text) {
		return Result{
			Category:      category,
			Priority:      sla.PriorityCritical,
			DeadlineHours: sla.EmergencyHours,
			Source:        SourceEmergency,
		}
	}

	priority := category.Priority()
	return Result{
		Category:      category,
		Priority:      priority,
		DeadlineHours: priority.Hours(),
		Source:        source,
	}
}

type oracleCategory struct {
	Category string `json:"category"`
}

func (c *classifier) Classify(ctx context.Context, text string, hint *Category) Result {
	result := Classify(text, hint)
	if result.Source != SourceFallback {
		return result
	}

	// Keyword rules were inconclusive; ask the oracle for a category.
	// Priority is always derived from the fixed table, never from the oracle.
	category, ok := c.consultOracle(ctx, text)
	if !ok {
		return result
	}

	priority := category.Priority()
	return Result{
		Category:      category,
		Priority:      priority,
		DeadlineHours: priority.Hours(),
		Source:        SourceOracle,
	}
}

func (c *classifier) consultOracle(ctx context.Context, text string) (Category, bool) {
	system, err := prompts.Compose(ctx, c.prompts, prompts.StageTriage)
	if err != nil {
		c.logger.Warn("triage prompt composition failed", "error", err)
		return CategoryMiscellaneous, false
	}

	content, err := c.oracle.Complete(ctx, system, text)
	if err != nil {
		c.logger.Warn("triage oracle call failed", "error", err)
		return CategoryMiscellaneous, false
	}

	parsed, err := formatting.Parse[oracleCategory](content)
	if err != nil {
		c.logger.Warn("triage oracle response unparseable", "error", err)
		return CategoryMiscellaneous, false
	}

	category, err := ParseCategory(parsed.Category)
	if err != nil {
		c.logger.Warn("triage oracle returned unknown category", "category", parsed.Category)
		return CategoryMiscellaneous, false
	}

	return category, true
}

func resolveCategory(text string, hint *Category) (Category, Source) {
	if hint != nil {
		if _, err := ParseCategory(string(*hint)); err == nil {
			return *hint, SourceHint
		}
	}

	if category, ok := matchCategory(text); ok {
		return category, SourceKeyword
	}

	return CategoryMiscellaneous, SourceFallback
}
