package triage_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/nivaranhq/nivaran/internal/prompts"
	"github.com/nivaranhq/nivaran/internal/sla"
	"github.com/nivaranhq/nivaran/internal/triage"
)

func TestClassifyKeywords(t *testing.T) {
	tests := []struct {
		name         string
		text         string
		wantCategory triage.Category
		wantPriority sla.Priority
		wantHours    int
	}{
		{
			name:         "health keywords",
			text:         "Hospital has no medicines, patients suffering",
			wantCategory: triage.CategoryHealth,
			wantPriority: sla.PriorityCritical,
			wantHours:    4,
		},
		{
			name:         "electricity keywords",
			text:         "Transformer blown, no power for three days",
			wantCategory: triage.CategoryElectricity,
			wantPriority: sla.PriorityCritical,
			wantHours:    4,
		},
		{
			name:         "water keywords",
			text:         "The borewell in our village has run dry",
			wantCategory: triage.CategoryWater,
			wantPriority: sla.PriorityHigh,
			wantHours:    24,
		},
		{
			name:         "infrastructure keywords",
			text:         "Huge pothole on the main market street",
			wantCategory: triage.CategoryInfrastructure,
			wantPriority: sla.PriorityHigh,
			wantHours:    24,
		},
		{
			name:         "law and order keywords",
			text:         "Repeated theft in our colony, police not responding",
			wantCategory: triage.CategoryLawOrder,
			wantPriority: sla.PriorityHigh,
			wantHours:    24,
		},
		{
			name:         "agriculture keywords",
			text:         "Fertilizer not available before sowing season",
			wantCategory: triage.CategoryAgriculture,
			wantPriority: sla.PriorityMedium,
			wantHours:    72,
		},
		{
			name:         "education keywords",
			text:         "School has had no teacher for two months",
			wantCategory: triage.CategoryEducation,
			wantPriority: sla.PriorityMedium,
			wantHours:    72,
		},
		{
			name:         "welfare keywords",
			text:         "Widow pension has not arrived since January",
			wantCategory: triage.CategoryWelfare,
			wantPriority: sla.PriorityMedium,
			wantHours:    72,
		},
		{
			name:         "forests keywords",
			text:         "Deforestation is wiping out wildlife nearby",
			wantCategory: triage.CategoryForests,
			wantPriority: sla.PriorityLow,
			wantHours:    336,
		},
		{
			name:         "finance keywords",
			text:         "Refund from the revenue office still not processed",
			wantCategory: triage.CategoryFinance,
			wantPriority: sla.PriorityLow,
			wantHours:    336,
		},
		{
			name:         "no match falls back to miscellaneous",
			text:         "Something odd happened near the old well yesterday evening",
			wantCategory: triage.CategoryMiscellaneous,
			wantPriority: sla.PriorityLow,
			wantHours:    336,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := triage.Classify(tt.text, nil)

			if result.Category != tt.wantCategory {
				t.Errorf("category: got %s, want %s", result.Category, tt.wantCategory)
			}
			if result.Priority != tt.wantPriority {
				t.Errorf("priority: got %s, want %s", result.Priority, tt.wantPriority)
			}
			if result.DeadlineHours != tt.wantHours {
				t.Errorf("deadline hours: got %d, want %d", result.DeadlineHours, tt.wantHours)
			}
		})
	}
}

func TestClassifyKeywordPriorityOrder(t *testing.T) {
	// Text matches both health and water tables; health is scanned first.
	result := triage.Classify("Sewage is mixing into the drinking water pipeline", nil)

	if result.Category != triage.CategoryHealth {
		t.Errorf("category: got %s, want %s", result.Category, triage.CategoryHealth)
	}
	if result.Source != triage.SourceKeyword {
		t.Errorf("source: got %s, want %s", result.Source, triage.SourceKeyword)
	}
}

func TestClassifyEmergencyOverride(t *testing.T) {
	hint := triage.CategoryMiscellaneous
	result := triage.Classify("fire in the building, people trapped", &hint)

	if result.Category != triage.CategoryMiscellaneous {
		t.Errorf("category: got %s, want %s", result.Category, triage.CategoryMiscellaneous)
	}
	if result.Priority != sla.PriorityCritical {
		t.Errorf("priority: got %s, want CRITICAL", result.Priority)
	}
	if result.DeadlineHours != sla.EmergencyHours {
		t.Errorf("deadline hours: got %d, want %d", result.DeadlineHours, sla.EmergencyHours)
	}
	if result.Source != triage.SourceEmergency {
		t.Errorf("source: got %s, want %s", result.Source, triage.SourceEmergency)
	}
}

func TestClassifyHintAuthoritative(t *testing.T) {
	// Text alone would match water keywords; a valid hint wins.
	hint := triage.CategoryEducation
	result := triage.Classify("No water in the school for a week", &hint)

	if result.Category != triage.CategoryEducation {
		t.Errorf("category: got %s, want %s", result.Category, triage.CategoryEducation)
	}
	if result.Priority != sla.PriorityMedium {
		t.Errorf("priority: got %s, want MEDIUM", result.Priority)
	}
	if result.Source != triage.SourceHint {
		t.Errorf("source: got %s, want %s", result.Source, triage.SourceHint)
	}
}

func TestClassifyInvalidHintIgnored(t *testing.T) {
	hint := triage.Category("Nonsense")
	result := triage.Classify("Huge pothole on the highway", &hint)

	if result.Category != triage.CategoryInfrastructure {
		t.Errorf("category: got %s, want %s", result.Category, triage.CategoryInfrastructure)
	}
	if result.Source != triage.SourceKeyword {
		t.Errorf("source: got %s, want %s", result.Source, triage.SourceKeyword)
	}
}

func TestParseCategory(t *testing.T) {
	if _, err := triage.ParseCategory("Water & Irrigation"); err != nil {
		t.Errorf("ParseCategory valid: %v", err)
	}
	if _, err := triage.ParseCategory("water"); err == nil {
		t.Error("ParseCategory should reject unknown value")
	}
}

type mockOracle struct {
	response string
	err      error
	called   bool
}

func (m *mockOracle) Complete(ctx context.Context, system, prompt string) (string, error) {
	m.called = true
	return m.response, m.err
}

func (m *mockOracle) CompleteVision(ctx context.Context, system, prompt string, imageURLs []string) (string, error) {
	return "", errors.New("not implemented")
}

type mockPrompts struct {
	prompts.System
}

func (m *mockPrompts) Instructions(ctx context.Context, stage prompts.Stage) (string, error) {
	return "classify the grievance", nil
}

func (m *mockPrompts) Spec(ctx context.Context, stage prompts.Stage) (string, error) {
	return `{"category": "string"}`, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestClassifierOracleRefinesFallback(t *testing.T) {
	orc := &mockOracle{response: `{"category": "Welfare Schemes"}`}
	classifier := triage.New(orc, &mockPrompts{}, testLogger())

	result := classifier.Classify(context.Background(), "Nothing in this text matches a table", nil)

	if !orc.called {
		t.Fatal("oracle should be consulted when keywords are inconclusive")
	}
	if result.Category != triage.CategoryWelfare {
		t.Errorf("category: got %s, want %s", result.Category, triage.CategoryWelfare)
	}
	if result.Priority != sla.PriorityMedium {
		t.Errorf("priority: got %s, want MEDIUM", result.Priority)
	}
	if result.Source != triage.SourceOracle {
		t.Errorf("source: got %s, want %s", result.Source, triage.SourceOracle)
	}
}

func TestClassifierOracleSkippedOnKeywordMatch(t *testing.T) {
	orc := &mockOracle{response: `{"category": "Finance & Taxation"}`}
	classifier := triage.New(orc, &mockPrompts{}, testLogger())

	result := classifier.Classify(context.Background(), "Transformer blown near the clinic", nil)

	if orc.called {
		t.Error("oracle must not be consulted when keywords match")
	}
	if result.Source != triage.SourceKeyword {
		t.Errorf("source: got %s, want %s", result.Source, triage.SourceKeyword)
	}
}

func TestClassifierOracleFailureDegrades(t *testing.T) {
	tests := []struct {
		name   string
		oracle *mockOracle
	}{
		{"call error", &mockOracle{err: errors.New("provider unavailable")}},
		{"unparseable response", &mockOracle{response: "not json at all"}},
		{"unknown category", &mockOracle{response: `{"category": "Astrology"}`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			classifier := triage.New(tt.oracle, &mockPrompts{}, testLogger())

			result := classifier.Classify(context.Background(), "Nothing in this text matches a table", nil)

			if result.Category != triage.CategoryMiscellaneous {
				t.Errorf("category: got %s, want %s", result.Category, triage.CategoryMiscellaneous)
			}
			if result.Priority != sla.PriorityLow {
				t.Errorf("priority: got %s, want LOW", result.Priority)
			}
			if result.Source != triage.SourceFallback {
				t.Errorf("source: got %s, want %s", result.Source, triage.SourceFallback)
			}
		})
	}
}
