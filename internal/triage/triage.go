// Package triage implements grievance classification: mapping free-text
// complaints to an issue category, a priority level, and a resolution window.
// Classification is rule-based with an optional oracle assist when keyword
// matching is inconclusive; the oracle can only refine the category, never
// fail a classification.
package triage

import (
	"encoding/json"
	"slices"

	"github.com/nivaranhq/nivaran/internal/sla"
)

// Category represents the issue domain a grievance belongs to.
type Category string

// The fixed set of issue categories.
const (
	CategoryWater          Category = "Water & Irrigation"
	CategoryAgriculture    Category = "Agriculture"
	CategoryForests        Category = "Forests & Environment"
	CategoryHealth         Category = "Health & Sanitation"
	CategoryEducation      Category = "Education"
	CategoryInfrastructure Category = "Infrastructure & Roads"
	CategoryLawOrder       Category = "Law & Order"
	CategoryWelfare        Category = "Welfare Schemes"
	CategoryFinance        Category = "Finance & Taxation"
	CategoryUrbanRural     Category = "Urban & Rural Development"
	CategoryElectricity    Category = "Electricity"
	CategoryMiscellaneous  Category = "Miscellaneous"
)

var categories = []Category{
	CategoryWater,
	CategoryAgriculture,
	CategoryForests,
	CategoryHealth,
	CategoryEducation,
	CategoryInfrastructure,
	CategoryLawOrder,
	CategoryWelfare,
	CategoryFinance,
	CategoryUrbanRural,
	CategoryElectricity,
	CategoryMiscellaneous,
}

// Category-to-priority table. Categories absent from the map fall back to
// the Miscellaneous default (LOW).
var categoryPriority = map[Category]sla.Priority{
	CategoryHealth:         sla.PriorityCritical,
	CategoryElectricity:    sla.PriorityCritical,
	CategoryWater:          sla.PriorityHigh,
	CategoryInfrastructure: sla.PriorityHigh,
	CategoryLawOrder:       sla.PriorityHigh,
	CategoryAgriculture:    sla.PriorityMedium,
	CategoryEducation:      sla.PriorityMedium,
	CategoryWelfare:        sla.PriorityMedium,
	CategoryUrbanRural:     sla.PriorityMedium,
	CategoryForests:        sla.PriorityLow,
	CategoryFinance:        sla.PriorityLow,
	CategoryMiscellaneous:  sla.PriorityLow,
}

// Source records how a classification was produced.
type Source string

// Classification sources.
const (
	SourceHint      Source = "hint"
	SourceKeyword   Source = "keyword"
	SourceOracle    Source = "oracle"
	SourceFallback  Source = "fallback"
	SourceEmergency Source = "emergency"
)

// Result is the outcome of classifying a grievance text.
type Result struct {
	Category      Category     `json:"category"`
	Priority      sla.Priority `json:"priority"`
	DeadlineHours int          `json:"deadline_hours"`
	Source        Source       `json:"source"`
}

// Categories returns the list of valid issue categories.
func Categories() []Category {
	return categories
}

// ParseCategory validates a string as a known issue category.
// Returns ErrInvalidCategory if the value is not recognized.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !slices.Contains(categories, c) {
		return "", ErrInvalidCategory
	}
	return c, nil
}

// UnmarshalJSON validates that the decoded string is a known category.
func (c *Category) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v := Category(raw)
	if !slices.Contains(categories, v) {
		return ErrInvalidCategory
	}
	*c = v
	return nil
}

// Priority returns the priority level the fixed table assigns to the category.
func (c Category) Priority() sla.Priority {
	if p, ok := categoryPriority[c]; ok {
		return p
	}
	return sla.PriorityLow
}
