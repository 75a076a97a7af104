// Package sla implements the service-level clock for grievance handling.
// It owns the priority scale, the fixed hours-to-resolution table, deadline
// computation, and the compliance reports derived from a set of grievances.
package sla

import (
	"encoding/json"
	"slices"
	"time"
)

// Priority represents the urgency level assigned to a grievance.
type Priority string

// Priority levels ordered from most to least urgent.
const (
	PriorityCritical Priority = "CRITICAL"
	PriorityHigh     Priority = "HIGH"
	PriorityMedium   Priority = "MEDIUM"
	PriorityLow      Priority = "LOW"
)

var priorities = []Priority{
	PriorityCritical,
	PriorityHigh,
	PriorityMedium,
	PriorityLow,
}

// Hours-to-resolution per priority level. EmergencyHours applies when
// emergency language overrides the category-derived priority.
const (
	CriticalHours  = 4
	HighHours      = 24
	MediumHours    = 72
	LowHours       = 336
	EmergencyHours = 2
)

var hoursFor = map[Priority]int{
	PriorityCritical: CriticalHours,
	PriorityHigh:     HighHours,
	PriorityMedium:   MediumHours,
	PriorityLow:      LowHours,
}

// Priorities returns the list of valid priority levels.
func Priorities() []Priority {
	return priorities
}

// ParsePriority validates a string as a known priority level.
// Returns ErrInvalidPriority if the value is not recognized.
func ParsePriority(s string) (Priority, error) {
	p := Priority(s)
	if !slices.Contains(priorities, p) {
		return "", ErrInvalidPriority
	}
	return p, nil
}

// UnmarshalJSON validates that the decoded string is a known priority level.
func (p *Priority) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v := Priority(raw)
	if !slices.Contains(priorities, v) {
		return ErrInvalidPriority
	}
	*p = v
	return nil
}

// Hours returns the allowed hours-to-resolution for the priority level.
func (p Priority) Hours() int {
	if h, ok := hoursFor[p]; ok {
		return h
	}
	return LowHours
}

// Deadline computes the resolution deadline for a grievance created at the
// given time with the given priority.
func Deadline(createdAt time.Time, priority Priority) time.Time {
	return createdAt.Add(time.Duration(priority.Hours()) * time.Hour)
}

// DeadlineHours computes the deadline from an explicit hour count, used when
// an emergency override replaces the priority-derived window.
func DeadlineHours(createdAt time.Time, hours int) time.Time {
	return createdAt.Add(time.Duration(hours) * time.Hour)
}
