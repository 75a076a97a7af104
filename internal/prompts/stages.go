package prompts

import (
	"encoding/json"
	"slices"
)

// Stage represents an oracle judgment stage that a prompt override targets.
type Stage string

// Valid oracle stages.
const (
	// StageTriage infers an issue category from grievance text when
	// keyword rules are inconclusive.
	StageTriage Stage = "triage"
	// StageVerify judges whether resolution evidence shows the reported
	// issue was actually fixed.
	StageVerify Stage = "verify"
	// StageSentiment produces a narrative summary of aggregated
	// social-media sentiment.
	StageSentiment Stage = "sentiment"
)

var stages = []Stage{
	StageTriage,
	StageVerify,
	StageSentiment,
}

// Stages returns the list of valid oracle stages.
func Stages() []Stage {
	return stages
}

// UnmarshalJSON validates that the decoded string is a known stage value.
func (s *Stage) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v := Stage(raw)
	if !slices.Contains(stages, v) {
		return ErrInvalidStage
	}
	*s = v
	return nil
}

// ParseStage validates a string as a known oracle stage.
// Returns ErrInvalidStage if the value is not recognized.
func ParseStage(s string) (Stage, error) {
	v := Stage(s)
	if !slices.Contains(stages, v) {
		return "", ErrInvalidStage
	}
	return v, nil
}
