// Package sentiment implements public-reaction aggregation for Nivaran.
// It partitions comment scores into polarity counts, remaps raw reactions
// by post context when no comments exist, and accumulates daily per-platform
// records for constituency mood reporting.
package sentiment

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Polarity classifies a sentiment score or an aggregate mood.
type Polarity string

const (
	PolarityPositive Polarity = "positive"
	PolarityNeutral  Polarity = "neutral"
	PolarityNegative Polarity = "negative"
)

// Partition classifies a comment sentiment score in [-1, 1]. Scores within
// 0.1 of zero are neutral.
func Partition(score float64) Polarity {
	switch {
	case score > 0.1:
		return PolarityPositive
	case score < -0.1:
		return PolarityNegative
	default:
		return PolarityNeutral
	}
}

// Delta converts a single polarity score into a unit counts increment.
func Delta(score float64) Counts {
	switch Partition(score) {
	case PolarityPositive:
		return Counts{Positive: 1}
	case PolarityNegative:
		return Counts{Negative: 1}
	default:
		return Counts{Neutral: 1}
	}
}

// Counts holds polarity totals. Fractional values occur when a reaction
// class is split across polarities.
type Counts struct {
	Positive float64 `json:"positive"`
	Neutral  float64 `json:"neutral"`
	Negative float64 `json:"negative"`
}

// Add returns the element-wise sum of two counts.
func (c Counts) Add(other Counts) Counts {
	return Counts{
		Positive: c.Positive + other.Positive,
		Neutral:  c.Neutral + other.Neutral,
		Negative: c.Negative + other.Negative,
	}
}

// Overall returns the dominant polarity; ties resolve to neutral.
func (c Counts) Overall() Polarity {
	switch {
	case c.Positive > c.Negative && c.Positive > c.Neutral:
		return PolarityPositive
	case c.Negative > c.Positive && c.Negative > c.Neutral:
		return PolarityNegative
	default:
		return PolarityNeutral
	}
}

// Reactions holds raw reaction counts from a social platform post.
type Reactions struct {
	Like  int `json:"like"`
	Love  int `json:"love"`
	Haha  int `json:"haha"`
	Wow   int `json:"wow"`
	Sad   int `json:"sad"`
	Angry int `json:"angry"`
}

// Summary is the aggregated sentiment of one post's activity.
type Summary struct {
	Counts
	Overall   Polarity `json:"overall"`
	Narrative string   `json:"narrative,omitempty"`
}

// condolenceTerms mark posts where a sad reaction expresses sympathy with
// the poster rather than displeasure.
var condolenceTerms = []string{
	"condolence",
	"demise",
	"passed away",
	"rest in peace",
	"mourns",
	"mourning",
	"tribute",
	"deepest sympathies",
}

// oppositionTerms mark posts criticizing a rival, where an angry reaction
// is mostly agreement with the poster.
var oppositionTerms = []string{
	"opposition",
	"slams",
	"criticizes",
	"condemns",
	"exposes",
	"failure of",
	"corruption",
	"scam",
}

// ContainsCondolence reports whether the post text carries condolence vocabulary.
func ContainsCondolence(text string) bool {
	return containsAny(text, condolenceTerms)
}

// ContainsOpposition reports whether the post text carries
// opposition-criticism vocabulary.
func ContainsOpposition(text string) bool {
	return containsAny(text, oppositionTerms)
}

func containsAny(text string, terms []string) bool {
	lowered := strings.ToLower(text)
	for _, term := range terms {
		if strings.Contains(lowered, term) {
			return true
		}
	}
	return false
}

// Summarize aggregates one post's activity into polarity counts. Comment
// scores are authoritative when present. Without comments, reactions are
// remapped by post context: condolence posts count sad as neutral, and
// opposition posts split angry between positive and negative per the
// configured weights.
func Summarize(commentScores []float64, reactions Reactions, postText string, w Weights) Summary {
	var counts Counts

	if len(commentScores) > 0 {
		for _, score := range commentScores {
			switch Partition(score) {
			case PolarityPositive:
				counts.Positive++
			case PolarityNegative:
				counts.Negative++
			default:
				counts.Neutral++
			}
		}
		return Summary{Counts: counts, Overall: counts.Overall()}
	}

	counts.Positive = float64(reactions.Like + reactions.Love + reactions.Haha + reactions.Wow)

	if ContainsCondolence(postText) {
		counts.Neutral += float64(reactions.Sad)
	} else {
		counts.Negative += float64(reactions.Sad)
	}

	if ContainsOpposition(postText) {
		counts.Positive += float64(reactions.Angry) * w.OppositionPositive
		counts.Negative += float64(reactions.Angry) * w.OppositionNegative
	} else {
		counts.Negative += float64(reactions.Angry)
	}

	return Summary{Counts: counts, Overall: counts.Overall()}
}

// Key identifies one daily per-platform sentiment record.
type Key struct {
	PoliticianID uuid.UUID `json:"politician_id"`
	Platform     string    `json:"platform"`
	Day          string    `json:"day"`
}

// DayOf formats a timestamp as a record day.
func DayOf(t time.Time) string {
	return t.UTC().Format(time.DateOnly)
}

// Record is a persisted daily per-platform sentiment rollup.
type Record struct {
	Key
	Counts
	UpdatedAt time.Time `json:"updated_at"`
}

// PlatformRollup aggregates a platform's counts over a date range.
type PlatformRollup struct {
	Platform string `json:"platform"`
	Counts
	Overall Polarity `json:"overall"`
}

// Overview is the constituency mood report for a politician.
type Overview struct {
	PoliticianID uuid.UUID        `json:"politician_id"`
	From         string           `json:"from"`
	To           string           `json:"to"`
	Platforms    []PlatformRollup `json:"platforms"`
	Totals       Counts           `json:"totals"`
	Overall      Polarity         `json:"overall"`
	Narrative    string           `json:"narrative,omitempty"`
}

// PostActivity is one post's raw activity submitted for batch analysis.
type PostActivity struct {
	PoliticianID  uuid.UUID `json:"politician_id"`
	Platform      string    `json:"platform"`
	PostedAt      time.Time `json:"posted_at"`
	PostText      string    `json:"post_text"`
	CommentScores []float64 `json:"comment_scores"`
	Reactions     Reactions `json:"reactions"`
}

// AnalysisReport summarizes a batch analysis run.
type AnalysisReport struct {
	Posts    int `json:"posts"`
	Records  int `json:"records"`
	Failures int `json:"failures"`
}
