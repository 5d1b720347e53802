package model

import "time"

// Label is the narrative classification of a live match moment.
type Label string

const (
	LabelPanic   Label = "panic"
	LabelHype    Label = "hype"
	LabelTension Label = "tension"
	LabelNeutral Label = "neutral"
)

// Postable reports whether the label alone justifies posting.
func (l Label) Postable() bool {
	return l == LabelPanic || l == LabelHype || l == LabelTension
}

// Innings is one innings line from a match score.
type Innings struct {
	Inning  string
	Runs    int
	Wickets int
	Overs   float64
}

// MatchSnapshot is one match as returned by the match source.
// Re-fetched every cycle; never persisted.
type MatchSnapshot struct {
	ID        string
	Name      string
	Status    string
	MatchType string
	Teams     []string
	Score     []Innings
	Started   bool
	Ended     bool
}

// DerivedState holds the numeric match state the classifier needs.
type DerivedState struct {
	RequiredRunRate float64
	OversLeft       int
	MatchType       string
	Ended           bool
}

// EventRecord pairs a one-line event summary with its derived state.
// Built fresh each poll cycle and consumed synchronously.
type EventRecord struct {
	Summary string
	State   DerivedState
}

// PostRecord is a published post with its predicted and, after one
// reconciliation pass, actual engagement. Emotion and Narrative are both
// written with the same label at post time.
type PostRecord struct {
	ID                  string
	Text                string
	Emotion             Label
	Narrative           Label
	PredictedScore      *int
	ActualLikes         *int
	ActualRetweets      *int
	CompositeScore      int
	EngagementFetchedAt *time.Time
}
