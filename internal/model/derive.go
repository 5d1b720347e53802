package model

import (
	"fmt"
	"math"
	"strings"
)

// oversPerFormat maps a match format to its innings length. Formats without
// an entry (e.g. test) get no overs-based state.
var oversPerFormat = map[string]int{
	"t20": 20,
	"odi": 50,
}

// defaultOversLeft stands in when overs cannot be derived (unknown format,
// innings not started). High enough that an unknown state classifies as
// neutral, never as a last-overs finish.
const defaultOversLeft = 50

// DeriveState computes the numeric state for one snapshot. All defaulting
// for missing fields happens here, in one place: RequiredRunRate stays 0
// unless a second innings exists and overs remain, and unknown overs fall
// back to defaultOversLeft.
func DeriveState(m MatchSnapshot) DerivedState {
	st := DerivedState{MatchType: m.MatchType, Ended: m.Ended, OversLeft: defaultOversLeft}
	if len(m.Score) == 0 {
		return st
	}
	maxOvers, ok := oversPerFormat[strings.ToLower(m.MatchType)]
	if !ok {
		return st
	}
	last := m.Score[len(m.Score)-1]
	st.OversLeft = int(float64(maxOvers) - last.Overs)
	if st.OversLeft < 0 {
		st.OversLeft = 0
	}
	if len(m.Score) >= 2 {
		target := m.Score[0].Runs + 1
		needed := target - last.Runs
		if needed < 0 {
			needed = 0
		}
		if st.OversLeft > 0 {
			st.RequiredRunRate = math.Round(float64(needed)/float64(st.OversLeft)*100) / 100
		}
	}
	return st
}

// EventSummary builds the short event string fed to the classifier and the
// candidate prompts: match name, status, and per-innings score lines.
func EventSummary(m MatchSnapshot) string {
	name := m.Name
	if name == "" {
		name = "Match"
	}
	status := m.Status
	if status == "" {
		status = "Unknown status"
	}
	parts := make([]string, 0, len(m.Score))
	for _, s := range m.Score {
		parts = append(parts, fmt.Sprintf("%s: %d/%d (%g overs)", s.Inning, s.Runs, s.Wickets, s.Overs))
	}
	return strings.TrimSpace(fmt.Sprintf("%s. %s. %s", name, status, strings.Join(parts, " | ")))
}
