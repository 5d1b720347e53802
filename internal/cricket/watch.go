package cricket

import (
	"context"
	"strings"

	"wicketwire/internal/logging"
	"wicketwire/internal/model"
)

// International indicators in CricAPI match names; domestic leagues
// (e.g. Ranji Trophy) carry none of these.
var internationalKeywords = []string{"ICC", "ACC", "World Cup", "Asia Cup", "T20I", "ODI", " tour of "}

// Watch fetches current matches and returns event records for the matches
// the account covers: international men's matches with India playing, live
// ones first. Source failures reduce to an empty slice; the next poll
// naturally retries.
func Watch(ctx context.Context, src MatchSource) []model.EventRecord {
	matches, err := src.CurrentMatches(ctx)
	if err != nil {
		logging.Warn("match_fetch_failed", map[string]any{"error": err.Error()})
		return nil
	}
	var live, other []model.EventRecord
	for _, m := range matches {
		if !isInternational(m) || !hasIndiaTeam(m) || hasWomenTeam(m) {
			continue
		}
		ev := model.EventRecord{Summary: model.EventSummary(m), State: model.DeriveState(m)}
		if m.Started && !m.Ended {
			live = append(live, ev)
		} else {
			other = append(other, ev)
		}
	}
	return append(live, other...)
}

func isInternational(m model.MatchSnapshot) bool {
	name := strings.TrimSpace(m.Name)
	for _, kw := range internationalKeywords {
		if strings.Contains(name, kw) {
			return true
		}
	}
	return false
}

func hasIndiaTeam(m model.MatchSnapshot) bool {
	for _, t := range m.Teams {
		if t == "India" || strings.HasPrefix(t, "India ") {
			return true
		}
	}
	return false
}

func hasWomenTeam(m model.MatchSnapshot) bool {
	for _, t := range m.Teams {
		if t == "" {
			continue
		}
		if strings.Contains(t, " Women") || strings.HasSuffix(t, "Women") {
			return true
		}
	}
	return false
}
