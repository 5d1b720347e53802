package virality

import (
	"strings"

	"wicketwire/internal/model"
	"wicketwire/internal/util"
)

// postThreshold is the minimum event score for a neutral moment to gate in.
const postThreshold = 50

// ScoreEvent computes the additive virality score for an event. The label
// term only matters on paths that did not already gate in via ShouldPost.
func ScoreEvent(event string, label model.Label) int {
	score := 0
	if strings.Contains(event, "WICKET") {
		score += 30
	}
	if label.Postable() {
		score += 30
	}
	if util.ContainsAnyCaseInsensitive(event, []string{"last over"}) {
		score += 40
	}
	return score
}

// ShouldPost decides whether the event crosses the posting bar. Postable
// labels pass immediately; neutral events can still gate in on score.
func ShouldPost(event string, label model.Label) bool {
	if label.Postable() {
		return true
	}
	return ScoreEvent(event, label) >= postThreshold
}
