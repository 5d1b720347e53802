package analytics

import (
	"sort"

	"wicketwire/internal/model"
)

// LabelAverage is one label with its average composite engagement.
type LabelAverage struct {
	Label model.Label
	Avg   float64
}

// RankLabels orders labels by average composite score, best first, so the
// stats view shows which narratives actually earn engagement.
func RankLabels(avgs map[model.Label]float64) []LabelAverage {
	out := make([]LabelAverage, 0, len(avgs))
	for l, a := range avgs {
		out = append(out, LabelAverage{Label: l, Avg: a})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Avg != out[j].Avg {
			return out[i].Avg > out[j].Avg
		}
		return out[i].Label < out[j].Label
	})
	return out
}
