package narrative

import (
	"strings"

	"wicketwire/internal/model"
	"wicketwire/internal/util"
)

// Classify derives the narrative label for one event. Rules run in priority
// order, first match wins; anything that falls through is neutral. Pure and
// deterministic so repeated calls on the same input always agree.
func Classify(event string, st model.DerivedState) model.Label {
	if strings.Contains(event, "WICKET") && st.RequiredRunRate > 10 {
		return model.LabelPanic
	}
	if util.ContainsAnyCaseInsensitive(event, []string{"six"}) {
		return model.LabelHype
	}
	if st.OversLeft < 3 {
		return model.LabelTension
	}
	return model.LabelNeutral
}
