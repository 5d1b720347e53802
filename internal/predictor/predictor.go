package predictor

import (
	"context"
	"fmt"
	"strconv"

	"wicketwire/internal/llm"
	"wicketwire/internal/model"
)

// neutralScore is the prior used when the model output has no digits at all.
const neutralScore = 50

// Predict asks the model to score a candidate tweet 0-100. Malformed output
// never fails the pipeline; only transport and rate-limit errors surface.
func Predict(ctx context.Context, c llm.Completer, text, event string, label model.Label) (int, error) {
	prompt := fmt.Sprintf(`You are judging how viral a cricket tweet will be on X.

Event: %s
Emotion/narrative: %s

Tweet to score:
"%s"

Consider: punchiness, emotional pull, reply bait, relevance to the moment, length.
Reply with ONLY a number from 0 to 100 (no explanation).`, event, label, text)
	raw, err := c.Complete(ctx, prompt)
	if err != nil {
		return 0, err
	}
	return ParseScore(raw), nil
}

// ParseScore extracts a bounded score from a raw model reply: digits are
// concatenated in order, runs longer than two keep the first two, no digits
// means the neutral prior, and the result is clamped to [0,100].
func ParseScore(raw string) int {
	digits := make([]rune, 0, 3)
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits = append(digits, r)
		}
	}
	if len(digits) == 0 {
		return neutralScore
	}
	if len(digits) > 2 {
		digits = digits[:2]
	}
	score, _ := strconv.Atoi(string(digits))
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}
