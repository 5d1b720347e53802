// Package decision implements the candidate-selection core: simulate a few
// candidate posts, predict engagement for each, and keep the best so the
// prediction can later be compared against real engagement.
package decision

import (
	"context"

	"wicketwire/internal/llm"
	"wicketwire/internal/model"
	"wicketwire/internal/predictor"
	"wicketwire/internal/writer"
)

// DefaultCandidates is how many candidates one decision simulates.
const DefaultCandidates = 3

// --- seams (decoupled for testability) ---

var generateCandidates = writer.GenerateCandidates
var generatePost = writer.GeneratePost
var predict = predictor.Predict

// Run generates n candidates, scores each, and returns the best text with
// its predicted score. Ties keep the first-seen candidate. When generation
// yields nothing the one-shot fallback is scored and returned, so a
// successful Run always carries a decision.
func Run(ctx context.Context, c llm.Completer, style, event string, label model.Label, n int) (string, int, error) {
	if n <= 0 {
		n = DefaultCandidates
	}
	candidates, err := generateCandidates(ctx, c, style, event, label, n)
	if err != nil {
		return "", 0, err
	}
	if len(candidates) == 0 {
		fallback, err := generatePost(ctx, c, style, event, label)
		if err != nil {
			return "", 0, err
		}
		score, err := predict(ctx, c, fallback, event, label)
		if err != nil {
			return "", 0, err
		}
		return fallback, score, nil
	}
	bestText, bestScore := "", -1
	for _, text := range candidates {
		score, err := predict(ctx, c, text, event, label)
		if err != nil {
			return "", 0, err
		}
		if score > bestScore {
			bestText, bestScore = text, score
		}
	}
	return bestText, bestScore, nil
}
