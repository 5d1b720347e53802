// Package jobs wires the pipeline into the two periodic entry points: the
// match-watch decision cycle and the feedback reconciliation cycle.
package jobs

import (
	"context"
	"errors"
	"time"

	"wicketwire/internal/cricket"
	"wicketwire/internal/decision"
	"wicketwire/internal/feedback"
	"wicketwire/internal/llm"
	"wicketwire/internal/logging"
	"wicketwire/internal/memory"
	"wicketwire/internal/metrics"
	"wicketwire/internal/model"
	"wicketwire/internal/narrative"
	"wicketwire/internal/safety"
	"wicketwire/internal/virality"
	"wicketwire/internal/xclient"
)

// PostStore is the slice of the post store the decision cycle writes to.
type PostStore interface {
	InsertPost(ctx context.Context, p model.PostRecord) error
}

// Deps carries the collaborators one decision cycle runs against. History
// and Pacer are owned by the caller so tests can reset and disable them.
type Deps struct {
	Matches    cricket.MatchSource
	LLM        llm.Completer
	Publisher  xclient.Publisher
	Store      PostStore
	History    *safety.History
	Pacer      *safety.Pacer
	StylePath  string
	StyleLimit int
	Candidates int
}

// RunDecisionCycle processes every currently post-worthy event once:
// classify, gate, decide, dedupe, pace, publish, remember, persist. Rate
// limits from the generation service abort the cycle and surface to the
// caller; every other failure skips just the event it hit.
func RunDecisionCycle(ctx context.Context, d Deps) error {
	start := time.Now()
	metrics.CycleRuns.Inc()
	defer metrics.ObserveCycleDuration(start)

	events := cricket.Watch(ctx, d.Matches)
	if len(events) == 0 {
		logging.Info("cycle_no_matches", nil)
		return nil
	}
	style := memory.LoadStyleExamples(d.StylePath, d.StyleLimit)
	for _, ev := range events {
		if err := ctx.Err(); err != nil {
			return err
		}
		label := narrative.Classify(ev.Summary, ev.State)
		if !virality.ShouldPost(ev.Summary, label) {
			logging.Info("event_gated_out", map[string]any{"label": string(label)})
			continue
		}
		text, score, err := decision.Run(ctx, d.LLM, style, ev.Summary, label, d.Candidates)
		if err != nil {
			var rl *llm.RateLimitError
			if errors.As(err, &rl) {
				metrics.CycleErrors.Inc()
				return err
			}
			metrics.CycleErrors.Inc()
			logging.Error("decision_failed", map[string]any{"error": err.Error()})
			continue
		}
		logging.Info("decision_made", map[string]any{"label": string(label), "predicted": score})
		if d.History.IsDuplicate(text) {
			metrics.DuplicatesSkipped.Inc()
			logging.Warn("duplicate_skipped", map[string]any{"text": text})
			continue
		}
		d.Pacer.Wait(ctx)
		id, err := d.Publisher.CreatePost(ctx, text, "", "")
		if err != nil {
			metrics.CycleErrors.Inc()
			logging.Error("publish_failed", map[string]any{"error": err.Error()})
			continue
		}
		if id == "" {
			logging.Warn("publish_no_id", nil)
			continue
		}
		d.History.Remember(text)
		predicted := score
		if err := d.Store.InsertPost(ctx, model.PostRecord{
			ID:             id,
			Text:           text,
			Emotion:        label,
			Narrative:      label,
			PredictedScore: &predicted,
		}); err != nil {
			metrics.CycleErrors.Inc()
			logging.Error("post_save_failed", map[string]any{"post_id": id, "error": err.Error()})
			continue
		}
		metrics.PostsPublished.Inc()
		logging.Info("posted", map[string]any{"post_id": id, "predicted": score})
	}
	return nil
}

// RunMatchLoop runs RunDecisionCycle on a ticker until ctx is cancelled.
// Quota exhaustion stops the loop; transient errors wait for the next tick.
func RunMatchLoop(ctx context.Context, d Deps, interval time.Duration) error {
	t := time.NewTicker(interval)
	defer t.Stop()
	if err := runGuarded(ctx, d); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			logging.Info("match_loop_stop", nil)
			return ctx.Err()
		case <-t.C:
			if err := runGuarded(ctx, d); err != nil {
				return err
			}
		}
	}
}

func runGuarded(ctx context.Context, d Deps) error {
	err := RunDecisionCycle(ctx, d)
	if err == nil {
		return nil
	}
	if llm.IsQuotaExhausted(err) {
		return err
	}
	logging.Error("cycle_error", map[string]any{"error": err.Error()})
	return nil
}

// RunFeedbackLoop reconciles engagement on a ticker until ctx is cancelled.
func RunFeedbackLoop(ctx context.Context, store feedback.Store, fetcher feedback.EngagementFetcher, batch int, delay, interval time.Duration) error {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			logging.Info("feedback_loop_stop", nil)
			return ctx.Err()
		case <-t.C:
			n, err := feedback.RunCycle(ctx, store, fetcher, batch, delay)
			if err != nil {
				logging.Error("feedback_cycle_error", map[string]any{"error": err.Error()})
				continue
			}
			metrics.FeedbackUpdates.Add(float64(n))
			logging.Info("feedback_cycle", map[string]any{"updated": n})
		}
	}
}
