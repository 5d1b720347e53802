// Package feedback closes the learning loop: it backfills real engagement
// for published posts so predicted scores can be compared against actuals.
package feedback

import (
	"context"
	"time"

	"wicketwire/internal/logging"
)

// Store is the slice of the post store the reconciler needs.
type Store interface {
	UnresolvedIDs(ctx context.Context, limit int) ([]string, error)
	BackfillEngagement(ctx context.Context, id string, likes, retweets int) error
}

// EngagementFetcher looks up real engagement for a published post.
// ok=false means metrics are not available yet and the post stays unresolved.
type EngagementFetcher interface {
	GetEngagement(ctx context.Context, postID string) (likes, retweets int, ok bool, err error)
}

// RunCycle reconciles up to batchSize unresolved posts, newest first, and
// returns how many were updated. Posts whose engagement is not yet available
// are left for a future cycle; already-backfilled posts are never selected
// again, so repeated invocation is safe. Sleeps delay between lookups to
// respect the sink's rate limits.
func RunCycle(ctx context.Context, store Store, fetcher EngagementFetcher, batchSize int, delay time.Duration) (int, error) {
	ids, err := store.UnresolvedIDs(ctx, batchSize)
	if err != nil {
		return 0, err
	}
	updated := 0
	for _, id := range ids {
		likes, retweets, ok, err := fetcher.GetEngagement(ctx, id)
		if err != nil {
			logging.Warn("engagement_lookup_failed", map[string]any{"post_id": id, "error": err.Error()})
		} else if ok {
			if err := store.BackfillEngagement(ctx, id, likes, retweets); err != nil {
				return updated, err
			}
			updated++
		}
		if err := sleep(ctx, delay); err != nil {
			return updated, err
		}
	}
	return updated, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
