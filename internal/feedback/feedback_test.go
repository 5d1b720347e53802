package feedback

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wicketwire/internal/model"
	"wicketwire/internal/store/posts"
)

type fakeFetcher struct {
	// engagement by post id; absent ids report not-yet-available
	data  map[string][2]int
	fail  map[string]bool
	calls []string
}

func (f *fakeFetcher) GetEngagement(ctx context.Context, postID string) (int, int, bool, error) {
	f.calls = append(f.calls, postID)
	if f.fail[postID] {
		return 0, 0, false, errors.New("lookup failed")
	}
	e, ok := f.data[postID]
	if !ok {
		return 0, 0, false, nil
	}
	return e[0], e[1], true, nil
}

func newStore(t *testing.T) *posts.DB {
	t.Helper()
	db, err := posts.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func insert(t *testing.T, db *posts.DB, id string) {
	t.Helper()
	predicted := 60
	require.NoError(t, db.InsertPost(context.Background(), model.PostRecord{
		ID: id, Text: "post " + id, Emotion: model.LabelHype, Narrative: model.LabelHype, PredictedScore: &predicted,
	}))
}

func TestRunCycleBackfillsAvailableEngagement(t *testing.T) {
	db := newStore(t)
	insert(t, db, "p1")
	insert(t, db, "p2")
	f := &fakeFetcher{data: map[string][2]int{"p1": {10, 4}}}

	n, err := RunCycle(context.Background(), db, f, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	p, err := db.GetPost(context.Background(), "p1")
	require.NoError(t, err)
	require.NotNil(t, p.ActualLikes)
	require.NotNil(t, p.ActualRetweets)
	require.NotNil(t, p.EngagementFetchedAt)
	assert.Equal(t, 10, *p.ActualLikes)
	assert.Equal(t, 4, *p.ActualRetweets)
	assert.Equal(t, 18, p.CompositeScore)

	// p2 had no metrics yet and stays unresolved
	ids, err := db.UnresolvedIDs(context.Background(), 20)
	require.NoError(t, err)
	assert.Equal(t, []string{"p2"}, ids)
}

func TestRunCycleIdempotentPerRecord(t *testing.T) {
	db := newStore(t)
	insert(t, db, "p1")
	f := &fakeFetcher{data: map[string][2]int{"p1": {5, 1}}}

	n, err := RunCycle(context.Background(), db, f, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// second cycle selects a disjoint (here: empty) set
	n, err = RunCycle(context.Background(), db, f, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, []string{"p1"}, f.calls, "resolved post must not be looked up again")
}

func TestRunCycleSkipsFailedLookups(t *testing.T) {
	db := newStore(t)
	insert(t, db, "p1")
	insert(t, db, "p2")
	f := &fakeFetcher{
		data: map[string][2]int{"p2": {1, 0}},
		fail: map[string]bool{"p1": true},
	}
	n, err := RunCycle(context.Background(), db, f, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRunCycleRespectsBatchSize(t *testing.T) {
	db := newStore(t)
	for _, id := range []string{"p1", "p2", "p3"} {
		insert(t, db, id)
	}
	f := &fakeFetcher{}
	_, err := RunCycle(context.Background(), db, f, 2, 0)
	require.NoError(t, err)
	assert.Len(t, f.calls, 2)
}
