package posts

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wicketwire/internal/model"
)

func openTest(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestInsertAndGetPost(t *testing.T) {
	db := openTest(t)
	ctx := context.Background()
	predicted := 77
	require.NoError(t, db.InsertPost(ctx, model.PostRecord{
		ID: "42", Text: "what a finish", Emotion: model.LabelTension, Narrative: model.LabelTension, PredictedScore: &predicted,
	}))
	p, err := db.GetPost(ctx, "42")
	require.NoError(t, err)
	assert.Equal(t, "what a finish", p.Text)
	assert.Equal(t, model.LabelTension, p.Emotion)
	assert.Equal(t, model.LabelTension, p.Narrative)
	require.NotNil(t, p.PredictedScore)
	assert.Equal(t, 77, *p.PredictedScore)
	// nothing backfilled yet
	assert.Nil(t, p.ActualLikes)
	assert.Nil(t, p.ActualRetweets)
	assert.Nil(t, p.EngagementFetchedAt)
	assert.Equal(t, 0, p.CompositeScore)
}

func TestUnresolvedIDsNewestFirst(t *testing.T) {
	db := openTest(t)
	ctx := context.Background()
	for _, id := range []string{"1", "2", "3"} {
		require.NoError(t, db.InsertPost(ctx, model.PostRecord{ID: id, Text: "t" + id, Emotion: model.LabelHype, Narrative: model.LabelHype}))
	}
	ids, err := db.UnresolvedIDs(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"3", "2"}, ids)
}

func TestBackfillEngagementWritesOnce(t *testing.T) {
	db := openTest(t)
	ctx := context.Background()
	require.NoError(t, db.InsertPost(ctx, model.PostRecord{ID: "a", Text: "t", Emotion: model.LabelPanic, Narrative: model.LabelPanic}))
	require.NoError(t, db.BackfillEngagement(ctx, "a", 100, 25))

	p, err := db.GetPost(ctx, "a")
	require.NoError(t, err)
	require.NotNil(t, p.ActualLikes)
	assert.Equal(t, 100, *p.ActualLikes)
	assert.Equal(t, 25, *p.ActualRetweets)
	assert.Equal(t, 150, p.CompositeScore)
	require.NotNil(t, p.EngagementFetchedAt)
	firstFetched := *p.EngagementFetchedAt

	// a second write is a no-op thanks to the NULL predicate
	time.Sleep(5 * time.Millisecond)
	require.NoError(t, db.BackfillEngagement(ctx, "a", 999, 999))
	p, err = db.GetPost(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 100, *p.ActualLikes)
	assert.Equal(t, 150, p.CompositeScore)
	assert.Equal(t, firstFetched, *p.EngagementFetchedAt)

	ids, err := db.UnresolvedIDs(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestBackfillCapsComposite(t *testing.T) {
	db := openTest(t)
	ctx := context.Background()
	require.NoError(t, db.InsertPost(ctx, model.PostRecord{ID: "v", Text: "viral", Emotion: model.LabelHype, Narrative: model.LabelHype}))
	require.NoError(t, db.BackfillEngagement(ctx, "v", 50000, 50000))
	p, err := db.GetPost(ctx, "v")
	require.NoError(t, err)
	assert.Equal(t, 10000, p.CompositeScore)
}

func TestAvgScoreByEmotion(t *testing.T) {
	db := openTest(t)
	ctx := context.Background()
	seed := []struct {
		id    string
		label model.Label
		likes int
	}{
		{"h1", model.LabelHype, 100},
		{"h2", model.LabelHype, 200},
		{"n1", model.LabelNeutral, 10},
	}
	for _, s := range seed {
		require.NoError(t, db.InsertPost(ctx, model.PostRecord{ID: s.id, Text: "t", Emotion: s.label, Narrative: s.label}))
		require.NoError(t, db.BackfillEngagement(ctx, s.id, s.likes, 0))
	}
	avgs, err := db.AvgScoreByEmotion(ctx)
	require.NoError(t, err)
	assert.Equal(t, 150.0, avgs[model.LabelHype])
	assert.Equal(t, 10.0, avgs[model.LabelNeutral])
}
