package predictor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wicketwire/internal/model"
)

type fakeCompleter struct {
	reply string
	err   error
}

func (f fakeCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	return f.reply, f.err
}

func TestParseScore(t *testing.T) {
	cases := []struct {
		raw  string
		want int
	}{
		{"87", 87},
		{"Score: 87!", 87},
		{"873", 87}, // long digit runs keep the first two
		{"no number here", 50},
		{"", 50},
		{"0", 0},
		{"100", 10},
		{"a 9 out of 10", 91}, // digits concatenate in order
	}
	for _, c := range cases {
		got := ParseScore(c.raw)
		assert.Equal(t, c.want, got, "raw %q", c.raw)
		assert.GreaterOrEqual(t, got, 0)
		assert.LessOrEqual(t, got, 100)
	}
}

func TestPredictParsesReply(t *testing.T) {
	score, err := Predict(context.Background(), fakeCompleter{reply: "I'd say 72."}, "some tweet", "event", model.LabelHype)
	require.NoError(t, err)
	assert.Equal(t, 72, score)
}

func TestPredictPropagatesTransportError(t *testing.T) {
	boom := errors.New("boom")
	_, err := Predict(context.Background(), fakeCompleter{err: boom}, "t", "e", model.LabelNeutral)
	assert.ErrorIs(t, err, boom)
}
