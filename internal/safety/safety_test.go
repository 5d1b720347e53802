package safety

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsDuplicateMatchesOnPrefix(t *testing.T) {
	h := NewHistory(100)
	h.Remember("Team wins in dramatic final over finish, scenes at the ground")
	assert.True(t, h.IsDuplicate("Team wins in dramatic final over finish, scenes at the ground tonight!!"))
	assert.False(t, h.IsDuplicate("A completely different story from another match"))
}

func TestIsDuplicateEmptyHistory(t *testing.T) {
	h := NewHistory(100)
	assert.False(t, h.IsDuplicate("anything at all"))
}

func TestHistoryEvictsOldest(t *testing.T) {
	h := NewHistory(100)
	first := "the very first remembered post about a famous win " + strings.Repeat("x", 10)
	h.Remember(first)
	for i := 0; i < 100; i++ {
		h.Remember(fmt.Sprintf("filler post number %d with enough length to matter", i))
	}
	assert.Equal(t, 100, h.Len())
	assert.False(t, h.IsDuplicate(first), "oldest entry should be evicted")
	assert.True(t, h.IsDuplicate("filler post number 99 with enough length to matter"))
}

func TestPacerDisabledReturnsImmediately(t *testing.T) {
	p := NewPacer(time.Hour, 2*time.Hour, false)
	done := make(chan struct{})
	go func() { p.Wait(context.Background()); close(done) }()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("disabled pacer blocked")
	}
}

func TestPacerSleepsWithinBounds(t *testing.T) {
	p := NewPacer(5*time.Second, 20*time.Second, true)
	var slept time.Duration
	p.sleep = func(ctx context.Context, d time.Duration) { slept = d }
	p.Wait(context.Background())
	assert.GreaterOrEqual(t, slept, 5*time.Second)
	assert.LessOrEqual(t, slept, 20*time.Second)
}

func TestPacerHonorsContextCancel(t *testing.T) {
	p := NewPacer(time.Hour, time.Hour, true)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	done := make(chan struct{})
	go func() { p.Wait(ctx); close(done) }()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("pacer ignored cancelled context")
	}
}
