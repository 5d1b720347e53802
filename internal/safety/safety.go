// Package safety holds the pre-publish guards: a bounded duplicate window
// and a randomized pacing delay so posting does not look automated.
package safety

import (
	"context"
	"math/rand"
	"strings"
	"time"

	"wicketwire/internal/util"
)

// dupPrefixRunes is how much of a new post must reappear in history to
// count as a near-duplicate.
const dupPrefixRunes = 50

// History is a bounded FIFO of recently published texts. It is owned by the
// main loop, lives only for the process, and is injected so tests can reset it.
type History struct {
	recent []string
	cap    int
}

func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = 100
	}
	return &History{cap: capacity}
}

// IsDuplicate reports whether the first 50 runes of text appear inside any
// remembered post. Deliberately a soft substring match to catch near-repeats.
func (h *History) IsDuplicate(text string) bool {
	prefix := util.TruncateRunes(text, dupPrefixRunes)
	for _, p := range h.recent {
		if strings.Contains(p, prefix) {
			return true
		}
	}
	return false
}

// Remember appends text, evicting the oldest entry once over capacity.
func (h *History) Remember(text string) {
	h.recent = append(h.recent, text)
	if len(h.recent) > h.cap {
		h.recent = h.recent[1:]
	}
}

// Len returns the number of remembered posts.
func (h *History) Len() int { return len(h.recent) }

// Pacer sleeps a random duration in [Min,Max] before each publish. Disabled
// or zero-range pacers return immediately, which is what tests want.
type Pacer struct {
	Min     time.Duration
	Max     time.Duration
	Enabled bool
	sleep   func(context.Context, time.Duration)
}

func NewPacer(min, max time.Duration, enabled bool) *Pacer {
	return &Pacer{Min: min, Max: max, Enabled: enabled, sleep: sleepCtx}
}

// Wait blocks for the randomized delay, or until ctx is done.
func (p *Pacer) Wait(ctx context.Context) {
	if !p.Enabled || p.Max <= 0 {
		return
	}
	d := p.Min
	if span := p.Max - p.Min; span > 0 {
		d += time.Duration(rand.Int63n(int64(span) + 1))
	}
	p.sleep(ctx, d)
}

func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
