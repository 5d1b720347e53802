package writer

import (
	"context"
	"fmt"
	"strings"

	"wicketwire/internal/llm"
	"wicketwire/internal/model"
	"wicketwire/internal/util"
)

const (
	minCandidateRunes = 10  // exclusive
	maxCandidateRunes = 280 // inclusive
)

// GeneratePost asks for a single tweet for the event. One-shot path, used
// as the fallback when the multi-candidate parse comes back empty.
func GeneratePost(ctx context.Context, c llm.Completer, style, event string, label model.Label) (string, error) {
	prompt := fmt.Sprintf(`You are a viral cricket fan account on X.

Rules:
- Short punchy posts
- Emotional and opinionated
- Never sound like commentary
- Max 220 characters

Emotion: %s
Event: %s

Style examples:
%s

Write ONE tweet.`, label, event, style)
	raw, err := c.Complete(ctx, prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(raw), nil
}

// GenerateCandidates asks for n stylistically distinct tweets in one
// completion and parses them out line by line. If nothing survives the
// length filter it degrades to the one-shot path so the caller always gets
// at least one candidate. Rate-limit errors propagate untouched.
func GenerateCandidates(ctx context.Context, c llm.Completer, style, event string, label model.Label, n int) ([]string, error) {
	prompt := fmt.Sprintf(`You are a viral cricket fan account on X.

Rules:
- Short punchy posts
- Emotional and opinionated
- Never sound like commentary
- Max 220 characters per tweet

Emotion: %s
Event: %s

Style examples:
%s

Write exactly %d DIFFERENT tweet options. Each must take a different angle or tone (e.g. hype vs fear, stats vs emotion).
Output ONLY the tweets, one per line, no numbering or labels.`, label, event, style, n)
	raw, err := c.Complete(ctx, prompt)
	if err != nil {
		return nil, err
	}
	out := ParseCandidates(raw, n)
	if len(out) > 0 {
		return out, nil
	}
	single, err := GeneratePost(ctx, c, style, event, label)
	if err != nil {
		return nil, err
	}
	return []string{single}, nil
}

// ParseCandidates splits a raw completion into validated candidate texts:
// one per line, enumeration markers stripped, rune length in (10, 280].
func ParseCandidates(raw string, n int) []string {
	lines := strings.Split(strings.TrimSpace(raw), "\n")
	out := make([]string, 0, n)
	seen := 0
	for _, line := range lines {
		c := strings.TrimSpace(line)
		if c == "" {
			continue
		}
		if seen == n {
			break
		}
		seen++
		c = util.NormalizeWhitespace(strings.TrimLeft(c, "0123456789.)- "))
		r := len([]rune(c))
		if r > minCandidateRunes && r <= maxCandidateRunes {
			out = append(out, c)
		}
	}
	return out
}
