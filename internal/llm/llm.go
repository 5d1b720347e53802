package llm

import (
	"context"
	"errors"
)

// Completer is the slice of the text-generation service the pipeline uses.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// RateLimitError reports a 429 from the provider. QuotaExhausted means the
// account is out of credit and the process must stop rather than retry.
type RateLimitError struct {
	QuotaExhausted bool
	Message        string
}

func (e *RateLimitError) Error() string {
	if e.QuotaExhausted {
		return "llm quota exhausted: " + e.Message
	}
	return "llm rate limited: " + e.Message
}

// IsQuotaExhausted reports whether err is a quota-exhausted rate limit.
func IsQuotaExhausted(err error) bool {
	var rl *RateLimitError
	return errors.As(err, &rl) && rl.QuotaExhausted
}
