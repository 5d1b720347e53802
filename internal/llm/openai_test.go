package llm

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOpenAI(url string, client *http.Client) *OpenAI {
	c := NewOpenAI("key", "gpt-4o-mini")
	c.baseURL = url
	c.httpClient = client
	return c
}

func TestCompleteReturnsTrimmedText(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  a fine tweet \n"}}]}`))
	}))
	defer ts.Close()

	c := newTestOpenAI(ts.URL, ts.Client())
	got, err := c.Complete(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "a fine tweet", got)
}

func TestCompleteQuotaExhausted(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"type":"insufficient_quota","message":"You exceeded your current quota"}}`))
	}))
	defer ts.Close()

	c := newTestOpenAI(ts.URL, ts.Client())
	_, err := c.Complete(context.Background(), "prompt")
	require.Error(t, err)
	var rl *RateLimitError
	require.ErrorAs(t, err, &rl)
	assert.True(t, rl.QuotaExhausted)
	assert.True(t, IsQuotaExhausted(err))
}

func TestCompleteTransientRateLimit(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"type":"rate_limit_exceeded","message":"Too many requests, slow down"}}`))
	}))
	defer ts.Close()

	c := newTestOpenAI(ts.URL, ts.Client())
	_, err := c.Complete(context.Background(), "prompt")
	var rl *RateLimitError
	require.ErrorAs(t, err, &rl)
	assert.False(t, rl.QuotaExhausted)
	assert.False(t, IsQuotaExhausted(err))
}

func TestCompleteServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	c := newTestOpenAI(ts.URL, ts.Client())
	_, err := c.Complete(context.Background(), "prompt")
	require.Error(t, err)
	var rl *RateLimitError
	assert.False(t, errors.As(err, &rl))
}

func TestIsQuotaExhaustedOnPlainErrors(t *testing.T) {
	assert.False(t, IsQuotaExhausted(errors.New("network down")))
	assert.False(t, IsQuotaExhausted(nil))
}
