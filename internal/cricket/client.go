package cricket

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"wicketwire/internal/model"
)

// MatchSource is the slice of the match API the watcher consumes.
type MatchSource interface {
	CurrentMatches(ctx context.Context) ([]model.MatchSnapshot, error)
}

// Client fetches live matches from CricAPI.
type Client struct {
	baseURL     string
	apiKey      string
	httpClient  *http.Client
	limiter     *rate.Limiter
	maxAttempts int
	baseBackoff time.Duration
}

func NewClient(apiKey string) *Client {
	return &Client{
		baseURL:     "https://api.cricapi.com/v1",
		apiKey:      apiKey,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		limiter:     rate.NewLimiter(rate.Limit(1), 2),
		maxAttempts: getEnvInt("CRICAPI_MAX_ATTEMPTS", 3),
		baseBackoff: time.Duration(getEnvInt("CRICAPI_BASE_BACKOFF_MS", 500)) * time.Millisecond,
	}
}

// CurrentMatches returns all matches the API currently reports.
func (c *Client) CurrentMatches(ctx context.Context) ([]model.MatchSnapshot, error) {
	u := fmt.Sprintf("%s/currentMatches?apikey=%s&offset=0", c.baseURL, url.QueryEscape(c.apiKey))
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	req.Header.Set("Accept", "application/json")
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	resp, err := c.doWithRetry(ctx, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("cricapi status %d", resp.StatusCode)
	}
	var raw struct {
		Data []struct {
			ID        string   `json:"id"`
			Name      string   `json:"name"`
			Status    string   `json:"status"`
			MatchType string   `json:"matchType"`
			Teams     []string `json:"teams"`
			Score     []struct {
				Inning string  `json:"inning"`
				R      int     `json:"r"`
				W      int     `json:"w"`
				O      float64 `json:"o"`
			} `json:"score"`
			MatchStarted bool `json:"matchStarted"`
			MatchEnded   bool `json:"matchEnded"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, err
	}
	out := make([]model.MatchSnapshot, 0, len(raw.Data))
	for _, d := range raw.Data {
		m := model.MatchSnapshot{
			ID:        d.ID,
			Name:      d.Name,
			Status:    d.Status,
			MatchType: d.MatchType,
			Teams:     d.Teams,
			Started:   d.MatchStarted,
			Ended:     d.MatchEnded,
		}
		for _, s := range d.Score {
			m.Score = append(m.Score, model.Innings{Inning: s.Inning, Runs: s.R, Wickets: s.W, Overs: s.O})
		}
		out = append(out, m)
	}
	return out, nil
}

func (c *Client) doWithRetry(ctx context.Context, req *http.Request) (*http.Response, error) {
	backoff := c.baseBackoff
	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		resp, err := c.httpClient.Do(req.Clone(ctx))
		if err == nil {
			if resp.StatusCode == http.StatusTooManyRequests || (resp.StatusCode >= 500 && resp.StatusCode <= 599) {
				_ = resp.Body.Close()
				select {
				case <-time.After(backoff):
				case <-ctx.Done():
					return nil, ctx.Err()
				}
				backoff *= 2
				continue
			}
			return resp, nil
		}
		lastErr = err
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		backoff *= 2
	}
	return nil, fmt.Errorf("request failed after %d attempts: %v", c.maxAttempts, lastErr)
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if i, err := strconv.Atoi(v); err == nil && i > 0 {
		return i
	}
	return def
}
