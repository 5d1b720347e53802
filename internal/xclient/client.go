package xclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

// Publisher is the slice of the X API the decision loop uses.
type Publisher interface {
	CreatePost(ctx context.Context, text, replyToID, quoteToID string) (string, error)
}

// Credentials are OAuth 1.0a user-context keys; posting and metrics both
// require user auth, not the app bearer token.
type Credentials struct {
	ConsumerKey    string
	ConsumerSecret string
	AccessToken    string
	AccessSecret   string
}

// Client posts tweets and reads their engagement via X API v2 with
// OAuth 1.0a request signing.
type Client struct {
	baseURL     string
	creds       Credentials
	httpClient  *http.Client
	limiter     *rate.Limiter
	maxAttempts int
	baseBackoff time.Duration
	nowFn       func() time.Time
	nonceFn     func() string
}

func New(creds Credentials) *Client {
	return &Client{
		baseURL:     "https://api.twitter.com/2",
		creds:       creds,
		httpClient:  &http.Client{Timeout: 15 * time.Second},
		limiter:     newDefaultLimiter(),
		maxAttempts: getEnvInt("X_API_MAX_ATTEMPTS", 5),
		baseBackoff: time.Duration(getEnvInt("X_API_BASE_BACKOFF_MS", 500)) * time.Millisecond,
		nowFn:       time.Now,
		nonceFn:     func() string { return strconv.FormatInt(rand.Int63(), 36) },
	}
}

type createRequest struct {
	Text         string       `json:"text"`
	Reply        *createReply `json:"reply,omitempty"`
	QuoteTweetID string       `json:"quote_tweet_id,omitempty"`
}

type createReply struct {
	InReplyToTweetID string `json:"in_reply_to_tweet_id"`
}

// CreatePost publishes one tweet, optionally as a reply or quote, and
// returns the new tweet id.
func (c *Client) CreatePost(ctx context.Context, text, replyToID, quoteToID string) (string, error) {
	payload := createRequest{Text: text, QuoteTweetID: quoteToID}
	if replyToID != "" {
		payload.Reply = &createReply{InReplyToTweetID: replyToID}
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/tweets", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.oauth1Sign(req, nil)
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}
	resp, err := c.doWithRetry(ctx, req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusUnauthorized {
		return "", errUnauthorizedHelp
	}
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("x api status %d", resp.StatusCode)
	}
	var raw struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return "", err
	}
	return raw.Data.ID, nil
}

// GetEngagement fetches like and retweet counts for a tweet. ok=false means
// metrics are not available (tweet too fresh, deleted, or hidden); the
// caller leaves the post unresolved and retries on a later cycle.
func (c *Client) GetEngagement(ctx context.Context, postID string) (likes, retweets int, ok bool, err error) {
	params := map[string]string{"tweet.fields": "public_metrics"}
	u := fmt.Sprintf("%s/tweets/%s?%s", c.baseURL, url.PathEscape(postID), encodeQuery(params))
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	c.oauth1Sign(req, params)
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, 0, false, err
	}
	resp, err := c.doWithRetry(ctx, req)
	if err != nil {
		return 0, 0, false, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return 0, 0, false, fmt.Errorf("x api status %d", resp.StatusCode)
	}
	var raw struct {
		Data *struct {
			PublicMetrics *struct {
				LikeCount    int `json:"like_count"`
				RetweetCount int `json:"retweet_count"`
			} `json:"public_metrics"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return 0, 0, false, err
	}
	if raw.Data == nil || raw.Data.PublicMetrics == nil {
		return 0, 0, false, nil
	}
	return raw.Data.PublicMetrics.LikeCount, raw.Data.PublicMetrics.RetweetCount, true, nil
}

var errUnauthorizedHelp = fmt.Errorf("x api 401: app permissions must be Read and Write and OAuth1 tokens regenerated after any permission change")

func (c *Client) doWithRetry(ctx context.Context, req *http.Request) (*http.Response, error) {
	backoff := c.baseBackoff
	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		resp, err := c.httpClient.Do(req.Clone(ctx))
		if err == nil {
			if resp.StatusCode == http.StatusTooManyRequests || (resp.StatusCode >= 500 && resp.StatusCode <= 599) {
				ra := resp.Header.Get("Retry-After")
				_ = resp.Body.Close()
				wait := backoff
				if ra != "" {
					if secs, err := strconv.Atoi(ra); err == nil {
						wait = time.Duration(secs) * time.Second
					} else if t, err := http.ParseTime(ra); err == nil {
						if d := time.Until(t); d > 0 {
							wait = d
						}
					}
				}
				// jitter +/-20%
				jitter := time.Duration(float64(wait) * 0.2)
				if jitter > 0 {
					wait = wait - jitter + time.Duration(time.Now().UnixNano()%int64(2*jitter))
				}
				select {
				case <-time.After(wait):
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
