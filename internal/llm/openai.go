package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// OpenAI is a minimal chat-completions client over net/http.
type OpenAI struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	limiter    *rate.Limiter
}

func NewOpenAI(apiKey, model string) *OpenAI {
	return &OpenAI{
		baseURL:    "https://api.openai.com/v1",
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(2), 4),
	}
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *apiError `json:"error"`
}

type apiError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Complete sends one user prompt and returns the trimmed completion text.
// A 429 comes back as *RateLimitError; the caller decides whether it is
// fatal (quota) or left for the next scheduled tick.
func (c *OpenAI) Complete(ctx context.Context, prompt string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}
	body, err := json.Marshal(chatRequest{
		Model:    c.model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil && resp.StatusCode < 400 {
		return "", err
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return "", rateLimitFrom(out.Error)
	}
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("llm status %d", resp.StatusCode)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("llm empty response")
	}
	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}

func rateLimitFrom(e *apiError) *RateLimitError {
	rl := &RateLimitError{Message: "429"}
	if e == nil {
		return rl
	}
	rl.Message = e.Message
	if e.Type == "insufficient_quota" || strings.Contains(strings.ToLower(e.Message), "quota") {
		rl.QuotaExhausted = true
	}
	return rl
}
