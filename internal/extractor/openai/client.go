// Package openai implements port.CompletionClient against the OpenAI
// Chat Completions API.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"strconv"
	"time"

	"prokura/internal/config"
	"prokura/internal/domain"
)

const apiURL = "https://api.openai.com/v1/chat/completions"

// Client calls the completion service with a bounded retry budget for
// transient failures and a per-attempt timeout. It holds no mutable
// state and is safe for concurrent use.
type Client struct {
	apiKey   string
	model    string
	endpoint string
	timeout  time.Duration
	backoff  time.Duration
	retries  int
	client   *http.Client
}

// NewClient creates a completion client from config.
func NewClient(cfg *config.ExtractorConfig) *Client {
	return newClient(cfg, apiURL)
}

// NewClientWithEndpoint creates a client pointing at a custom API endpoint (for testing).
func NewClientWithEndpoint(cfg *config.ExtractorConfig, endpoint string) *Client {
	return newClient(cfg, endpoint)
}

func newClient(cfg *config.ExtractorConfig, endpoint string) *Client {
	model := cfg.Model
	if model == "" {
		model = "gpt-4o"
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	backoff := time.Duration(cfg.BackoffSecs) * time.Second
	if backoff == 0 {
		backoff = 2 * time.Second
	}
	// Zero is a deliberate "no retries"; the default of one retry comes
	// from config.Load, not from here.
	retries := cfg.MaxRetries
	if retries < 0 {
		retries = 0
	}
	return &Client{
		apiKey:   cfg.APIKey,
		model:    model,
		endpoint: endpoint,
		timeout:  timeout,
		backoff:  backoff,
		retries:  retries,
		client:   &http.Client{},
	}
}

// statusError is a non-2xx response from the API.
type statusError struct {
	code       int
	body       string
	retryAfter time.Duration
}

func (e *statusError) Error() string {
	return fmt.Sprintf("completion API error (status %d): %s", e.code, e.body)
}

func (e *statusError) transient() bool {
	return e.code == http.StatusTooManyRequests || e.code >= 500
}

// Complete sends the prompt and returns the raw model text. Transient
// failures are retried with backoff up to the configured retry count
// (one by default); exhausting the attempts surfaces as
// domain.ErrServiceUnavailable, or domain.ErrTimeout when the final
// attempt exceeded the request timeout, so callers can message users
// differently. Cancellation of ctx abandons the in-flight call.
func (c *Client) Complete(ctx context.Context, prompt domain.ExtractionPrompt) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			wait := c.backoff
			var se *statusError
			if errors.As(lastErr, &se) && se.retryAfter > wait {
				wait = se.retryAfter
			}
			log.Printf("openai.Client: attempt %d failed, retrying in %s: %v", attempt, wait, lastErr)
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(wait):
			}
		}

		out, err := c.attempt(ctx, prompt)
		if err == nil {
			return out, nil
		}
		if ctx.Err() != nil {
			// Caller abandoned the request; do not retry uselessly.
			return "", ctx.Err()
		}
		lastErr = err
		if !isTransient(err) {
			break
		}
	}

	if isTimeout(lastErr) {
		return "", fmt.Errorf("%w: %v", domain.ErrTimeout, lastErr)
	}
	return "", fmt.Errorf("%w: %v", domain.ErrServiceUnavailable, lastErr)
}

func (c *Client) attempt(ctx context.Context, prompt domain.ExtractionPrompt) (string, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	reqBody := map[string]interface{}{
		"model":       c.model,
		"temperature": 0,
		"response_format": map[string]interface{}{
			"type": "json_object",
		},
		"messages": []map[string]interface{}{
			{"role": "system", "content": prompt.System},
			{"role": "user", "content": prompt.User},
		},
	}
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, c.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling completion API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", &statusError{
			code:       resp.StatusCode,
			body:       truncate(string(respBody), 500),
			retryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		}
	}

	return parseResponse(respBody)
}

// apiResponse models the Chat Completions response.
type apiResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

func parseResponse(body []byte) (string, error) {
	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("unmarshaling response: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from API: no choices")
	}
	if resp.Choices[0].FinishReason == "length" {
		return "", fmt.Errorf("output truncated (finish_reason: length)")
	}
	return resp.Choices[0].Message.Content, nil
}

func isTransient(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		return se.transient()
	}
	// Network-level errors (refused, reset, DNS, timeout) are transient.
	return true
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// parseRetryAfter parses a Retry-After header value into a duration.
// Returns 0 if the value is empty or not a valid integer.
func parseRetryAfter(val string) time.Duration {
	if val == "" {
		return 0
	}
	secs, err := strconv.Atoi(val)
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
