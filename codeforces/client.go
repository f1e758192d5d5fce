package codeforces

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	defaultBaseURL = "https://codeforces.com/api"

	maxAttempts  = 3
	retryDelay   = 1 * time.Second
	callTimeout  = 30 * time.Second
	maxBodyBytes = 32 << 20 // full submission histories can be large
)

// Client fetches a handle's public contest and submission history.
type Client interface {
	FetchRatingHistory(ctx context.Context, handle string) ([]RatingChange, error)
	FetchSubmissions(ctx context.Context, handle string) ([]Submission, error)
}

// HTTPClient implements Client against the Codeforces REST API.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	attempts   int
	delay      time.Duration
}

// NewHTTPClient creates a client for the given API base URL. An empty
// baseURL selects the public Codeforces endpoint.
func NewHTTPClient(baseURL string) *HTTPClient {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &HTTPClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: callTimeout},
		attempts:   maxAttempts,
		delay:      retryDelay,
	}
}

// FetchRatingHistory returns the full rating-change history of a handle,
// one entry per rated contest, in the order the API reports them.
func (c *HTTPClient) FetchRatingHistory(ctx context.Context, handle string) ([]RatingChange, error) {
	u := fmt.Sprintf("%s/user.rating?handle=%s", c.baseURL, url.QueryEscape(handle))

	var changes []RatingChange
	if err := c.getWithRetry(ctx, u, &changes); err != nil {
		return nil, fmt.Errorf("fetch rating history for %q: %w", handle, err)
	}
	return changes, nil
}

// FetchSubmissions returns the full submission history of a handle, most
// recent first as the API reports them.
func (c *HTTPClient) FetchSubmissions(ctx context.Context, handle string) ([]Submission, error) {
	u := fmt.Sprintf("%s/user.status?handle=%s", c.baseURL, url.QueryEscape(handle))

	var subs []Submission
	if err := c.getWithRetry(ctx, u, &subs); err != nil {
		return nil, fmt.Errorf("fetch submissions for %q: %w", handle, err)
	}
	return subs, nil
}

// getWithRetry performs a GET with a bounded retry: up to attempts tries
// with a fixed delay in between. A response whose envelope status is not
// "OK" counts as a failure even when the transport succeeded. The last
// error is returned once attempts are exhausted.
func (c *HTTPClient) getWithRetry(ctx context.Context, url string, result interface{}) error {
	var lastErr error
	for attempt := 1; attempt <= c.attempts; attempt++ {
		if attempt > 1 {
			select {
			case <-time.After(c.delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if lastErr = c.get(ctx, url, result); lastErr == nil {
			return nil
		}
	}
	return lastErr
}

func (c *HTTPClient) get(ctx context.Context, url string, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	var envelope apiResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("decode response (http %d): %w", resp.StatusCode, err)
	}

	if envelope.Status != statusOK {
		if envelope.Comment != "" {
			return fmt.Errorf("codeforces error: %s", envelope.Comment)
		}
		return fmt.Errorf("codeforces error: http %d", resp.StatusCode)
	}

	if err := json.Unmarshal(envelope.Result, result); err != nil {
		return fmt.Errorf("decode result: %w", err)
	}
	return nil
}
