// Package mood talks to the external mood-to-title recommendation service.
package mood

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const DefaultURL = "http://127.0.0.1:5001/get-movies"

var (
	// ErrEmptyPrompt is returned when the prompt is blank
	ErrEmptyPrompt = errors.New("mood: empty prompt")

	// ErrUnexpectedStatus is returned for any non-200 answer
	ErrUnexpectedStatus = errors.New("mood: unexpected status")
)

type request struct {
	Prompt string `json:"prompt"`
}

type response struct {
	Movies []struct {
		Title string `json:"title"`
	} `json:"movies"`
}

// Client calls the recommendation endpoint
type Client struct {
	url    string
	httpc  *http.Client
	logger *zap.Logger
}

// NewClient creates a mood service client
func NewClient(endpoint string, timeout time.Duration, logger *zap.Logger) *Client {
	if endpoint == "" {
		endpoint = DefaultURL
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		url:    endpoint,
		httpc:  &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// Recommend sends the prompt and returns the recommended titles in the
// order the service ranked them
func (c *Client) Recommend(ctx context.Context, prompt string) ([]string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, ErrEmptyPrompt
	}

	body, err := json.Marshal(request{Prompt: prompt})
	if err != nil {
		return nil, fmt.Errorf("marshal mood request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create mood request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("mood request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	var decoded response
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode mood response: %w", err)
	}

	titles := make([]string, 0, len(decoded.Movies))
	for _, m := range decoded.Movies {
		if title := strings.TrimSpace(m.Title); title != "" {
			titles = append(titles, title)
		}
	}

	c.logger.Debug("mood service answered",
		zap.Int("titles", len(titles)),
		zap.Duration("duration", time.Since(start)),
	)

	return titles, nil
}
