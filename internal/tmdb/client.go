package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL      = "https://api.themoviedb.org/3"
	DefaultImageBaseURL = "https://image.tmdb.org/t/p/w500"
	DefaultLanguage     = "en-US"

	searchCacheSize = 512
	maxErrorBody    = 4096
)

// Config configures a Client
type Config struct {
	BaseURL      string
	ImageBaseURL string
	BearerToken  string
	Language     string
	Timeout      time.Duration

	// RateLimit is the outbound request budget per second
	RateLimit float64

	// RetryAttempts counts the first try; 1 disables retries
	RetryAttempts int
	RetryDelay    time.Duration

	// SearchCacheTTL of zero disables the search cache
	SearchCacheTTL time.Duration

	HTTPClient *http.Client
}

// Client talks to the TMDB v3 REST API
type Client struct {
	baseURL      string
	imageBaseURL string
	authHeader   string
	language     string
	httpc        *http.Client
	limiter      *rate.Limiter
	attempts     uint
	retryDelay   time.Duration
	searchCache  *expirable.LRU[string, []Result]
	logger       *zap.Logger
}

// NewClient creates a TMDB client
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.ImageBaseURL == "" {
		cfg.ImageBaseURL = DefaultImageBaseURL
	}
	if cfg.Language == "" {
		cfg.Language = DefaultLanguage
	}
	if cfg.RetryAttempts < 1 {
		cfg.RetryAttempts = 1
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 250 * time.Millisecond
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	httpc := cfg.HTTPClient
	if httpc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpc = &http.Client{Timeout: timeout}
	}

	limit := rate.Inf
	burst := 1
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
		burst = int(cfg.RateLimit)
		if burst < 1 {
			burst = 1
		}
	}

	c := &Client{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		imageBaseURL: cfg.ImageBaseURL,
		authHeader:   bearer(cfg.BearerToken),
		language:     cfg.Language,
		httpc:        httpc,
		limiter:      rate.NewLimiter(limit, burst),
		attempts:     uint(cfg.RetryAttempts),
		retryDelay:   cfg.RetryDelay,
		logger:       logger,
	}

	if cfg.SearchCacheTTL > 0 {
		c.searchCache = expirable.NewLRU[string, []Result](searchCacheSize, nil, cfg.SearchCacheTTL)
	}

	return c
}

// bearer accepts either a raw token or a full "Bearer ..." header value
func bearer(token string) string {
	token = strings.TrimSpace(token)
	if token == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		return token
	}
	return "Bearer " + token
}

// ImageURL builds a poster URL, or "" when the path is empty
func (c *Client) ImageURL(path string) string {
	if path == "" {
		return ""
	}
	return c.imageBaseURL + path
}

// MovieGenres fetches the movie genre list
func (c *Client) MovieGenres(ctx context.Context) ([]Genre, error) {
	var resp genreListResponse
	if err := c.get(ctx, "/genre/movie/list", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Genres, nil
}

// TVGenres fetches the TV genre list
func (c *Client) TVGenres(ctx context.Context) ([]Genre, error) {
	var resp genreListResponse
	if err := c.get(ctx, "/genre/tv/list", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Genres, nil
}

// SearchMovie searches movies by title
func (c *Client) SearchMovie(ctx context.Context, query string) ([]Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrNoResults
	}

	key := strings.ToLower(query)
	if c.searchCache != nil {
		if results, ok := c.searchCache.Get(key); ok {
			return results, nil
		}
	}

	var page Page
	params := url.Values{"query": {query}}
	if err := c.get(ctx, "/search/movie", params, &page); err != nil {
		return nil, err
	}

	if c.searchCache != nil {
		c.searchCache.Add(key, page.Results)
	}
	return page.Results, nil
}

// FirstMatch returns the top search hit for a title
func (c *Client) FirstMatch(ctx context.Context, title string) (*Result, error) {
	results, err := c.SearchMovie(ctx, title)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, ErrNoResults
	}
	match := results[0]
	return &match, nil
}

// Trending lists trending titles of every media type
func (c *Client) Trending(ctx context.Context, window TimeWindow) (*Page, error) {
	if window == "" {
		window = TimeWindowDay
	}
	var page Page
	params := url.Values{"page": {"1"}}
	if err := c.get(ctx, "/trending/all/"+string(window), params, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// PopularMovies lists the first page of popular movies
func (c *Client) PopularMovies(ctx context.Context) (*Page, error) {
	var page Page
	if err := c.get(ctx, "/movie/popular", url.Values{"page": {"1"}}, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// PopularTV lists the first page of popular TV shows
func (c *Client) PopularTV(ctx context.Context) (*Page, error) {
	var page Page
	if err := c.get(ctx, "/tv/popular", url.Values{"page": {"1"}}, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// get performs a rate-limited, retried GET and decodes the JSON body into out
func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("language", c.language)
	reqURL := c.baseURL + endpoint + "?" + params.Encode()

	err := retry.Do(
		func() error {
			return c.do(ctx, endpoint, reqURL, out)
		},
		retry.Context(ctx),
		retry.Attempts(c.attempts),
		retry.Delay(c.retryDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(isTemporary),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Warn("retrying tmdb request",
				zap.String("endpoint", endpoint),
				zap.Uint("attempt", n+1),
				zap.Error(err),
			)
		}),
	)
	if err != nil {
		return fmt.Errorf("tmdb %s: %w", endpoint, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, endpoint, reqURL string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("accept", "application/json")
	if c.authHeader != "" {
		req.Header.Set("Authorization", c.authHeader)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{
			StatusCode: resp.StatusCode,
			Endpoint:   endpoint,
			Message:    statusMessage(body),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// statusMessage pulls status_message out of a TMDB error body
func statusMessage(body []byte) string {
	var payload struct {
		StatusMessage string `json:"status_message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return payload.StatusMessage
}

func isTemporary(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Temporary()
	}
	// decode failures are not going to fix themselves
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return false
	}
	return true
}
