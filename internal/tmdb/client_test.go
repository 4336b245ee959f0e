package tmdb

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, mutate ...func(*Config)) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := Config{
		BaseURL:       srv.URL,
		BearerToken:   "secret",
		RetryAttempts: 1,
		RetryDelay:    time.Millisecond,
	}
	for _, m := range mutate {
		m(&cfg)
	}
	return NewClient(cfg, zap.NewNop())
}

func TestBearer(t *testing.T) {
	tests := map[string]string{
		"":           "",
		"abc":        "Bearer abc",
		"Bearer abc": "Bearer abc",
		"bearer abc": "bearer abc",
		"  padded  ": "Bearer padded",
	}
	for input, want := range tests {
		if got := bearer(input); got != want {
			t.Fatalf("bearer(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestImageURL(t *testing.T) {
	c := NewClient(Config{}, nil)
	assert.Equal(t, "", c.ImageURL(""))
	assert.Equal(t, "https://image.tmdb.org/t/p/w500/poster.jpg", c.ImageURL("/poster.jpg"))
}

func TestMovieGenresSendsHeadersAndLanguage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/genre/movie/list", r.URL.Path)
		assert.Equal(t, "en-US", r.URL.Query().Get("language"))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("accept"))
		fmt.Fprint(w, `{"genres":[{"id":28,"name":"Action"},{"id":35,"name":"Comedy"}]}`)
	})

	genres, err := c.MovieGenres(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []Genre{{ID: 28, Name: "Action"}, {ID: 35, Name: "Comedy"}}, genres)
}

func TestSearchMovieUsesCache(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/search/movie", r.URL.Path)
		assert.Equal(t, "Heat", r.URL.Query().Get("query"))
		fmt.Fprint(w, `{"page":1,"results":[{"id":949,"title":"Heat","release_date":"1995-12-15","genre_ids":[28,80]}]}`)
	}, func(cfg *Config) {
		cfg.SearchCacheTTL = time.Minute
	})

	for i := 0; i < 3; i++ {
		results, err := c.SearchMovie(context.Background(), "Heat")
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "Heat", results[0].Title)
	}
	assert.Equal(t, int32(1), calls.Load())
}

func TestFirstMatch(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("query") == "nothing" {
			fmt.Fprint(w, `{"page":1,"results":[]}`)
			return
		}
		fmt.Fprint(w, `{"page":1,"results":[{"id":1,"title":"First"},{"id":2,"title":"Second"}]}`)
	})

	match, err := c.FirstMatch(context.Background(), "anything")
	require.NoError(t, err)
	assert.Equal(t, "First", match.Title)

	_, err = c.FirstMatch(context.Background(), "nothing")
	assert.ErrorIs(t, err, ErrNoResults)

	_, err = c.FirstMatch(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrNoResults)
}

func TestTrendingPath(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/trending/all/day", r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("page"))
		fmt.Fprint(w, `{"page":1,"results":[{"id":1,"name":"Show","media_type":"tv","first_air_date":"2020-01-01"}]}`)
	})

	page, err := c.Trending(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, page.Results, 1)
	assert.Equal(t, "Show", page.Results[0].Name)
	assert.Equal(t, "tv", page.Results[0].MediaType)
}

func TestAPIErrorIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"status_code":7,"status_message":"Invalid API key"}`)
	}, func(cfg *Config) {
		cfg.RetryAttempts = 3
	})

	_, err := c.PopularMovies(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "Invalid API key", apiErr.Message)
	assert.Equal(t, int32(1), calls.Load())
}

func TestServerErrorIsRetried(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, `{"page":1,"results":[{"id":1,"name":"Recovered"}]}`)
	}, func(cfg *Config) {
		cfg.RetryAttempts = 2
	})

	page, err := c.PopularTV(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Recovered", page.Results[0].Name)
	assert.Equal(t, int32(2), calls.Load())
}

func TestCanceledContext(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"genres":[]}`)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.TVGenres(ctx)
	require.Error(t, err)
}
