package catalog

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/blakestevenson/moodreel/internal/tmdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReleaseYear(t *testing.T) {
	tests := map[string]string{
		"":           "N/A",
		"1995-12-15": "1995",
		"2024":       "2024",
		"2024-":      "2024",
	}
	for input, want := range tests {
		if got := releaseYear(input); got != want {
			t.Errorf("releaseYear(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestGenreTableNames(t *testing.T) {
	table := GenreTable{28: "Action", 35: "Comedy"}

	assert.Equal(t, "", table.Names(nil))
	assert.Equal(t, "Action, Comedy", table.Names([]int{28, 35}))
	assert.Equal(t, "Comedy, Unknown, Action", table.Names([]int{35, 99, 28}))
	assert.Equal(t, "Unknown", GenreTable{}.Names([]int{28}))
}

func TestRecommendEnrichesInOrder(t *testing.T) {
	source := newFakeSource()
	rec := &fakeRecommender{titles: []string{"Paddington 2", "Missing Movie", "Heat"}}
	svc := NewService(source, rec, Options{EnrichWorkers: 3}, nil)

	result := svc.Recommend(context.Background(), "  something warm  ")

	assert.Equal(t, "something warm", rec.prompt)
	assert.Equal(t, SourceRecommendations, result.Source)
	assert.False(t, result.Fallback)
	assert.Equal(t, []MovieCard{
		{Title: "Paddington 2", Poster: "", Genres: "Comedy", Year: "N/A"},
		{Title: "Heat", Poster: "https://img.test/w500/heat.jpg", Genres: "Action, Unknown", Year: "1995"},
	}, result.Cards)
}

func TestRecommendEmptyQueryServesTrending(t *testing.T) {
	source := newFakeSource()
	rec := &fakeRecommender{titles: []string{"Heat"}}
	svc := NewService(source, rec, Options{}, nil)

	result := svc.Recommend(context.Background(), "   ")

	assert.Equal(t, SourceTrending, result.Source)
	assert.False(t, result.Fallback)
	assert.Empty(t, rec.prompt, "mood service must not be called")
	assert.Len(t, result.Cards, 3)
}

func TestRecommendFallsBackToTrending(t *testing.T) {
	tests := []struct {
		name string
		rec  *fakeRecommender
		mut  func(*fakeSource)
	}{
		{name: "mood service error", rec: &fakeRecommender{err: errUpstream}},
		{name: "no titles", rec: &fakeRecommender{titles: []string{}}},
		{name: "no matches", rec: &fakeRecommender{titles: []string{"Nope", "Nada"}}},
		{
			name: "every lookup fails",
			rec:  &fakeRecommender{titles: []string{"Heat"}},
			mut: func(s *fakeSource) {
				s.searchErr = map[string]error{"Heat": errUpstream}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := newFakeSource()
			if tt.mut != nil {
				tt.mut(source)
			}
			svc := NewService(source, tt.rec, Options{}, nil)

			result := svc.Recommend(context.Background(), "gloomy")

			assert.Equal(t, SourceTrending, result.Source)
			assert.True(t, result.Fallback)
			require.Len(t, result.Cards, 3)
			assert.Equal(t, "Dune", result.Cards[0].Title)
		})
	}
}

func TestRecommendFallbackCanBeEmpty(t *testing.T) {
	source := newFakeSource()
	source.listErr = errUpstream
	svc := NewService(source, &fakeRecommender{err: errUpstream}, Options{}, nil)

	result := svc.Recommend(context.Background(), "gloomy")

	assert.True(t, result.Fallback)
	assert.NotNil(t, result.Cards)
	assert.Empty(t, result.Cards)
}

func TestRecommendCapsTitles(t *testing.T) {
	source := newFakeSource()
	titles := make([]string, 0, 30)
	for i := 0; i < 30; i++ {
		titles = append(titles, fmt.Sprintf("Title %d", i))
	}
	svc := NewService(source, &fakeRecommender{titles: titles}, Options{MaxRecommendations: 5}, nil)

	svc.Recommend(context.Background(), "anything")

	assert.Equal(t, int32(5), source.searchCalls.Load())
}

func TestRecommendGenreFailureResolvesUnknown(t *testing.T) {
	source := newFakeSource()
	source.genreErr = errUpstream
	svc := NewService(source, &fakeRecommender{titles: []string{"Heat"}}, Options{}, nil)

	result := svc.Recommend(context.Background(), "tense")

	require.Len(t, result.Cards, 1)
	assert.Equal(t, "Unknown, Unknown", result.Cards[0].Genres)
}

func TestTrendingTitlesAndYears(t *testing.T) {
	source := newFakeSource()
	svc := NewService(source, &fakeRecommender{}, Options{}, nil)

	cards := svc.Trending(context.Background())

	assert.Equal(t, []MovieCard{
		{Title: "Dune", Poster: "https://img.test/w500/dune.jpg", Genres: "Action", Year: "2021"},
		{Title: "Severance", Poster: "", Genres: "Drama, Sci-Fi & Fantasy", Year: "2022"},
		{Title: "Untitled", Poster: "", Genres: "", Year: "N/A"},
	}, cards)
}

func TestListingsLimit(t *testing.T) {
	source := newFakeSource()
	var results []tmdb.Result
	for i := 0; i < 20; i++ {
		results = append(results, tmdb.Result{Title: fmt.Sprintf("Movie %d", i), Name: fmt.Sprintf("Show %d", i)})
	}
	source.popular = &tmdb.Page{Results: results}
	source.popularTV = &tmdb.Page{Results: results}
	svc := NewService(source, &fakeRecommender{}, Options{ListLimit: 10}, nil)

	movies := svc.PopularMovies(context.Background())
	shows := svc.PopularShows(context.Background())

	require.Len(t, movies, 10)
	require.Len(t, shows, 10)
	assert.Equal(t, "Movie 0", movies[0].Title)
	assert.Equal(t, "Show 9", shows[9].Title)
}

func TestPopularShowsUseAirDate(t *testing.T) {
	source := newFakeSource()
	source.popularTV = &tmdb.Page{Results: []tmdb.Result{
		{Name: "The Bear", FirstAirDate: "2022-06-23", ReleaseDate: "1999-01-01", GenreIDs: []int{35, 18}},
	}}
	svc := NewService(source, &fakeRecommender{}, Options{}, nil)

	cards := svc.PopularShows(context.Background())

	require.Len(t, cards, 1)
	assert.Equal(t, "2022", cards[0].Year)
	assert.Equal(t, "Comedy, Drama", cards[0].Genres, "movie genre names win on shared IDs")
}

func TestListingsReturnEmptyOnFailure(t *testing.T) {
	source := newFakeSource()
	source.listErr = errUpstream
	svc := NewService(source, &fakeRecommender{}, Options{}, nil)

	for name, cards := range map[string][]MovieCard{
		"trending":       svc.Trending(context.Background()),
		"popular movies": svc.PopularMovies(context.Background()),
		"popular shows":  svc.PopularShows(context.Background()),
	} {
		assert.NotNil(t, cards, name)
		assert.Empty(t, cards, name)
	}
}

func TestGenreCacheTTL(t *testing.T) {
	t.Run("zero ttl fetches every time", func(t *testing.T) {
		source := newFakeSource()
		svc := NewService(source, &fakeRecommender{}, Options{}, nil)

		svc.Genres(context.Background())
		svc.Genres(context.Background())

		assert.Equal(t, int32(2), source.genreCalls.Load())
	})

	t.Run("positive ttl caches", func(t *testing.T) {
		source := newFakeSource()
		svc := NewService(source, &fakeRecommender{}, Options{GenreCacheTTL: time.Hour}, nil)

		table := svc.Genres(context.Background())
		svc.Genres(context.Background())
		svc.Trending(context.Background())

		assert.Equal(t, int32(1), source.genreCalls.Load())
		assert.Equal(t, "Action", table[28])
		assert.Equal(t, "Sci-Fi & Fantasy", table[10765])
	})

	t.Run("failures are not cached", func(t *testing.T) {
		source := newFakeSource()
		source.genreErr = errUpstream
		svc := NewService(source, &fakeRecommender{}, Options{GenreCacheTTL: time.Hour}, nil)

		assert.Empty(t, svc.Genres(context.Background()))

		source.genreErr = nil
		assert.Equal(t, "Drama", svc.Genres(context.Background())[18])
		assert.Equal(t, int32(2), source.genreCalls.Load())
	})
}

func TestRecommendBoundsConcurrentLookups(t *testing.T) {
	source := newFakeSource()
	titles := make([]string, 12)
	for i := range titles {
		titles[i] = fmt.Sprintf("Film %02d", i)
		source.matches[titles[i]] = &tmdb.Result{Title: titles[i], ReleaseDate: "2000-01-01"}
	}

	var active, peak atomic.Int32
	source.onSearch = func(ctx context.Context, title string) error {
		n := active.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		active.Add(-1)
		return nil
	}

	svc := NewService(source, &fakeRecommender{titles: titles}, Options{EnrichWorkers: 3}, nil)
	result := svc.Recommend(context.Background(), "busy")

	assert.LessOrEqual(t, peak.Load(), int32(3))
	assert.Greater(t, peak.Load(), int32(1), "lookups should overlap")
	require.Len(t, result.Cards, len(titles))
	for i, card := range result.Cards {
		assert.Equal(t, titles[i], card.Title)
	}
}

func TestRecommendCancelStopsLookups(t *testing.T) {
	source := newFakeSource()
	titles := []string{"A", "B", "C", "D", "E", "F"}

	started := make(chan struct{})
	var once sync.Once
	var mu sync.Mutex
	var seen []error

	source.onSearch = func(ctx context.Context, title string) error {
		once.Do(func() { close(started) })
		select {
		case <-ctx.Done():
		case <-time.After(5 * time.Second):
		}
		mu.Lock()
		seen = append(seen, ctx.Err())
		mu.Unlock()
		return ctx.Err()
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	svc := NewService(source, &fakeRecommender{titles: titles}, Options{EnrichWorkers: 2}, nil)

	begin := time.Now()
	result := svc.Recommend(ctx, "restless")

	assert.Less(t, time.Since(begin), time.Second)
	assert.True(t, result.Fallback)

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, seen)
	for _, err := range seen {
		assert.ErrorIs(t, err, context.Canceled)
	}
}
