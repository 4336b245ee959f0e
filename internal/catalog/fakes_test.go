package catalog

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/blakestevenson/moodreel/internal/tmdb"
)

var errUpstream = errors.New("upstream down")

type fakeSource struct {
	mu          sync.Mutex
	movieGenres []tmdb.Genre
	tvGenres    []tmdb.Genre
	genreErr    error
	matches     map[string]*tmdb.Result
	searchErr   map[string]error
	trending    *tmdb.Page
	popular     *tmdb.Page
	popularTV   *tmdb.Page
	listErr     error

	// onSearch runs at the start of every lookup; a non-nil error fails it
	onSearch func(ctx context.Context, title string) error

	genreCalls  atomic.Int32
	searchCalls atomic.Int32
	searched    []string
}

func (f *fakeSource) MovieGenres(ctx context.Context) ([]tmdb.Genre, error) {
	f.genreCalls.Add(1)
	if f.genreErr != nil {
		return nil, f.genreErr
	}
	return f.movieGenres, nil
}

func (f *fakeSource) TVGenres(ctx context.Context) ([]tmdb.Genre, error) {
	if f.genreErr != nil {
		return nil, f.genreErr
	}
	return f.tvGenres, nil
}

func (f *fakeSource) FirstMatch(ctx context.Context, title string) (*tmdb.Result, error) {
	f.searchCalls.Add(1)
	f.mu.Lock()
	f.searched = append(f.searched, title)
	f.mu.Unlock()

	if f.onSearch != nil {
		if err := f.onSearch(ctx, title); err != nil {
			return nil, err
		}
	}

	if err := f.searchErr[title]; err != nil {
		return nil, err
	}
	match, ok := f.matches[title]
	if !ok {
		return nil, tmdb.ErrNoResults
	}
	copied := *match
	return &copied, nil
}

func (f *fakeSource) Trending(ctx context.Context, window tmdb.TimeWindow) (*tmdb.Page, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.trending, nil
}

func (f *fakeSource) PopularMovies(ctx context.Context) (*tmdb.Page, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.popular, nil
}

func (f *fakeSource) PopularTV(ctx context.Context) (*tmdb.Page, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.popularTV, nil
}

func (f *fakeSource) ImageURL(path string) string {
	if path == "" {
		return ""
	}
	return "https://img.test/w500" + path
}

type fakeRecommender struct {
	titles []string
	err    error
	prompt string
}

func (f *fakeRecommender) Recommend(ctx context.Context, prompt string) ([]string, error) {
	f.prompt = prompt
	return f.titles, f.err
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		movieGenres: []tmdb.Genre{{ID: 28, Name: "Action"}, {ID: 18, Name: "Drama"}, {ID: 35, Name: "Comedy"}},
		tvGenres:    []tmdb.Genre{{ID: 18, Name: "Drama (TV)"}, {ID: 10765, Name: "Sci-Fi & Fantasy"}},
		matches: map[string]*tmdb.Result{
			"Heat": {
				Title:       "Heat",
				PosterPath:  "/heat.jpg",
				ReleaseDate: "1995-12-15",
				GenreIDs:    []int{28, 80},
			},
			"Paddington 2": {
				Title:       "Paddington 2",
				PosterPath:  "",
				ReleaseDate: "",
				GenreIDs:    []int{35},
			},
		},
		trending: &tmdb.Page{Results: []tmdb.Result{
			{Title: "Dune", ReleaseDate: "2021-09-15", PosterPath: "/dune.jpg", GenreIDs: []int{28}},
			{Name: "Severance", FirstAirDate: "2022-02-18", GenreIDs: []int{18, 10765}},
			{GenreIDs: nil},
		}},
	}
}
