package catalog

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/blakestevenson/moodreel/internal/tmdb"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

// MetadataSource is the subset of the TMDB client the catalog needs
type MetadataSource interface {
	GenreSource
	FirstMatch(ctx context.Context, title string) (*tmdb.Result, error)
	Trending(ctx context.Context, window tmdb.TimeWindow) (*tmdb.Page, error)
	PopularMovies(ctx context.Context) (*tmdb.Page, error)
	PopularTV(ctx context.Context) (*tmdb.Page, error)
	ImageURL(path string) string
}

// Recommender turns a free-text mood into an ordered list of titles
type Recommender interface {
	Recommend(ctx context.Context, prompt string) ([]string, error)
}

// Service defines the catalog operations behind every page
type Service interface {
	// Recommend runs the mood pipeline and falls back to Trending when it
	// yields nothing
	Recommend(ctx context.Context, query string) *Result

	// Trending, PopularMovies and PopularShows return an empty list when the
	// metadata API fails
	Trending(ctx context.Context) []MovieCard
	PopularMovies(ctx context.Context) []MovieCard
	PopularShows(ctx context.Context) []MovieCard

	// Genres returns the current genre table
	Genres(ctx context.Context) GenreTable

	// RefreshGenres refetches the genre table into the cache
	RefreshGenres(ctx context.Context) error
}

// Options tunes the catalog service
type Options struct {
	ListLimit          int
	MaxRecommendations int
	EnrichWorkers      int
	GenreCacheTTL      time.Duration
}

func (o *Options) applyDefaults() {
	if o.ListLimit <= 0 {
		o.ListLimit = 10
	}
	if o.MaxRecommendations <= 0 {
		o.MaxRecommendations = 20
	}
	if o.EnrichWorkers <= 0 {
		o.EnrichWorkers = 4
	}
}

// service implements the Service interface
type service struct {
	source      MetadataSource
	recommender Recommender
	genres      *genreResolver
	opts        Options
	logger      *zap.Logger
}

// NewService creates a new catalog service
func NewService(source MetadataSource, recommender Recommender, opts Options, logger *zap.Logger) Service {
	opts.applyDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}
	return &service{
		source:      source,
		recommender: recommender,
		genres:      newGenreResolver(source, opts.GenreCacheTTL, logger),
		opts:        opts,
		logger:      logger,
	}
}

// Recommend implements Service
func (s *service) Recommend(ctx context.Context, query string) *Result {
	query = strings.TrimSpace(query)
	if query == "" {
		return &Result{Cards: s.Trending(ctx), Source: SourceTrending}
	}

	cards, err := s.recommend(ctx, query)
	if err != nil {
		s.logger.Error("recommendation pipeline failed",
			zap.String("query", query),
			zap.Error(err),
		)
	}

	if len(cards) == 0 {
		s.logger.Info("no recommendations, serving trending",
			zap.String("query", query),
		)
		return &Result{Cards: s.Trending(ctx), Source: SourceTrending, Fallback: true}
	}

	return &Result{Cards: cards, Source: SourceRecommendations}
}

// recommend asks the mood service for titles and resolves each one against
// the metadata search. Titles without a match are dropped; order follows the
// mood service.
func (s *service) recommend(ctx context.Context, query string) ([]MovieCard, error) {
	titles, err := s.recommender.Recommend(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(titles) > s.opts.MaxRecommendations {
		titles = titles[:s.opts.MaxRecommendations]
	}

	matches := make([]*tmdb.Result, len(titles))

	p := pool.New().
		WithMaxGoroutines(s.opts.EnrichWorkers).
		WithContext(ctx)

	for i, title := range titles {
		p.Go(func(ctx context.Context) error {
			match, err := s.source.FirstMatch(ctx, title)
			if err != nil {
				if !errors.Is(err, tmdb.ErrNoResults) {
					s.logger.Warn("title lookup failed",
						zap.String("title", title),
						zap.Error(err),
					)
				}
				return nil
			}
			matches[i] = match
			return nil
		})
	}

	if err := p.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var table GenreTable
	cards := make([]MovieCard, 0, len(matches))
	for _, match := range matches {
		if match == nil {
			continue
		}
		if table == nil {
			table = s.genres.Table(ctx)
		}
		cards = append(cards, buildCard(match, table, s.source.ImageURL, movieTitle, movieDate))
	}

	s.logger.Debug("recommendations enriched",
		zap.String("query", query),
		zap.Int("titles", len(titles)),
		zap.Int("cards", len(cards)),
	)

	return cards, nil
}

// Trending implements Service
func (s *service) Trending(ctx context.Context) []MovieCard {
	page, err := s.source.Trending(ctx, tmdb.TimeWindowDay)
	return s.listing(ctx, SourceTrending, page, err, anyTitle, anyDate)
}

// PopularMovies implements Service
func (s *service) PopularMovies(ctx context.Context) []MovieCard {
	page, err := s.source.PopularMovies(ctx)
	return s.listing(ctx, SourcePopularMovies, page, err, movieTitle, movieDate)
}

// PopularShows implements Service
func (s *service) PopularShows(ctx context.Context) []MovieCard {
	page, err := s.source.PopularTV(ctx)
	return s.listing(ctx, SourcePopularShows, page, err, showTitle, showDate)
}

// Genres implements Service
func (s *service) Genres(ctx context.Context) GenreTable {
	return s.genres.Table(ctx)
}

// RefreshGenres implements Service
func (s *service) RefreshGenres(ctx context.Context) error {
	return s.genres.Refresh(ctx)
}

// listing turns the first ListLimit entries of a page into cards
func (s *service) listing(ctx context.Context, source Source, page *tmdb.Page, err error, title titleFunc, date dateFunc) []MovieCard {
	if err != nil {
		s.logger.Error("failed to fetch listing",
			zap.String("source", string(source)),
			zap.Error(err),
		)
		return []MovieCard{}
	}
	if page == nil || len(page.Results) == 0 {
		return []MovieCard{}
	}

	results := page.Results
	if len(results) > s.opts.ListLimit {
		results = results[:s.opts.ListLimit]
	}

	table := s.genres.Table(ctx)
	cards := make([]MovieCard, 0, len(results))
	for i := range results {
		cards = append(cards, buildCard(&results[i], table, s.source.ImageURL, title, date))
	}
	return cards
}
