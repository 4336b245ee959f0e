package catalog

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/blakestevenson/moodreel/internal/tmdb"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	unknownGenre  = "Unknown"
	genreCacheKey = "genres"

	genreFetchTimeout = 15 * time.Second
)

// GenreTable maps TMDB genre IDs to display names
type GenreTable map[int]string

// Names resolves IDs in order, using "Unknown" for missing entries, and
// joins them with ", "
func (t GenreTable) Names(ids []int) string {
	if len(ids) == 0 {
		return ""
	}
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		name, ok := t[id]
		if !ok {
			name = unknownGenre
		}
		names = append(names, name)
	}
	return strings.Join(names, ", ")
}

// GenreSource is the part of the metadata API the genre table is built from
type GenreSource interface {
	MovieGenres(ctx context.Context) ([]tmdb.Genre, error)
	TVGenres(ctx context.Context) ([]tmdb.Genre, error)
}

// genreResolver caches the merged movie+TV genre table
type genreResolver struct {
	source GenreSource
	cache  *expirable.LRU[string, GenreTable]
	group  singleflight.Group
	logger *zap.Logger
}

// newGenreResolver creates a resolver; ttl 0 fetches a fresh table every time
func newGenreResolver(source GenreSource, ttl time.Duration, logger *zap.Logger) *genreResolver {
	r := &genreResolver{
		source: source,
		logger: logger,
	}
	if ttl > 0 {
		r.cache = expirable.NewLRU[string, GenreTable](1, nil, ttl)
	}
	return r
}

// Table returns the genre table. Fetch failures yield an empty (or partial)
// table that is not cached, so every ID resolves to "Unknown" until the API
// recovers.
func (r *genreResolver) Table(ctx context.Context) GenreTable {
	if r.cache != nil {
		if table, ok := r.cache.Get(genreCacheKey); ok {
			return table
		}
	}

	table, _ := r.load(ctx)
	return table
}

// Refresh fetches the table regardless of the cache
func (r *genreResolver) Refresh(ctx context.Context) error {
	_, err := r.load(ctx)
	return err
}

// load runs one shared fetch for all concurrent callers. The fetch is
// detached from any single caller's context; a caller that goes away stops
// waiting without failing the fetch for the others.
func (r *genreResolver) load(ctx context.Context) (GenreTable, error) {
	ch := r.group.DoChan(genreCacheKey, func() (interface{}, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), genreFetchTimeout)
		defer cancel()

		table, err := r.fetch(fetchCtx)
		if err == nil && r.cache != nil {
			r.cache.Add(genreCacheKey, table)
		}
		return table, err
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return GenreTable{}, ctx.Err()
	}

	if res.Err != nil {
		r.logger.Warn("genre table incomplete", zap.Error(res.Err))
	}
	table, _ := res.Val.(GenreTable)
	if table == nil {
		table = GenreTable{}
	}
	return table, res.Err
}

// fetch merges the movie and TV lists; movie names win on shared IDs
func (r *genreResolver) fetch(ctx context.Context) (GenreTable, error) {
	table := GenreTable{}

	tvGenres, tvErr := r.source.TVGenres(ctx)
	for _, g := range tvGenres {
		table[g.ID] = g.Name
	}

	movieGenres, movieErr := r.source.MovieGenres(ctx)
	for _, g := range movieGenres {
		table[g.ID] = g.Name
	}

	return table, errors.Join(movieErr, tvErr)
}
