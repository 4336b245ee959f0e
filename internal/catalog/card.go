package catalog

import (
	"strings"

	"github.com/blakestevenson/moodreel/internal/tmdb"
)

const (
	untitled    = "Untitled"
	unknownYear = "N/A"
)

// MovieCard is the uniform display record for every listing
type MovieCard struct {
	Title  string `json:"title"`
	Poster string `json:"poster"`
	Genres string `json:"genres"`
	Year   string `json:"year"`
}

// Source tells where a list of cards came from
type Source string

const (
	SourceRecommendations Source = "recommendations"
	SourceTrending        Source = "trending"
	SourcePopularMovies   Source = "popular_movies"
	SourcePopularShows    Source = "popular_shows"
)

// Result is the outcome of a recommendation request
type Result struct {
	Cards  []MovieCard `json:"movies"`
	Source Source      `json:"source"`

	// Fallback is set when a non-empty query produced no recommendations
	// and the trending list was served instead
	Fallback bool `json:"fallback"`
}

// releaseYear returns the part of an ISO date before the first dash
func releaseYear(date string) string {
	if date == "" {
		return unknownYear
	}
	year, _, _ := strings.Cut(date, "-")
	return year
}

// titleFunc picks the display title of a listing entry
type titleFunc func(r *tmdb.Result) string

// dateFunc picks the date a year is derived from
type dateFunc func(r *tmdb.Result) string

func movieTitle(r *tmdb.Result) string { return r.Title }
func showTitle(r *tmdb.Result) string  { return r.Name }

func anyTitle(r *tmdb.Result) string {
	switch {
	case r.Title != "":
		return r.Title
	case r.Name != "":
		return r.Name
	default:
		return untitled
	}
}

func movieDate(r *tmdb.Result) string { return r.ReleaseDate }
func showDate(r *tmdb.Result) string  { return r.FirstAirDate }

func anyDate(r *tmdb.Result) string {
	if r.ReleaseDate != "" {
		return r.ReleaseDate
	}
	return r.FirstAirDate
}

// buildCard assembles a card; imageURL turns a poster path into a full URL
func buildCard(r *tmdb.Result, genres GenreTable, imageURL func(string) string, title titleFunc, date dateFunc) MovieCard {
	return MovieCard{
		Title:  title(r),
		Poster: imageURL(r.PosterPath),
		Genres: genres.Names(r.GenreIDs),
		Year:   releaseYear(date(r)),
	}
}
