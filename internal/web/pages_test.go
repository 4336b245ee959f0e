package web

import (
	"strings"
	"testing"

	"github.com/blakestevenson/moodreel/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	g "maragu.dev/gomponents"
)

func render(t *testing.T, n g.Node) string {
	t.Helper()
	var b strings.Builder
	require.NoError(t, n.Render(&b))
	return b.String()
}

func TestIndexRendersCards(t *testing.T) {
	out := render(t, Index(IndexData{
		Query: "rainy sunday",
		Result: &catalog.Result{
			Source: catalog.SourceRecommendations,
			Cards: []catalog.MovieCard{
				{Title: "Amélie", Poster: "https://img/a.jpg", Genres: "Comedy, Romance", Year: "2001"},
				{Title: "No Poster", Genres: "Drama", Year: "N/A"},
			},
		},
	}))

	assert.True(t, strings.HasPrefix(out, "<!doctype html>"))
	assert.Contains(t, out, "<title>Moodreel</title>")
	assert.Contains(t, out, `value="rainy sunday"`)
	assert.Contains(t, out, "Recommendations for")
	assert.Contains(t, out, `<img src="https://img/a.jpg" alt="Amélie">`)
	assert.Contains(t, out, "Comedy, Romance")
	assert.Equal(t, 1, strings.Count(out, "<img"))
	assert.NotContains(t, out, `class="notice"`)
	assert.Contains(t, out, `href="/login"`)
}

func TestIndexFallbackNotice(t *testing.T) {
	out := render(t, Index(IndexData{
		Query:  "zzz",
		Result: &catalog.Result{Source: catalog.SourceTrending, Fallback: true},
	}))

	assert.Contains(t, out, `class="notice"`)
	assert.Contains(t, out, "Trending Now")
	assert.Contains(t, out, "No titles to show right now.")
}

func TestIndexNilResult(t *testing.T) {
	out := render(t, Index(IndexData{}))
	assert.Contains(t, out, "Trending Now")
}

func TestIndexErrorHidesListing(t *testing.T) {
	out := render(t, Index(IndexData{Error: "That mood is too long"}))

	assert.Contains(t, out, `<p class="error">That mood is too long</p>`)
	assert.Contains(t, out, `action="/"`)
	assert.NotContains(t, out, "Trending Now")
	assert.NotContains(t, out, "No titles to show right now.")
}

func TestHeading(t *testing.T) {
	assert.Equal(t, "Popular Movies", Heading(catalog.SourcePopularMovies, ""))
	assert.Equal(t, "Popular Shows", Heading(catalog.SourcePopularShows, ""))
	assert.Equal(t, "Trending Now", Heading(catalog.SourceTrending, "ignored"))
}

func TestMessageEscapes(t *testing.T) {
	out := render(t, Message(Page{Username: "kim"}, "Logged in as <script>"))
	assert.Contains(t, out, "Logged in as &lt;script&gt;")
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, `href="/logout"`)
}

func TestLoginAndRegisterForms(t *testing.T) {
	out := render(t, Login(FormData{Username: "lee", Error: "invalid credentials"}))
	assert.Contains(t, out, "<title>Login | Moodreel</title>")
	assert.Contains(t, out, `action="/login"`)
	assert.Contains(t, out, `value="lee"`)
	assert.Contains(t, out, "invalid credentials")

	out = render(t, Register(FormData{}))
	assert.Contains(t, out, `action="/register"`)
	assert.Contains(t, out, `name="email"`)
	assert.NotContains(t, out, `class="error"`)
}
