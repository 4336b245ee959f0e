package web

import (
	"github.com/blakestevenson/moodreel/internal/catalog"
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

// IndexData feeds the listing page
type IndexData struct {
	Page
	Query  string
	Result *catalog.Result
	Error  string
}

// Heading returns the title shown above a list of cards
func Heading(source catalog.Source, query string) string {
	switch source {
	case catalog.SourceRecommendations:
		return "Recommendations for “" + query + "”"
	case catalog.SourcePopularMovies:
		return "Popular Movies"
	case catalog.SourcePopularShows:
		return "Popular Shows"
	default:
		return "Trending Now"
	}
}

// Index renders the search form and a grid of cards
func Index(d IndexData) g.Node {
	result := d.Result
	if result == nil {
		result = &catalog.Result{Source: catalog.SourceTrending}
	}

	search := h.Form(h.Class("search"), h.Method("post"), h.Action("/"),
		h.Input(h.Type("text"), h.Name("query"), h.Value(d.Query),
			h.Placeholder("How are you feeling tonight?")),
		h.Button(h.Type("submit"), g.Text("Find movies")),
	)

	// A rejected search shows only the form and the reason
	if d.Error != "" {
		return document(d.Page, search, formError(d.Error))
	}

	return document(d.Page,
		search,
		g.If(result.Fallback,
			h.P(h.Class("notice"),
				g.Textf("Nothing matched “%s”, so here is what is trending instead.", d.Query)),
		),
		h.H1(g.Text(Heading(result.Source, d.Query))),
		g.If(len(result.Cards) == 0, h.P(g.Text("No titles to show right now."))),
		h.Div(h.Class("grid"), g.Group(g.Map(result.Cards, card))),
	)
}

func card(c catalog.MovieCard) g.Node {
	return h.Div(h.Class("card"),
		g.If(c.Poster != "", h.Img(h.Src(c.Poster), h.Alt(c.Title))),
		h.H2(g.Text(c.Title)),
		h.P(h.Class("meta"), g.Text(c.Year)),
		h.P(h.Class("meta"), g.Text(c.Genres)),
	)
}

// FormData feeds the login and register pages
type FormData struct {
	Page
	Username string
	Email    string
	Error    string
}

// Login renders the sign-in form
func Login(d FormData) g.Node {
	d.Page.Title = "Login"
	return document(d.Page,
		h.H1(g.Text("Login")),
		formError(d.Error),
		h.Form(h.Method("post"), h.Action("/login"),
			field("Username", "username", "text", d.Username),
			field("Password", "password", "password", ""),
			h.Button(h.Type("submit"), g.Text("Login")),
		),
		h.P(g.Text("No account? "), h.A(h.Href("/register"), g.Text("Register"))),
	)
}

// Register renders the sign-up form
func Register(d FormData) g.Node {
	d.Page.Title = "Register"
	return document(d.Page,
		h.H1(g.Text("Register")),
		formError(d.Error),
		h.Form(h.Method("post"), h.Action("/register"),
			field("Username", "username", "text", d.Username),
			field("Email (optional)", "email", "email", d.Email),
			field("Password", "password", "password", ""),
			h.Button(h.Type("submit"), g.Text("Create account")),
		),
	)
}

// Message renders a single line of text
func Message(p Page, text string) g.Node {
	return document(p,
		h.P(g.Text(text)),
		h.P(h.A(h.Href("/"), g.Text("Back to movies"))),
	)
}

func formError(msg string) g.Node {
	return g.If(msg != "", h.P(h.Class("error"), g.Text(msg)))
}

func field(label, name, kind, value string) g.Node {
	return h.Div(
		h.Label(h.For(name), g.Text(label)),
		h.Input(h.ID(name), h.Type(kind), h.Name(name), g.If(value != "", h.Value(value))),
	)
}
