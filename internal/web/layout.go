// Package web renders the server-side HTML pages.
package web

import (
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

const siteName = "Moodreel"

const stylesheet = `
body { font-family: system-ui, sans-serif; margin: 0; background: #14141a; color: #eee; }
header { padding: 1rem 2rem; background: #1f1f29; }
header a { color: #9ecbff; margin-right: 1rem; text-decoration: none; }
main { padding: 1rem 2rem; }
.search input[type=text] { width: 60%; padding: .5rem; }
.grid { display: grid; grid-template-columns: repeat(auto-fill, minmax(160px, 1fr)); gap: 1rem; }
.card img { width: 100%; border-radius: 4px; }
.card .meta { color: #aaa; font-size: .85rem; }
.notice { background: #3a2f12; padding: .5rem 1rem; border-radius: 4px; }
.error { color: #ff8080; }
`

// Page is the shared document shell
type Page struct {
	Title    string
	Username string
}

func document(p Page, body ...g.Node) g.Node {
	title := siteName
	if p.Title != "" {
		title = p.Title + " | " + siteName
	}

	return h.Doctype(
		h.HTML(
			h.Lang("en"),
			h.Head(
				h.Meta(h.Charset("utf-8")),
				h.Meta(h.Name("viewport"), h.Content("width=device-width, initial-scale=1")),
				g.El("title", g.Text(title)),
				g.El("style", g.Raw(stylesheet)),
			),
			h.Body(
				navigation(p.Username),
				h.Main(body...),
			),
		),
	)
}

func navigation(username string) g.Node {
	return h.Header(
		h.Nav(
			h.A(h.Href("/"), g.Text("Trending")),
			h.A(h.Href("/popular-movies"), g.Text("Popular Movies")),
			h.A(h.Href("/popular-shows"), g.Text("Popular Shows")),
			g.If(username == "", g.Group{
				h.A(h.Href("/login"), g.Text("Login")),
				h.A(h.Href("/register"), g.Text("Register")),
			}),
			g.If(username != "", g.Group{
				h.Span(g.Textf("Signed in as %s", username)),
				h.A(h.Href("/logout"), g.Text("Logout")),
			}),
		),
	)
}
