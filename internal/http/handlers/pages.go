package handlers

import (
	"net/http"

	"github.com/blakestevenson/moodreel/internal/auth"
	"github.com/blakestevenson/moodreel/internal/catalog"
	"github.com/blakestevenson/moodreel/internal/history"
	"github.com/blakestevenson/moodreel/internal/httputil"
	"github.com/blakestevenson/moodreel/internal/web"
	"go.uber.org/zap"
)

// PagesHandler serves the server-rendered HTML front end
type PagesHandler struct {
	catalog     catalog.Service
	history     *history.Service
	authService auth.Service
	cookies     CookieOptions
	logger      *zap.Logger
}

// NewPagesHandler creates a new pages handler
func NewPagesHandler(service catalog.Service, history *history.Service, authService auth.Service, cookies CookieOptions, logger *zap.Logger) *PagesHandler {
	return &PagesHandler{
		catalog:     service,
		history:     history,
		authService: authService,
		cookies:     cookies,
		logger:      logger,
	}
}

func page(r *http.Request) web.Page {
	var p web.Page
	if claims, ok := getUserClaims(r); ok {
		p.Username = claims.Username
	}
	return p
}

// Index handles GET and POST /. A submitted query is turned into
// recommendations; anything else shows what is trending.
func (h *PagesHandler) Index(w http.ResponseWriter, r *http.Request) {
	var query string
	if r.Method == http.MethodPost {
		limitBody(w, r)
		if err := r.ParseForm(); err != nil {
			h.indexError(w, r, "Could not read the form, please try again.")
			return
		}
		var ok bool
		query, ok = normalizeQuery(r.PostForm.Get("query"))
		if !ok {
			h.indexError(w, r, "That mood is too long, please keep it under 500 characters.")
			return
		}
	}

	result := recommend(r, h.catalog, h.history, query)

	httputil.RespondHTML(w, http.StatusOK, web.Index(web.IndexData{
		Page:   page(r),
		Query:  query,
		Result: result,
	}))
}

// indexError re-renders the search form with a message and no listing
func (h *PagesHandler) indexError(w http.ResponseWriter, r *http.Request, msg string) {
	httputil.RespondHTML(w, http.StatusBadRequest, web.Index(web.IndexData{
		Page:  page(r),
		Error: msg,
	}))
}

// PopularMovies handles GET /popular-movies
func (h *PagesHandler) PopularMovies(w http.ResponseWriter, r *http.Request) {
	h.listing(w, r, catalog.SourcePopularMovies, h.catalog.PopularMovies(r.Context()))
}

// PopularShows handles GET /popular-shows
func (h *PagesHandler) PopularShows(w http.ResponseWriter, r *http.Request) {
	h.listing(w, r, catalog.SourcePopularShows, h.catalog.PopularShows(r.Context()))
}

func (h *PagesHandler) listing(w http.ResponseWriter, r *http.Request, source catalog.Source, cards []catalog.MovieCard) {
	p := page(r)
	p.Title = web.Heading(source, "")

	httputil.RespondHTML(w, http.StatusOK, web.Index(web.IndexData{
		Page:   p,
		Result: &catalog.Result{Cards: cards, Source: source},
	}))
}

// LoginForm handles GET /login
func (h *PagesHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	httputil.RespondHTML(w, http.StatusOK, web.Login(web.FormData{Page: page(r)}))
}

// Login handles POST /login
func (h *PagesHandler) Login(w http.ResponseWriter, r *http.Request) {
	limitBody(w, r)
	if err := r.ParseForm(); err != nil {
		httputil.RespondErrorMessage(w, http.StatusBadRequest, "invalid form")
		return
	}

	req := auth.LoginRequest{
		Username: r.PostForm.Get("username"),
		Password: r.PostForm.Get("password"),
	}

	response, err := h.authService.Login(r.Context(), req)
	if err != nil {
		status, msg := h.formError(err, "login failed")
		httputil.RespondHTML(w, status, web.Login(web.FormData{
			Page:     page(r),
			Username: req.Username,
			Error:    msg,
		}))
		return
	}

	h.cookies.set(w, response.Session)
	h.loggedIn(w, response.User)
}

// RegisterForm handles GET /register
func (h *PagesHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	httputil.RespondHTML(w, http.StatusOK, web.Register(web.FormData{Page: page(r)}))
}

// Register handles POST /register
func (h *PagesHandler) Register(w http.ResponseWriter, r *http.Request) {
	limitBody(w, r)
	if err := r.ParseForm(); err != nil {
		httputil.RespondErrorMessage(w, http.StatusBadRequest, "invalid form")
		return
	}

	req := auth.RegisterRequest{
		Username: r.PostForm.Get("username"),
		Email:    r.PostForm.Get("email"),
		Password: r.PostForm.Get("password"),
	}

	response, err := h.authService.Register(r.Context(), req)
	if err != nil {
		status, msg := h.formError(err, "registration failed")
		httputil.RespondHTML(w, status, web.Register(web.FormData{
			Page:     page(r),
			Username: req.Username,
			Email:    req.Email,
			Error:    msg,
		}))
		return
	}

	h.cookies.set(w, response.Session)
	h.loggedIn(w, response.User)
}

// Logout handles GET /logout
func (h *PagesHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.cookies.clear(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *PagesHandler) loggedIn(w http.ResponseWriter, user *auth.User) {
	httputil.RespondHTML(w, http.StatusOK,
		web.Message(web.Page{Username: user.Username}, "Logged in as "+user.Username))
}

func (h *PagesHandler) formError(err error, defaultMsg string) (int, string) {
	status, msg := authErrorStatus(err)
	if status == http.StatusInternalServerError {
		h.logger.Error(defaultMsg, zap.Error(err))
		return status, defaultMsg
	}
	h.logger.Warn(defaultMsg, zap.Error(err))
	return status, msg
}
