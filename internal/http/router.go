package http

import (
	"net/http"

	"github.com/blakestevenson/moodreel/internal/auth"
	"github.com/blakestevenson/moodreel/internal/catalog"
	"github.com/blakestevenson/moodreel/internal/history"
	"github.com/blakestevenson/moodreel/internal/http/handlers"
	"github.com/blakestevenson/moodreel/internal/httputil"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// DefaultRecommendBurst is the per-IP burst allowed on recommendation routes
const DefaultRecommendBurst = 10

// Options configures the router
type Options struct {
	// RecommendRatePerMin caps recommendation requests per client IP
	RecommendRatePerMin int
	RecommendBurst      int
	SecureCookies       bool
}

// NewRouter creates and configures the HTTP router
func NewRouter(
	catalogService catalog.Service,
	authService auth.Service,
	historyService *history.Service,
	opts Options,
	logger *zap.Logger,
) http.Handler {
	if opts.RecommendBurst <= 0 {
		opts.RecommendBurst = DefaultRecommendBurst
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(RecoverMiddleware(logger))
	r.Use(LoggingMiddleware(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(CORSMiddleware)
	r.Use(middleware.Compress(5))

	cookies := handlers.CookieOptions{Secure: opts.SecureCookies}
	limiter := RateLimitMiddleware(NewIPRateLimiter(opts.RecommendRatePerMin, opts.RecommendBurst))

	// Handlers
	catalogHandler := handlers.NewCatalogHandler(catalogService, historyService, logger)
	authHandler := handlers.NewAuthHandler(authService, cookies, logger)
	historyHandler := handlers.NewHistoryHandler(historyService, logger)
	pagesHandler := handlers.NewPagesHandler(catalogService, historyService, authService, cookies, logger)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.RespondJSON(w, http.StatusOK, map[string]string{
			"status": "ok",
		})
	})

	// HTML pages
	r.Group(func(r chi.Router) {
		r.Use(OptionalAuthMiddleware(authService, logger))

		r.Get("/", pagesHandler.Index)
		r.With(limiter).Post("/", pagesHandler.Index)
		r.Get("/popular-movies", pagesHandler.PopularMovies)
		r.Get("/popular-shows", pagesHandler.PopularShows)

		r.Get("/login", pagesHandler.LoginForm)
		r.Post("/login", pagesHandler.Login)
		r.Get("/register", pagesHandler.RegisterForm)
		r.Post("/register", pagesHandler.Register)
		r.Get("/logout", pagesHandler.Logout)
	})

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Public catalog routes; a signed-in caller gets history recorded
		r.Group(func(r chi.Router) {
			r.Use(OptionalAuthMiddleware(authService, logger))

			r.With(limiter).Post("/recommendations", catalogHandler.Recommend)
			r.Get("/trending", catalogHandler.Trending)
			r.Get("/movies/popular", catalogHandler.PopularMovies)
			r.Get("/tv/popular", catalogHandler.PopularShows)
			r.Get("/genres", catalogHandler.Genres)
		})

		// Public auth routes (no authentication required)
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/logout", authHandler.Logout)

			r.With(AuthMiddleware(authService, logger)).Get("/me", authHandler.Me)
		})

		// Protected user routes (require authentication)
		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(authService, logger))

			r.Get("/me/moods", historyHandler.List)
		})
	})

	return r
}
