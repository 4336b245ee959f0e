package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/blakestevenson/moodreel/internal/auth"
	"github.com/blakestevenson/moodreel/internal/http/handlers"
	"github.com/blakestevenson/moodreel/internal/httputil"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// LoggingMiddleware logs HTTP requests
func LoggingMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			logger.Info("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("remote_addr", r.RemoteAddr),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}

// RecoverMiddleware recovers from panics and returns a 500 error
func RecoverMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic recovered",
						zap.Any("error", err),
						zap.String("method", r.Method),
						zap.String("path", r.URL.Path),
					)
					httputil.RespondErrorMessage(w, http.StatusInternalServerError, "internal server error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// CORSMiddleware adds CORS headers
func CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin == "" {
			origin = "http://localhost:5173" // Default for development
		}

		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Credentials", "true")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// tokenFromRequest reads the session cookie, falling back to a Bearer header
func tokenFromRequest(r *http.Request) (token string, malformed bool) {
	if cookie, err := r.Cookie(handlers.AccessTokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value, false
	}

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", true
	}
	return parts[1], false
}

// AuthMiddleware validates JWT tokens and adds user claims to context
func AuthMiddleware(authService auth.Service, logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, malformed := tokenFromRequest(r)
			if malformed {
				httputil.RespondErrorMessage(w, http.StatusUnauthorized, "invalid authorization header format")
				return
			}
			if token == "" {
				httputil.RespondErrorMessage(w, http.StatusUnauthorized, "missing authentication")
				return
			}

			claims, err := authService.ValidateToken(r.Context(), token)
			if err != nil {
				logger.Warn("invalid token",
					zap.Error(err),
					zap.String("path", r.URL.Path),
				)
				httputil.RespondErrorMessage(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(handlers.WithClaims(r.Context(), claims)))
		})
	}
}

// OptionalAuthMiddleware is like AuthMiddleware but doesn't fail if no token is provided
func OptionalAuthMiddleware(authService auth.Service, logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token, _ := tokenFromRequest(r); token != "" {
				claims, err := authService.ValidateToken(r.Context(), token)
				if err == nil {
					r = r.WithContext(handlers.WithClaims(r.Context(), claims))
				} else {
					logger.Debug("ignoring invalid token", zap.Error(err))
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

