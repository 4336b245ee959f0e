package handlers

import (
	"context"
	"net/http"

	"github.com/blakestevenson/moodreel/internal/auth"
)

type contextKey string

// ContextKeyUser is the context key for storing user claims
const ContextKeyUser contextKey = "user"

// WithClaims returns a copy of ctx carrying the authenticated user's claims
func WithClaims(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, ContextKeyUser, claims)
}

// getUserClaims extracts user claims from the request context
func getUserClaims(r *http.Request) (*auth.Claims, bool) {
	claims, ok := r.Context().Value(ContextKeyUser).(*auth.Claims)
	return claims, ok
}
