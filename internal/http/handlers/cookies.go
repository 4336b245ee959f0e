package handlers

import (
	"net/http"
	"time"

	"github.com/blakestevenson/moodreel/internal/auth"
)

// AccessTokenCookie is the name of the session cookie
const AccessTokenCookie = "access_token"

// CookieOptions controls how the session cookie is written
type CookieOptions struct {
	// Secure restricts the cookie to HTTPS; enabled in production
	Secure bool
}

func (o CookieOptions) set(w http.ResponseWriter, session *auth.Session) {
	maxAge := int(time.Until(session.ExpiresAt).Seconds())
	if maxAge < 1 {
		maxAge = 1
	}

	http.SetCookie(w, &http.Cookie{
		Name:     AccessTokenCookie,
		Value:    session.AccessToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   o.Secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	})
}

func (o CookieOptions) clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     AccessTokenCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   o.Secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1, // Expire immediately
	})
}
