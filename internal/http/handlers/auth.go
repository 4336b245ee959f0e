package handlers

import (
	"errors"
	"net/http"

	"github.com/blakestevenson/moodreel/internal/auth"
	"github.com/blakestevenson/moodreel/internal/httputil"
	"go.uber.org/zap"
)

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	authService auth.Service
	cookies     CookieOptions
	logger      *zap.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService auth.Service, cookies CookieOptions, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cookies:     cookies,
		logger:      logger,
	}
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	limitBody(w, r)

	var req auth.RegisterRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	response, err := h.authService.Register(r.Context(), req)
	if err != nil {
		h.handleAuthError(w, err, "registration failed")
		return
	}

	h.cookies.set(w, response.Session)

	httputil.RespondJSON(w, http.StatusCreated, response)
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	limitBody(w, r)

	var req auth.LoginRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	response, err := h.authService.Login(r.Context(), req)
	if err != nil {
		h.handleAuthError(w, err, "login failed")
		return
	}

	h.cookies.set(w, response.Session)

	httputil.RespondJSON(w, http.StatusOK, response)
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.cookies.clear(w)

	httputil.RespondJSON(w, http.StatusOK, map[string]string{
		"message": "logged out successfully",
	})
}

// Me returns the current user's information
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := getUserClaims(r)
	if !ok {
		httputil.RespondErrorMessage(w, http.StatusUnauthorized, "authentication required")
		return
	}

	user, err := h.authService.GetUser(r.Context(), claims.UserID)
	if err != nil {
		h.handleAuthError(w, err, "failed to get user information")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, user)
}

// handleAuthError maps authentication errors to HTTP responses
func (h *AuthHandler) handleAuthError(w http.ResponseWriter, err error, defaultMsg string) {
	h.logger.Warn(defaultMsg, zap.Error(err))

	status, msg := authErrorStatus(err)
	if status == http.StatusInternalServerError {
		msg = defaultMsg
	}
	httputil.RespondErrorMessage(w, status, msg)
}

// authErrorStatus maps an auth error to a status code and a user-facing message
func authErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, auth.ErrUserExists):
		return http.StatusConflict, "user already exists"
	case errors.Is(err, auth.ErrUserNotFound):
		return http.StatusNotFound, "user not found"
	case errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized, "invalid or expired token"
	case errors.Is(err, auth.ErrUserInactive):
		return http.StatusForbidden, "user account is inactive"
	case auth.IsValidationError(err):
		return http.StatusBadRequest, err.Error()
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}
