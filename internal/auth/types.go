package auth

import (
	"context"
	"time"

	"github.com/blakestevenson/moodreel/internal/db"
)

// User represents an authenticated user
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// Claims represents JWT token claims
type Claims struct {
	UserID    int64  `json:"user_id"`
	Username  string `json:"username"`
	ExpiresAt int64  `json:"exp"`
	IssuedAt  int64  `json:"iat"`
}

// Session is an issued access token
type Session struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	TokenType   string    `json:"token_type"`
}

// RegisterRequest contains user registration data
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password"`
}

// LoginRequest contains login credentials
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse contains authentication response data
type AuthResponse struct {
	User    *User    `json:"user"`
	Session *Session `json:"session"`
}

// Service defines the authentication service interface
type Service interface {
	// Register creates a new user and signs them in
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)

	// Login authenticates a user and issues a token
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)

	// ValidateToken validates an access token and returns the claims
	ValidateToken(ctx context.Context, token string) (*Claims, error)

	// GetUser retrieves a user by ID
	GetUser(ctx context.Context, userID int64) (*User, error)
}

// UserFromDB converts a stored account to a domain user
func UserFromDB(dbUser *db.User) *User {
	user := &User{
		ID:        dbUser.ID,
		Username:  dbUser.Username,
		IsActive:  dbUser.IsActive,
		CreatedAt: dbUser.CreatedAt,
	}
	if dbUser.Email != nil {
		user.Email = *dbUser.Email
	}
	return user
}
