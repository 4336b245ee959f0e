package db

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a row does not exist
	ErrNotFound = errors.New("record not found")

	// ErrConflict is returned when a unique constraint would be violated
	ErrConflict = errors.New("record already exists")
)

// User is a stored account
type User struct {
	ID           int64
	Username     string
	Email        *string
	PasswordHash string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CreateUserParams holds the fields of a new account
type CreateUserParams struct {
	Username     string
	Email        *string
	PasswordHash string
}

// MoodQuery is one logged recommendation request
type MoodQuery struct {
	ID          int64
	UserID      int64
	Query       string
	ResultCount int
	Fallback    bool
	CreatedAt   time.Time
}

// UserStore persists accounts. Username and email lookups are
// case-insensitive.
type UserStore interface {
	CreateUser(ctx context.Context, params CreateUserParams) (*User, error)
	GetUserByID(ctx context.Context, id int64) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
}

// MoodStore persists mood query history
type MoodStore interface {
	RecordMood(ctx context.Context, q MoodQuery) error
	ListMoods(ctx context.Context, userID int64, limit int) ([]MoodQuery, error)
}

// Store is everything the application persists
type Store interface {
	UserStore
	MoodStore
}
