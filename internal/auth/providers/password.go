package providers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/blakestevenson/moodreel/internal/db"
	"golang.org/x/crypto/bcrypt"
)

const (
	ProviderTypePassword = "password"
	MinPasswordLength    = 8
	BcryptCost           = 12
)

// Error types (duplicated to avoid import cycle)
type AuthError string

func (e AuthError) Error() string { return string(e) }

const (
	ErrInvalidCredentials = AuthError("invalid credentials")
	ErrUserInactive       = AuthError("user account is inactive")
	ErrUserExists         = AuthError("user already exists")
	ErrWeakPassword       = AuthError("password does not meet requirements")
)

// PasswordProvider implements username/password authentication
type PasswordProvider struct {
	users db.UserStore
	cost  int
}

// NewPasswordProvider creates a new password authentication provider.
// A cost of zero selects BcryptCost.
func NewPasswordProvider(users db.UserStore, cost int) *PasswordProvider {
	if cost == 0 {
		cost = BcryptCost
	}
	return &PasswordProvider{
		users: users,
		cost:  cost,
	}
}

// Type returns the provider type
func (p *PasswordProvider) Type() string {
	return ProviderTypePassword
}

// Authenticate validates username/password and returns the stored user
func (p *PasswordProvider) Authenticate(ctx context.Context, username, password string) (*db.User, error) {
	dbUser, err := p.users.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(dbUser.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if !dbUser.IsActive {
		return nil, ErrUserInactive
	}

	return dbUser, nil
}

// Register hashes the password and stores a new account
func (p *PasswordProvider) Register(ctx context.Context, username string, email *string, password string) (*db.User, error) {
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}

	// Emails are unique regardless of case
	if email != nil {
		_, err := p.users.GetUserByEmail(ctx, *email)
		switch {
		case err == nil:
			return nil, ErrUserExists
		case !errors.Is(err, db.ErrNotFound):
			return nil, fmt.Errorf("failed to check email: %w", err)
		}
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	dbUser, err := p.users.CreateUser(ctx, db.CreateUserParams{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
	})
	if err != nil {
		if errors.Is(err, db.ErrConflict) {
			return nil, ErrUserExists
		}
		return nil, err
	}

	return dbUser, nil
}

// ValidatePassword checks if a password meets requirements
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return ErrWeakPassword
	}

	// Check for at least one uppercase, one lowercase, and one number
	hasUpper := false
	hasLower := false
	hasNumber := false

	for _, char := range password {
		switch {
		case char >= 'A' && char <= 'Z':
			hasUpper = true
		case char >= 'a' && char <= 'z':
			hasLower = true
		case char >= '0' && char <= '9':
			hasNumber = true
		}
	}

	if !hasUpper || !hasLower || !hasNumber {
		return ErrWeakPassword
	}

	return nil
}
