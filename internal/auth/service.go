package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/blakestevenson/moodreel/internal/auth/providers"
	"github.com/blakestevenson/moodreel/internal/db"
	"go.uber.org/zap"
)

// service implements the Service interface
type service struct {
	users            db.UserStore
	jwt              *JWTManager
	passwordProvider *providers.PasswordProvider
	logger           *zap.Logger
}

// NewService creates a new authentication service
func NewService(users db.UserStore, jwt *JWTManager, passwordProvider *providers.PasswordProvider, logger *zap.Logger) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &service{
		users:            users,
		jwt:              jwt,
		passwordProvider: passwordProvider,
		logger:           logger,
	}
}

// Register creates a new user and issues a token
func (s *service) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)

	if err := ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}

	var emailPtr *string
	if email != "" {
		emailPtr = &email
	}

	dbUser, err := s.passwordProvider.Register(ctx, username, emailPtr, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, providers.ErrWeakPassword):
			return nil, ErrWeakPassword
		case errors.Is(err, providers.ErrUserExists):
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	user := UserFromDB(dbUser)

	session, err := s.issue(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered successfully",
		zap.Int64("user_id", user.ID),
		zap.String("username", user.Username),
		zap.String("provider", s.passwordProvider.Type()),
	)

	return &AuthResponse{User: user, Session: session}, nil
}

// Login authenticates a user and issues a token
func (s *service) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	dbUser, err := s.passwordProvider.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		s.logger.Warn("authentication failed",
			zap.String("username", req.Username),
			zap.Error(err),
		)
		if errors.Is(err, providers.ErrUserInactive) {
			return nil, ErrUserInactive
		}
		return nil, ErrInvalidCredentials
	}

	user := UserFromDB(dbUser)

	session, err := s.issue(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user logged in successfully",
		zap.Int64("user_id", user.ID),
		zap.String("username", user.Username),
	)

	return &AuthResponse{User: user, Session: session}, nil
}

// ValidateToken validates an access token and returns the claims
func (s *service) ValidateToken(ctx context.Context, token string) (*Claims, error) {
	claims, err := s.jwt.ValidateAccessToken(token)
	if err != nil {
		return nil, err
	}

	// Verify user still exists and is active
	user, err := s.GetUser(ctx, claims.UserID)
	if err != nil {
		return nil, ErrInvalidToken
	}

	if !user.IsActive {
		return nil, ErrUserInactive
	}

	return claims, nil
}

// GetUser retrieves a user by ID
func (s *service) GetUser(ctx context.Context, userID int64) (*User, error) {
	dbUser, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return UserFromDB(dbUser), nil
}

func (s *service) issue(user *User) (*Session, error) {
	token, expiresAt, err := s.jwt.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	return &Session{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		TokenType:   "Bearer",
	}, nil
}
