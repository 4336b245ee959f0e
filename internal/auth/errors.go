package auth

import "errors"

var (
	// ErrInvalidCredentials is returned when authentication fails
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUserNotFound is returned when a user cannot be found
	ErrUserNotFound = errors.New("user not found")

	// ErrUserExists is returned when trying to create a user that already exists
	ErrUserExists = errors.New("user already exists")

	// ErrInvalidToken is returned when a token is invalid or expired
	ErrInvalidToken = errors.New("invalid or expired token")

	// ErrUserInactive is returned when trying to authenticate an inactive user
	ErrUserInactive = errors.New("user account is inactive")

	// ErrWeakPassword is returned when a password doesn't meet requirements
	ErrWeakPassword = errors.New("password must be at least 8 characters with upper, lower and a digit")

	// ErrInvalidEmail is returned when an email is invalid
	ErrInvalidEmail = errors.New("invalid email address")

	// ErrInvalidUsername is returned when a username is invalid
	ErrInvalidUsername = errors.New("username must be 3-32 letters, digits, '_' or '-'")
)

// IsValidationError reports whether err describes bad user input
func IsValidationError(err error) bool {
	return errors.Is(err, ErrWeakPassword) ||
		errors.Is(err, ErrInvalidEmail) ||
		errors.Is(err, ErrInvalidUsername)
}
