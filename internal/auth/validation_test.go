package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		username string
		valid    bool
	}{
		{"bob", true},
		{"night_owl-42", true},
		{"ab", false},
		{"has space", false},
		{"", false},
		{"abcdefghijklmnopqrstuvwxyz0123456", false},
	}

	for _, tt := range tests {
		t.Run(tt.username, func(t *testing.T) {
			err := ValidateUsername(tt.username)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidUsername)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail(""))
	assert.NoError(t, ValidateEmail("film.fan@example.org"))
	assert.ErrorIs(t, ValidateEmail("film.fan@"), ErrInvalidEmail)
	assert.ErrorIs(t, ValidateEmail("nope"), ErrInvalidEmail)
}
