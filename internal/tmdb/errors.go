package tmdb

import (
	"errors"
	"fmt"
)

// ErrNoResults is returned by FirstMatch when a search comes back empty
var ErrNoResults = errors.New("tmdb: no results")

// APIError is a non-2xx answer from TMDB
type APIError struct {
	StatusCode int
	Endpoint   string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("tmdb %s returned status %d: %s", e.Endpoint, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("tmdb %s returned status %d", e.Endpoint, e.StatusCode)
}

// Temporary reports whether retrying the request can help
func (e *APIError) Temporary() bool {
	return e.StatusCode == 429 || e.StatusCode >= 500
}
