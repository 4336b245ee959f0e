// Package history keeps a per-user log of mood queries.
package history

import (
	"context"
	"fmt"
	"time"

	"github.com/blakestevenson/moodreel/internal/db"
	"go.uber.org/zap"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Entry is one recorded recommendation request
type Entry struct {
	Query       string    `json:"query"`
	ResultCount int       `json:"result_count"`
	Fallback    bool      `json:"fallback"`
	CreatedAt   time.Time `json:"created_at"`
}

// Service records and lists mood queries
type Service struct {
	store  db.MoodStore
	logger *zap.Logger
}

// NewService creates a history service
func NewService(store db.MoodStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger}
}

// Record stores a query. Failures are logged and swallowed so a broken
// history table never breaks recommendations.
func (s *Service) Record(ctx context.Context, userID int64, query string, resultCount int, fallback bool) {
	err := s.store.RecordMood(ctx, db.MoodQuery{
		UserID:      userID,
		Query:       query,
		ResultCount: resultCount,
		Fallback:    fallback,
	})
	if err != nil {
		s.logger.Warn("failed to record mood query",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
	}
}

// List returns a user's most recent queries, newest first
func (s *Service) List(ctx context.Context, userID int64, limit int) ([]Entry, error) {
	moods, err := s.store.ListMoods(ctx, userID, ClampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}

	entries := make([]Entry, 0, len(moods))
	for _, m := range moods {
		entries = append(entries, Entry{
			Query:       m.Query,
			ResultCount: m.ResultCount,
			Fallback:    m.Fallback,
			CreatedAt:   m.CreatedAt,
		})
	}
	return entries, nil
}

// ClampLimit maps a requested page size into 1..MaxLimit, with
// non-positive values selecting DefaultLimit.
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	}
	return limit
}
