package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

const userColumns = `id, username, email, password_hash, is_active, created_at, updated_at`

// PostgresStore implements Store on a pgx pool
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore wraps a connected pool
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// CreateUser inserts an active account
func (s *PostgresStore) CreateUser(ctx context.Context, params CreateUserParams) (*User, error) {
	row := s.pool.QueryRow(ctx,
		`INSERT INTO users (username, email, password_hash, is_active)
		 VALUES ($1, $2, $3, TRUE)
		 RETURNING `+userColumns,
		params.Username, params.Email, params.PasswordHash,
	)

	user, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// GetUserByID fetches an account by primary key
func (s *PostgresStore) GetUserByID(ctx context.Context, id int64) (*User, error) {
	return scanUser(s.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

// GetUserByUsername fetches an account by username
func (s *PostgresStore) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	return scanUser(s.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE LOWER(username) = LOWER($1)`, username))
}

// GetUserByEmail fetches an account by email
func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	return scanUser(s.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE LOWER(email) = LOWER($1)`, email))
}

// RecordMood appends a history entry
func (s *PostgresStore) RecordMood(ctx context.Context, q MoodQuery) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO mood_queries (user_id, query, result_count, fallback)
		 VALUES ($1, $2, $3, $4)`,
		q.UserID, q.Query, q.ResultCount, q.Fallback,
	)
	if err != nil {
		return fmt.Errorf("failed to record mood query: %w", err)
	}
	return nil
}

// ListMoods returns a user's history, newest first
func (s *PostgresStore) ListMoods(ctx context.Context, userID int64, limit int) ([]MoodQuery, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, user_id, query, result_count, fallback, created_at
		 FROM mood_queries
		 WHERE user_id = $1
		 ORDER BY created_at DESC, id DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list mood queries: %w", err)
	}

	moods, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (MoodQuery, error) {
		var q MoodQuery
		err := row.Scan(&q.ID, &q.UserID, &q.Query, &q.ResultCount, &q.Fallback, &q.CreatedAt)
		return q, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan mood queries: %w", err)
	}
	return moods, nil
}
