package db

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryStore implements Store in process memory. It is used when no
// DATABASE_URL is configured; everything is lost on restart.
type MemoryStore struct {
	mu     sync.RWMutex
	users  map[int64]*User
	moods  []MoodQuery
	nextID int64
	now    func() time.Time
}

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users: make(map[int64]*User),
		now:   time.Now,
	}
}

// CreateUser implements UserStore
func (s *MemoryStore) CreateUser(ctx context.Context, params CreateUserParams) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Username, params.Username) {
			return nil, ErrConflict
		}
		if params.Email != nil && u.Email != nil && strings.EqualFold(*u.Email, *params.Email) {
			return nil, ErrConflict
		}
	}

	s.nextID++
	now := s.now()
	user := &User{
		ID:           s.nextID,
		Username:     params.Username,
		Email:        params.Email,
		PasswordHash: params.PasswordHash,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.users[user.ID] = user

	copied := *user
	return &copied, nil
}

// GetUserByID implements UserStore
func (s *MemoryStore) GetUserByID(ctx context.Context, id int64) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *user
	return &copied, nil
}

// GetUserByUsername implements UserStore
func (s *MemoryStore) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	return s.find(func(u *User) bool {
		return strings.EqualFold(u.Username, username)
	})
}

// GetUserByEmail implements UserStore
func (s *MemoryStore) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	return s.find(func(u *User) bool {
		return u.Email != nil && strings.EqualFold(*u.Email, email)
	})
}

func (s *MemoryStore) find(match func(*User) bool) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if match(u) {
			copied := *u
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

// SetActive flips an account's active flag
func (s *MemoryStore) SetActive(id int64, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return ErrNotFound
	}
	user.IsActive = active
	user.UpdatedAt = s.now()
	return nil
}

// RecordMood implements MoodStore
func (s *MemoryStore) RecordMood(ctx context.Context, q MoodQuery) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[q.UserID]; !ok {
		return ErrNotFound
	}

	q.ID = int64(len(s.moods) + 1)
	if q.CreatedAt.IsZero() {
		q.CreatedAt = s.now()
	}
	s.moods = append(s.moods, q)
	return nil
}

// ListMoods implements MoodStore
func (s *MemoryStore) ListMoods(ctx context.Context, userID int64, limit int) ([]MoodQuery, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var moods []MoodQuery
	for _, q := range s.moods {
		if q.UserID == userID {
			moods = append(moods, q)
		}
	}

	sort.SliceStable(moods, func(i, j int) bool {
		if moods[i].CreatedAt.Equal(moods[j].CreatedAt) {
			return moods[i].ID > moods[j].ID
		}
		return moods[i].CreatedAt.After(moods[j].CreatedAt)
	})

	if limit > 0 && len(moods) > limit {
		moods = moods[:limit]
	}
	return moods, nil
}
