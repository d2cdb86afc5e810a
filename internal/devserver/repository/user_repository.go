package repository

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"brewalgo_client/internal/common"
	"brewalgo_client/internal/domain/model"
)

// UserRecord is a stored account; the hash never leaves the dev backend.
type UserRecord struct {
	model.User
	HashedPassword string
}

type UserRepository interface {
	Create(ctx context.Context, user *UserRecord) error
	FindByEmail(ctx context.Context, email string) (*UserRecord, error)
	FindByUsername(ctx context.Context, username string) (*UserRecord, error)
	FindByID(ctx context.Context, id int64) (*UserRecord, error)
	TouchLogin(ctx context.Context, id int64, at time.Time) error
	IncrementSolved(ctx context.Context, id int64) error
}

type memUserRepository struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]*UserRecord
}

func NewMemUserRepository() UserRepository {
	return &memUserRepository{nextID: 1, byID: make(map[int64]*UserRecord)}
}

// Create assigns the ID and creation time. Usernames and emails are unique
// regardless of case.
func (r *memUserRepository) Create(_ context.Context, user *UserRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.byID {
		if strings.EqualFold(u.Username, user.Username) || strings.EqualFold(u.Email, user.Email) {
			return fmt.Errorf("user with given username or email already exists: %w", common.ErrConflict)
		}
	}
	user.ID = r.nextID
	r.nextID++
	if user.CreatedAt.IsZero() {
		user.CreatedAt = model.Timestamp{Time: time.Now().UTC()}
	}
	stored := *user
	r.byID[user.ID] = &stored
	return nil
}

func (r *memUserRepository) FindByEmail(_ context.Context, email string) (*UserRecord, error) {
	return r.find(func(u *UserRecord) bool { return strings.EqualFold(u.Email, email) })
}

func (r *memUserRepository) FindByUsername(_ context.Context, username string) (*UserRecord, error) {
	return r.find(func(u *UserRecord) bool { return strings.EqualFold(u.Username, username) })
}

func (r *memUserRepository) FindByID(_ context.Context, id int64) (*UserRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	c := *u
	return &c, nil
}

func (r *memUserRepository) TouchLogin(_ context.Context, id int64, at time.Time) error {
	return r.update(id, func(u *UserRecord) { u.LastLoginAt = model.Timestamp{Time: at} })
}

func (r *memUserRepository) IncrementSolved(_ context.Context, id int64) error {
	return r.update(id, func(u *UserRecord) { u.ProblemsSolved++ })
}

func (r *memUserRepository) find(match func(*UserRecord) bool) (*UserRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.byID {
		if match(u) {
			c := *u
			return &c, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *memUserRepository) update(id int64, fn func(*UserRecord)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return common.ErrNotFound
	}
	fn(u)
	return nil
}
