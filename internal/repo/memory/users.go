package memory

import (
	"context"
	"sync"
	"time"

	"github.com/wekesa360/todohub/internal/domain/user"
)

// UsersRepo is an in-memory credential store with the same semantics as
// the postgres one: unique usernames, no hard deletes.
type UsersRepo struct {
	mu     sync.RWMutex
	byID   map[string]user.User
	byName map[string]string // username -> id
}

func NewUsersRepo() *UsersRepo {
	return &UsersRepo{
		byID:   make(map[string]user.User),
		byName: make(map[string]string),
	}
}

func (r *UsersRepo) GetByUsername(_ context.Context, username string) (user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byName[username]
	if !ok {
		return user.User{}, user.ErrNotFound
	}

	return r.byID[id], nil
}

func (r *UsersRepo) GetByID(_ context.Context, id string) (user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}

	return u, nil
}

func (r *UsersRepo) Create(_ context.Context, u user.User) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[u.Username]; exists {
		return user.User{}, user.ErrUsernameTaken
	}

	r.byID[u.ID] = u
	r.byName[u.Username] = u.ID

	return u, nil
}

func (r *UsersRepo) UpdatePassword(_ context.Context, id, hashedPassword string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return user.ErrNotFound
	}

	u.HashedPassword = hashedPassword
	u.UpdatedAt = time.Now().UTC()
	r.byID[id] = u

	return nil
}
