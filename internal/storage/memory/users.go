package memory

import (
	"strings"
	"sync"
	"time"

	"github.com/norrbil/rentals/internal/domain/identity"
)

// UserRepository implements identity.Repository in-memory.
type UserRepository struct {
	mu    sync.RWMutex
	store map[string]identity.User
}

// NewUserRepository constructs repository.
func NewUserRepository() *UserRepository {
	return &UserRepository{store: make(map[string]identity.User)}
}

func (r *UserRepository) FindByID(id string) (identity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.store[id]
	if !ok {
		return identity.User{}, identity.ErrNotFound
	}
	return user, nil
}

func (r *UserRepository) FindByEmail(email string) (identity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.store {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return identity.User{}, identity.ErrNotFound
}

func (r *UserRepository) Save(user identity.User) (identity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	if user.ID == "" {
		user.ID = newID()
		user.CreatedAt = now
	} else if existing, ok := r.store[user.ID]; ok {
		if user.CreatedAt.IsZero() {
			user.CreatedAt = existing.CreatedAt
		}
	}
	user.UpdatedAt = now
	r.store[user.ID] = user
	return user, nil
}

var _ identity.Repository = (*UserRepository)(nil)
