package users

import (
	"context"
	"sync"
	"time"
)

// MemoryRepository keeps users in process memory.
// It backs STORE_BACKEND=memory and the package tests; uniqueness is checked and the
// row inserted under one lock, which gives the same guarantee as the SQL constraints.
type MemoryRepository struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]User
}

// NewMemoryRepository returns an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byID: make(map[int64]User)}
}

func (r *MemoryRepository) Create(_ context.Context, user *User) (*User, error) {
	email := NormalizeEmail(user.Email)

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.byID {
		if u.Username == user.Username {
			return nil, errUsernameTaken()
		}
		if u.Email == email {
			return nil, errEmailTaken()
		}
	}

	r.nextID++
	user.ID = r.nextID
	user.Email = email
	user.CreatedAt = time.Now().UTC()
	r.byID[user.ID] = *user
	return user, nil
}

func (r *MemoryRepository) GetByID(_ context.Context, id int64) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, errUserNotFound()
	}
	return &u, nil
}

func (r *MemoryRepository) GetByUsername(_ context.Context, username string) (*User, error) {
	return r.find(func(u User) bool { return u.Username == username })
}

func (r *MemoryRepository) GetByEmail(_ context.Context, email string) (*User, error) {
	email = NormalizeEmail(email)
	return r.find(func(u User) bool { return u.Email == email })
}

func (r *MemoryRepository) find(match func(User) bool) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.byID {
		if match(u) {
			return &u, nil
		}
	}
	return nil, errUserNotFound()
}
