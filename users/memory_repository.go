package users

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/user/taskmanager-go/apperror"
	"github.com/user/taskmanager-go/auth"
)

// MemoryRepository keeps users in process memory. It backs the `memory://` database
// URI for local runs and serves as the store in tests.
type MemoryRepository struct {
	mu      sync.RWMutex
	byID    map[string]auth.User
	byEmail map[string]string
}

// NewMemoryRepository creates an empty MemoryRepository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:    make(map[string]auth.User),
		byEmail: make(map[string]string),
	}
}

func (r *MemoryRepository) Create(_ context.Context, user *auth.User) (*auth.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byEmail[user.Email]; taken {
		return nil, apperror.NewConflictError(MsgUserExists, nil)
	}

	created := *user
	created.ID = uuid.NewString()
	r.byID[created.ID] = created
	r.byEmail[created.Email] = created.ID
	return &created, nil
}

func (r *MemoryRepository) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, apperror.NewNotFoundError(msgNotFound, nil)
	}
	u := r.byID[id]
	return &u, nil
}

func (r *MemoryRepository) FindByID(_ context.Context, id string) (*auth.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, apperror.NewNotFoundError(msgNotFound, nil)
	}
	return &u, nil
}

func (r *MemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return apperror.NewNotFoundError(msgNotFound, nil)
	}
	delete(r.byID, id)
	delete(r.byEmail, u.Email)
	return nil
}
