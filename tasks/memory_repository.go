package tasks

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/user/taskmanager-go/apperror"
)

// MsgTaskNotFound is returned for any task lookup or owner-scoped mutation that misses.
const MsgTaskNotFound = "Task not found."

func notFound() error {
	return apperror.NewNotFoundError(MsgTaskNotFound, nil)
}

// MemoryRepository keeps tasks in process memory, in insertion order.
type MemoryRepository struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]Task
}

// NewMemoryRepository creates an empty MemoryRepository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byID: make(map[string]Task)}
}

func (r *MemoryRepository) Create(_ context.Context, task *Task) (*Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := *task
	created.ID = uuid.NewString()
	r.byID[created.ID] = created
	r.order = append(r.order, created.ID)
	return &created, nil
}

func (r *MemoryRepository) FindByID(_ context.Context, id string) (*Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.byID[id]
	if !ok {
		return nil, notFound()
	}
	return &t, nil
}

func (r *MemoryRepository) Update(_ context.Context, id, ownerID string, patch Patch) (*Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.byID[id]
	if !ok || t.OwnerID != ownerID {
		return nil, notFound()
	}
	if patch.Title != nil {
		t.Title = *patch.Title
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	if patch.Completed != nil {
		t.Completed = *patch.Completed
	}
	r.byID[id] = t
	return &t, nil
}

func (r *MemoryRepository) Delete(_ context.Context, id, ownerID string) (*Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.byID[id]
	if !ok || t.OwnerID != ownerID {
		return nil, notFound()
	}
	r.remove(id)
	return &t, nil
}

func (r *MemoryRepository) List(_ context.Context, filter ListFilter) ([]Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tasks := []Task{}
	skipped := 0
	for _, id := range r.order {
		t := r.byID[id]
		if filter.OwnerID != "" && t.OwnerID != filter.OwnerID {
			continue
		}
		if filter.Completed != nil && t.Completed != *filter.Completed {
			continue
		}
		if skipped < filter.Skip {
			skipped++
			continue
		}
		tasks = append(tasks, t)
		if filter.Limit > 0 && len(tasks) == filter.Limit {
			break
		}
	}
	return tasks, nil
}

func (r *MemoryRepository) DeleteByOwner(_ context.Context, ownerID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var deleted int64
	for _, id := range append([]string(nil), r.order...) {
		if r.byID[id].OwnerID == ownerID {
			r.remove(id)
			deleted++
		}
	}
	return deleted, nil
}

// remove drops id from both indexes. Callers hold the write lock.
func (r *MemoryRepository) remove(id string) {
	delete(r.byID, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}
