// Package tasks implements the task store (one repository per backend) and the
// ownership-scoped task service and HTTP handlers.
// In Nest.js terms this is a TasksModule: entity, repository, service and controller.
package tasks

import (
	"context"
	"time"
)

// Task is a single to-do item owned by one user.
// The JSON names keep the wire format existing clients consume.
type Task struct {
	ID          string    `json:"_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"createdAt"`
	OwnerID     string    `json:"userId"`
}

// Patch lists the fields an update may change. A nil field is left untouched.
type Patch struct {
	Title       *string
	Description *string
	Completed   *bool
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Completed == nil
}

// ListFilter selects tasks for List. Zero values mean "no constraint":
// an empty OwnerID lists every owner, a nil Completed matches both states, and a zero
// Limit returns everything after Skip.
type ListFilter struct {
	OwnerID   string
	Completed *bool
	Skip      int
	Limit     int
}

// Repository persists tasks. Update and Delete are conditional on both the task id and
// the owner id in a single store operation, so there is no window between the ownership
// check and the mutation. A miss (wrong id, wrong owner, or malformed id) is a
// NotFoundError.
type Repository interface {
	Create(ctx context.Context, task *Task) (*Task, error)
	FindByID(ctx context.Context, id string) (*Task, error)
	Update(ctx context.Context, id, ownerID string, patch Patch) (*Task, error)
	Delete(ctx context.Context, id, ownerID string) (*Task, error)
	List(ctx context.Context, filter ListFilter) ([]Task, error)
	DeleteByOwner(ctx context.Context, ownerID string) (int64, error)
}
