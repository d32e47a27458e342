// Package users implements account management: the credential store
// (repositories for each backend) and the sign-up / sign-in service and handlers.
// It reuses the `auth.User` entity, the same way a Nest.js UsersModule would import
// the entity exported by the AuthModule.
package users

import (
	"context"

	"github.com/user/taskmanager-go/auth"
)

// Messages the credential store and service hand back to clients.
const (
	MsgUserExists = "User already exists."
	msgNotFound   = "User not found."
)

// Repository persists users. Every backend (MongoDB, PostgreSQL, memory) satisfies it.
//
// Create assigns the ID and returns a ConflictError when the email is taken.
// FindByEmail and FindByID return a NotFoundError on a miss.
type Repository interface {
	Create(ctx context.Context, user *auth.User) (*auth.User, error)
	FindByEmail(ctx context.Context, email string) (*auth.User, error)
	FindByID(ctx context.Context, id string) (*auth.User, error)
	Delete(ctx context.Context, id string) error
}

// TaskPurger removes every task owned by a user. The tasks package provides it;
// declaring the interface here keeps users independent of tasks.
type TaskPurger interface {
	DeleteByOwner(ctx context.Context, ownerID string) (int64, error)
}
