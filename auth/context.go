package auth

// This file deals with carrying the authenticated user inside the request's
// `context.Context`, the standard Go way to pass request-scoped values between
// middleware and handlers.

import (
	"context"
)

// `contextKey` is a custom type for context keys. Using a custom type prevents collisions
// with context keys defined in other packages. It's a common Go idiom.
type contextKey string

const (
	// `userContextKey` is the key under which the middleware stores the resolved user.
	userContextKey contextKey = "auth_user"
)

// NewContextWithUser returns a child context carrying user.
func NewContextWithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFromContext extracts the authenticated user stored by the middleware.
// The second return value reports whether a user was present.
func UserFromContext(ctx context.Context) (*User, bool) {
	user, ok := ctx.Value(userContextKey).(*User)
	return user, ok && user != nil
}
