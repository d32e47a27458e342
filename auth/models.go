// Package auth is responsible for the authentication primitives of the task manager:
// the User entity, password hashing, JWT issuance/verification and the middleware
// that turns a bearer token into a request-scoped user.
// In a Nest.js analogy, this directory would correspond to an "AuthModule" exporting
// a JwtService, a password helper, and an AuthGuard.
package auth

import "time"

// User represents a registered user.
// This struct is analogous to an "Entity" in ORM terms. The JSON tags keep the wire
// format that existing frontends consume (`_id`, camelCase timestamps).
type User struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	// The `json:"-"` tag means encoding/json ignores the field, so the hash can never
	// end up in an API response.
	HashedPassword string    `json:"-"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Public returns a copy of the user without the password hash, for responses.
func (u User) Public() User {
	u.HashedPassword = ""
	return u
}
