package auth

// This file defines the HTTP middleware guarding ownership-scoped routes.
// In Nest.js, this would be an AuthGuard implementing `CanActivate`.

import (
	"context"
	"net/http"
	"strings"

	"github.com/user/taskmanager-go/apperror"
	"github.com/user/taskmanager-go/webutil"
)

// Messages returned by the middleware. Clients match on them, keep them stable.
const (
	MsgTokenMissing = "Token is missing, User not authorized"
	MsgTokenInvalid = "Invalid token, User not authorized"
	MsgUserNotFound = "User not found, User not authorized"
)

// TokenDecoder is the part of TokenService the middleware needs.
type TokenDecoder interface {
	Decode(token string) (string, error)
}

// UserFinder resolves a decoded user id to a stored user.
// Implementations return an apperror NotFoundError when the user doesn't exist.
type UserFinder interface {
	FindByID(ctx context.Context, id string) (*User, error)
}

// Middleware returns the authentication middleware.
// It conforms to the standard `func(next http.Handler) http.Handler` shape, so it can be
// applied with chi's `r.Use` or `r.With`.
func Middleware(tokens TokenDecoder, users UserFinder, rs *webutil.Responder) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := bearerToken(r.Header.Get("Authorization"))
			if tokenString == "" {
				rs.Error(w, r, apperror.NewAuthError(MsgTokenMissing, nil))
				return
			}

			userID, err := tokens.Decode(tokenString)
			if err != nil {
				rs.Error(w, r, apperror.NewAuthError(MsgTokenInvalid, err))
				return
			}

			user, err := users.FindByID(r.Context(), userID)
			if err != nil {
				if apperror.IsNotFound(err) {
					rs.Error(w, r, apperror.NewAuthError(MsgUserNotFound, nil))
					return
				}
				// Store failures are not the caller's fault, so they surface as 500.
				rs.Error(w, r, err)
				return
			}

			// Attach the resolved user to the request context for the handlers downstream.
			next.ServeHTTP(w, r.WithContext(NewContextWithUser(r.Context(), user)))
		})
	}
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" header.
// The scheme is matched case-insensitively; anything else yields "".
func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
