package users

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/user/taskmanager-go/apperror"
	"github.com/user/taskmanager-go/auth"
	"github.com/user/taskmanager-go/validation"
)

// Client-facing messages. Sign-in uses the same message for an unknown email and a wrong
// password so the endpoint can't be used to discover which emails are registered.
const (
	MsgSignUpFieldsRequired = "All fields are required: name, email, and password."
	MsgSignInFieldsRequired = "All fields are required: email, and password."
	MsgInvalidCredentials   = "Invalid email or password."
)

// TokenIssuer is the part of auth.TokenService the service needs.
type TokenIssuer interface {
	Issue(userID string) (string, error)
}

// UserService implements sign-up, sign-in and account deletion.
// Dependencies are injected through the constructor, which is the Go counterpart of
// Nest.js constructor injection.
type UserService struct {
	users     Repository
	tasks     TaskPurger
	tokens    TokenIssuer
	validator *validation.Validator
	now       func() time.Time
	verify    func(hash, candidate string) bool
}

// NewUserService creates a UserService.
func NewUserService(users Repository, tasks TaskPurger, tokens TokenIssuer, validator *validation.Validator) *UserService {
	return &UserService{
		users:     users,
		tasks:     tasks,
		tokens:    tokens,
		validator: validator,
		now:       time.Now,
		verify:    auth.VerifyPassword,
	}
}

// SignUp registers a new user and returns it together with a fresh token.
func (s *UserService) SignUp(ctx context.Context, req SignUpRequest) (*SignUpResult, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = normalizeEmail(req.Email)
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return nil, apperror.NewValidationError(MsgSignUpFieldsRequired, nil)
	}
	// Field rules (length, email format, password policy) are checked before any
	// hashing happens.
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	_, err := s.users.FindByEmail(ctx, req.Email)
	switch {
	case err == nil:
		return nil, apperror.NewConflictError(MsgUserExists, nil)
	case !apperror.IsNotFound(err):
		return nil, err
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperror.NewValidationError(err.Error(), err)
	}

	now := s.now().UTC()
	// A concurrent sign-up with the same email still ends as a ConflictError here,
	// because the store enforces uniqueness.
	created, err := s.users.Create(ctx, &auth.User{
		Name:           req.Name,
		Email:          req.Email,
		HashedPassword: hashed,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(created.ID)
	if err != nil {
		return nil, apperror.NewInternalError("failed to issue token", err)
	}

	return &SignUpResult{User: created.Public(), Token: token}, nil
}

// SignIn checks the credentials and returns a token.
func (s *UserService) SignIn(ctx context.Context, req SignInRequest) (string, error) {
	email := normalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return "", apperror.NewValidationError(MsgSignInFieldsRequired, nil)
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if apperror.IsNotFound(err) {
			// Pay for a bcrypt compare anyway so response time doesn't reveal
			// whether the email is registered.
			s.verify(auth.DummyHash(), req.Password)
			return "", apperror.NewAuthError(MsgInvalidCredentials, nil)
		}
		return "", err
	}

	if !s.verify(user.HashedPassword, req.Password) {
		return "", apperror.NewAuthError(MsgInvalidCredentials, nil)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", apperror.NewInternalError("failed to issue token", err)
	}
	return token, nil
}

// DeleteAccount removes a user and, first, every task they own.
// The two steps run sequentially; if the user delete fails after the purge the
// account is left without tasks, never the other way round.
func (s *UserService) DeleteAccount(ctx context.Context, userID string) (int64, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return 0, err
	}

	purged, err := s.tasks.DeleteByOwner(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("purge tasks of user %s: %w", userID, err)
	}

	if err := s.users.Delete(ctx, userID); err != nil {
		return purged, fmt.Errorf("delete user %s: %w", userID, err)
	}
	return purged, nil
}

// DeleteAccountByEmail resolves the email and calls DeleteAccount.
func (s *UserService) DeleteAccountByEmail(ctx context.Context, email string) (*auth.User, int64, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, 0, err
	}
	purged, err := s.DeleteAccount(ctx, user.ID)
	if err != nil {
		return nil, purged, err
	}
	public := user.Public()
	return &public, purged, nil
}

// normalizeEmail trims and lower-cases an email so uniqueness is case-insensitive.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
