package users

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/taskmanager-go/apperror"
	"github.com/user/taskmanager-go/auth"
	"github.com/user/taskmanager-go/validation"
)

type fakePurger struct {
	calls  []string
	purged int64
	err    error
}

func (f *fakePurger) DeleteByOwner(_ context.Context, ownerID string) (int64, error) {
	f.calls = append(f.calls, ownerID)
	return f.purged, f.err
}

type failingRepo struct {
	*MemoryRepository
	findErr error
}

func (f *failingRepo) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.MemoryRepository.FindByEmail(ctx, email)
}

func newTestService(t *testing.T) (*UserService, *MemoryRepository, *fakePurger, *auth.TokenService) {
	t.Helper()
	repo := NewMemoryRepository()
	purger := &fakePurger{}
	tokens := auth.NewTokenService("test-secret", time.Hour)
	return NewUserService(repo, purger, tokens, validation.New()), repo, purger, tokens
}

func janeSignUp() SignUpRequest {
	return SignUpRequest{Name: "Jane", Email: "jane@x.com", Password: "Passw0rd!"}
}

func messageOf(err error) string {
	return apperror.FromError(err).Message
}

func TestSignUp_Success(t *testing.T) {
	t.Parallel()
	svc, repo, _, tokens := newTestService(t)

	res, err := svc.SignUp(context.Background(), janeSignUp())
	require.NoError(t, err)

	assert.NotEmpty(t, res.User.ID)
	assert.Equal(t, "Jane", res.User.Name)
	assert.Equal(t, "jane@x.com", res.User.Email)
	assert.Empty(t, res.User.HashedPassword)
	assert.False(t, res.User.CreatedAt.IsZero())

	userID, err := tokens.Decode(res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, userID)

	stored, err := repo.FindByID(context.Background(), res.User.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "Passw0rd!", stored.HashedPassword)
	assert.True(t, auth.VerifyPassword(stored.HashedPassword, "Passw0rd!"))
}

func TestSignUp_NormalizesEmail(t *testing.T) {
	t.Parallel()
	svc, _, _, _ := newTestService(t)

	req := janeSignUp()
	req.Email = "  Jane@X.com "
	res, err := svc.SignUp(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "jane@x.com", res.User.Email)

	_, err = svc.SignUp(context.Background(), janeSignUp())
	assert.True(t, apperror.IsConflictError(err))
}

func TestSignUp_Duplicate(t *testing.T) {
	t.Parallel()
	svc, _, _, _ := newTestService(t)

	_, err := svc.SignUp(context.Background(), janeSignUp())
	require.NoError(t, err)

	_, err = svc.SignUp(context.Background(), janeSignUp())
	require.Error(t, err)
	assert.True(t, apperror.IsConflictError(err))
	assert.Equal(t, MsgUserExists, messageOf(err))
}

func TestSignUp_Validation(t *testing.T) {
	t.Parallel()
	svc, _, _, _ := newTestService(t)

	cases := []struct {
		name string
		req  SignUpRequest
		want string
	}{
		{"missing name", SignUpRequest{Email: "a@b.co", Password: "Passw0rd!"}, MsgSignUpFieldsRequired},
		{"missing email", SignUpRequest{Name: "Jane", Password: "Passw0rd!"}, MsgSignUpFieldsRequired},
		{"missing password", SignUpRequest{Name: "Jane", Email: "a@b.co"}, MsgSignUpFieldsRequired},
		{"blank name", SignUpRequest{Name: "   ", Email: "a@b.co", Password: "Passw0rd!"}, MsgSignUpFieldsRequired},
		{"short name", SignUpRequest{Name: "Jo", Email: "a@b.co", Password: "Passw0rd!"}, "Name must contain at least 3 characters"},
		{"bad email", SignUpRequest{Name: "Jane", Email: "nope", Password: "Passw0rd!"}, "Please provide a valid email"},
		{"short password", SignUpRequest{Name: "Jane", Email: "a@b.co", Password: "Pw0!"}, auth.ErrPasswordTooShort.Error()},
		{"weak password", SignUpRequest{Name: "Jane", Email: "a@b.co", Password: "password"}, auth.ErrPasswordTooWeak.Error()},
		{"password over bcrypt limit", SignUpRequest{Name: "Jane", Email: "a@b.co", Password: strings.Repeat("A", 71) + "1!"}, auth.ErrPasswordTooLong.Error()},
	}

	for _, tc := range cases {
		_, err := svc.SignUp(context.Background(), tc.req)
		require.Error(t, err, tc.name)
		assert.True(t, apperror.IsValidationError(err), tc.name)
		assert.Equal(t, tc.want, messageOf(err), tc.name)
	}
}

func TestSignUp_StoreFailure(t *testing.T) {
	t.Parallel()
	boom := apperror.NewDatabaseError("failed to get user", errors.New("connection reset"))
	repo := &failingRepo{MemoryRepository: NewMemoryRepository(), findErr: boom}
	svc := NewUserService(repo, &fakePurger{}, auth.NewTokenService("k", time.Hour), validation.New())

	_, err := svc.SignUp(context.Background(), janeSignUp())
	assert.ErrorIs(t, err, boom)
}

func TestSignIn(t *testing.T) {
	t.Parallel()
	svc, _, _, tokens := newTestService(t)

	res, err := svc.SignUp(context.Background(), janeSignUp())
	require.NoError(t, err)

	t.Run("correct credentials", func(t *testing.T) {
		token, err := svc.SignIn(context.Background(), SignInRequest{Email: "JANE@x.com", Password: "Passw0rd!"})
		require.NoError(t, err)
		userID, err := tokens.Decode(token)
		require.NoError(t, err)
		assert.Equal(t, res.User.ID, userID)
	})

	t.Run("wrong password and unknown email look the same", func(t *testing.T) {
		_, wrongPw := svc.SignIn(context.Background(), SignInRequest{Email: "jane@x.com", Password: "Passw0rd?"})
		_, unknown := svc.SignIn(context.Background(), SignInRequest{Email: "john@x.com", Password: "Passw0rd!"})

		for _, err := range []error{wrongPw, unknown} {
			require.Error(t, err)
			assert.True(t, apperror.IsAuthError(err))
			assert.Equal(t, MsgInvalidCredentials, messageOf(err))
		}
	})

	t.Run("missing fields", func(t *testing.T) {
		_, err := svc.SignIn(context.Background(), SignInRequest{Email: "jane@x.com"})
		assert.True(t, apperror.IsValidationError(err))
		assert.Equal(t, MsgSignInFieldsRequired, messageOf(err))
	})
}

func TestDeleteAccount_CascadesTasks(t *testing.T) {
	t.Parallel()
	svc, repo, purger, _ := newTestService(t)
	purger.purged = 3

	res, err := svc.SignUp(context.Background(), janeSignUp())
	require.NoError(t, err)

	purged, err := svc.DeleteAccount(context.Background(), res.User.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, purged)
	assert.Equal(t, []string{res.User.ID}, purger.calls)

	_, err = repo.FindByID(context.Background(), res.User.ID)
	assert.True(t, apperror.IsNotFound(err))

	// The email is free again.
	_, err = svc.SignUp(context.Background(), janeSignUp())
	assert.NoError(t, err)
}

func TestDeleteAccount_PurgeFailureKeepsUser(t *testing.T) {
	t.Parallel()
	svc, repo, purger, _ := newTestService(t)
	purger.err = errors.New("tasks store down")

	res, err := svc.SignUp(context.Background(), janeSignUp())
	require.NoError(t, err)

	_, err = svc.DeleteAccount(context.Background(), res.User.ID)
	require.Error(t, err)

	_, err = repo.FindByID(context.Background(), res.User.ID)
	assert.NoError(t, err)
}

func TestDeleteAccountByEmail_Unknown(t *testing.T) {
	t.Parallel()
	svc, _, purger, _ := newTestService(t)

	_, _, err := svc.DeleteAccountByEmail(context.Background(), "ghost@x.com")
	assert.True(t, apperror.IsNotFound(err))
	assert.Empty(t, purger.calls)
}

func TestSignIn_UnknownEmailStillComparesHash(t *testing.T) {
	t.Parallel()
	svc, _, _, _ := newTestService(t)

	_, err := svc.SignUp(context.Background(), janeSignUp())
	require.NoError(t, err)

	var hashes []string
	svc.verify = func(hash, candidate string) bool {
		hashes = append(hashes, hash)
		return auth.VerifyPassword(hash, candidate)
	}

	_, err = svc.SignIn(context.Background(), SignInRequest{Email: "john@x.com", Password: "Passw0rd!"})
	assert.True(t, apperror.IsAuthError(err))
	require.Len(t, hashes, 1)
	assert.Equal(t, auth.DummyHash(), hashes[0])

	_, err = svc.SignIn(context.Background(), SignInRequest{Email: "jane@x.com", Password: "wrong-Passw0rd!"})
	assert.True(t, apperror.IsAuthError(err))
	assert.Len(t, hashes, 2)
}
