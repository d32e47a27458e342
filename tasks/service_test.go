package tasks

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/taskmanager-go/apperror"
	"github.com/user/taskmanager-go/validation"
)

func newTestService(t *testing.T) (*TaskService, *MemoryRepository) {
	t.Helper()
	repo := NewMemoryRepository()
	return NewTaskService(repo, validation.New()), repo
}

func strPtr(s string) *string { return &s }

func messageOf(err error) string {
	return apperror.FromError(err).Message
}

func TestCreate(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)

	task, err := svc.Create(context.Background(), "alice", CreateTaskRequest{Title: "Buy milk"})
	require.NoError(t, err)
	assert.NotEmpty(t, task.ID)
	assert.Equal(t, "Buy milk", task.Title)
	assert.False(t, task.Completed)
	assert.Equal(t, "alice", task.OwnerID)
	assert.False(t, task.CreatedAt.IsZero())
}

func TestCreate_Validation(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)

	cases := []struct {
		name string
		req  CreateTaskRequest
		want string
	}{
		{"missing title", CreateTaskRequest{}, MsgTitleRequired},
		{"blank title", CreateTaskRequest{Title: "   "}, MsgTitleRequired},
		{"short title", CreateTaskRequest{Title: "ab"}, "Title must contain at least 3 characters"},
		{"short description", CreateTaskRequest{Title: "Buy milk", Description: "soon"}, "Description must contain at least 10 characters"},
	}
	for _, tc := range cases {
		_, err := svc.Create(context.Background(), "alice", tc.req)
		require.Error(t, err, tc.name)
		assert.True(t, apperror.IsValidationError(err), tc.name)
		assert.Equal(t, tc.want, messageOf(err), tc.name)
	}
}

func TestUpdate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _ := newTestService(t)
	task, err := svc.Create(ctx, "alice", CreateTaskRequest{Title: "Buy milk", Description: "Two litres please"})
	require.NoError(t, err)

	done := true
	updated, err := svc.Update(ctx, "alice", task.ID, UpdateTaskRequest{Completed: &done})
	require.NoError(t, err)
	assert.True(t, updated.Completed)
	assert.Equal(t, "Buy milk", updated.Title)
	assert.Equal(t, "Two litres please", updated.Description)

	updated, err = svc.Update(ctx, "alice", task.ID, UpdateTaskRequest{Title: strPtr("Buy oat milk")})
	require.NoError(t, err)
	assert.Equal(t, "Buy oat milk", updated.Title)
	assert.True(t, updated.Completed)
}

func TestUpdate_Rejections(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _ := newTestService(t)
	task, err := svc.Create(ctx, "alice", CreateTaskRequest{Title: "Buy milk"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, "alice", task.ID, UpdateTaskRequest{})
	require.Error(t, err)
	assert.Equal(t, apperror.BadRequestError, apperror.FromError(err).Type)

	_, err = svc.Update(ctx, "alice", task.ID, UpdateTaskRequest{Title: strPtr("ab")})
	assert.True(t, apperror.IsValidationError(err))

	_, err = svc.Update(ctx, "alice", task.ID, UpdateTaskRequest{Title: strPtr(" ")})
	assert.Equal(t, MsgTitleRequired, messageOf(err))

	_, err = svc.Update(ctx, "alice", task.ID, UpdateTaskRequest{Description: strPtr("short")})
	assert.True(t, apperror.IsValidationError(err))

	done := true
	_, err = svc.Update(ctx, "bob", task.ID, UpdateTaskRequest{Completed: &done})
	assert.True(t, apperror.IsNotFound(err))
	assert.Equal(t, MsgTaskNotFound, messageOf(err))

	got, err := svc.Get(ctx, task.ID)
	require.NoError(t, err)
	assert.False(t, got.Completed)
}

func TestDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _ := newTestService(t)
	task, err := svc.Create(ctx, "alice", CreateTaskRequest{Title: "Buy milk"})
	require.NoError(t, err)

	_, err = svc.Delete(ctx, "bob", task.ID)
	assert.True(t, apperror.IsNotFound(err))

	deleted, err := svc.Delete(ctx, "alice", task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.ID, deleted.ID)

	_, err = svc.Get(ctx, task.ID)
	assert.True(t, apperror.IsNotFound(err))
}

func TestParsePage(t *testing.T) {
	t.Parallel()

	cases := []struct {
		page, limit string
		want        Page
	}{
		{"", "", Page{Page: 1, Limit: 10}},
		{"3", "5", Page{Page: 3, Limit: 5}},
		{"0", "", Page{Page: 1, Limit: 10}},
		{"-2", "0", Page{Page: 1, Limit: 10}},
		{"1", "1000", Page{Page: 1, Limit: MaxPageLimit}},
	}
	for _, tc := range cases {
		got, err := ParsePage(tc.page, tc.limit)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "page=%q limit=%q", tc.page, tc.limit)
	}

	_, err := ParsePage("one", "")
	assert.Error(t, err)
	_, err = ParsePage("", "ten")
	assert.Error(t, err)

	// Pages past MaxPage would overflow the offset.
	_, err = ParsePage("9223372036854775807", "2")
	require.Error(t, err)
	assert.Equal(t, MsgInvalidPage, messageOf(err))

	last, err := ParsePage(strconv.Itoa(MaxPage), strconv.Itoa(MaxPageLimit))
	require.NoError(t, err)
	assert.Positive(t, last.Skip())

	assert.Equal(t, 20, Page{Page: 3, Limit: 10}.Skip())
}
