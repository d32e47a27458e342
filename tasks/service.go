package tasks

import (
	"context"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/user/taskmanager-go/apperror"
	"github.com/user/taskmanager-go/validation"
)

const (
	MsgTitleRequired   = "Title is required."
	MsgNothingToUpdate = "Nothing to update: provide title, description or completed."
	MsgInvalidPage     = "page and limit must be integers."

	DefaultPageLimit = 10
	MaxPageLimit     = 100

	// MaxPage keeps (page-1)*limit within an int for any accepted limit.
	MaxPage = math.MaxInt / MaxPageLimit
)

// TaskService holds the task use cases. Every mutation is scoped to the calling user;
// reads are open.
type TaskService struct {
	repo      Repository
	validator *validation.Validator
	now       func() time.Time
}

// NewTaskService creates a TaskService.
func NewTaskService(repo Repository, validator *validation.Validator) *TaskService {
	return &TaskService{repo: repo, validator: validator, now: time.Now}
}

// Create stores a new, incomplete task owned by ownerID.
func (s *TaskService) Create(ctx context.Context, ownerID string, req CreateTaskRequest) (*Task, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	if req.Title == "" {
		return nil, apperror.NewValidationError(MsgTitleRequired, nil)
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	return s.repo.Create(ctx, &Task{
		Title:       req.Title,
		Description: req.Description,
		CreatedAt:   s.now().UTC(),
		OwnerID:     ownerID,
	})
}

// Update applies a partial update to a task owned by ownerID. Both update routes end
// here; they differ only in which fields clients usually send.
func (s *TaskService) Update(ctx context.Context, ownerID, taskID string, req UpdateTaskRequest) (*Task, error) {
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, apperror.NewValidationError(MsgTitleRequired, nil)
		}
		req.Title = &title
	}
	if req.Description != nil {
		desc := strings.TrimSpace(*req.Description)
		req.Description = &desc
	}

	patch := req.patch()
	if patch.IsEmpty() {
		return nil, apperror.NewBadRequestError(MsgNothingToUpdate, nil)
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	return s.repo.Update(ctx, taskID, ownerID, patch)
}

// Delete removes a task owned by ownerID and returns it.
func (s *TaskService) Delete(ctx context.Context, ownerID, taskID string) (*Task, error) {
	return s.repo.Delete(ctx, taskID, ownerID)
}

// Get returns any task by id, regardless of owner.
func (s *TaskService) Get(ctx context.Context, taskID string) (*Task, error) {
	return s.repo.FindByID(ctx, taskID)
}

// ListAll returns every task of every user.
func (s *TaskService) ListAll(ctx context.Context) ([]Task, error) {
	return s.repo.List(ctx, ListFilter{})
}

// ListPage returns one page of every user's tasks.
func (s *TaskService) ListPage(ctx context.Context, p Page) ([]Task, error) {
	return s.repo.List(ctx, ListFilter{Skip: p.Skip(), Limit: p.Limit})
}

// ListOwned returns ownerID's tasks, optionally only those with the given completion state.
func (s *TaskService) ListOwned(ctx context.Context, ownerID string, completed *bool) ([]Task, error) {
	return s.repo.List(ctx, ListFilter{OwnerID: ownerID, Completed: completed})
}

// DeleteByOwner removes all of ownerID's tasks. It is the cascade step of account deletion.
func (s *TaskService) DeleteByOwner(ctx context.Context, ownerID string) (int64, error) {
	return s.repo.DeleteByOwner(ctx, ownerID)
}

// ParsePage reads the `page` and `limit` query values. Missing values take their
// defaults, a page below 1 becomes 1, a limit below 1 falls back to the default, and
// limit is capped at MaxPageLimit. A page above MaxPage is rejected.
func ParsePage(pageParam, limitParam string) (Page, error) {
	p := Page{Page: 1, Limit: DefaultPageLimit}

	if pageParam != "" {
		n, err := strconv.Atoi(pageParam)
		if err != nil {
			return Page{}, apperror.NewBadRequestError(MsgInvalidPage, err)
		}
		if n > MaxPage {
			return Page{}, apperror.NewBadRequestError(MsgInvalidPage, nil)
		}
		if n > 1 {
			p.Page = n
		}
	}
	if limitParam != "" {
		n, err := strconv.Atoi(limitParam)
		if err != nil {
			return Page{}, apperror.NewBadRequestError(MsgInvalidPage, err)
		}
		if n > 0 {
			p.Limit = min(n, MaxPageLimit)
		}
	}
	return p, nil
}
