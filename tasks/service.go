package tasks

import (
	"context"
	"log/slog"

	"github.com/user/tareas-go/apperror"
	"github.com/user/tareas-go/auth"
	"github.com/user/tareas-go/forms"
)

// TaskService defines the task operations available to an authenticated user.
// Every method is scoped to the identity it receives.
type TaskService interface {
	List(ctx context.Context, id *auth.Identity, page, perPage int) (*Page, error)
	Get(ctx context.Context, id *auth.Identity, taskID int64) (*Task, error)
	Create(ctx context.Context, id *auth.Identity, form forms.TaskForm) (*Task, error)
	Update(ctx context.Context, id *auth.Identity, taskID int64, form forms.TaskForm) (*Task, error)
	Delete(ctx context.Context, id *auth.Identity, taskID int64) (bool, error)
}

// taskServiceImpl is the TaskService backed by a Repository.
type taskServiceImpl struct {
	repo      Repository
	validator *forms.Validator
	logger    *slog.Logger
}

// NewTaskService creates a new TaskService.
func NewTaskService(repo Repository, validator *forms.Validator, logger *slog.Logger) TaskService {
	return &taskServiceImpl{repo: repo, validator: validator, logger: logger}
}

// AssertOwner is the ownership guard. A task owned by someone else is reported exactly like
// a missing one, so ids of other users' tasks cannot be discovered.
func AssertOwner(task *Task, id *auth.Identity) error {
	if task == nil || id == nil || task.UserID != id.UserID {
		return apperror.NewNotFoundError(NotFoundMessage, nil)
	}
	return nil
}

func requireIdentity(id *auth.Identity) error {
	if id == nil {
		return apperror.NewUnauthenticatedError(auth.LoginRequiredMessage, nil)
	}
	return nil
}

func (s *taskServiceImpl) List(ctx context.Context, id *auth.Identity, page, perPage int) (*Page, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	page, perPage = NormalizePaging(page, perPage)
	return s.repo.ListByOwner(ctx, id.UserID, page, perPage)
}

func (s *taskServiceImpl) Get(ctx context.Context, id *auth.Identity, taskID int64) (*Task, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	task, err := s.repo.Get(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := AssertOwner(task, id); err != nil {
		return nil, err
	}
	return task, nil
}

// Create always assigns the task to the caller.
func (s *taskServiceImpl) Create(ctx context.Context, id *auth.Identity, form forms.TaskForm) (*Task, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	if err := s.validator.Validate(form).Err(); err != nil {
		return nil, err
	}

	task, err := s.repo.Create(ctx, &Task{UserID: id.UserID, Title: form.Title, Description: form.Description})
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "task created", "task_id", task.ID, "user_id", id.UserID)
	return task, nil
}

func (s *taskServiceImpl) Update(ctx context.Context, id *auth.Identity, taskID int64, form forms.TaskForm) (*Task, error) {
	if _, err := s.Get(ctx, id, taskID); err != nil {
		return nil, err
	}
	if err := s.validator.Validate(form).Err(); err != nil {
		return nil, err
	}

	task, err := s.repo.Update(ctx, taskID, form.Title, form.Description)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "task updated", "task_id", task.ID, "user_id", id.UserID)
	return task, nil
}

// Delete reports whether the task was removed. A task that vanished between the ownership
// check and the delete yields (false, nil).
func (s *taskServiceImpl) Delete(ctx context.Context, id *auth.Identity, taskID int64) (bool, error) {
	if _, err := s.Get(ctx, id, taskID); err != nil {
		return false, err
	}
	removed, err := s.repo.Delete(ctx, taskID)
	if err != nil {
		return false, err
	}
	if removed {
		s.logger.InfoContext(ctx, "task deleted", "task_id", taskID, "user_id", id.UserID)
	}
	return removed, nil
}
