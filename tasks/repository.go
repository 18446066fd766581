package tasks

import (
	"context"

	"github.com/user/tareas-go/apperror"
)

// Repository persists tasks. It knows nothing about identities; ownership is enforced by Service.
type Repository interface {
	// Create inserts the task and fills in ID and timestamps.
	Create(ctx context.Context, task *Task) (*Task, error)
	// Update changes title and description. Returns a NotFound error when the id does not exist.
	Update(ctx context.Context, id int64, title, description string) (*Task, error)
	// Delete removes the task and reports whether a row was removed.
	Delete(ctx context.Context, id int64) (bool, error)
	// Get returns the task or a NotFound error.
	Get(ctx context.Context, id int64) (*Task, error)
	// ListByOwner returns one page of the owner's tasks in creation order.
	// page and perPage must already be normalized.
	ListByOwner(ctx context.Context, ownerID int64, page, perPage int) (*Page, error)
}

func errTaskNotFound() error {
	return apperror.NewNotFoundError(NotFoundMessage, nil)
}
