package users

import (
	"context"
	"strings"

	"github.com/user/tareas-go/apperror"
)

// Repository is the persistence port of the credential store.
// Implementations must enforce username and email uniqueness themselves,
// so that two concurrent registrations of the same identifier cannot both succeed.
type Repository interface {
	// Create inserts the user and fills in ID and CreatedAt.
	// It returns a Conflict error (with the offending field) on a duplicate username or email.
	Create(ctx context.Context, user *User) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
}

// NormalizeEmail is applied before every store and lookup so that email uniqueness is case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func errUsernameTaken() error {
	return apperror.NewConflictError(UsernameTakenMessage, nil).WithField("username", UsernameTakenMessage)
}

func errEmailTaken() error {
	return apperror.NewConflictError(EmailTakenMessage, nil).WithField("email", EmailTakenMessage)
}

func errUserNotFound() error {
	return apperror.NewNotFoundError("user not found", nil)
}
