package users

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/user/tareas-go/apperror"
)

// PasswordHasher turns a plaintext password into a one-way hash.
// auth.BcryptHasher is the production implementation.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
}

// Service provides the credential store operations used by registration and login.
type Service struct {
	repo   Repository
	hasher PasswordHasher
	logger *slog.Logger
}

// NewService creates a new users Service.
func NewService(repo Repository, hasher PasswordHasher, logger *slog.Logger) *Service {
	return &Service{repo: repo, hasher: hasher, logger: logger}
}

// Create hashes the password and persists a new user.
// A duplicate username or email comes back as an apperror Conflict error and no row is written.
func (s *Service) Create(ctx context.Context, username, password, email string) (*User, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, apperror.NewInternalError("failed to hash password", fmt.Errorf("hash: %w", err))
	}

	user, err := s.repo.Create(ctx, &User{
		Username:     username,
		Email:        NormalizeEmail(email),
		PasswordHash: hash,
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "user created", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// GetByID returns the user or a NotFound error.
func (s *Service) GetByID(ctx context.Context, id int64) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

// GetByUsername returns the user or a NotFound error.
func (s *Service) GetByUsername(ctx context.Context, username string) (*User, error) {
	return s.repo.GetByUsername(ctx, username)
}

// GetByEmail returns the user or a NotFound error.
func (s *Service) GetByEmail(ctx context.Context, email string) (*User, error) {
	return s.repo.GetByEmail(ctx, email)
}

// UsernameTaken reports whether a username is already registered.
func (s *Service) UsernameTaken(ctx context.Context, username string) (bool, error) {
	return exists(s.repo.GetByUsername(ctx, username))
}

// EmailTaken reports whether an email address is already registered.
func (s *Service) EmailTaken(ctx context.Context, email string) (bool, error) {
	return exists(s.repo.GetByEmail(ctx, email))
}

func exists(_ *User, err error) (bool, error) {
	if err == nil {
		return true, nil
	}
	if apperror.IsNotFound(err) {
		return false, nil
	}
	return false, err
}
