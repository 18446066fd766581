package users

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"github.com/user/tareas-go/apperror"
)

// pgUniqueViolation is the PostgreSQL error code for unique constraint violations.
const pgUniqueViolation = "23505"

// PostgresRepository stores users in the `users` table.
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a repository on top of an sqlx handle.
func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a user in a single statement: the row either exists fully formed or not at all.
func (r *PostgresRepository) Create(ctx context.Context, user *User) (*User, error) {
	query := `INSERT INTO users (username, email, password_hash)
              VALUES ($1, $2, $3)
              RETURNING id, created_at`

	err := r.db.QueryRowxContext(ctx, query, user.Username, NormalizeEmail(user.Email), user.PasswordHash).
		Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			// The constraint name tells which identifier collided (users_username_key / users_email_key).
			if strings.Contains(pgErr.ConstraintName, "username") {
				return nil, errUsernameTaken()
			}
			if strings.Contains(pgErr.ConstraintName, "email") {
				return nil, errEmailTaken()
			}
		}
		return nil, apperror.NewDatabaseError("failed to create user", err)
	}
	user.Email = NormalizeEmail(user.Email)
	return user, nil
}

// GetByID retrieves a user by primary key.
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*User, error) {
	query := `SELECT id, username, email, password_hash, created_at FROM users WHERE id = $1`
	return r.getOne(ctx, query, id)
}

// GetByUsername retrieves a user by exact (case-sensitive) username.
func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*User, error) {
	query := `SELECT id, username, email, password_hash, created_at FROM users WHERE username = $1`
	return r.getOne(ctx, query, username)
}

// GetByEmail retrieves a user by email address.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	query := `SELECT id, username, email, password_hash, created_at FROM users WHERE email = $1`
	return r.getOne(ctx, query, NormalizeEmail(email))
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg any) (*User, error) {
	var user User
	if err := r.db.GetContext(ctx, &user, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errUserNotFound()
		}
		return nil, apperror.NewDatabaseError("failed to get user", err)
	}
	return &user, nil
}
