package tasks

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/user/tareas-go/apperror"
)

const taskColumns = `id, user_id, title, description, created_at, updated_at`

// PostgresRepository stores tasks in the `tasks` table.
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a repository on top of an sqlx handle.
func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, task *Task) (*Task, error) {
	query := `INSERT INTO tasks (user_id, title, description)
              VALUES ($1, $2, $3)
              RETURNING id, created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query, task.UserID, task.Title, task.Description).
		Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to create task", err)
	}
	return task, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id int64, title, description string) (*Task, error) {
	query := `UPDATE tasks SET title = $1, description = $2, updated_at = NOW()
              WHERE id = $3
              RETURNING ` + taskColumns

	var task Task
	if err := r.db.GetContext(ctx, &task, query, title, description, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errTaskNotFound()
		}
		return nil, apperror.NewDatabaseError("failed to update task", err)
	}
	return &task, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return false, apperror.NewDatabaseError("failed to delete task", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, apperror.NewDatabaseError("failed to delete task", err)
	}
	return n > 0, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id int64) (*Task, error) {
	var task Task
	err := r.db.GetContext(ctx, &task, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errTaskNotFound()
		}
		return nil, apperror.NewDatabaseError("failed to get task", err)
	}
	return &task, nil
}

// ListByOwner runs a count and a LIMIT/OFFSET query. Ordering by id keeps creation order stable
// across pages.
func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID int64, page, perPage int) (*Page, error) {
	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM tasks WHERE user_id = $1`, ownerID); err != nil {
		return nil, apperror.NewDatabaseError("failed to count tasks", err)
	}

	items := []Task{}
	offset := Offset(page, perPage)
	if int64(offset) < total {
		query := `SELECT ` + taskColumns + ` FROM tasks
                  WHERE user_id = $1
                  ORDER BY id ASC
                  LIMIT $2 OFFSET $3`
		if err := r.db.SelectContext(ctx, &items, query, ownerID, perPage, offset); err != nil {
			return nil, apperror.NewDatabaseError("failed to list tasks", err)
		}
	}

	return NewPage(items, total, page, perPage), nil
}
