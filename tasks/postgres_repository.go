package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/user/taskmanager-go/apperror"
)

// PostgresRepository stores tasks in the `tasks` table.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a PostgresRepository on top of a pgx pool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const taskColumns = `id, title, COALESCE(description, ''), completed, created_at, COALESCE(user_id, '')`

func (r *PostgresRepository) Create(ctx context.Context, task *Task) (*Task, error) {
	query := `INSERT INTO tasks (id, title, description, completed, created_at, user_id)
              VALUES ($1, $2, $3, $4, $5, $6)
              RETURNING ` + taskColumns
	row := r.pool.QueryRow(ctx, query,
		uuid.NewString(), task.Title, nullIfEmpty(task.Description), task.Completed, task.CreatedAt, nullIfEmpty(task.OwnerID))

	created, err := scanTask(row)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to create task", err)
	}
	return created, nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*Task, error) {
	if !validID(id) {
		return nil, notFound()
	}
	task, err := scanTask(r.pool.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id))
	if err != nil {
		return nil, mapRowErr(err, "failed to get task")
	}
	return task, nil
}

// Update builds the SET clause from the non-nil patch fields and applies it with a
// single `UPDATE ... WHERE id AND user_id ... RETURNING` statement.
func (r *PostgresRepository) Update(ctx context.Context, id, ownerID string, patch Patch) (*Task, error) {
	if !validID(id) {
		return nil, notFound()
	}

	var setClauses []string
	var args []interface{}
	argID := 1

	if patch.Title != nil {
		setClauses = append(setClauses, fmt.Sprintf("title = $%d", argID))
		args = append(args, *patch.Title)
		argID++
	}
	if patch.Description != nil {
		setClauses = append(setClauses, fmt.Sprintf("description = $%d", argID))
		args = append(args, nullIfEmpty(*patch.Description))
		argID++
	}
	if patch.Completed != nil {
		setClauses = append(setClauses, fmt.Sprintf("completed = $%d", argID))
		args = append(args, *patch.Completed)
		argID++
	}

	var query string
	if len(setClauses) == 0 {
		// Nothing to change; still answer with the owner-scoped row.
		query = fmt.Sprintf(`SELECT %s FROM tasks WHERE id = $%d AND user_id = $%d`, taskColumns, argID, argID+1)
	} else {
		query = fmt.Sprintf(`UPDATE tasks SET %s WHERE id = $%d AND user_id = $%d RETURNING %s`,
			strings.Join(setClauses, ", "), argID, argID+1, taskColumns)
	}
	args = append(args, id, ownerID)

	task, err := scanTask(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, mapRowErr(err, "failed to update task")
	}
	return task, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id, ownerID string) (*Task, error) {
	if !validID(id) {
		return nil, notFound()
	}
	query := `DELETE FROM tasks WHERE id = $1 AND user_id = $2 RETURNING ` + taskColumns
	task, err := scanTask(r.pool.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		return nil, mapRowErr(err, "failed to delete task")
	}
	return task, nil
}

func (r *PostgresRepository) List(ctx context.Context, filter ListFilter) ([]Task, error) {
	var where []string
	var args []interface{}

	if filter.OwnerID != "" {
		args = append(args, filter.OwnerID)
		where = append(where, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if filter.Completed != nil {
		args = append(args, *filter.Completed)
		where = append(where, fmt.Sprintf("completed = $%d", len(args)))
	}

	query := `SELECT ` + taskColumns + ` FROM tasks`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at, id`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Skip > 0 {
		args = append(args, filter.Skip)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to list tasks", err)
	}
	// `pgx.CollectRows` iterates, scans each row and closes rows.
	tasks, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Task, error) {
		t, err := scanTask(row)
		if err != nil {
			return Task{}, err
		}
		return *t, nil
	})
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to list tasks", err)
	}
	return tasks, nil
}

func (r *PostgresRepository) DeleteByOwner(ctx context.Context, ownerID string) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE user_id = $1`, ownerID)
	if err != nil {
		return 0, apperror.NewDatabaseError("failed to delete tasks", err)
	}
	return tag.RowsAffected(), nil
}

func scanTask(row pgx.Row) (*Task, error) {
	var t Task
	if err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Completed, &t.CreatedAt, &t.OwnerID); err != nil {
		return nil, err
	}
	return &t, nil
}

func mapRowErr(err error, message string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return notFound()
	}
	return apperror.NewDatabaseError(message, err)
}

// validID rejects ids that can't be a task id, which saves a round trip.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
