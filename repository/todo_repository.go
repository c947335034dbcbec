package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"todoApp/models"
)

const todoColumns = `id, title, description, priority, complete, owner_id`

// TodoRepository persists todos. Reads and writes that act on behalf of a user
// go through the *ForOwner methods, which add owner_id to the WHERE clause.
type TodoRepository struct {
	db DBTX
}

func NewTodoRepository(db DBTX) *TodoRepository {
	return &TodoRepository{db: db}
}

func (r *TodoRepository) Create(ctx context.Context, t *models.Todo) (*models.Todo, error) {
	if t == nil {
		return nil, errors.New("todo is nil")
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO todos (title, description, priority, complete, owner_id) VALUES (?,?,?,?,?)`,
		t.Title, t.Description, t.Priority, t.Complete, t.OwnerID)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	created, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if created == nil {
		return nil, fmt.Errorf("created todo not found: id=%d", id)
	}
	return created, nil
}

// GetByID fetches a todo regardless of owner. Only admin flows use it directly.
func (r *TodoRepository) GetByID(ctx context.Context, id int64) (*models.Todo, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return r.getOne(ctx, `SELECT `+todoColumns+` FROM todos WHERE id = ?`, id)
}

// GetByIDForOwner returns nil when the todo does not exist or belongs to someone else.
func (r *TodoRepository) GetByIDForOwner(ctx context.Context, id, ownerID int64) (*models.Todo, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return r.getOne(ctx, `SELECT `+todoColumns+` FROM todos WHERE id = ? AND owner_id = ?`, id, ownerID)
}

func (r *TodoRepository) getOne(ctx context.Context, query string, args ...any) (*models.Todo, error) {
	var t models.Todo
	if err := sqlx.GetContext(ctx, r.db, &t, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *TodoRepository) ListByOwner(ctx context.Context, ownerID int64) ([]models.Todo, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	out := []models.Todo{}
	if err := sqlx.SelectContext(ctx, r.db, &out, `SELECT `+todoColumns+` FROM todos WHERE owner_id = ? ORDER BY id`, ownerID); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *TodoRepository) ListAll(ctx context.Context) ([]models.Todo, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	out := []models.Todo{}
	if err := sqlx.SelectContext(ctx, r.db, &out, `SELECT `+todoColumns+` FROM todos ORDER BY id`); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateForOwner overwrites the mutable fields of t when t.OwnerID owns it.
// It reports false when no such todo exists for that owner.
func (r *TodoRepository) UpdateForOwner(ctx context.Context, t *models.Todo) (bool, error) {
	if t == nil {
		return false, errors.New("todo is nil")
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := r.db.ExecContext(ctx,
		`UPDATE todos SET title = ?, description = ?, priority = ?, complete = ? WHERE id = ? AND owner_id = ?`,
		t.Title, t.Description, t.Priority, t.Complete, t.ID, t.OwnerID)
	if err != nil {
		return false, err
	}
	return affected(res)
}

func (r *TodoRepository) DeleteForOwner(ctx context.Context, id, ownerID int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := r.db.ExecContext(ctx, `DELETE FROM todos WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return false, err
	}
	return affected(res)
}

func (r *TodoRepository) Delete(ctx context.Context, id int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := r.db.ExecContext(ctx, `DELETE FROM todos WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	return affected(res)
}
