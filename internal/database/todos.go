package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	logpkg "github.com/mwhited/todo-digest/internal/logger"
	"github.com/mwhited/todo-digest/internal/models"
	"go.uber.org/zap"
)

const listCacheTTL = 15 * time.Second

// TodoCache is an optional read cache for the full todo list. Implementations
// must tolerate being skipped entirely: a cache failure never fails a request.
type TodoCache interface {
	GetList(ctx context.Context) ([]*models.Todo, error)
	SetList(ctx context.Context, todos []*models.Todo, ttl time.Duration) error
	InvalidateList(ctx context.Context) error
}

// TodoRepository handles todo database operations. Every mutating operation
// follows the same contract: apply the mutation, then return the full
// collection ordered by created_at descending.
type TodoRepository struct {
	db     *DB
	cache  TodoCache
	logger *zap.Logger
}

// NewTodoRepository creates a new todo repository
func NewTodoRepository(db *DB) *TodoRepository {
	return &TodoRepository{db: db}
}

// SetCache attaches an optional list cache
func (r *TodoRepository) SetCache(cache TodoCache) {
	r.cache = cache
}

// SetLogger attaches a logger for cache-failure warnings
func (r *TodoRepository) SetLogger(logger *zap.Logger) {
	r.logger = logger
}

const listTodosQuery = `
	SELECT id, title, completed, created_at
	FROM todos
	ORDER BY created_at DESC, id
`

// ListAll retrieves all todos ordered by creation time descending
func (r *TodoRepository) ListAll(ctx context.Context) ([]*models.Todo, error) {
	if r.cache != nil {
		if todos, err := r.cache.GetList(ctx); err == nil && todos != nil {
			return todos, nil
		} else if err != nil {
			r.warn("todo_list_cache_read_failed", err)
		}
	}

	todos, err := r.queryTodos(ctx, listTodosQuery)
	if err != nil {
		return nil, err
	}

	if r.cache != nil {
		if err := r.cache.SetList(ctx, todos, listCacheTTL); err != nil {
			r.warn("todo_list_cache_write_failed", err)
		}
	}

	return todos, nil
}

// ListPending retrieves incomplete todos ordered by creation time descending.
// Always reads the database: the summarize flow must see the current pending set.
func (r *TodoRepository) ListPending(ctx context.Context) ([]*models.Todo, error) {
	return r.queryTodos(ctx, `
		SELECT id, title, completed, created_at
		FROM todos
		WHERE completed = FALSE
		ORDER BY created_at DESC, id
	`)
}

// Insert creates a new todo with completed=false and returns the refreshed
// full collection
func (r *TodoRepository) Insert(ctx context.Context, title string) ([]*models.Todo, error) {
	query := `
		INSERT INTO todos (id, title, completed, created_at)
		VALUES ($1, $2, FALSE, now())
	`
	if _, err := r.db.ExecContext(ctx, query, uuid.New(), title); err != nil {
		return nil, fmt.Errorf("failed to insert todo: %w", err)
	}

	return r.refresh(ctx)
}

// Update updates title and completed flag by id and returns the refreshed
// full collection
func (r *TodoRepository) Update(ctx context.Context, id uuid.UUID, title string, completed bool) ([]*models.Todo, error) {
	query := `
		UPDATE todos
		SET title = $2, completed = $3
		WHERE id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, id, title, completed); err != nil {
		return nil, fmt.Errorf("failed to update todo: %w", err)
	}

	return r.refresh(ctx)
}

// Delete removes a todo by id and returns the refreshed full collection.
// Deleting an id that does not exist is not an error: the caller still gets
// the current collection.
func (r *TodoRepository) Delete(ctx context.Context, id uuid.UUID) ([]*models.Todo, error) {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM todos WHERE id = $1`, id); err != nil {
		return nil, fmt.Errorf("failed to delete todo: %w", err)
	}

	return r.refresh(ctx)
}

// refresh invalidates the list cache and re-reads the full ordered
// collection straight from the database, then repopulates the cache with the
// fresh rows. The cache read path is skipped here: a concurrent reader can
// repopulate the key with a pre-mutation snapshot after the invalidate, and
// a mutating request must never answer from that.
func (r *TodoRepository) refresh(ctx context.Context) ([]*models.Todo, error) {
	if r.cache != nil {
		if err := r.cache.InvalidateList(ctx); err != nil {
			r.warn("todo_list_cache_invalidate_failed", err)
		}
	}

	todos, err := r.queryTodos(ctx, listTodosQuery)
	if err != nil {
		return nil, err
	}

	if r.cache != nil {
		if err := r.cache.SetList(ctx, todos, listCacheTTL); err != nil {
			r.warn("todo_list_cache_write_failed", err)
		}
	}

	return todos, nil
}

func (r *TodoRepository) queryTodos(ctx context.Context, query string) ([]*models.Todo, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query todos: %w", err)
	}
	defer rows.Close()

	todos := make([]*models.Todo, 0)
	for rows.Next() {
		todo := &models.Todo{}
		if err := rows.Scan(&todo.ID, &todo.Title, &todo.Completed, &todo.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan todo: %w", err)
		}
		todos = append(todos, todo)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating todos: %w", err)
	}

	return todos, nil
}

// warn logs a cache failure. Redis errors can carry payload fragments, so
// the message is sanitized before logging.
func (r *TodoRepository) warn(msg string, err error) {
	if r.logger != nil {
		r.logger.Warn(msg, zap.String("error", logpkg.SanitizeError(err)))
	}
}
