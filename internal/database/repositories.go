package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/mwhited/todo-digest/internal/models"
)

// TodoRepositoryInterface defines the interface for todo repository operations
// This interface enables better testability by allowing mock implementations
type TodoRepositoryInterface interface {
	ListAll(ctx context.Context) ([]*models.Todo, error)
	ListPending(ctx context.Context) ([]*models.Todo, error)
	Insert(ctx context.Context, title string) ([]*models.Todo, error)
	Update(ctx context.Context, id uuid.UUID, title string, completed bool) ([]*models.Todo, error)
	Delete(ctx context.Context, id uuid.UUID) ([]*models.Todo, error)
}

// Ensure the concrete type implements the interface
var _ TodoRepositoryInterface = (*TodoRepository)(nil)
