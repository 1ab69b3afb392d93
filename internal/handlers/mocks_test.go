package handlers

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/mwhited/todo-digest/internal/database"
	"github.com/mwhited/todo-digest/internal/models"
	"go.uber.org/zap"
)

// mockTodoRepo is an in-memory repository honoring the mutate-then-refetch
// contract: every mutation returns the full collection, newest first.
type mockTodoRepo struct {
	todos   []*models.Todo
	failAll bool
	nextAt  time.Time
}

var _ database.TodoRepositoryInterface = (*mockTodoRepo)(nil)

var errStoreDown = errors.New("store unavailable")

func newMockTodoRepo() *mockTodoRepo {
	return &mockTodoRepo{nextAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (m *mockTodoRepo) sorted() []*models.Todo {
	out := make([]*models.Todo, len(m.todos))
	copy(out, m.todos)
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (m *mockTodoRepo) ListAll(ctx context.Context) ([]*models.Todo, error) {
	if m.failAll {
		return nil, errStoreDown
	}
	return m.sorted(), nil
}

func (m *mockTodoRepo) ListPending(ctx context.Context) ([]*models.Todo, error) {
	if m.failAll {
		return nil, errStoreDown
	}
	pending := make([]*models.Todo, 0)
	for _, todo := range m.sorted() {
		if !todo.Completed {
			pending = append(pending, todo)
		}
	}
	return pending, nil
}

func (m *mockTodoRepo) Insert(ctx context.Context, title string) ([]*models.Todo, error) {
	if m.failAll {
		return nil, errStoreDown
	}
	m.nextAt = m.nextAt.Add(time.Minute)
	m.todos = append(m.todos, &models.Todo{
		ID:        uuid.New(),
		Title:     title,
		Completed: false,
		CreatedAt: m.nextAt,
	})
	return m.sorted(), nil
}

func (m *mockTodoRepo) Update(ctx context.Context, id uuid.UUID, title string, completed bool) ([]*models.Todo, error) {
	if m.failAll {
		return nil, errStoreDown
	}
	for _, todo := range m.todos {
		if todo.ID == id {
			todo.Title = title
			todo.Completed = completed
		}
	}
	return m.sorted(), nil
}

func (m *mockTodoRepo) Delete(ctx context.Context, id uuid.UUID) ([]*models.Todo, error) {
	if m.failAll {
		return nil, errStoreDown
	}
	kept := m.todos[:0]
	for _, todo := range m.todos {
		if todo.ID != id {
			kept = append(kept, todo)
		}
	}
	m.todos = kept
	return m.sorted(), nil
}

// mockSummaryProvider records the titles it was asked to summarize
type mockSummaryProvider struct {
	summary  string
	err      error
	gotCalls [][]string
}

func (m *mockSummaryProvider) SummarizeTodos(ctx context.Context, titles []string) (string, error) {
	m.gotCalls = append(m.gotCalls, titles)
	if m.err != nil {
		return "", m.err
	}
	return m.summary, nil
}

// mockNotifier records sends and can be made to fail
type mockNotifier struct {
	err        error
	configured bool
	sentText   []string
	sentCounts []int
}

func (m *mockNotifier) Configured() bool { return m.configured }

func (m *mockNotifier) SendSummary(ctx context.Context, summary string, pendingCount int) error {
	if m.err != nil {
		return m.err
	}
	m.sentText = append(m.sentText, summary)
	m.sentCounts = append(m.sentCounts, pendingCount)
	return nil
}

func testLogger() *zap.Logger {
	return zap.NewNop()
}
