package ai

import (
	"context"
	"errors"
)

// ErrNoPendingTodos is returned when a summary is requested for an empty set
// of pending items. Callers surface it as a client error, not a server error.
var ErrNoPendingTodos = errors.New("no pending todos to summarize")

// SummaryProvider is the interface for summary generation backends
type SummaryProvider interface {
	// SummarizeTodos generates a free-text summary of the given pending todo
	// titles. The titles must be in collection order; every title appears in
	// the generation request exactly once.
	SummarizeTodos(ctx context.Context, titles []string) (string, error)
}

// ProviderFactory creates a summary provider based on the provider type
type ProviderFactory func(config map[string]string) (SummaryProvider, error)

// ProviderRegistry stores available summary providers
type ProviderRegistry struct {
	providers map[string]ProviderFactory
}

// NewProviderRegistry creates a new provider registry
func NewProviderRegistry() *ProviderRegistry {
	return &ProviderRegistry{
		providers: make(map[string]ProviderFactory),
	}
}

// Register registers a provider factory
func (r *ProviderRegistry) Register(name string, factory ProviderFactory) {
	r.providers[name] = factory
}

// GetProvider gets a provider by name
func (r *ProviderRegistry) GetProvider(name string, config map[string]string) (SummaryProvider, error) {
	factory, ok := r.providers[name]
	if !ok {
		return nil, &ErrProviderNotFound{Name: name}
	}

	return factory(config)
}

// ErrProviderNotFound is returned when a provider is not found
type ErrProviderNotFound struct {
	Name string
}

func (e *ErrProviderNotFound) Error() string {
	return "summary provider not found: " + e.Name
}
