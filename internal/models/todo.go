package models

import (
	"time"

	"github.com/google/uuid"
)

// Todo represents a todo item
type Todo struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
}

// SummaryResult is the outcome of a summarize run. It is ephemeral and only
// lives in the HTTP response. Notified is present only when delivery to the
// chat webhook was requested: true if the message was posted, false if
// delivery failed after the summary was generated.
type SummaryResult struct {
	Summary  string `json:"summary"`
	Success  bool   `json:"success"`
	Notified *bool  `json:"notified,omitempty"`
}
