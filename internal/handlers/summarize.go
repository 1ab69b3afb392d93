package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/mwhited/todo-digest/internal/database"
	"github.com/mwhited/todo-digest/internal/models"
	"github.com/mwhited/todo-digest/internal/services/ai"
	"github.com/mwhited/todo-digest/internal/services/slack"
	"go.uber.org/zap"
)

// SummarizeHandler orchestrates the summarize flow: fetch pending todos,
// generate a summary, and optionally deliver it to the chat webhook.
type SummarizeHandler struct {
	todoRepo database.TodoRepositoryInterface
	provider ai.SummaryProvider
	notifier slack.NotifierInterface
	logger   *zap.Logger
}

// NewSummarizeHandler creates a new summarize handler
func NewSummarizeHandler(todoRepo database.TodoRepositoryInterface, provider ai.SummaryProvider, notifier slack.NotifierInterface, logger *zap.Logger) *SummarizeHandler {
	return &SummarizeHandler{
		todoRepo: todoRepo,
		provider: provider,
		notifier: notifier,
		logger:   logger,
	}
}

// RegisterRoutes registers the summarize route on the given router
func (h *SummarizeHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/summarize", h.Summarize).Methods("POST")
}

// SummarizeRequest represents a summarize request
type SummarizeRequest struct {
	SendToSlack bool `json:"sendToSlack"`
}

// Summarize generates a summary of the pending todos. Generation failure is a
// server error; notification failure after a successful generation is partial
// success, reported through the notified field rather than an error status.
func (h *SummarizeHandler) Summarize(w http.ResponseWriter, r *http.Request) {
	var req SummarizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx := r.Context()

	pending, err := h.todoRepo.ListPending(ctx)
	if err != nil {
		h.logger.Error("failed_to_fetch_pending_todos", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to summarize todos")
		return
	}

	if len(pending) == 0 {
		respondError(w, http.StatusBadRequest, "No pending todos to summarize")
		return
	}

	titles := make([]string, 0, len(pending))
	for _, todo := range pending {
		titles = append(titles, todo.Title)
	}

	summary, err := h.provider.SummarizeTodos(ctx, titles)
	if err != nil {
		if errors.Is(err, ai.ErrNoPendingTodos) {
			respondError(w, http.StatusBadRequest, "No pending todos to summarize")
			return
		}
		h.logger.Error("failed_to_generate_summary",
			zap.Int("pending_count", len(pending)),
			zap.Error(err),
		)
		respondError(w, http.StatusInternalServerError, "Failed to summarize todos")
		return
	}

	result := models.SummaryResult{
		Summary: summary,
		Success: true,
	}

	if req.SendToSlack {
		notified := true
		if err := h.notifier.SendSummary(ctx, summary, len(pending)); err != nil {
			notified = false
			h.logger.Warn("failed_to_send_slack_notification",
				zap.Int("pending_count", len(pending)),
				zap.Error(err),
			)
		}
		result.Notified = &notified
	}

	respondJSON(w, http.StatusOK, result)
}
