package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/mwhited/todo-digest/internal/database"
	"github.com/mwhited/todo-digest/internal/validation"
	"go.uber.org/zap"
)

// TodoHandler handles todo resource requests. Every mutating endpoint
// returns the full, freshly reordered collection.
type TodoHandler struct {
	todoRepo database.TodoRepositoryInterface
	logger   *zap.Logger
}

// NewTodoHandler creates a new todo handler
func NewTodoHandler(todoRepo database.TodoRepositoryInterface, logger *zap.Logger) *TodoHandler {
	return &TodoHandler{todoRepo: todoRepo, logger: logger}
}

// RegisterRoutes registers todo routes on the given router.
// The router should already have the /todos prefix.
func (h *TodoHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.ListTodos).Methods("GET")
	r.HandleFunc("", h.CreateTodo).Methods("POST")
	r.HandleFunc("/{id}", h.UpdateTodo).Methods("PUT")
	r.HandleFunc("/{id}", h.DeleteTodo).Methods("DELETE")
}

// CreateTodoRequest represents a create todo request
type CreateTodoRequest struct {
	Title string `json:"title" validate:"required"`
}

// UpdateTodoRequest represents an update todo request
type UpdateTodoRequest struct {
	Title     string `json:"title" validate:"required"`
	Completed bool   `json:"completed"`
}

// ListTodos returns all todos ordered by creation time descending
func (h *TodoHandler) ListTodos(w http.ResponseWriter, r *http.Request) {
	todos, err := h.todoRepo.ListAll(r.Context())
	if err != nil {
		h.logger.Error("failed_to_list_todos", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to fetch todos")
		return
	}

	respondJSON(w, http.StatusOK, todos)
}

// CreateTodo inserts a new todo and returns the refreshed collection
func (h *TodoHandler) CreateTodo(w http.ResponseWriter, r *http.Request) {
	var req CreateTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validation.Validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "Title is required")
		return
	}

	title := validation.SanitizeTitle(req.Title)
	if title == "" {
		respondError(w, http.StatusBadRequest, "Title is required")
		return
	}

	todos, err := h.todoRepo.Insert(r.Context(), title)
	if err != nil {
		h.logger.Error("failed_to_create_todo", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to add todo")
		return
	}

	respondJSON(w, http.StatusOK, todos)
}

// UpdateTodo updates title and completed flag by id and returns the
// refreshed collection
func (h *TodoHandler) UpdateTodo(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := uuid.Parse(vars["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid todo ID")
		return
	}

	var req UpdateTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validation.Validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "Title is required")
		return
	}

	title := validation.SanitizeTitle(req.Title)
	if title == "" {
		respondError(w, http.StatusBadRequest, "Title is required")
		return
	}

	todos, err := h.todoRepo.Update(r.Context(), id, title, req.Completed)
	if err != nil {
		h.logger.Error("failed_to_update_todo",
			zap.String("todo_id", id.String()),
			zap.Error(err),
		)
		respondError(w, http.StatusInternalServerError, "Failed to update todo")
		return
	}

	respondJSON(w, http.StatusOK, todos)
}

// DeleteTodo removes a todo by id and returns the refreshed collection.
// Deleting an unknown id still succeeds and returns the current collection.
func (h *TodoHandler) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := uuid.Parse(vars["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid todo ID")
		return
	}

	todos, err := h.todoRepo.Delete(r.Context(), id)
	if err != nil {
		h.logger.Error("failed_to_delete_todo",
			zap.String("todo_id", id.String()),
			zap.Error(err),
		)
		respondError(w, http.StatusInternalServerError, "Failed to delete todo")
		return
	}

	respondJSON(w, http.StatusOK, todos)
}
