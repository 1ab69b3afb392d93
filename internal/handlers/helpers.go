package handlers

import (
	"encoding/json"
	"net/http"
)

// respondJSON sends a JSON response with the given status code. Bodies are
// written exactly as given: the todo endpoints return bare arrays so the
// client can replace its state wholesale.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// respondError sends an error JSON response: {"error": message}.
// Messages name the attempted action and never carry upstream detail.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
