package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// Pinger verifies a backing-service connection
type Pinger interface {
	Ping(ctx context.Context) error
}

// DBPinger matches the database/sql ping signature
type DBPinger interface {
	PingContext(ctx context.Context) error
}

// HealthChecker handles health check requests
type HealthChecker struct {
	db    DBPinger
	cache Pinger
}

// NewHealthChecker creates a new health checker. cache may be nil when the
// list cache is disabled.
func NewHealthChecker(db DBPinger, cache Pinger) *HealthChecker {
	return &HealthChecker{db: db, cache: cache}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// HealthCheck handles the /healthz endpoint. Basic mode only reports that the
// process is serving; ?mode=extended pings the backing services.
func (h *HealthChecker) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	if r.URL.Query().Get("mode") == "extended" {
		checks := make(map[string]string)

		if err := h.checkDatabase(r.Context()); err != nil {
			response.Status = "unhealthy"
			checks["database"] = "unhealthy: " + err.Error()
		} else {
			checks["database"] = "healthy"
		}

		if h.cache != nil {
			if err := h.checkCache(r.Context()); err != nil {
				checks["cache"] = "unhealthy: " + err.Error()
				// Cache is optional: an unhealthy cache degrades, it does
				// not fail the service
			} else {
				checks["cache"] = "healthy"
			}
		}

		response.Checks = checks

		statusCode := http.StatusOK
		if response.Status == "unhealthy" {
			statusCode = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		_ = json.NewEncoder(w).Encode(response)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(response)
}

func (h *HealthChecker) checkDatabase(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return h.db.PingContext(ctx)
}

func (h *HealthChecker) checkCache(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return h.cache.Ping(ctx)
}
