package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/mwhited/todo-digest/internal/models"
)

func newSummarizeTestRouter(repo *mockTodoRepo, provider *mockSummaryProvider, notifier *mockNotifier) *mux.Router {
	r := mux.NewRouter()
	handler := NewSummarizeHandler(repo, provider, notifier, testLogger())
	handler.RegisterRoutes(r)
	return r
}

func postSummarize(t *testing.T, router *mux.Router, body string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/summarize", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)
	return rec
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	repo := newMockTodoRepo()
	_, _ = repo.Insert(t.Context(), "Buy milk")
	_, _ = repo.Insert(t.Context(), "Call dentist")

	provider := &mockSummaryProvider{summary: "Two errands to run."}
	notifier := &mockNotifier{configured: true}
	router := newSummarizeTestRouter(repo, provider, notifier)

	rec := postSummarize(t, router, `{"sendToSlack":false}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d (body: %s)", rec.Code, rec.Body.String())
	}

	var result models.SummaryResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if result.Summary != "Two errands to run." {
		t.Errorf("Expected summary text, got %q", result.Summary)
	}
	if !result.Success {
		t.Error("Expected success=true")
	}
	if result.Notified != nil {
		t.Error("Expected notified to be omitted when delivery was not requested")
	}
	if len(notifier.sentText) != 0 {
		t.Error("Expected no notification without sendToSlack")
	}
}

func TestSummarize_PassesEveryPendingTitleOnce(t *testing.T) {
	t.Parallel()

	repo := newMockTodoRepo()
	_, _ = repo.Insert(t.Context(), "Buy milk")
	todos, _ := repo.Insert(t.Context(), "Water plants")
	_, _ = repo.Insert(t.Context(), "Call dentist")
	// Complete one so it must be excluded from the provider payload
	_, _ = repo.Update(t.Context(), todos[0].ID, "Water plants", true)

	provider := &mockSummaryProvider{summary: "summary"}
	router := newSummarizeTestRouter(repo, provider, &mockNotifier{})

	rec := postSummarize(t, router, `{}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	if len(provider.gotCalls) != 1 {
		t.Fatalf("Expected exactly one provider call, got %d", len(provider.gotCalls))
	}
	titles := provider.gotCalls[0]
	counts := make(map[string]int)
	for _, title := range titles {
		counts[title]++
	}
	if counts["Buy milk"] != 1 || counts["Call dentist"] != 1 {
		t.Errorf("Expected each pending title exactly once, got %v", titles)
	}
	if counts["Water plants"] != 0 {
		t.Errorf("Completed todo leaked into summary payload: %v", titles)
	}
}

func TestSummarize_NoPendingTodos(t *testing.T) {
	t.Parallel()

	repo := newMockTodoRepo()
	todos, _ := repo.Insert(t.Context(), "Done already")
	_, _ = repo.Update(t.Context(), todos[0].ID, "Done already", true)

	provider := &mockSummaryProvider{summary: "should not be called"}
	notifier := &mockNotifier{configured: true}
	router := newSummarizeTestRouter(repo, provider, notifier)

	rec := postSummarize(t, router, `{"sendToSlack":true}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", rec.Code)
	}

	if len(provider.gotCalls) != 0 {
		t.Error("Expected no generation attempt with zero pending todos")
	}
	if len(notifier.sentText) != 0 {
		t.Error("Expected no notification attempt with zero pending todos")
	}
}

func TestSummarize_SendToSlack(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		notifierErr  error
		wantNotified bool
	}{
		{
			name:         "delivery succeeds",
			wantNotified: true,
		},
		{
			name:         "delivery fails",
			notifierErr:  errors.New("webhook returned 404"),
			wantNotified: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			repo := newMockTodoRepo()
			_, _ = repo.Insert(t.Context(), "Buy milk")
			_, _ = repo.Insert(t.Context(), "Call dentist")

			notifier := &mockNotifier{configured: true, err: tt.notifierErr}
			router := newSummarizeTestRouter(repo, &mockSummaryProvider{summary: "summary"}, notifier)

			rec := postSummarize(t, router, `{"sendToSlack":true}`)
			if rec.Code != http.StatusOK {
				t.Fatalf("Expected 200 even on delivery failure, got %d", rec.Code)
			}

			var result models.SummaryResult
			if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
				t.Fatalf("Failed to decode response: %v", err)
			}
			if result.Notified == nil {
				t.Fatal("Expected notified field when delivery was requested")
			}
			if *result.Notified != tt.wantNotified {
				t.Errorf("Expected notified=%v, got %v", tt.wantNotified, *result.Notified)
			}
			if !result.Success {
				t.Error("Expected success=true: the summary itself was generated")
			}

			if tt.notifierErr == nil {
				if len(notifier.sentCounts) != 1 || notifier.sentCounts[0] != 2 {
					t.Errorf("Expected one delivery with pending count 2, got %v", notifier.sentCounts)
				}
			}
		})
	}
}

func TestSummarize_ProviderFailure(t *testing.T) {
	t.Parallel()

	repo := newMockTodoRepo()
	_, _ = repo.Insert(t.Context(), "Buy milk")

	notifier := &mockNotifier{configured: true}
	router := newSummarizeTestRouter(repo, &mockSummaryProvider{err: errors.New("model unavailable")}, notifier)

	rec := postSummarize(t, router, `{"sendToSlack":true}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("Expected 500, got %d", rec.Code)
	}
	if len(notifier.sentText) != 0 {
		t.Error("Expected no notification after generation failure")
	}
}

func TestSummarize_StoreFailure(t *testing.T) {
	t.Parallel()

	repo := newMockTodoRepo()
	repo.failAll = true
	provider := &mockSummaryProvider{summary: "unused"}
	router := newSummarizeTestRouter(repo, provider, &mockNotifier{})

	rec := postSummarize(t, router, `{}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("Expected 500, got %d", rec.Code)
	}
	if len(provider.gotCalls) != 0 {
		t.Error("Expected no generation attempt when the store is unavailable")
	}
}

func TestSummarize_InvalidBody(t *testing.T) {
	t.Parallel()

	repo := newMockTodoRepo()
	_, _ = repo.Insert(t.Context(), "Buy milk")
	router := newSummarizeTestRouter(repo, &mockSummaryProvider{summary: "unused"}, &mockNotifier{})

	rec := postSummarize(t, router, `{"sendToSlack":`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for malformed body, got %d", rec.Code)
	}
}
