package slack

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestSendSummary_NotConfigured(t *testing.T) {
	t.Parallel()

	n := New("")
	if n.Configured() {
		t.Error("Expected notifier without URL to report not configured")
	}

	err := n.SendSummary(context.Background(), "summary", 1)
	if !errors.Is(err, ErrWebhookNotConfigured) {
		t.Errorf("Expected ErrWebhookNotConfigured, got %v", err)
	}
}

func TestSendSummary_MessageStructure(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		pendingCount int
		expectedLine string
	}{
		{
			name:         "singular count",
			pendingCount: 1,
			expectedLine: "*1 pending task*",
		},
		{
			name:         "plural count",
			pendingCount: 3,
			expectedLine: "*3 pending tasks*",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var received message
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Errorf("Expected POST, got %s", r.Method)
				}
				if ct := r.Header.Get("Content-Type"); ct != "application/json" {
					t.Errorf("Expected Content-Type application/json, got %s", ct)
				}
				body, _ := io.ReadAll(r.Body)
				if err := json.Unmarshal(body, &received); err != nil {
					t.Errorf("Failed to decode message: %v", err)
				}
				w.WriteHeader(http.StatusOK)
			}))
			defer srv.Close()

			n := New(srv.URL)
			n.now = func() time.Time {
				return time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)
			}

			if err := n.SendSummary(context.Background(), "Do the things.", tt.pendingCount); err != nil {
				t.Fatalf("SendSummary returned error: %v", err)
			}

			if len(received.Blocks) != 5 {
				t.Fatalf("Expected 5 blocks, got %d", len(received.Blocks))
			}

			if received.Blocks[0].Type != "header" || received.Blocks[0].Text.Text != "📋 Todo Summary" {
				t.Errorf("Unexpected header block: %+v", received.Blocks[0])
			}
			if received.Blocks[1].Text.Text != tt.expectedLine {
				t.Errorf("Expected count line %q, got %q", tt.expectedLine, received.Blocks[1].Text.Text)
			}
			if received.Blocks[2].Type != "divider" {
				t.Errorf("Expected divider block, got %s", received.Blocks[2].Type)
			}
			if received.Blocks[3].Text.Text != "Do the things." {
				t.Errorf("Expected summary body, got %q", received.Blocks[3].Text.Text)
			}
			if len(received.Blocks[4].Elements) != 1 || !strings.HasPrefix(received.Blocks[4].Elements[0].Text, "Generated on ") {
				t.Errorf("Unexpected footer block: %+v", received.Blocks[4])
			}
		})
	}
}

func TestSendSummary_NonSuccessStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no_service", http.StatusNotFound)
	}))
	defer srv.Close()

	n := New(srv.URL)
	err := n.SendSummary(context.Background(), "summary", 2)

	var deliveryErr *DeliveryError
	if !errors.As(err, &deliveryErr) {
		t.Fatalf("Expected DeliveryError, got %v", err)
	}
	if deliveryErr.StatusCode != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", deliveryErr.StatusCode)
	}
}

func TestSendSummary_ConnectionFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // Closed server: connection refused

	n := New(srv.URL)
	if err := n.SendSummary(context.Background(), "summary", 2); err == nil {
		t.Error("Expected error for unreachable webhook")
	}
}
