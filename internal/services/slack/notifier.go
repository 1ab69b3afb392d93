package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrWebhookNotConfigured is returned when a send is attempted without a
// destination webhook URL. Absence of the URL disables the feature path,
// it never fails the process.
var ErrWebhookNotConfigured = errors.New("slack webhook URL is not configured")

// DeliveryError represents a non-success response from the webhook endpoint
type DeliveryError struct {
	StatusCode int
	Status     string
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("failed to send to Slack: %s", e.Status)
}

const defaultTimeout = 10 * time.Second

// Notifier posts summary notifications to a Slack incoming webhook.
// Every send is a single best-effort attempt: no retry, no queuing.
type Notifier struct {
	webhookURL string
	httpClient *http.Client
	now        func() time.Time
}

// NotifierInterface defines the notifier operations, enabling mock
// implementations in handler tests
type NotifierInterface interface {
	Configured() bool
	SendSummary(ctx context.Context, summary string, pendingCount int) error
}

var _ NotifierInterface = (*Notifier)(nil)

// New creates a notifier for the given webhook URL. An empty URL produces a
// notifier whose sends fail with ErrWebhookNotConfigured.
func New(webhookURL string) *Notifier {
	return &Notifier{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
		now:        time.Now,
	}
}

// Configured reports whether a destination webhook URL is set
func (n *Notifier) Configured() bool {
	return n.webhookURL != ""
}

type textObject struct {
	Type  string `json:"type"`
	Text  string `json:"text"`
	Emoji bool   `json:"emoji,omitempty"`
}

type block struct {
	Type     string       `json:"type"`
	Text     *textObject  `json:"text,omitempty"`
	Elements []textObject `json:"elements,omitempty"`
}

type message struct {
	Blocks []block `json:"blocks"`
}

// SendSummary posts a structured summary message: header, pluralized pending
// count, divider, summary body, and a generation timestamp footer.
func (n *Notifier) SendSummary(ctx context.Context, summary string, pendingCount int) error {
	if n.webhookURL == "" {
		return ErrWebhookNotConfigured
	}

	noun := "tasks"
	if pendingCount == 1 {
		noun = "task"
	}

	msg := message{
		Blocks: []block{
			{
				Type: "header",
				Text: &textObject{Type: "plain_text", Text: "📋 Todo Summary", Emoji: true},
			},
			{
				Type: "section",
				Text: &textObject{Type: "mrkdwn", Text: fmt.Sprintf("*%d pending %s*", pendingCount, noun)},
			},
			{
				Type: "divider",
			},
			{
				Type: "section",
				Text: &textObject{Type: "mrkdwn", Text: summary},
			},
			{
				Type: "context",
				Elements: []textObject{
					{Type: "mrkdwn", Text: "Generated on " + n.now().Format("Jan 2, 2006 at 3:04 PM")},
				},
			},
		},
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal Slack message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build Slack request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send to Slack: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &DeliveryError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	return nil
}
