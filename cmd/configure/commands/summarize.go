package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/mwhited/todo-digest/internal/config"
	"github.com/mwhited/todo-digest/internal/database"
	"github.com/mwhited/todo-digest/internal/services/ai"
	"github.com/mwhited/todo-digest/internal/services/slack"
	"github.com/spf13/cobra"
)

// NewSummarizeCmd creates the summarize command
func NewSummarizeCmd() *cobra.Command {
	var sendToSlack bool

	cmd := &cobra.Command{
		Use:   "summarize",
		Short: "Generate a summary of pending todos",
		Long:  "Fetch the pending todos, generate a summary, and optionally deliver it to the configured webhook",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			db, err := database.New(cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer func() {
				if err := db.Close(); err != nil {
					fmt.Fprintf(os.Stderr, "Warning: failed to close database: %v\n", err)
				}
			}()

			ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
			defer cancel()

			todoRepo := database.NewTodoRepository(db)
			pending, err := todoRepo.ListPending(ctx)
			if err != nil {
				return fmt.Errorf("failed to fetch pending todos: %w", err)
			}
			if len(pending) == 0 {
				return fmt.Errorf("no pending todos to summarize")
			}

			titles := make([]string, 0, len(pending))
			for _, todo := range pending {
				titles = append(titles, todo.Title)
			}

			provider := ai.NewOpenAIProvider(cfg.OpenAIKey, cfg.AIModel)
			summary, err := provider.SummarizeTodos(ctx, titles)
			if err != nil {
				return fmt.Errorf("failed to generate summary: %w", err)
			}

			fmt.Printf("Summary of %d pending task(s):\n\n%s\n", len(pending), summary)

			if sendToSlack {
				notifier := slack.New(cfg.SlackWebhookURL)
				if !notifier.Configured() {
					return fmt.Errorf("SLACK_WEBHOOK_URL is not configured")
				}
				if err := notifier.SendSummary(ctx, summary, len(pending)); err != nil {
					return fmt.Errorf("failed to send notification: %w", err)
				}
				fmt.Println("\n✓ Summary sent to Slack")
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&sendToSlack, "send-to-slack", false, "Deliver the summary to the configured Slack webhook")

	return cmd
}
