package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/mwhited/todo-digest/internal/cache"
	"github.com/mwhited/todo-digest/internal/config"
	"github.com/mwhited/todo-digest/internal/database"
	"github.com/mwhited/todo-digest/internal/services/slack"
	"github.com/spf13/cobra"
)

// NewCheckCmd creates the check command
func NewCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check backing service connectivity",
		Long:  "Verify that the database, optional cache, and optional webhook are reachable from this environment",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()

			db, err := database.New(cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("database unreachable: %w", err)
			}
			defer func() {
				if err := db.Close(); err != nil {
					fmt.Fprintf(os.Stderr, "Warning: failed to close database: %v\n", err)
				}
			}()
			fmt.Println("✓ Database is reachable")

			if cfg.RedisURL != "" {
				listCache, err := cache.New(cfg.RedisURL)
				if err != nil {
					return fmt.Errorf("redis unreachable: %w", err)
				}
				defer func() {
					if err := listCache.Close(); err != nil {
						fmt.Fprintf(os.Stderr, "Warning: failed to close redis: %v\n", err)
					}
				}()
				if err := listCache.Ping(ctx); err != nil {
					return fmt.Errorf("redis ping failed: %w", err)
				}
				fmt.Println("✓ Redis is reachable")
			} else {
				fmt.Println("- Redis not configured, list cache disabled")
			}

			if slack.New(cfg.SlackWebhookURL).Configured() {
				fmt.Println("✓ Slack webhook configured")
			} else {
				fmt.Println("- Slack webhook not configured, notifications disabled")
			}

			return nil
		},
	}

	return cmd
}
