package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/mwhited/todo-digest/internal/config"
	"github.com/mwhited/todo-digest/internal/database"
	"github.com/spf13/cobra"
)

// NewMigrateCmd creates the migrate command
func NewMigrateCmd() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		Long:  "Create or update the todos schema in the configured database",
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

			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()

			if err := database.Migrate(ctx, db); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Println("✓ Migrations applied")
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "Migration timeout")

	return cmd
}
