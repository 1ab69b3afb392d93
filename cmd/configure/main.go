package main

import (
	"fmt"
	"os"

	"github.com/mwhited/todo-digest/cmd/configure/commands"
	"github.com/spf13/cobra"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "todo-digest-configure",
		Short: "Operations tool for the Todo Digest API",
		Long:  "CLI tool for running migrations and checking backing services",
	}

	rootCmd.AddCommand(commands.NewMigrateCmd())
	rootCmd.AddCommand(commands.NewCheckCmd())
	rootCmd.AddCommand(commands.NewSummarizeCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
