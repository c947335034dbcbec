package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"todoApp/internal/config"
)

var (
	dbPath  string
	devMode bool
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "todoapp",
		Short: "Todo and book catalog service",
		Long: `todoapp serves the todo REST API (users, JWT login, per-user todos, admin
views and the book catalog) and an optional gRPC health endpoint.

Configuration comes from CONFIG_FILE (YAML) and environment variables.

Examples:
  JWT_SECRET=change-me todoapp serve
  todoapp --db todos.db migrate up
  todoapp --dev serve`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&dbPath, "db", "", "Database file path (overrides DB_PATH)")
	root.PersistentFlags().BoolVar(&devMode, "dev", false, "Fall back to a development JWT secret when none is set")

	root.AddCommand(newServeCmd(), newMigrateCmd())
	return root
}

// loadConfig resolves configuration and applies command-line overrides.
func loadConfig() (*config.Config, error) {
	load := config.Load
	if devMode {
		load = config.LoadWithDefaults
	}
	cfg, err := load()
	if err != nil {
		return nil, err
	}
	if dbPath != "" {
		cfg.Database.Path = dbPath
	}
	return cfg, nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
