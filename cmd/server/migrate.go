package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"todoApp/internal/config"
	"todoApp/internal/db"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back schema migrations",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withDB(cmd, db.Migrate)
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the most recent migration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withDB(cmd, db.RollbackLast)
			},
		},
	)
	return cmd
}

// withDB opens the configured database without touching its schema, runs fn and
// reports the applied versions. The signing secret is not needed here.
func withDB(cmd *cobra.Command, fn func(*db.DB) error) error {
	path := dbPath
	if path == "" {
		cfg, err := config.LoadWithDefaults()
		if err != nil {
			return err
		}
		path = cfg.Database.Path
	}
	d, err := db.OpenNoMigrate(path)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer d.Close()
	if err := fn(d); err != nil {
		return err
	}
	versions, err := db.AppliedVersions(d)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "applied migrations: %v\n", versions)
	return nil
}
