package main

import (
	"fmt"
	"log/slog"

	"github.com/Veraticus/digit-bayes/internal/cli"
	"github.com/Veraticus/digit-bayes/internal/storage"
	"github.com/spf13/cobra"
)

func migrateCmd(a *app) *cobra.Command {
	var status bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run registry database migrations",
		Long: `Initialize or update the model registry schema to the latest version.

Every command that touches the registry migrates it first, so this is only
needed to prepare a database ahead of time or to inspect its version.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			store, err := storage.NewSQLiteStorage(a.cfg.DatabasePath)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer closeStorage(store)

			if status {
				current, err := store.SchemaVersion(ctx)
				if err != nil {
					return err
				}
				writeLine(out, cli.RenderBox(cli.ChartIcon+" Registry schema", fmt.Sprintf(
					"Database: %s\nCurrent version: %d\nLatest version: %d",
					store.Path(), current, storage.ExpectedSchemaVersion)))
				return nil
			}

			slog.Info("Running database migrations", "database", store.Path())
			if err := store.Migrate(ctx); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			writeLine(out, cli.FormatSuccess(fmt.Sprintf("Registry is at schema version %d", storage.ExpectedSchemaVersion)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&status, "status", false, "Show the current schema version without applying changes")

	return cmd
}
