package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bibbank/smart-checkout/pkg/postgres"
)

const defaultMigrations = "file://internal/infrastructure/postgres/migrations"

func migrateCmd() *cobra.Command {
	var databaseURL, source string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back the checkout audit schema",
	}
	cmd.PersistentFlags().StringVar(&databaseURL, "database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection URL")
	cmd.PersistentFlags().StringVar(&source, "source", envOr("MIGRATIONS_DIR", defaultMigrations), "migration source URL")

	requireURL := func() error {
		if databaseURL == "" {
			return fmt.Errorf("--database-url or DATABASE_URL is required")
		}
		return nil
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireURL(); err != nil {
				return err
			}
			version, err := postgres.RunMigrations(databaseURL, source)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema at version %d\n", version)
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back every migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireURL(); err != nil {
				return err
			}
			if err := postgres.RunMigrationsDown(databaseURL, source); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema rolled back")
			return nil
		},
	})

	return cmd
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
