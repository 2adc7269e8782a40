package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/CoderDill/chat-app-hedera/internal/store"
)

func migrateCMD() *cobra.Command {
	var dsn string
	var direction string
	var steps int

	var migrate = &cobra.Command{
		Use:   "migrate",
		Short: "Run postgres index migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if dsn == "" {
				return fmt.Errorf("postgres not configured (DATABASE_URL or --database-url)")
			}
			if err := store.Migrate(dsn, direction, steps); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "migrations %s applied\n", direction)
			return nil
		},
	}
	migrate.Flags().StringVar(&dsn, "database-url", getenv("DATABASE_URL", ""), "postgres connection URL")
	migrate.Flags().StringVar(&direction, "direction", "up", "up or down")
	migrate.Flags().IntVar(&steps, "steps", 0, "number of steps (0 = all)")

	return migrate
}
