package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/CoderDill/chat-app-hedera/internal/keywords"
	"github.com/CoderDill/chat-app-hedera/internal/store"
)

func searchCMD() *cobra.Command {
	var opts store.Options

	var search = &cobra.Command{
		Use:   "search [query...]",
		Short: "Query the local keyword index directly",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := store.Open(ctx, opts)
			if err != nil {
				return err
			}
			defer s.Close()

			ids, err := s.Query(ctx, keywords.Extract(strings.Join(args, " ")))
			if err != nil {
				return err
			}
			for _, id := range ids {
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		},
	}
	search.Flags().StringVar(&opts.Driver, "driver", getenv("INDEX_DRIVER", store.DriverSQLite), "index driver (sqlite, postgres, redis, bleve)")
	search.Flags().StringVar(&opts.SQLitePath, "sqlite-path", getenv("SQLITE_PATH", "chat_history.db"), "sqlite database file")
	search.Flags().StringVar(&opts.BlevePath, "bleve-path", getenv("BLEVE_PATH", ""), "bleve index directory")
	search.Flags().StringVar(&opts.DatabaseURL, "database-url", getenv("DATABASE_URL", ""), "postgres connection URL")
	search.Flags().StringVar(&opts.RedisURL, "redis-url", getenv("REDIS_URL", ""), "redis connection URL")

	return search
}
