package main

import (
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"htscompass/internal/config"
	"htscompass/internal/engine"
	"htscompass/internal/locator"
	"htscompass/internal/server"
	"htscompass/internal/session"
)

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the classification and duty HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			table, err := loadTable(ctx)
			if err != nil {
				return err
			}
			searcher, err := initSearcher()
			if err != nil {
				return err
			}

			loc := locator.New(table, searcher, viper.GetInt(config.KeySearchLimit))
			sessions := session.NewStore(engine.NewGenerator(table))

			// Reap abandoned sessions in the background.
			sessionTTL := viper.GetDuration(config.KeySessionTTL)
			if sessionTTL <= 0 {
				sessionTTL = time.Hour
			}
			go func() {
				ticker := time.NewTicker(sessionTTL / 4)
				defer ticker.Stop()
				for {
					select {
					case <-ctx.Done():
						return
					case <-ticker.C:
						if n := sessions.PruneOlderThan(sessionTTL); n > 0 {
							slog.Debug("pruned abandoned sessions", "count", n)
						}
					}
				}
			}()

			slog.Info("Catalog loaded", "records", table.Len())
			srv := server.New(table, loc, sessions)
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	return cmd
}
