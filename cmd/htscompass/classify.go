package main

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"htscompass/internal/cli"
	"htscompass/internal/config"
	"htscompass/internal/engine"
	"htscompass/internal/locator"
	"htscompass/internal/session"
	"htscompass/internal/tui"
)

func classifyCmd() *cobra.Command {
	var useTUI bool

	cmd := &cobra.Command{
		Use:   "classify [query]",
		Short: "Interactively classify a product",
		Long: `Resolves a code, code prefix, or product description into a single
catalog entry by asking discriminating questions. With --tui the flow runs
as a full-screen interface; otherwise questions are asked inline.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
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
			query := strings.Join(args, " ")

			if useTUI {
				return tui.Run(ctx, table, loc, sessions, query)
			}
			if query == "" {
				return cmd.Usage()
			}
			prompter := cli.NewPrompter(nil, nil, table, loc, sessions)
			return prompter.Run(ctx, query)
		},
	}

	cmd.Flags().BoolVar(&useTUI, "tui", false, "run the full-screen interface")
	return cmd
}
