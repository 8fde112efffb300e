package main

import (
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"htscompass/internal/catalog"
	"htscompass/internal/cli"
	"htscompass/internal/model"
)

func importCmd() *cobra.Command {
	var maxLevels int

	cmd := &cobra.Command{
		Use:   "import <raw-catalog.csv>",
		Short: "Flatten a raw catalog export and store it",
		Long: `Reads the hierarchical catalog export, expands the indent hierarchy
into specification levels with inherited duty rates, and stores the
processed records for classification and duty lookups.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open catalog export: %w", err)
			}
			defer func() { _ = f.Close() }()

			bar := progressbar.NewOptions(-1,
				progressbar.OptionSetDescription("Reading catalog"),
				progressbar.OptionSpinnerType(14))
			rows, err := catalog.ReadRawCSV(progressReader{f, bar})
			if err != nil {
				return fmt.Errorf("failed to parse catalog export: %w", err)
			}
			_ = bar.Finish()

			records := catalog.Flatten(rows, maxLevels)
			if len(records) == 0 {
				return fmt.Errorf("no complete-code rows found in %s", args[0])
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.SaveRecords(ctx, records); err != nil {
				return fmt.Errorf("failed to save records: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf(
				"Imported %d records from %d source rows", len(records), len(rows))))
			return nil
		},
	}

	cmd.Flags().IntVar(&maxLevels, "max-levels", model.SpecLevelCount, "number of specification levels to expand")
	return cmd
}

// progressReader feeds the spinner as the export streams through the
// parser; exports are large enough that silent reads look like a hang.
type progressReader struct {
	f   *os.File
	bar *progressbar.ProgressBar
}

func (r progressReader) Read(p []byte) (int, error) {
	n, err := r.f.Read(p)
	_ = r.bar.Add(n)
	return n, err
}
