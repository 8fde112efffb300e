package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"htscompass/internal/catalog"
	"htscompass/internal/cli"
	"htscompass/internal/common"
	"htscompass/internal/duty"
	"htscompass/internal/model"
)

func calculateCmd() *cobra.Command {
	var (
		code         string
		country      string
		transport    string
		baseValue    float64
		hasExclusion bool
		metalPercent float64
	)

	cmd := &cobra.Command{
		Use:   "calculate",
		Short: "Estimate duties and landed cost for a classified product",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			table, err := loadTable(ctx)
			if err != nil {
				return err
			}

			set := table.FindExact(catalog.NormalizeCode(code))
			if len(set) == 0 {
				return fmt.Errorf("code %q: %w", code, common.ErrNotFound)
			}
			rec, err := table.Record(set[0])
			if err != nil {
				return err
			}

			breakdown, err := duty.Calculate(rec, duty.Input{
				CountryISO:   country,
				Transport:    model.TransportMode(transport),
				BaseValue:    baseValue,
				HasExclusion: hasExclusion,
				MetalPercent: metalPercent,
			})
			if err != nil {
				return err
			}

			var b strings.Builder
			fmt.Fprintf(&b, "Rate category:       %s (%.4g%%)\n", breakdown.RateCategory, breakdown.DutyRatePct)
			fmt.Fprintf(&b, "Base value:          $%.2f\n", breakdown.BaseValue)
			fmt.Fprintf(&b, "Base duty:           $%.2f\n", breakdown.BaseDuty)
			fmt.Fprintf(&b, "Metal surcharge:     $%.2f\n", breakdown.MetalSurcharge)
			fmt.Fprintf(&b, "Exclusion reduction: $%.2f\n", breakdown.ExclusionReduction)
			fmt.Fprintf(&b, "Total duties:        $%.2f\n", breakdown.TotalDuties)
			fmt.Fprintf(&b, "Entry fees:          $%.2f\n", breakdown.EntryFees)
			fmt.Fprintf(&b, "Landed cost:         $%.2f", breakdown.LandedCost)
			fmt.Println(cli.RenderBox("Landed cost estimate for "+rec.RawCode, b.String()))

			for _, note := range breakdown.Notes {
				fmt.Println(cli.WarningStyle.Render("  " + note))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&code, "code", "", "full classification code (required)")
	cmd.Flags().StringVar(&country, "country", "", "ISO country of origin (required)")
	cmd.Flags().StringVar(&transport, "transport", string(model.TransportOcean), "transport mode (Ocean, Air, Rail, Truck)")
	cmd.Flags().Float64Var(&baseValue, "value", 0, "base shipment value in USD (required)")
	cmd.Flags().BoolVar(&hasExclusion, "exclusion", false, "a Chapter 99 exclusion applies")
	cmd.Flags().Float64Var(&metalPercent, "metal-percent", 0, "steel/aluminum content percentage")
	_ = cmd.MarkFlagRequired("code")
	_ = cmd.MarkFlagRequired("country")
	_ = cmd.MarkFlagRequired("value")

	return cmd
}
