// Package duty computes landed-cost breakdowns from a resolved duty rate
// and shipment inputs.
package duty

import (
	"fmt"
	"math"

	"htscompass/internal/common"
	"htscompass/internal/model"
	"htscompass/internal/rates"
)

// Adjustment coefficients and entry fees.
const (
	// metalSurchargeRate is the tariff applied to the base value in
	// proportion to metal content.
	metalSurchargeRate = 0.05
	// exclusionReductionRate is the share of computed duty removed when a
	// qualifying exclusion applies.
	exclusionReductionRate = 0.50
	// oceanEntryFee covers merchandise processing plus harbor maintenance
	// for sea-based entry.
	oceanEntryFee = 48.00
	// standardEntryFee is merchandise processing only (air, rail, truck).
	standardEntryFee = 35.00
)

// Input holds the shipment parameters for a calculation.
type Input struct {
	CountryISO   string
	Transport    model.TransportMode
	BaseValue    float64
	MetalPercent float64
	HasExclusion bool
}

// Calculate resolves the applicable rate for the record and country and
// combines the cost adjustments in fixed order. Monetary outputs are
// rounded to 2 decimals only at the end so rounding error does not
// compound across steps.
func Calculate(rec *model.Record, in Input) (model.CostBreakdown, error) {
	if in.BaseValue < 0 {
		return model.CostBreakdown{}, fmt.Errorf("%w: base value must be non-negative", common.ErrInvalidInput)
	}
	if in.MetalPercent < 0 || in.MetalPercent > 100 {
		return model.CostBreakdown{}, fmt.Errorf("%w: metal percent must be between 0 and 100", common.ErrInvalidInput)
	}

	res := rates.Resolve(rec, in.CountryISO)

	var notes []string
	baseDuty := 0.0
	dutyPct := 0.0
	switch res.Rate.Kind {
	case model.RatePercentage:
		dutyPct = res.Rate.Value
		baseDuty = in.BaseValue * (dutyPct / 100.0)
	case model.RateFree:
		// zero duty
	default:
		notes = append(notes, fmt.Sprintf(
			"Automated duty calculation is not supported for this rate type (%q). Duty is estimated as $0.",
			res.RawText))
	}

	metalSurcharge := 0.0
	if in.MetalPercent > 0 {
		metalSurcharge = in.BaseValue * (in.MetalPercent / 100.0) * metalSurchargeRate
		notes = append(notes, fmt.Sprintf(
			"An additional $%.2f has been added for %g%% metal content.",
			metalSurcharge, in.MetalPercent))
	}

	exclusionReduction := 0.0
	if in.HasExclusion {
		exclusionReduction = (baseDuty + metalSurcharge) * exclusionReductionRate
		notes = append(notes, fmt.Sprintf(
			"A reduction of $%.2f has been applied due to a Chapter 99 exclusion.",
			exclusionReduction))
	}

	totalDuties := baseDuty + metalSurcharge - exclusionReduction
	if totalDuties < 0 {
		totalDuties = 0
	}

	fees := standardEntryFee
	if in.Transport.Sea() {
		fees = oceanEntryFee
	}

	return model.CostBreakdown{
		BaseValue:          round2(in.BaseValue),
		RateCategory:       res.Category,
		DutyRatePct:        dutyPct,
		BaseDuty:           round2(baseDuty),
		MetalSurcharge:     round2(metalSurcharge),
		ExclusionReduction: round2(exclusionReduction),
		TotalDuties:        round2(totalDuties),
		EntryFees:          round2(fees),
		LandedCost:         round2(in.BaseValue + totalDuties + fees),
		Notes:              notes,
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
