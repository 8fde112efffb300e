package duty

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"htscompass/internal/common"
	"htscompass/internal/model"
)

func percentRecord(rate string) *model.Record {
	return &model.Record{
		Code:        "0101210010",
		GeneralRate: rate,
		SpecialRate: "Free (A,AU)",
		Column2Rate: "20%",
	}
}

func TestCalculate_PercentageRate(t *testing.T) {
	breakdown, err := Calculate(percentRecord("5%"), Input{
		CountryISO: "DE",
		Transport:  model.TransportAir,
		BaseValue:  1000,
	})
	require.NoError(t, err)

	assert.Equal(t, model.RateCategoryGeneral, breakdown.RateCategory)
	assert.Equal(t, 5.0, breakdown.DutyRatePct)
	assert.Equal(t, 50.00, breakdown.BaseDuty)
	assert.Equal(t, 0.00, breakdown.MetalSurcharge)
	assert.Equal(t, 50.00, breakdown.TotalDuties)
	assert.Equal(t, 35.00, breakdown.EntryFees)
	assert.Equal(t, 1085.00, breakdown.LandedCost)
	assert.Empty(t, breakdown.Notes)
}

func TestCalculate_OceanFees(t *testing.T) {
	breakdown, err := Calculate(percentRecord("5%"), Input{
		CountryISO: "DE",
		Transport:  model.TransportOcean,
		BaseValue:  1000,
	})
	require.NoError(t, err)

	assert.Equal(t, 48.00, breakdown.EntryFees)
	assert.Equal(t, 1098.00, breakdown.LandedCost)
}

func TestCalculate_FreeRate(t *testing.T) {
	breakdown, err := Calculate(percentRecord("5%"), Input{
		CountryISO: "AU",
		Transport:  model.TransportTruck,
		BaseValue:  500,
	})
	require.NoError(t, err)

	assert.Equal(t, model.RateCategorySpecial, breakdown.RateCategory)
	assert.Equal(t, 0.0, breakdown.DutyRatePct)
	assert.Equal(t, 0.00, breakdown.BaseDuty)
	assert.Equal(t, 0.00, breakdown.TotalDuties)
	assert.Equal(t, 535.00, breakdown.LandedCost)
}

func TestCalculate_Column2Country(t *testing.T) {
	breakdown, err := Calculate(percentRecord("5%"), Input{
		CountryISO: "RU",
		Transport:  model.TransportAir,
		BaseValue:  1000,
	})
	require.NoError(t, err)

	assert.Equal(t, model.RateCategoryColumn2, breakdown.RateCategory)
	assert.Equal(t, 20.0, breakdown.DutyRatePct)
	assert.Equal(t, 200.00, breakdown.BaseDuty)
}

func TestCalculate_MetalSurcharge(t *testing.T) {
	breakdown, err := Calculate(percentRecord("5%"), Input{
		CountryISO:   "DE",
		Transport:    model.TransportAir,
		BaseValue:    1000,
		MetalPercent: 40,
	})
	require.NoError(t, err)

	// 1000 * 0.40 * 0.05
	assert.Equal(t, 20.00, breakdown.MetalSurcharge)
	assert.Equal(t, 70.00, breakdown.TotalDuties)
	assert.Equal(t, 1105.00, breakdown.LandedCost)
	require.Len(t, breakdown.Notes, 1)
	assert.Equal(t, "An additional $20.00 has been added for 40% metal content.", breakdown.Notes[0])
}

func TestCalculate_ExclusionReduction(t *testing.T) {
	breakdown, err := Calculate(percentRecord("5%"), Input{
		CountryISO:   "DE",
		Transport:    model.TransportAir,
		BaseValue:    1000,
		HasExclusion: true,
	})
	require.NoError(t, err)

	// Half of the 50.00 base duty comes back off.
	assert.Equal(t, 25.00, breakdown.ExclusionReduction)
	assert.Equal(t, 25.00, breakdown.TotalDuties)
	assert.Equal(t, 1060.00, breakdown.LandedCost)
	require.Len(t, breakdown.Notes, 1)
	assert.Equal(t, "A reduction of $25.00 has been applied due to a Chapter 99 exclusion.", breakdown.Notes[0])
}

func TestCalculate_ExclusionCoversMetalSurcharge(t *testing.T) {
	breakdown, err := Calculate(percentRecord("5%"), Input{
		CountryISO:   "DE",
		Transport:    model.TransportAir,
		BaseValue:    1000,
		MetalPercent: 40,
		HasExclusion: true,
	})
	require.NoError(t, err)

	// (50 + 20) * 0.50
	assert.Equal(t, 35.00, breakdown.ExclusionReduction)
	assert.Equal(t, 35.00, breakdown.TotalDuties)
	assert.Len(t, breakdown.Notes, 2)
}

func TestCalculate_UnsupportedRate(t *testing.T) {
	rec := &model.Record{
		Code:        "0101210010",
		GeneralRate: "4.4¢/kg",
	}

	breakdown, err := Calculate(rec, Input{
		CountryISO: "DE",
		Transport:  model.TransportAir,
		BaseValue:  1000,
	})
	require.NoError(t, err)

	assert.Equal(t, 0.00, breakdown.BaseDuty)
	assert.Equal(t, 0.00, breakdown.TotalDuties)
	assert.Equal(t, 1035.00, breakdown.LandedCost)
	require.Len(t, breakdown.Notes, 1)
	assert.Contains(t, breakdown.Notes[0], "not supported for this rate type")
	assert.Contains(t, breakdown.Notes[0], "4.4¢/kg")
}

func TestCalculate_Rounding(t *testing.T) {
	// 333.33 at 2.4% is 7.99992; only the output rounds.
	breakdown, err := Calculate(percentRecord("2.4%"), Input{
		CountryISO: "DE",
		Transport:  model.TransportAir,
		BaseValue:  333.33,
	})
	require.NoError(t, err)

	assert.Equal(t, 8.00, breakdown.BaseDuty)
	assert.Equal(t, 376.33, breakdown.LandedCost)
}

func TestCalculate_InvalidInput(t *testing.T) {
	tests := []struct {
		name string
		in   Input
	}{
		{name: "negative base value", in: Input{BaseValue: -1}},
		{name: "negative metal percent", in: Input{BaseValue: 100, MetalPercent: -5}},
		{name: "metal percent over 100", in: Input{BaseValue: 100, MetalPercent: 150}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Calculate(percentRecord("5%"), tt.in)
			assert.ErrorIs(t, err, common.ErrInvalidInput)
		})
	}
}
