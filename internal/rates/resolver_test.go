package rates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"htscompass/internal/model"
)

func TestResolve_Precedence(t *testing.T) {
	rec := &model.Record{
		GeneralRate: "5%",
		SpecialRate: "Free (A,AU,BH)",
		Column2Rate: "20%",
	}

	tests := []struct {
		name     string
		country  string
		category model.RateCategory
		raw      string
	}{
		{name: "restricted country takes column 2", country: "RU", category: model.RateCategoryColumn2, raw: "20%"},
		{name: "restricted lowercase normalized", country: "cu", category: model.RateCategoryColumn2, raw: "20%"},
		{name: "special program member", country: "AU", category: model.RateCategorySpecial, raw: "Free (A,AU,BH)"},
		{name: "everyone else gets general", country: "DE", category: model.RateCategoryGeneral, raw: "5%"},
		{name: "empty country gets general", country: "", category: model.RateCategoryGeneral, raw: "5%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Resolve(rec, tt.country)
			assert.Equal(t, tt.category, res.Category)
			assert.Equal(t, tt.raw, res.RawText)
		})
	}
}

func TestResolve_RestrictedBeatsSpecialProgram(t *testing.T) {
	// Even when the special rate text names the country, the restricted
	// set wins.
	rec := &model.Record{
		GeneralRate: "5%",
		SpecialRate: "Free (RU,AU)",
		Column2Rate: "35%",
	}

	res := Resolve(rec, "RU")
	assert.Equal(t, model.RateCategoryColumn2, res.Category)
}

func TestResolve_SpecialRequiresParenthesizedToken(t *testing.T) {
	// A bare country substring outside parentheses is not membership.
	rec := &model.Record{
		GeneralRate: "5%",
		SpecialRate: "See note AU for details",
		Column2Rate: "35%",
	}

	res := Resolve(rec, "AU")
	assert.Equal(t, model.RateCategoryGeneral, res.Category)
}

func TestIsColumn2Country(t *testing.T) {
	for _, iso := range []string{"BY", "CU", "KP", "RU"} {
		assert.True(t, IsColumn2Country(iso), iso)
	}
	for _, iso := range []string{"US", "CN", "DE", "", "ru"} {
		assert.False(t, IsColumn2Country(iso), iso)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		kind  model.RateKind
		value float64
		unit  string
	}{
		{name: "free", raw: "Free", kind: model.RateFree},
		{name: "free with programs", raw: "Free (A,AU,BH)", kind: model.RateFree},
		{name: "free case insensitive", raw: "FREE", kind: model.RateFree},
		{name: "simple percentage", raw: "5%", kind: model.RatePercentage, value: 5},
		{name: "decimal percentage", raw: "2.4%", kind: model.RatePercentage, value: 2.4},
		{name: "percentage with suffix text", raw: "6.8% of the value", kind: model.RatePercentage, value: 6.8},
		{name: "cents per unit", raw: "2.5¢/kg", kind: model.RateUnitBased, value: 2.5, unit: "kg"},
		{name: "cents per unit spaced", raw: "1 ¢ / kg", kind: model.RateUnitBased, value: 1, unit: "kg"},
		{name: "bare number is a percentage", raw: "20", kind: model.RatePercentage, value: 20},
		{name: "bare decimal", raw: "0.5", kind: model.RatePercentage, value: 0.5},
		{name: "compound rate reads the percentage part", raw: "4.4¢/kg + 10.5% on contents", kind: model.RatePercentage, value: 10.5},
		{name: "prose unsupported", raw: "The rate applicable to the article", kind: model.RateUnsupported},
		{name: "empty unsupported", raw: "", kind: model.RateUnsupported},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rate := Parse(tt.raw)
			require.Equal(t, tt.kind, rate.Kind)
			assert.Equal(t, tt.value, rate.Value)
			assert.Equal(t, tt.unit, rate.Unit)
		})
	}
}

func TestTypedRate_Computable(t *testing.T) {
	assert.True(t, model.TypedRate{Kind: model.RateFree}.Computable())
	assert.True(t, model.TypedRate{Kind: model.RatePercentage}.Computable())
	assert.False(t, model.TypedRate{Kind: model.RateUnitBased}.Computable())
	assert.False(t, model.TypedRate{Kind: model.RateUnsupported}.Computable())
}
