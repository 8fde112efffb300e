package model

// RateCategory names which duty column applied for a country.
type RateCategory string

// Rate categories, in precedence order: Column 2 beats Special beats General.
const (
	RateCategoryColumn2 RateCategory = "Column 2"
	RateCategorySpecial RateCategory = "Special"
	RateCategoryGeneral RateCategory = "General"
)

// RateKind tags a parsed duty rate.
type RateKind string

// Rate kinds.
const (
	RateFree RateKind = "free"
	// RatePercentage is an ad valorem rate applied to the base value.
	RatePercentage RateKind = "percentage"
	// RateUnitBased is a cents-per-unit rate. Arithmetic on it requires
	// quantity data the engine does not have, so it contributes zero duty
	// downstream plus an explanatory note.
	RateUnitBased RateKind = "unit_based"
	// RateUnsupported is anything the parser could not make sense of.
	RateUnsupported RateKind = "unsupported"
)

// TypedRate is a duty rate parsed out of free-form catalog text.
type TypedRate struct {
	Kind  RateKind
	Unit  string  // set for unit-based rates
	Raw   string  // original text, kept for notes
	Value float64 // percent for percentage rates, cents for unit-based
}

// Computable reports whether the rate can drive a duty calculation.
func (r TypedRate) Computable() bool {
	return r.Kind == RateFree || r.Kind == RatePercentage
}

// ResolvedRate pairs a parsed rate with the category it came from.
type ResolvedRate struct {
	Category RateCategory
	RawText  string
	Rate     TypedRate
}
