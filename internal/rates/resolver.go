// Package rates resolves which of a record's three duty columns applies
// for a country of origin and parses free-form duty-rate text into a typed
// rate.
package rates

import (
	"regexp"
	"strconv"
	"strings"

	"htscompass/internal/model"
)

var (
	percentPattern = regexp.MustCompile(`(\d+\.?\d*)\s*%`)
	unitPattern    = regexp.MustCompile(`(\d+\.?\d*)\s*¢\s*/\s*(\w+)`)
	// Special-program membership is encoded as parenthesized 2-letter
	// tokens inside the special rate text, e.g. "Free (A,AU,BH)".
	countryToken = regexp.MustCompile(`\((\w{2})\)`)
)

// Resolve picks exactly one rate category for the record and country.
// First match wins: restricted countries take Column 2, then a country
// token inside the special rate text selects Special, then General.
func Resolve(rec *model.Record, countryISO string) model.ResolvedRate {
	iso := strings.ToUpper(strings.TrimSpace(countryISO))

	if IsColumn2Country(iso) {
		return resolved(model.RateCategoryColumn2, rec.Column2Rate)
	}
	if specialCovers(rec.SpecialRate, iso) {
		return resolved(model.RateCategorySpecial, rec.SpecialRate)
	}
	return resolved(model.RateCategoryGeneral, rec.GeneralRate)
}

func resolved(cat model.RateCategory, raw string) model.ResolvedRate {
	return model.ResolvedRate{
		Category: cat,
		RawText:  raw,
		Rate:     Parse(raw),
	}
}

// specialCovers reports whether the country appears as a parenthesized
// token anywhere in the special rate text.
func specialCovers(specialRate, iso string) bool {
	if iso == "" {
		return false
	}
	for _, m := range countryToken.FindAllStringSubmatch(specialRate, -1) {
		if strings.ToUpper(m[1]) == iso {
			return true
		}
	}
	return false
}

// Parse turns a raw duty-rate string into a typed rate. A bare number with
// no symbol is treated as a percentage, which covers plain numeric
// Column 2 rates.
func Parse(raw string) model.TypedRate {
	text := strings.TrimSpace(raw)

	if strings.Contains(strings.ToLower(text), "free") {
		return model.TypedRate{Kind: model.RateFree, Raw: text}
	}

	if m := percentPattern.FindStringSubmatch(text); m != nil {
		value, _ := strconv.ParseFloat(m[1], 64)
		return model.TypedRate{Kind: model.RatePercentage, Value: value, Raw: text}
	}

	if m := unitPattern.FindStringSubmatch(text); m != nil {
		value, _ := strconv.ParseFloat(m[1], 64)
		return model.TypedRate{Kind: model.RateUnitBased, Value: value, Unit: m[2], Raw: text}
	}

	if value, err := strconv.ParseFloat(text, 64); err == nil {
		return model.TypedRate{Kind: model.RatePercentage, Value: value, Raw: text}
	}

	return model.TypedRate{Kind: model.RateUnsupported, Raw: text}
}
