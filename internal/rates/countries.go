package rates

// column2Countries is the fixed set of restricted countries whose imports
// take the punitive Column 2 rate regardless of any preferential program.
var column2Countries = map[string]bool{
	"BY": true, // Belarus
	"CU": true, // Cuba
	"KP": true, // North Korea
	"RU": true, // Russia
}

// IsColumn2Country reports whether the ISO country code is in the
// restricted set.
func IsColumn2Country(iso string) bool {
	return column2Countries[iso]
}
