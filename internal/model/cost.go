package model

// TransportMode is how the shipment enters the country.
type TransportMode string

// Transport modes.
const (
	TransportOcean TransportMode = "Ocean"
	TransportAir   TransportMode = "Air"
	TransportRail  TransportMode = "Rail"
	TransportTruck TransportMode = "Truck"
)

// Sea reports whether the mode is sea-based (and so attracts harbor fees).
func (m TransportMode) Sea() bool {
	return m == TransportOcean
}

// CostBreakdown is the result of a landed-cost calculation. Monetary fields
// are rounded to 2 decimals when set; intermediate math is done unrounded.
type CostBreakdown struct {
	RateCategory       RateCategory
	Notes              []string
	BaseValue          float64
	DutyRatePct        float64
	BaseDuty           float64
	MetalSurcharge     float64
	ExclusionReduction float64
	TotalDuties        float64
	EntryFees          float64
	LandedCost         float64
}
