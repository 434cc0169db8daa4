package services

// Company-wide consumption standards. Stores may override any of these through
// store_protein_targets; these values are the fallback when no override exists.

// DefaultTargetLbsPerGuest is the network-wide total meat target per guest.
const DefaultTargetLbsPerGuest = 1.76

// Per-guest financial guardrails for the prep briefing.
const (
	FinancialTargetGuest        = 9.92
	FinancialToleranceThreshold = 9.98
)

// meatStandards maps protein names to the standard lbs-per-guest share.
// Sourced from the corporate consumption table; entries at 0 are carried but
// not ordered against by default.
var meatStandards = map[string]float64{
	"Beef Picanha":           0.39,
	"Garlic Picanha":         0.39,
	"Beef Top Butt Sirloin":  0.22,
	"Beef Flap Meat":         0.24,
	"Fraldinha":              0.24,
	"Lamb Chops":             0.07,
	"Lamb Rack":              0.07,
	"Filet Mignon":           0.10,
	"Beef Tenderloin":        0.10,
	"Bacon Wrapped Chicken":  0.12,
	"Chicken Leg":            0.13,
	"Chicken Breast":         0.14,
	"Pork Loin":              0.06,
	"Pork Sausage":           0.06,
	"Beef Short Ribs":        0.08,
	"Beef Ribs":              0.08,
	"Beef Bone-in-Ribeye":    0.09,
	"Lamb Top Sirloin Caps":  0.10,
	"Lamb Picanha":           0.10,
	"Pork Belly":             0.04,
	"Pork Crown":             0.04,
}

// standardShare returns the company standard lbs-per-guest for a protein and
// whether one is defined.
func standardShare(protein string) (float64, bool) {
	share, ok := meatStandards[protein]
	return share, ok
}
