package models

import "time"

// PhysicalCount is one counted on-hand quantity for a protein, entered during
// a physical inventory. Owned by the inventory ledger; read-only here.
type PhysicalCount struct {
	ID          int64     `json:"id" db:"id"`
	StoreID     int64     `json:"store_id" db:"store_id"`
	Protein     string    `json:"protein" db:"protein"`
	QuantityLbs float64   `json:"quantity_lbs" db:"quantity_lbs"`
	CountDate   time.Time `json:"count_date" db:"count_date"`
}

// PurchaseRecord is one received-delivery line from a logged invoice.
type PurchaseRecord struct {
	ID          int64     `json:"id" db:"id"`
	StoreID     int64     `json:"store_id" db:"store_id"`
	Protein     string    `json:"protein" db:"protein"`
	QuantityLbs float64   `json:"quantity_lbs" db:"quantity_lbs"`
	Date        time.Time `json:"date" db:"purchase_date"`
}

// OrderBreakdown splits a suggested order quantity across the three fixed
// delivery days (lbs, unrounded).
type OrderBreakdown struct {
	Mon float64 `json:"mon"`
	Wed float64 `json:"wed"`
	Sat float64 `json:"sat"`
}

// Depletion projection statuses.
const (
	StatusOrderNeeded   = "Order Needed"
	StatusNoOrderNeeded = "No Order Needed"
)

// Data-quality warning codes. These ride alongside results; they never fail a
// request (the computation proceeds on safe defaults).
const (
	WarnNegativeOnHand = "negative_on_hand"
	WarnMissingTarget  = "missing_target"
	WarnNoForecast     = "no_forecast"
	WarnBadWeights     = "invalid_order_weights"
)

// DepletionProjection is the per-protein output of the depletion model: the
// estimated on-hand position and the suggested order for the rest of the week.
// All lbs values stay in float64 until the presentation edge.
type DepletionProjection struct {
	Protein       string         `json:"protein"`
	RequiredLbs   float64        `json:"required"`
	LastCountLbs  float64        `json:"lastCount"`
	ReceivedLbs   float64        `json:"received"`
	DepletionLbs  float64        `json:"depletion"`
	OnHandLbs     float64        `json:"onHand"`
	SafetyLbs     float64        `json:"safetyStock"`
	SuggestedLbs  float64        `json:"suggestedOrder"`
	Breakdown     OrderBreakdown `json:"breakdown"`
	GuestsApplied int            `json:"guests_applied"`
	Status        string         `json:"status"`
	Warnings      []string       `json:"warnings,omitempty"`
}

// SupplyProjection is the full depletion-model result for one store and week.
type SupplyProjection struct {
	StoreID           int64                 `json:"store_id"`
	WeekStart         time.Time             `json:"week_start"`
	DayIndex          int                   `json:"day_index"`
	AccumulatedWeight float64               `json:"accumulated_weight"`
	ForecastLunch     int                   `json:"forecast_lunch"`
	ForecastDinner    int                   `json:"forecast_dinner"`
	NoForecast        bool                  `json:"no_forecast"`
	MissingTargets    bool                  `json:"missing_targets"`
	Suggestions       []DepletionProjection `json:"suggestions"`
	Warnings          []string              `json:"warnings,omitempty"`
}
