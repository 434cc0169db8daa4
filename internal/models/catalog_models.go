package models

import "time"

// Protein is one entry of the company product catalog: metadata the composer
// joins onto depletion output. Villain cuts are the designated high-cost
// proteins tracked separately for cost-risk visibility.
type Protein struct {
	ID            int64     `json:"id" db:"id"`
	CompanyID     string    `json:"company_id" db:"company_id"`
	Name          string    `json:"name" db:"name"`
	UnitWeightLbs float64   `json:"unit_weight_lbs" db:"unit_weight_lbs"`
	UnitName      string    `json:"unit_name" db:"unit_name"` // Skewers, Ribs, Piece/Whole
	IsVillain     bool      `json:"is_villain" db:"is_villain"`
	IsDinnerOnly  bool      `json:"is_dinner_only" db:"is_dinner_only"`
	CostPerLb     float64   `json:"cost_per_lb" db:"cost_per_lb"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// OrderSheetLine is one protein row of the smart order sheet: the depletion
// suggestion rounded for supplier ordering plus catalog metadata. Suppliers
// order in whole lbs; pieces are rounded up since a fractional piece cannot be
// fired.
type OrderSheetLine struct {
	Protein       string  `json:"protein"`
	IsVillain     bool    `json:"is_villain"`
	RequiredLbs   int     `json:"required"`
	LastCountLbs  int     `json:"lastCount"`
	ReceivedLbs   int     `json:"received"`
	DepletionLbs  int     `json:"depletion"`
	OnHandLbs     int     `json:"onHand"`
	SuggestedLbs  int     `json:"suggestedOrder"`
	BreakdownMon  int     `json:"mon"`
	BreakdownWed  int     `json:"wed"`
	BreakdownSat  int     `json:"sat"`
	Pieces        int     `json:"pieces"`
	UnitName      string  `json:"unit_name"`
	UnitWeightLbs float64 `json:"unit_weight_lbs"`
	Status        string  `json:"status"`
}

// OrderSheet is the externally consumed smart order payload.
type OrderSheet struct {
	StoreID           int64            `json:"store_id"`
	WeekStart         time.Time        `json:"week_start"`
	DayIndex          int              `json:"day_index"`
	AccumulatedWeight float64          `json:"accumulated_weight"`
	ForecastLunch     int              `json:"forecast_lunch"`
	ForecastDinner    int              `json:"forecast_dinner"`
	NoForecast        bool             `json:"no_forecast"`
	MissingTargets    bool             `json:"missing_targets"`
	Lines             []OrderSheetLine `json:"suggestions"`
	Warnings          []string         `json:"warnings,omitempty"`
}

// PrepSheetLine is one protein row of the daily smart prep list.
type PrepSheetLine struct {
	Protein        string  `json:"protein"`
	UnitName       string  `json:"unit_name"`
	UnitWeightLbs  float64 `json:"avg_weight"`
	MixPercentage  float64 `json:"mix_percentage"`
	RecommendedLbs float64 `json:"recommended_lbs"`
	RecommendedQty int     `json:"recommended_units"`
	CostPerLb      float64 `json:"cost_lb"`
	IsVillain      bool    `json:"is_villain"`
}

// PrepSheet is the daily smart prep payload for one store.
type PrepSheet struct {
	StoreID            int64           `json:"store_id"`
	StoreName          string          `json:"store_name"`
	Date               time.Time       `json:"date"`
	ForecastGuests     int             `json:"forecast_guests"`
	TargetLbsGuest     float64         `json:"target_lbs_guest"`
	PredictedCostGuest float64         `json:"predicted_cost_guest"`
	FinancialTarget    float64         `json:"financial_target"`
	TacticalBriefing   string          `json:"tactical_briefing"`
	Lines              []PrepSheetLine `json:"prep_list"`
	Warnings           []string        `json:"warnings,omitempty"`
}
