package models

import "time"

// Store is a single restaurant location.
type Store struct {
	ID             int64     `json:"id" db:"id"`
	CompanyID      string    `json:"company_id" db:"company_id"`
	StoreName      string    `json:"store_name" db:"store_name"`
	Location       *string   `json:"location,omitempty" db:"location"`
	TargetLbsGuest float64   `json:"target_lbs_guest" db:"target_lbs_guest"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// StoreProteinTarget is a per-store override of the lbs-per-guest target for
// one protein. Stores without an override fall back to the company standard.
type StoreProteinTarget struct {
	ID        int64   `json:"id" db:"id"`
	StoreID   int64   `json:"store_id" db:"store_id"`
	Protein   string  `json:"protein" db:"protein"`
	TargetLbs float64 `json:"target_lbs_guest" db:"target_lbs_guest"`
}

// OrderWeights is the store-configurable split of a suggested order across the
// three fixed delivery days. The three shares must sum to 1.
type OrderWeights struct {
	Mon float64 `json:"mon" db:"mon_weight"`
	Wed float64 `json:"wed" db:"wed_weight"`
	Sat float64 `json:"sat" db:"sat_weight"`
}

// DefaultOrderWeights is the split used when a store has not configured its own:
// light Monday top-up, the main mid-week delivery, and a weekend load.
var DefaultOrderWeights = OrderWeights{Mon: 0.25, Wed: 0.50, Sat: 0.25}

// SumsToOne reports whether the three shares add up to 1 within float tolerance.
func (w OrderWeights) SumsToOne() bool {
	sum := w.Mon + w.Wed + w.Sat
	return sum > 0.999 && sum < 1.001
}
