package models

import (
	"encoding/json"
	"time"
)

// How a day's accountability gate was satisfied.
const (
	GateSatisfiedInvoice    = "INVOICE_LOGGED"
	GateSatisfiedNoDelivery = "NO_DELIVERY_FLAG"
	GateNotYetSatisfied     = "NOT_YET"
)

// GateStatus is the evaluated accountability gate for one store, date and
// shift, for a specific caller role. A locked gate is a normal steady state,
// not an error; Message is shown verbatim in the UI.
type GateStatus struct {
	StoreID     int64     `json:"store_id"`
	Date        time.Time `json:"date"`
	Shift       Shift     `json:"shift"`
	CanInput    bool      `json:"can_input"`
	SatisfiedBy string    `json:"satisfied_by"`
	Message     string    `json:"message"`
}

// Locked reports whether the underlying day gate is unsatisfied, regardless of
// the role-aware CanInput (directors can view through a locked gate).
func (g GateStatus) Locked() bool {
	return g.SatisfiedBy == GateNotYetSatisfied
}

// WasteItem is one wasted-protein line inside a shift submission.
type WasteItem struct {
	Protein   string  `json:"protein"`
	WeightLbs float64 `json:"weight"`
	Reason    string  `json:"reason"`
	IsVillain bool    `json:"is_villain"`
}

// ShiftSubmission is one logged shift data entry (waste/prep), recorded with a
// snapshot of how the gate was satisfied at submission time. Compliance counts
// are derived from these snapshots, never from live gate re-evaluation, so a
// later invoice void cannot retroactively change a week's counts.
type ShiftSubmission struct {
	ID          int64           `json:"id" db:"id"`
	StoreID     int64           `json:"store_id" db:"store_id"`
	Date        time.Time       `json:"date" db:"submission_date"`
	Shift       Shift           `json:"shift" db:"shift"`
	SatisfiedBy string          `json:"satisfied_by" db:"satisfied_by"`
	Items       []WasteItem     `json:"items" db:"-"`
	RawItems    json.RawMessage `json:"-" db:"items"`
	InputBy     int64           `json:"input_by" db:"input_by"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
}

// TotalWasteLbs sums the weights of all items in the submission.
func (s *ShiftSubmission) TotalWasteLbs() float64 {
	var total float64
	for _, it := range s.Items {
		total += it.WeightLbs
	}
	return total
}

// ComplianceTarget is the weekly quota of qualifying shifts per shift type.
const ComplianceTarget = 3

// ComplianceCounter is the derived weekly compliance state for one store. Raw
// counts may exceed the target; the target-met signals cap at it.
type ComplianceCounter struct {
	StoreID         int64     `json:"store_id"`
	WeekStart       time.Time `json:"week_start"`
	LunchCount      int       `json:"lunch_count"`
	DinnerCount     int       `json:"dinner_count"`
	LunchTargetMet  bool      `json:"lunch_target_met"`
	DinnerTargetMet bool      `json:"dinner_target_met"`
}

// StoreGateSummary is one row of the network accountability grid.
type StoreGateSummary struct {
	StoreID     int64   `json:"id"`
	StoreName   string  `json:"name"`
	Location    *string `json:"location,omitempty"`
	GateLocked  bool    `json:"gate_locked"`
	SatisfiedBy string  `json:"satisfied_by"`
	Critical    bool    `json:"critical"`
}

// NetworkStatus aggregates today's per-store gate state for director views.
type NetworkStatus struct {
	Date          time.Time          `json:"date"`
	TotalStores   int                `json:"total_stores"`
	CriticalCases int                `json:"critical_cases"`
	Stores        []StoreGateSummary `json:"stores"`
}
