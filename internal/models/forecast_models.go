package models

import "time"

// Shift identifies the two daily service periods.
type Shift string

const (
	ShiftLunch  Shift = "LUNCH"
	ShiftDinner Shift = "DINNER"
)

// IsValidShift checks if the provided string is a valid Shift.
func IsValidShift(shift string) bool {
	switch Shift(shift) {
	case ShiftLunch, ShiftDinner:
		return true
	default:
		return false
	}
}

// WeeklyForecast holds the guest forecast for one store and one operational
// week. WeekStart is always the Monday of its week. Once IsLocked is set the
// guest fields are immutable for store roles; only a director/admin override
// can write past the lock.
type WeeklyForecast struct {
	ID           int64     `json:"id" db:"id"`
	StoreID      int64     `json:"store_id" db:"store_id"`
	WeekStart    time.Time `json:"week_start" db:"week_start"`
	LunchGuests  int       `json:"forecast_lunch" db:"lunch_guests"`
	DinnerGuests int       `json:"forecast_dinner" db:"dinner_guests"`
	IsLocked     bool      `json:"is_locked" db:"is_locked"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// TotalGuests returns lunch plus dinner guests.
func (f *WeeklyForecast) TotalGuests() int {
	return f.LunchGuests + f.DinnerGuests
}
