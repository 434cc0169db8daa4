package utils

import (
	"fmt"
	"strconv"
	"time"
)

// All operational date math runs in a single fixed company timezone (US Central
// baseline, UTC-6), never in the caller's local zone. Stores in other zones
// still report against the company clock.
var opsZone = time.FixedZone("OPS", -6*3600)

// InitOpsClock configures the operational timezone offset from the
// OPS_TZ_OFFSET_HOURS environment variable (falls back to UTC-6).
func InitOpsClock() {
	raw := Getenv("OPS_TZ_OFFSET_HOURS", "-6")
	offset, err := strconv.Atoi(raw)
	if err != nil {
		LogError(err, "InitOpsClock: invalid OPS_TZ_OFFSET_HOURS, keeping UTC-6")
		return
	}
	SetOpsOffset(offset)
}

// SetOpsOffset replaces the operational timezone with a fixed UTC offset in hours.
func SetOpsOffset(hours int) {
	opsZone = time.FixedZone("OPS", hours*3600)
}

// OperationalNow returns the current time in the operational timezone.
func OperationalNow() time.Time {
	return time.Now().In(opsZone)
}

// OperationalToday returns today's date (time-truncated) in the operational timezone.
func OperationalToday() time.Time {
	return DateOnly(OperationalNow())
}

// DateOnly truncates t to midnight in the operational timezone.
func DateOnly(t time.Time) time.Time {
	t = t.In(opsZone)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, opsZone)
}

// WeekStart returns the Monday of t's week, time-truncated.
func WeekStart(t time.Time) time.Time {
	d := DateOnly(t)
	return d.AddDate(0, 0, -DayIndex(d))
}

// IsMonday reports whether t falls on a Monday in the operational timezone.
func IsMonday(t time.Time) bool {
	return t.In(opsZone).Weekday() == time.Monday
}

// DayIndex maps t's weekday to the operational week index: Mon=0 .. Sun=6.
func DayIndex(t time.Time) int {
	return (int(t.In(opsZone).Weekday()) + 6) % 7
}

// LockDeadline returns the forecast lock deadline for the week beginning at
// weekStart: end of the Wednesday of the preceding week. Monday minus five
// days lands on that Wednesday.
func LockDeadline(weekStart time.Time) time.Time {
	d := DateOnly(weekStart).AddDate(0, 0, -5)
	return time.Date(d.Year(), d.Month(), d.Day(), 23, 59, 59, 0, opsZone)
}

// ParseDate parses a YYYY-MM-DD string into an operational-timezone date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", s, opsZone)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", s, err)
	}
	return t, nil
}

// FormatDate renders t as YYYY-MM-DD in the operational timezone.
func FormatDate(t time.Time) string {
	return t.In(opsZone).Format("2006-01-02")
}
