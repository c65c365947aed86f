// Package grain defines the calendar-granularity enum and the calendar-aware
// arithmetic that shifts a UTC instant by a count of grains.
package grain

import (
	"fmt"
	"time"
)

// Grain is a calendar granularity. The zero value is Second. Grains are
// totally ordered by width: Second < Minute < Hour < Day < Week < Month <
// Quarter < Year.
type Grain int

const (
	Second Grain = iota
	Minute
	Hour
	Day
	Week
	Month
	Quarter
	Year
)

// String returns the grain's lowercase name, matching the JSON rendering
// rule in the value schema.
func (g Grain) String() string {
	switch g {
	case Second:
		return "second"
	case Minute:
		return "minute"
	case Hour:
		return "hour"
	case Day:
		return "day"
	case Week:
		return "week"
	case Month:
		return "month"
	case Quarter:
		return "quarter"
	case Year:
		return "year"
	default:
		return fmt.Sprintf("grain(%d)", int(g))
	}
}

// ParseGrain is the inverse of String. It returns an error for any name not
// produced by String.
func ParseGrain(name string) (Grain, error) {
	switch name {
	case "second":
		return Second, nil
	case "minute":
		return Minute, nil
	case "hour":
		return Hour, nil
	case "day":
		return Day, nil
	case "week":
		return Week, nil
	case "month":
		return Month, nil
	case "quarter":
		return Quarter, nil
	case "year":
		return Year, nil
	default:
		return Second, fmt.Errorf("grain: unknown name %q", name)
	}
}

// Before reports whether g is strictly narrower than other.
func (g Grain) Before(other Grain) bool {
	return g < other
}

// Min returns the narrower (smaller-width) of the two grains.
func Min(a, b Grain) Grain {
	if a < b {
		return a
	}
	return b
}

// lastDayOfMonth returns the number of days in the given Gregorian month.
func lastDayOfMonth(year int, month time.Month) int {
	// day 0 of the following month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// DaysInMonth returns the number of days in the given Gregorian month.
func DaysInMonth(year int, month time.Month) int {
	return lastDayOfMonth(year, month)
}

// Add shifts t by n units of grain g, clamping month/year shifts that
// overflow the target month to that month's last valid day. Week adds 7*n
// days. Quarter adds 3*n months. Second/Minute/Hour are wall-clock
// durations added to the UTC instant and never overflow.
func Add(t time.Time, g Grain, n int) time.Time {
	switch g {
	case Second:
		return t.Add(time.Duration(n) * time.Second)
	case Minute:
		return t.Add(time.Duration(n) * time.Minute)
	case Hour:
		return t.Add(time.Duration(n) * time.Hour)
	case Day:
		return t.AddDate(0, 0, n)
	case Week:
		return t.AddDate(0, 0, 7*n)
	case Month:
		return addMonths(t, n)
	case Quarter:
		return addMonths(t, 3*n)
	case Year:
		return addMonths(t, 12*n)
	default:
		return t
	}
}

// addMonths shifts t by n months, preserving day-of-month where possible and
// clamping to the target month's last day otherwise (e.g. Jan 31 + 1 month
// lands on Feb 28/29, never rolling into March).
func addMonths(t time.Time, n int) time.Time {
	year, month, day := t.Date()
	hour, min, sec := t.Clock()
	nsec := t.Nanosecond()

	totalMonths := int(month) - 1 + n
	targetYear := year + totalMonths/12
	targetMonthIdx := totalMonths % 12
	if targetMonthIdx < 0 {
		targetMonthIdx += 12
		targetYear--
	}
	targetMonth := time.Month(targetMonthIdx + 1)

	last := lastDayOfMonth(targetYear, targetMonth)
	if day > last {
		day = last
	}
	return time.Date(targetYear, targetMonth, day, hour, min, sec, nsec, t.Location())
}
