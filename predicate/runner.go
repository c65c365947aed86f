package predicate

import (
	"time"

	"github.com/savithruml/duckling/grain"
	"github.com/savithruml/duckling/timeobj"
)

// mod returns a mod n, always in [0, n).
func mod(a, n int) int {
	m := a % n
	if m < 0 {
		m += n
	}
	return m
}

// cyclicRunFunc builds a RunFunc for a field that repeats every periodGrain
// (e.g. "second 30" repeats every minute). candidatesInPeriod must return the
// field's hit(s) inside the given period, sorted ascending by Start; most
// fields return exactly one, a 12-hour hour without ampm returns two, and
// day-of-month returns none for a month too short to hold it.
func cyclicRunFunc(periodGrain grain.Grain, candidatesInPeriod func(period timeobj.TimeObject) []timeobj.TimeObject) RunFunc {
	return func(ref timeobj.TimeObject, ctx timeobj.Context) (Producer, Producer) {
		refTime := ref.Start
		currentPeriod := timeobj.Round(refTime, periodGrain)
		future := newFuncProducer(forwardStepper(currentPeriod, periodGrain, candidatesInPeriod, refTime, ctx.Max))
		past := newFuncProducer(backwardStepper(currentPeriod, periodGrain, candidatesInPeriod, refTime, ctx.Min))
		return past, future
	}
}

// belongsToFuture reports whether a match m belongs to future: iff end(m)
// is strictly after ref.start; otherwise it belongs to past. An interval
// containing ref.start is therefore the first element of future, not the
// last element of past.
func belongsToFuture(c timeobj.TimeObject, refTime time.Time) bool {
	return timeobj.End(c).After(refTime)
}

// forwardStepper returns a closure producing the non-decreasing future
// sequence: every candidate (starting from the reference's own period,
// scanning forward) that belongsToFuture, until one exceeds maxBound.
func forwardStepper(
	startPeriod timeobj.TimeObject,
	periodGrain grain.Grain,
	candidatesInPeriod func(timeobj.TimeObject) []timeobj.TimeObject,
	refTime time.Time,
	maxBound time.Time,
) func() (timeobj.TimeObject, bool) {
	period := startPeriod
	queue := candidatesInPeriod(period)
	idx := 0

	return func() (timeobj.TimeObject, bool) {
		for {
			for idx < len(queue) {
				c := queue[idx]
				idx++
				if !belongsToFuture(c, refTime) {
					continue
				}
				if c.Start.After(maxBound) {
					return timeobj.TimeObject{}, false
				}
				return c, true
			}
			period = timeobj.Round(grain.Add(period.Start, periodGrain, 1), periodGrain)
			if period.Start.After(maxBound) {
				return timeobj.TimeObject{}, false
			}
			queue = candidatesInPeriod(period)
			idx = 0
		}
	}
}

// backwardStepper returns a closure producing the strictly decreasing past
// sequence: every candidate (starting from the reference's own period,
// scanning backward) that does not belongToFuture, until one precedes
// minBound.
func backwardStepper(
	startPeriod timeobj.TimeObject,
	periodGrain grain.Grain,
	candidatesInPeriod func(timeobj.TimeObject) []timeobj.TimeObject,
	refTime time.Time,
	minBound time.Time,
) func() (timeobj.TimeObject, bool) {
	period := startPeriod
	queue := candidatesInPeriod(period)
	idx := len(queue) - 1

	return func() (timeobj.TimeObject, bool) {
		for {
			for idx >= 0 {
				c := queue[idx]
				idx--
				if belongsToFuture(c, refTime) {
					continue
				}
				if c.Start.Before(minBound) {
					return timeobj.TimeObject{}, false
				}
				return c, true
			}
			period = timeobj.Round(grain.Add(period.Start, periodGrain, -1), periodGrain)
			if period.Start.Before(minBound) {
				return timeobj.TimeObject{}, false
			}
			queue = candidatesInPeriod(period)
			idx = len(queue) - 1
		}
	}
}

func secondRunner(n int) RunFunc {
	return cyclicRunFunc(grain.Minute, func(period timeobj.TimeObject) []timeobj.TimeObject {
		return []timeobj.TimeObject{timeobj.New(period.Start.Add(time.Duration(n)*time.Second), grain.Second)}
	})
}

func minuteRunner(n int) RunFunc {
	return cyclicRunFunc(grain.Hour, func(period timeobj.TimeObject) []timeobj.TimeObject {
		return []timeobj.TimeObject{timeobj.New(period.Start.Add(time.Duration(n)*time.Minute), grain.Minute)}
	})
}

// hourRunner's literal hour may be ambiguous (12-hour form with no ampm
// given matches both the am and pm occurrence), so its period yields up to
// two sorted candidates per day.
func hourRunner(is12h bool, n int, ampm *AMPM) RunFunc {
	hours := targetHours(is12h, n, ampm)
	return cyclicRunFunc(grain.Day, func(period timeobj.TimeObject) []timeobj.TimeObject {
		out := make([]timeobj.TimeObject, 0, len(hours))
		for _, h := range hours {
			out = append(out, timeobj.New(period.Start.Add(time.Duration(h)*time.Hour), grain.Hour))
		}
		return out
	})
}

func targetHours(is12h bool, n int, ampm *AMPM) []int {
	if !is12h {
		return []int{mod(n, 24)}
	}
	base := mod(n, 12)
	if ampm != nil {
		if *ampm == PM {
			return []int{base + 12}
		}
		return []int{base}
	}
	return []int{base, base + 12}
}

// ampmAloneRunner matches the entire morning or afternoon half of each day
// as a 12-hour interval, independent of any hour field.
func ampmAloneRunner(a AMPM) RunFunc {
	startHour := 0
	if a == PM {
		startHour = 12
	}
	return cyclicRunFunc(grain.Day, func(period timeobj.TimeObject) []timeobj.TimeObject {
		start := period.Start.Add(time.Duration(startHour) * time.Hour)
		end := start.Add(12 * time.Hour)
		return []timeobj.TimeObject{timeobj.NewWithEnd(start, grain.Hour, end)}
	})
}

func dayOfWeekRunner(n int) RunFunc {
	iso := mod(n-1, 7)
	return cyclicRunFunc(grain.Week, func(period timeobj.TimeObject) []timeobj.TimeObject {
		// period is already Monday-rounded; iso=0 is Monday itself.
		return []timeobj.TimeObject{timeobj.New(period.Start.AddDate(0, 0, iso), grain.Day)}
	})
}

// dayOfMonthRunner skips any month that has fewer than n days (e.g. day 30
// never matches February), by returning no candidate for that period;
// forwardStepper/backwardStepper simply advance past it.
func dayOfMonthRunner(n int) RunFunc {
	return cyclicRunFunc(grain.Month, func(period timeobj.TimeObject) []timeobj.TimeObject {
		if grain.DaysInMonth(period.Start.Year(), period.Start.Month()) < n {
			return nil
		}
		return []timeobj.TimeObject{timeobj.New(period.Start.AddDate(0, 0, n-1), grain.Day)}
	})
}

func monthRunner(n int) RunFunc {
	idx := mod(n-1, 12)
	return cyclicRunFunc(grain.Year, func(period timeobj.TimeObject) []timeobj.TimeObject {
		return []timeobj.TimeObject{timeobj.New(time.Date(period.Start.Year(), time.Month(idx+1), 1, 0, 0, 0, 0, time.UTC), grain.Month)}
	})
}

// yearRunner does not repeat: a literal year denotes exactly one calendar
// year. Membership follows the usual boundary rule, end(target) > ref.start,
// so a reference inside the target year still counts as future.
func yearRunner(n int) RunFunc {
	return func(ref timeobj.TimeObject, ctx timeobj.Context) (Producer, Producer) {
		year := n
		if n >= 0 && n < 100 {
			year = expandTwoDigitYear(n)
		}
		target := timeobj.New(time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC), grain.Year)

		if belongsToFuture(target, ref.Start) {
			if target.Start.After(ctx.Max) {
				return emptyProducer(), emptyProducer()
			}
			return emptyProducer(), newSliceProducer([]timeobj.TimeObject{target})
		}
		if target.Start.Before(ctx.Min) {
			return emptyProducer(), emptyProducer()
		}
		return newSliceProducer([]timeobj.TimeObject{target}), emptyProducer()
	}
}

// expandTwoDigitYear maps a bare two-digit year to a fixed 100-year window
// ending fifty years in the future of the year 2000 (so "13" is always
// 2013 and "99" is always 1999), independent of the reference year.
func expandTwoDigitYear(n int) int {
	return mod(n+50, 100) + 1950
}
