// Package timeobj implements the half-open calendar interval type that the
// predicate engine operates on, plus the calendar helpers (round, shift,
// end, intersect, interval construction) that underpin every field runner
// and the intersection composer.
package timeobj

import (
	"time"

	"github.com/savithruml/duckling/grain"
)

// TimeObject is a half-open calendar interval: a start instant, a grain
// (its natural width), and an optional explicit end instant overriding the
// implicit width. Start is always in UTC. When End is non-nil it must be
// strictly after Start; when End is nil, Grain records the natural width of
// the interval. When End is non-nil, Grain still records the finest
// granularity that contributed to the interval, used for rendering and
// intersection preference.
type TimeObject struct {
	Start time.Time
	Grain grain.Grain
	End   *time.Time
}

// New builds a TimeObject with no explicit end; its width is the natural
// width of g.
func New(start time.Time, g grain.Grain) TimeObject {
	return TimeObject{Start: start.UTC(), Grain: g}
}

// NewWithEnd builds a TimeObject with an explicit end.
func NewWithEnd(start time.Time, g grain.Grain, end time.Time) TimeObject {
	e := end.UTC()
	return TimeObject{Start: start.UTC(), Grain: g, End: &e}
}

// HasExplicitEnd reports whether t carries an explicit End.
func (t TimeObject) HasExplicitEnd() bool {
	return t.End != nil
}

// End returns t.End if present, otherwise grain.Add(t.Start, t.Grain, 1).
func End(t TimeObject) time.Time {
	if t.End != nil {
		return *t.End
	}
	return grain.Add(t.Start, t.Grain, 1)
}

// Round truncates t down to grain g, toward the epoch. For Week it rounds
// to the Monday of the ISO week containing t (by first rounding to Day).
// For Quarter it rounds to Month then subtracts (month-1)%3 months. Smaller
// grains zero out all finer fields. The result's Grain is g and its End is
// absent.
func Round(t time.Time, g grain.Grain) TimeObject {
	t = t.UTC()
	switch g {
	case grain.Second:
		return New(time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC), g)
	case grain.Minute:
		return New(time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC), g)
	case grain.Hour:
		return New(time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, time.UTC), g)
	case grain.Day:
		return New(time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), g)
	case grain.Week:
		day := Round(t, grain.Day).Start
		// time.Weekday: Sunday=0 ... Saturday=6. ISO weekday: Monday=1 ... Sunday=7.
		iso := int(day.Weekday())
		if iso == 0 {
			iso = 7
		}
		monday := day.AddDate(0, 0, -(iso - 1))
		return New(monday, g)
	case grain.Month:
		return New(time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC), g)
	case grain.Quarter:
		monthStart := Round(t, grain.Month).Start
		offset := (int(monthStart.Month()) - 1) % 3
		return New(grain.Add(monthStart, grain.Month, -offset), g)
	case grain.Year:
		return New(time.Date(t.Year(), 1, 1, 0, 0, 0, 0, time.UTC), g)
	default:
		return New(t, g)
	}
}

// Shift rounds nothing; it simply moves t's Start (and End, if present) by
// n units of g, preserving the original Grain and end-presence.
func Shift(t TimeObject, g grain.Grain, n int) TimeObject {
	shifted := TimeObject{
		Start: grain.Add(t.Start, g, n),
		Grain: t.Grain,
	}
	if t.End != nil {
		e := grain.Add(*t.End, g, n)
		shifted.End = &e
	}
	return shifted
}

// IntervalKind selects whether Interval's second argument bounds the result
// open (exclusive) or closed (inclusive of its natural/explicit end).
type IntervalKind int

const (
	Closed IntervalKind = iota
	Open
)

// Interval builds the TimeObject spanning from t1's start to t2's end (for
// Closed) or to t2's start (for Open), with the narrower of the two grains.
func Interval(kind IntervalKind, t1, t2 TimeObject) TimeObject {
	g := grain.Min(t1.Grain, t2.Grain)
	var end time.Time
	if kind == Open {
		end = t2.Start
	} else {
		end = End(t2)
	}
	return NewWithEnd(t1.Start, g, end)
}

// StartsBeforeEndOf reports whether a starts strictly before b ends.
func StartsBeforeEndOf(a, b TimeObject) bool {
	return a.Start.Before(End(b))
}

// Intersect returns the overlapping TimeObject of a and b, if any, with
// Grain = min(a.Grain, b.Grain). Returns (zero, false) when the intervals
// do not overlap.
func Intersect(a, b TimeObject) (TimeObject, bool) {
	if a.Start.After(b.Start) {
		a, b = b, a
	}
	// a now starts at or before b.
	if !End(a).After(b.Start) {
		return TimeObject{}, false
	}

	g := grain.Min(a.Grain, b.Grain)
	aEnd := End(a)
	bEnd := End(b)

	var resultEnd time.Time
	if aEnd.Before(bEnd) {
		resultEnd = aEnd
	} else if aEnd.Equal(bEnd) && a.HasExplicitEnd() {
		resultEnd = aEnd
	} else {
		resultEnd = bEnd
	}

	return NewWithEnd(b.Start, g, resultEnd), true
}

// Context bounds predicate evaluation and carries the reference instant and
// the time zone used to render output. Min/Max are plain instants (not
// intervals): Min is the earliest permissible Start, Max the latest. They
// default to Ref's instant +/- 2000 years when not otherwise narrowed (e.g.
// by the composer, which narrows them to a single outer hit's span).
type Context struct {
	Ref  TimeObject
	Zone *time.Location
	Min  time.Time
	Max  time.Time
}

// NewContext builds the default context for a reference instant: Min/Max
// set to Ref +/- 2000 years.
func NewContext(ref TimeObject, zone *time.Location) Context {
	return Context{
		Ref:  ref,
		Zone: zone,
		Min:  grain.Add(ref.Start, grain.Year, -2000),
		Max:  grain.Add(ref.Start, grain.Year, 2000),
	}
}

// Narrowed returns a copy of ctx with Min/Max set to bound's span, used by
// the composer to re-evaluate one side of an intersection around a single
// hit produced by the other side.
func (ctx Context) Narrowed(bound TimeObject) Context {
	narrow := ctx
	narrow.Min = bound.Start
	narrow.Max = End(bound)
	return narrow
}
