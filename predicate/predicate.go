// Package predicate implements the temporal predicate algebra: the Empty,
// Series, TimeDate and Intersect variants, their smart constructors, the
// per-calendar-field runners, the intersection composer, and the Run
// dispatcher that turns a Predicate into a pair of lazy bidirectional
// sequences of TimeObject around a reference.
package predicate

import (
	"fmt"

	"github.com/savithruml/duckling/timeobj"
)

// RunFunc is the shape every predicate evaluates to: given a reference
// TimeObject and a bounding Context, it returns the past sequence (strictly
// decreasing in start) and the future sequence (non-decreasing in start).
type RunFunc func(ref timeobj.TimeObject, ctx timeobj.Context) (past, future Producer)

// AMPM distinguishes the two halves of a 12-hour clock.
type AMPM int

const (
	AM AMPM = iota
	PM
)

func (a AMPM) String() string {
	if a == PM {
		return "pm"
	}
	return "am"
}

// AMPMPtr is a convenience constructor for callers building a HourOf
// predicate, which takes an optional *AMPM.
func AMPMPtr(a AMPM) *AMPM {
	return &a
}

// HourField carries the literal hour text's shape: whether it was written
// in 12-hour form, and the bare hour value (0-23 for 24h, 1-12 for 12h).
type HourField struct {
	Is12h bool
	Hour  int
}

func (h HourField) String() string {
	if h.Is12h {
		return fmt.Sprintf("%dh(12h)", h.Hour)
	}
	return fmt.Sprintf("%dh(24h)", h.Hour)
}

// TimeDate is the bag-of-calendar-field-constraints predicate. At least one
// field is set; AMPM is only meaningful when Hour is also set.
type TimeDate struct {
	Second     *int
	Minute     *int
	Hour       *HourField
	AMPM       *AMPM
	DayOfWeek  *int
	DayOfMonth *int
	Month      *int
	Year       *int
}

func (td TimeDate) String() string {
	s := "TimeDate{"
	first := true
	add := func(name string, v interface{}) {
		if !first {
			s += ", "
		}
		s += fmt.Sprintf("%s=%v", name, v)
		first = false
	}
	if td.Second != nil {
		add("second", *td.Second)
	}
	if td.Minute != nil {
		add("minute", *td.Minute)
	}
	if td.Hour != nil {
		add("hour", td.Hour)
	}
	if td.AMPM != nil {
		add("ampm", *td.AMPM)
	}
	if td.DayOfWeek != nil {
		add("dayOfWeek", *td.DayOfWeek)
	}
	if td.DayOfMonth != nil {
		add("dayOfMonth", *td.DayOfMonth)
	}
	if td.Month != nil {
		add("month", *td.Month)
	}
	if td.Year != nil {
		add("year", *td.Year)
	}
	return s + "}"
}

// kind tags which variant a Predicate holds.
type kind int

const (
	kindEmpty kind = iota
	kindSeries
	kindTimeDate
	kindIntersect
)

// Predicate is the algebraic structure describing a temporal pattern:
// Empty, an opaque Series function, a TimeDate field bag, or an
// Intersect of two predicates. The zero value is Empty.
type Predicate struct {
	kind     kind
	series   RunFunc
	timeDate TimeDate
	left     *Predicate
	right    *Predicate
}

func (p Predicate) String() string {
	switch p.kind {
	case kindEmpty:
		return "Empty"
	case kindSeries:
		return "Series(...)"
	case kindTimeDate:
		return p.timeDate.String()
	case kindIntersect:
		return fmt.Sprintf("Intersect(%s, %s)", p.left, p.right)
	default:
		return "Predicate(?)"
	}
}

// Empty constructs the predicate that matches nothing.
func Empty() Predicate {
	return Predicate{kind: kindEmpty}
}

// FromSeries wraps an opaque series function as a Predicate.
func FromSeries(fn RunFunc) Predicate {
	return Predicate{kind: kindSeries, series: fn}
}

func intp(n int) *int { return &n }

// SecondOf matches a fixed second-of-minute, 0-59.
func SecondOf(n int) Predicate {
	return Predicate{kind: kindTimeDate, timeDate: TimeDate{Second: intp(n)}}
}

// MinuteOf matches a fixed minute-of-hour, 0-59.
func MinuteOf(n int) Predicate {
	return Predicate{kind: kindTimeDate, timeDate: TimeDate{Minute: intp(n)}}
}

// HourOf matches a fixed hour. is12h records whether the literal text was
// 12-hour form; n is 0-23 for 24h or 1-12 for 12h. ampm may be nil.
func HourOf(is12h bool, n int, ampm *AMPM) Predicate {
	td := TimeDate{Hour: &HourField{Is12h: is12h, Hour: n}}
	if ampm != nil {
		a := *ampm
		td.AMPM = &a
	}
	return Predicate{kind: kindTimeDate, timeDate: td}
}

// AmPm matches an entire AM or PM half of the day, as a standalone
// 12-hour-interval predicate (not a TimeDate field bag); see ampmAloneRunner.
func AmPm(a AMPM) Predicate {
	return FromSeries(ampmAloneRunner(a))
}

// DayOfWeekOf matches a fixed ISO weekday, 1=Monday .. 7=Sunday.
func DayOfWeekOf(n int) Predicate {
	return Predicate{kind: kindTimeDate, timeDate: TimeDate{DayOfWeek: intp(n)}}
}

// DayOfMonthOf matches a fixed day-of-month, 1-31.
func DayOfMonthOf(n int) Predicate {
	return Predicate{kind: kindTimeDate, timeDate: TimeDate{DayOfMonth: intp(n)}}
}

// MonthOf matches a fixed month, 1-12.
func MonthOf(n int) Predicate {
	return Predicate{kind: kindTimeDate, timeDate: TimeDate{Month: intp(n)}}
}

// YearOf matches a fixed year. n < 100 is expanded at evaluation time via
// the fixed window (n+50) mod 100 + 1950, independent of the reference
// year.
func YearOf(n int) Predicate {
	return Predicate{kind: kindTimeDate, timeDate: TimeDate{Year: intp(n)}}
}

// Intersect builds the conjunction of two predicates. If either is Empty,
// the result is Empty. If both are TimeDate bags, fields are unified
// field-by-field: conflicting fields collapse the whole conjunction to
// Empty. Otherwise the result wraps both sides in a generic Intersect node.
func Intersect(a, b Predicate) Predicate {
	if a.kind == kindEmpty || b.kind == kindEmpty {
		return Empty()
	}
	if a.kind == kindTimeDate && b.kind == kindTimeDate {
		merged, ok := unify(a.timeDate, b.timeDate)
		if !ok {
			return Empty()
		}
		return Predicate{kind: kindTimeDate, timeDate: merged}
	}
	aa, bb := a, b
	return Predicate{kind: kindIntersect, left: &aa, right: &bb}
}

func unify(a, b TimeDate) (TimeDate, bool) {
	var out TimeDate
	var ok bool

	if out.Second, ok = unifyInt(a.Second, b.Second); !ok {
		return out, false
	}
	if out.Minute, ok = unifyInt(a.Minute, b.Minute); !ok {
		return out, false
	}
	if out.Hour, ok = unifyHour(a.Hour, b.Hour); !ok {
		return out, false
	}
	if out.AMPM, ok = unifyAMPM(a.AMPM, b.AMPM); !ok {
		return out, false
	}
	if out.DayOfWeek, ok = unifyInt(a.DayOfWeek, b.DayOfWeek); !ok {
		return out, false
	}
	if out.DayOfMonth, ok = unifyInt(a.DayOfMonth, b.DayOfMonth); !ok {
		return out, false
	}
	if out.Month, ok = unifyInt(a.Month, b.Month); !ok {
		return out, false
	}
	if out.Year, ok = unifyInt(a.Year, b.Year); !ok {
		return out, false
	}
	return out, true
}

func unifyInt(a, b *int) (*int, bool) {
	if a == nil {
		return b, true
	}
	if b == nil {
		return a, true
	}
	if *a != *b {
		return nil, false
	}
	return a, true
}

func unifyHour(a, b *HourField) (*HourField, bool) {
	if a == nil {
		return b, true
	}
	if b == nil {
		return a, true
	}
	if *a != *b {
		return nil, false
	}
	return a, true
}

func unifyAMPM(a, b *AMPM) (*AMPM, bool) {
	if a == nil {
		return b, true
	}
	if b == nil {
		return a, true
	}
	if *a != *b {
		return nil, false
	}
	return a, true
}

// Run compiles a Predicate into its RunFunc. Empty always yields two empty
// sequences; Series returns its wrapped function verbatim; Intersect folds
// its two sides through the composer; TimeDate orders its set fields
// finest-first and right-folds them through the composer.
func Run(p Predicate) RunFunc {
	switch p.kind {
	case kindEmpty:
		return emptyRun
	case kindSeries:
		return p.series
	case kindIntersect:
		return compose(Run(*p.left), Run(*p.right))
	case kindTimeDate:
		return runTimeDate(p.timeDate)
	default:
		return emptyRun
	}
}

func emptyRun(_ timeobj.TimeObject, _ timeobj.Context) (Producer, Producer) {
	return emptyProducer(), emptyProducer()
}

// runTimeDate orders the set fields finest-first (second, minute, hour,
// day-of-week, day-of-month, month, year) and right-folds them through the
// composer, so the composer's left operand is always the finer producer.
func runTimeDate(td TimeDate) RunFunc {
	if td.AMPM != nil && td.Hour == nil {
		// ampm is only meaningful paired with hour inside a TimeDate bag;
		// "ampm alone" is its own Series predicate (AmPm), not this path.
		return emptyRun
	}

	var funcs []RunFunc
	if td.Second != nil {
		funcs = append(funcs, secondRunner(*td.Second))
	}
	if td.Minute != nil {
		funcs = append(funcs, minuteRunner(*td.Minute))
	}
	if td.Hour != nil {
		funcs = append(funcs, hourRunner(td.Hour.Is12h, td.Hour.Hour, td.AMPM))
	}
	if td.DayOfWeek != nil {
		funcs = append(funcs, dayOfWeekRunner(*td.DayOfWeek))
	}
	if td.DayOfMonth != nil {
		funcs = append(funcs, dayOfMonthRunner(*td.DayOfMonth))
	}
	if td.Month != nil {
		funcs = append(funcs, monthRunner(*td.Month))
	}
	if td.Year != nil {
		funcs = append(funcs, yearRunner(*td.Year))
	}

	if len(funcs) == 0 {
		return emptyRun
	}

	acc := funcs[len(funcs)-1]
	for i := len(funcs) - 2; i >= 0; i-- {
		acc = compose(funcs[i], acc)
	}
	return acc
}
