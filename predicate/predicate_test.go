package predicate

import (
	"testing"
	"time"

	"github.com/savithruml/duckling/grain"
	"github.com/savithruml/duckling/timeobj"
	"github.com/stretchr/testify/require"
)

var testRef = timeobj.New(time.Date(2013, 2, 12, 4, 30, 0, 0, time.UTC), grain.Second)

func testCtx() timeobj.Context {
	return timeobj.NewContext(testRef, time.UTC)
}

// TestDayOfWeekTodayIsImmediateFuture checks the future/past boundary
// directly: 2013-02-12 is itself a Tuesday, and since its day interval
// ends after the 04:30 reference, it is the first element of future, not
// the last element of past.
func TestDayOfWeekTodayIsImmediateFuture(t *testing.T) {
	past, future := Run(DayOfWeekOf(2))(testRef, testCtx())

	f1, ok := future.Next()
	require.True(t, ok)
	require.Equal(t, time.Date(2013, 2, 12, 0, 0, 0, 0, time.UTC), f1.Start)

	f2, ok := future.Next()
	require.True(t, ok)
	require.Equal(t, time.Date(2013, 2, 19, 0, 0, 0, 0, time.UTC), f2.Start)

	p, ok := past.Next()
	require.True(t, ok)
	require.Equal(t, time.Date(2013, 2, 5, 0, 0, 0, 0, time.UTC), p.Start)
}

func TestHourPMIsLaterToday(t *testing.T) {
	pm := PM
	_, future := Run(HourOf(true, 4, &pm))(testRef, testCtx())
	f, ok := future.Next()
	require.True(t, ok)
	require.Equal(t, time.Date(2013, 2, 12, 16, 0, 0, 0, time.UTC), f.Start)
}

// TestHourAmbiguousWithoutAmPmIncludesCurrentHour checks that when the
// reference instant itself falls inside a candidate hour (04:30 is inside
// 04:00-05:00), that hour is immediate future.
func TestHourAmbiguousWithoutAmPmIncludesCurrentHour(t *testing.T) {
	_, future := Run(HourOf(true, 4, nil))(testRef, testCtx())

	f1, ok := future.Next()
	require.True(t, ok)
	require.Equal(t, time.Date(2013, 2, 12, 4, 0, 0, 0, time.UTC), f1.Start)

	f2, ok := future.Next()
	require.True(t, ok)
	require.Equal(t, time.Date(2013, 2, 12, 16, 0, 0, 0, time.UTC), f2.Start)

	f3, ok := future.Next()
	require.True(t, ok)
	require.Equal(t, time.Date(2013, 2, 13, 4, 0, 0, 0, time.UTC), f3.Start)
}

func TestAmPmAloneProducesTwelveHourInterval(t *testing.T) {
	_, future := Run(AmPm(PM))(testRef, testCtx())
	f, ok := future.Next()
	require.True(t, ok)
	require.Equal(t, time.Date(2013, 2, 12, 12, 0, 0, 0, time.UTC), f.Start)
	require.Equal(t, time.Date(2013, 2, 13, 0, 0, 0, 0, time.UTC), timeobj.End(f))
}

// TestAmPmAloneCurrentHalfIsImmediate checks the AM half containing the
// 04:30 reference is future, not past (its end, noon, is after ref.start).
func TestAmPmAloneCurrentHalfIsImmediate(t *testing.T) {
	_, future := Run(AmPm(AM))(testRef, testCtx())
	f, ok := future.Next()
	require.True(t, ok)
	require.Equal(t, time.Date(2013, 2, 12, 0, 0, 0, 0, time.UTC), f.Start)
}

func TestIntersectConflictingFieldsIsEmpty(t *testing.T) {
	p := Intersect(MonthOf(2), MonthOf(3))
	past, future := Run(p)(testRef, testCtx())
	_, ok := future.Next()
	require.False(t, ok)
	_, ok = past.Next()
	require.False(t, ok)
}

func TestFebThirtiethIsUnsatisfiable(t *testing.T) {
	p := Intersect(MonthOf(2), DayOfMonthOf(30))
	past, future := Run(p)(testRef, testCtx())

	require.Empty(t, Take(future, 3))
	require.Empty(t, Take(past, 3))
}

func TestEveryFourPmInMarch(t *testing.T) {
	p := Intersect(MonthOf(3), HourOf(false, 16, nil))
	_, future := Run(p)(testRef, testCtx())

	hits := Take(future, 3)
	require.Len(t, hits, 3)
	require.Equal(t, time.Date(2013, 3, 1, 16, 0, 0, 0, time.UTC), hits[0].Start)
	require.Equal(t, time.Date(2013, 3, 2, 16, 0, 0, 0, time.UTC), hits[1].Start)
	require.Equal(t, time.Date(2013, 3, 3, 16, 0, 0, 0, time.UTC), hits[2].Start)
	for i := 1; i < len(hits); i++ {
		require.True(t, hits[i-1].Start.Before(hits[i].Start))
	}
}

// TestComposedPredicatePastYieldsMatchingHits checks that a composed
// (intersected) predicate whose sole match lies entirely before the
// reference still yields it from past, with an empty future.
func TestComposedPredicatePastYieldsMatchingHits(t *testing.T) {
	p := Intersect(MonthOf(3), YearOf(2010))
	past, future := Run(p)(testRef, testCtx())

	_, ok := future.Next()
	require.False(t, ok)

	hit, ok := past.Next()
	require.True(t, ok)
	require.Equal(t, time.Date(2010, 3, 1, 0, 0, 0, 0, time.UTC), hit.Start)
	require.Equal(t, grain.Month, hit.Grain)
}

// TestComposedPredicatePastOrderingAcrossOuterHits checks strictly
// decreasing order of past hits when the composed predicate has more than
// one match before the reference. March 2012 holds 31 hits, so taking 35
// crosses into the next outer hit, March 2011.
func TestComposedPredicatePastOrderingAcrossOuterHits(t *testing.T) {
	p := Intersect(MonthOf(3), HourOf(false, 16, nil))
	past, _ := Run(p)(testRef, testCtx())

	hits := Take(past, 35)
	require.Len(t, hits, 35)
	require.Equal(t, time.Date(2011, 3, 31, 16, 0, 0, 0, time.UTC), hits[31].Start)
	for i := 1; i < len(hits); i++ {
		require.True(t, hits[i].Start.Before(hits[i-1].Start))
	}
}

// TestYearTwoDigitWindow exercises the fixed window formula
// year := (n + 50) mod 100 + 1950, which is NOT relative to the
// reference year: "99" is always 1999.
func TestYearTwoDigitWindow(t *testing.T) {
	past, future := Run(YearOf(99))(testRef, testCtx())
	_, ok := future.Next()
	require.False(t, ok)
	p, ok := past.Next()
	require.True(t, ok)
	require.Equal(t, 1999, p.Start.Year())
}

// TestYearTwoDigitExpandsToSoleFutureYear checks that year 13 resolves
// to 2013 and is the sole future element.
func TestYearTwoDigitExpandsToSoleFutureYear(t *testing.T) {
	_, future := Run(YearOf(13))(testRef, testCtx())
	f, ok := future.Next()
	require.True(t, ok)
	require.Equal(t, time.Date(2013, 1, 1, 0, 0, 0, 0, time.UTC), f.Start)
	require.Equal(t, grain.Year, f.Grain)
}

func TestYearFourDigitIsLiteral(t *testing.T) {
	past, _ := Run(YearOf(1999))(testRef, testCtx())
	p, ok := past.Next()
	require.True(t, ok)
	require.Equal(t, 1999, p.Start.Year())
}

func TestDayOfMonthSkipsShortMonths(t *testing.T) {
	// day 30 never falls in February; the bare predicate (no month
	// constraint) must still step over it to March.
	ref := timeobj.New(time.Date(2013, 1, 31, 0, 0, 0, 0, time.UTC), grain.Second)
	_, future := Run(DayOfMonthOf(30))(ref, timeobj.NewContext(ref, time.UTC))
	f, ok := future.Next()
	require.True(t, ok)
	require.Equal(t, time.Date(2013, 3, 30, 0, 0, 0, 0, time.UTC), f.Start)
}

func TestEmptyPredicateHasNoHits(t *testing.T) {
	past, future := Run(Empty())(testRef, testCtx())
	_, ok := future.Next()
	require.False(t, ok)
	_, ok = past.Next()
	require.False(t, ok)
}

// TestFutureNonDecreasingPastStrictlyDecreasing is a light ordering check
// over a handful of representative predicates.
func TestFutureNonDecreasingPastStrictlyDecreasing(t *testing.T) {
	preds := []Predicate{
		DayOfWeekOf(2),
		MonthOf(3),
		Intersect(MonthOf(3), HourOf(false, 16, nil)),
		SecondOf(45),
	}
	for _, p := range preds {
		past, future := Run(p)(testRef, testCtx())
		fs := Take(future, 5)
		for i := 1; i < len(fs); i++ {
			require.False(t, fs[i].Start.Before(fs[i-1].Start))
		}
		ps := Take(past, 5)
		for i := 1; i < len(ps); i++ {
			require.True(t, ps[i].Start.Before(ps[i-1].Start))
		}
	}
}

// TestBoundaryInvariant checks the future/past boundary: no future element
// ends at or before ref.start, and every past element does.
func TestBoundaryInvariant(t *testing.T) {
	preds := []Predicate{
		DayOfWeekOf(2),
		HourOf(true, 4, nil),
		MonthOf(3),
	}
	for _, p := range preds {
		past, future := Run(p)(testRef, testCtx())
		for _, f := range Take(future, 5) {
			require.True(t, timeobj.End(f).After(testRef.Start))
		}
		for _, pp := range Take(past, 5) {
			require.False(t, timeobj.End(pp).After(testRef.Start))
		}
	}
}
