package grain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGrainStringRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		g    Grain
	}{
		{"second", Second},
		{"minute", Minute},
		{"hour", Hour},
		{"day", Day},
		{"week", Week},
		{"month", Month},
		{"quarter", Quarter},
		{"year", Year},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.name, tt.g.String())
			parsed, err := ParseGrain(tt.name)
			require.NoError(t, err)
			require.Equal(t, tt.g, parsed)
		})
	}
}

func TestParseGrainUnknown(t *testing.T) {
	_, err := ParseGrain("fortnight")
	require.Error(t, err)
}

func TestGrainOrdering(t *testing.T) {
	require.True(t, Second.Before(Minute))
	require.True(t, Hour.Before(Day))
	require.True(t, Month.Before(Year))
	require.False(t, Year.Before(Second))
	require.Equal(t, Hour, Min(Hour, Day))
	require.Equal(t, Hour, Min(Day, Hour))
}

func TestAddDuration(t *testing.T) {
	ref := time.Date(2013, 2, 12, 4, 30, 0, 0, time.UTC)

	require.Equal(t, ref.Add(45*time.Second), Add(ref, Second, 45))
	require.Equal(t, ref.Add(-10*time.Minute), Add(ref, Minute, -10))
	require.Equal(t, ref.Add(6*time.Hour), Add(ref, Hour, 6))
}

func TestAddWeek(t *testing.T) {
	ref := time.Date(2013, 2, 12, 0, 0, 0, 0, time.UTC)
	require.Equal(t, ref.AddDate(0, 0, 7), Add(ref, Week, 1))
	require.Equal(t, ref.AddDate(0, 0, -14), Add(ref, Week, -2))
}

func TestAddMonthClampsToLastDay(t *testing.T) {
	jan31 := time.Date(2013, 1, 31, 0, 0, 0, 0, time.UTC)
	got := Add(jan31, Month, 1)
	require.Equal(t, time.Date(2013, 2, 28, 0, 0, 0, 0, time.UTC), got)

	// Leap year February.
	jan31Leap := time.Date(2012, 1, 31, 0, 0, 0, 0, time.UTC)
	got = Add(jan31Leap, Month, 1)
	require.Equal(t, time.Date(2012, 2, 29, 0, 0, 0, 0, time.UTC), got)
}

func TestAddMonthAcrossYearBoundary(t *testing.T) {
	nov := time.Date(2013, 11, 15, 0, 0, 0, 0, time.UTC)
	require.Equal(t, time.Date(2014, 1, 15, 0, 0, 0, 0, time.UTC), Add(nov, Month, 2))

	jan := time.Date(2013, 1, 15, 0, 0, 0, 0, time.UTC)
	require.Equal(t, time.Date(2012, 11, 15, 0, 0, 0, 0, time.UTC), Add(jan, Month, -2))
}

func TestAddQuarter(t *testing.T) {
	ref := time.Date(2013, 1, 31, 0, 0, 0, 0, time.UTC)
	got := Add(ref, Quarter, 1)
	require.Equal(t, time.Date(2013, 4, 30, 0, 0, 0, 0, time.UTC), got)
}

func TestAddYearClampsLeapDay(t *testing.T) {
	leapDay := time.Date(2012, 2, 29, 0, 0, 0, 0, time.UTC)
	got := Add(leapDay, Year, 1)
	require.Equal(t, time.Date(2013, 2, 28, 0, 0, 0, 0, time.UTC), got)
}
