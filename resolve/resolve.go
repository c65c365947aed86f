package resolve

import (
	"time"

	"github.com/savithruml/duckling/grain"
	"github.com/savithruml/duckling/predicate"
	"github.com/savithruml/duckling/timeobj"
)

// maxAlternatives is the resolver's fixed lookahead: it never requests
// more than three alternatives from a future sequence.
const maxAlternatives = 3

// TimeData is the resolver's input record: a predicate plus the rendering
// and selection flags that govern how a match becomes a value.
type TimeData struct {
	Predicate    predicate.Predicate
	Latent       bool
	TimeGrain    grain.Grain
	NotImmediate bool
	Direction    *Direction
}

// Context carries the reference instant and the zone used to render
// output. The zone must already carry the IANA transition series (e.g.
// via time.LoadLocation) so offset rendering is DST-aware.
type Context struct {
	Reference time.Time
	Zone      *time.Location
}

// Resolve evaluates the predicate around the reference, chooses one
// TimeObject by the notImmediate policy, and renders it (plus up to three
// alternatives) as a TimeValue. Returns (nil, false) when td is latent or
// the predicate has no match in range.
func Resolve(td TimeData, ctx Context) (*TimeValue, bool) {
	if td.Latent {
		return nil, false
	}

	ref := timeobj.New(floatingInstant(ctx.Reference, ctx.Zone), grain.Second)
	tctx := timeobj.NewContext(ref, ctx.Zone)

	past, future := predicate.Run(td.Predicate)(ref, tctx)

	ahead, ok := future.Next()
	if !ok {
		pastHits := predicate.Take(past, 1)
		if len(pastHits) == 0 {
			return nil, false
		}
		return &TimeValue{Chosen: render(pastHits[0], td.Direction, ctx.Zone)}, true
	}

	chosen := ahead
	// Checking whether a second future match exists (for notImmediate)
	// necessarily draws it from the same single-pass producer, advancing
	// it regardless of whether it ends up chosen. Alternatives are then
	// drawn from wherever the producer is left sitting (deliberate, not a
	// bug): the immediately-next match can be silently absent from
	// alternatives.
	if td.NotImmediate {
		if peek, ok2 := future.Next(); ok2 {
			if _, overlaps := timeobj.Intersect(ahead, ref); overlaps {
				chosen = peek
			}
		}
	}

	alternatives := make([]SingleTimeValue, 0, maxAlternatives)
	for _, hit := range predicate.Take(future, maxAlternatives) {
		alternatives = append(alternatives, render(hit, td.Direction, ctx.Zone))
	}

	return &TimeValue{
		Chosen:       render(chosen, td.Direction, ctx.Zone),
		Alternatives: alternatives,
	}, true
}

// render turns one matched TimeObject into the value it denotes in zone:
// Simple/Interval when direction is unset, an OpenInterval when it is
// Before or After.
func render(to timeobj.TimeObject, direction *Direction, zone *time.Location) SingleTimeValue {
	if direction != nil {
		return OpenInterval{
			Instant:   instantOf(to.Start, to.Grain, zone),
			Direction: *direction,
		}
	}
	if to.HasExplicitEnd() {
		return Interval{
			From: instantOf(to.Start, to.Grain, zone),
			To:   instantOf(timeobj.End(to), to.Grain, zone),
		}
	}
	return Simple{Instant: instantOf(to.Start, to.Grain, zone)}
}

// floatingInstant converts a real instant to the wall-clock reading it has
// in zone, then re-labels those same calendar fields as UTC. Every grain
// runner operates on this floating value: "4pm" and "Tuesday" are civil-time
// concepts, not UTC ones, so the calendar arithmetic in the predicate/timeobj
// packages must run against the reference's local fields, not its true UTC
// instant. The zone is only reattached at render time (instantOf).
func floatingInstant(t time.Time, zone *time.Location) time.Time {
	if zone == nil {
		zone = time.UTC
	}
	local := t.In(zone)
	return time.Date(local.Year(), local.Month(), local.Day(), local.Hour(), local.Minute(), local.Second(), local.Nanosecond(), time.UTC)
}

// instantOf takes a floating value produced by the engine and reinterprets
// its calendar fields as wall-clock time in zone, picking up the correct
// DST offset for that specific civil instant.
func instantOf(floating time.Time, g grain.Grain, zone *time.Location) InstantValue {
	if zone == nil {
		zone = time.UTC
	}
	zoned := time.Date(floating.Year(), floating.Month(), floating.Day(), floating.Hour(), floating.Minute(), floating.Second(), floating.Nanosecond(), zone)
	return InstantValue{Value: zoned, Grain: g}
}
