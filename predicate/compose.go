package predicate

import "github.com/savithruml/duckling/timeobj"

// composeSafeMax bounds how many outer hits the composer pulls from either
// side before giving up, so an intersection between two predicates that
// never overlap (e.g. Friday the 13th in a run of Tuesdays) terminates
// instead of scanning forever.
const composeSafeMax = 10

// compose builds the RunFunc for Intersect(left, right): for each hit r
// produced by right (the outer, already-composed side), left is re-run with
// ref'=r over a context narrowed to r's span, and every resulting left hit
// is intersected against r. This mirrors the finest-first right-fold used
// by runTimeDate, where right carries the coarser, already-composed fields.
func compose(left, right RunFunc) RunFunc {
	return func(ref timeobj.TimeObject, ctx timeobj.Context) (Producer, Producer) {
		past := newFuncProducer(composedStepper(left, right, ref, ctx, false))
		future := newFuncProducer(composedStepper(left, right, ref, ctx, true))
		return past, future
	}
}

// composedStepper drives one direction (forward or backward) of the
// composed sequence. It pulls outer hits from right one at a time, capped
// at composeSafeMax, and for each, drains left's future sequence (re-run
// with ref'=outer hit, context narrowed to its span) in full, yielding every
// pair that actually intersects. Narrowing the context to r's own span is
// what bounds that drain, not a fixed count: a day-long r can legitimately
// hold thousands of second-level inner hits. The past vs. future direction
// of the composed result comes entirely from iterating right's outer hits
// backward vs. forward; left is always asked for the hits inside r's own
// span, which are always found by running it forward from r's start. When
// the direction is backward, the in-span hits are yielded in
// strictly-decreasing order.
func composedStepper(left, right RunFunc, ref timeobj.TimeObject, ctx timeobj.Context, forward bool) func() (timeobj.TimeObject, bool) {
	rightPast, rightFuture := right(ref, ctx)
	outer := rightPast
	if forward {
		outer = rightFuture
	}

	outerCount := 0
	var innerQueue []timeobj.TimeObject
	innerIdx := 0

	return func() (timeobj.TimeObject, bool) {
		for {
			if innerIdx < len(innerQueue) {
				v := innerQueue[innerIdx]
				innerIdx++
				return v, true
			}
			if outerCount >= composeSafeMax {
				return timeobj.TimeObject{}, false
			}
			r, ok := outer.Next()
			if !ok {
				return timeobj.TimeObject{}, false
			}
			outerCount++

			narrowed := ctx.Narrowed(r)
			_, lFuture := left(r, narrowed)

			innerQueue = innerQueue[:0]
			for {
				l, ok := lFuture.Next()
				if !ok {
					break
				}
				if merged, ok := timeobj.Intersect(l, r); ok {
					innerQueue = append(innerQueue, merged)
				}
			}
			if !forward {
				reverse(innerQueue)
			}
			innerIdx = 0
		}
	}
}

// reverse reverses s in place.
func reverse(s []timeobj.TimeObject) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
