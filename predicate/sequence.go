package predicate

import "github.com/savithruml/duckling/timeobj"

// Producer is a lazy, one-directional source of TimeObjects. Forward
// producers yield non-decreasing starts; backward producers yield strictly
// decreasing starts. Next returns (zero, false) once the producer is
// exhausted or has run past its context bound.
//
// Producers mirror a simple pull iterator (Next only, no Close): nothing
// here holds a resource, only a closure over a cursor.
type Producer interface {
	Next() (timeobj.TimeObject, bool)
}

type funcProducer struct {
	next func() (timeobj.TimeObject, bool)
}

func (f *funcProducer) Next() (timeobj.TimeObject, bool) {
	return f.next()
}

func newFuncProducer(next func() (timeobj.TimeObject, bool)) Producer {
	return &funcProducer{next: next}
}

// sliceProducer serves a precomputed, already-bounded list of TimeObjects.
type sliceProducer struct {
	items []timeobj.TimeObject
	i     int
}

func (s *sliceProducer) Next() (timeobj.TimeObject, bool) {
	if s.i >= len(s.items) {
		return timeobj.TimeObject{}, false
	}
	v := s.items[s.i]
	s.i++
	return v, true
}

func newSliceProducer(items []timeobj.TimeObject) Producer {
	return &sliceProducer{items: items}
}

func emptyProducer() Producer {
	return newSliceProducer(nil)
}

// concatProducer chains producers sequentially, exhausting each in turn
// before moving to the next.
type concatProducer struct {
	producers []Producer
	idx       int
}

func (c *concatProducer) Next() (timeobj.TimeObject, bool) {
	for c.idx < len(c.producers) {
		if v, ok := c.producers[c.idx].Next(); ok {
			return v, true
		}
		c.idx++
	}
	return timeobj.TimeObject{}, false
}

func newConcatProducer(producers ...Producer) Producer {
	return &concatProducer{producers: producers}
}

// Take pulls up to n items eagerly from p. Callers that need an unbounded
// producer to stay lazy must never call this with an unbounded n; the
// resolver only ever asks for small, fixed prefixes (see resolve package).
func Take(p Producer, n int) []timeobj.TimeObject {
	var out []timeobj.TimeObject
	for i := 0; i < n; i++ {
		v, ok := p.Next()
		if !ok {
			break
		}
		out = append(out, v)
	}
	return out
}
