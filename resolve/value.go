// Package resolve turns a predicate plus a reference instant into a
// concrete, timezone-aware resolved value: the TimeData/Context inputs and
// the InstantValue/SingleTimeValue/TimeValue output types.
package resolve

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	// Embeds the IANA zone database so RFC3339 offsets are DST-aware
	// without depending on the host's /usr/share/zoneinfo.
	_ "time/tzdata"

	"github.com/savithruml/duckling/grain"
)

// InstantValue is a grain-qualified instant in a named zone.
type InstantValue struct {
	Value time.Time
	Grain grain.Grain
}

func (iv InstantValue) String() string {
	return fmt.Sprintf("%s (%s)", formatRFC3339(iv.Value), iv.Grain)
}

// MarshalJSON renders { "value": <RFC3339>, "grain": <grain> }.
func (iv InstantValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Value string `json:"value"`
		Grain string `json:"grain"`
	}{
		Value: formatRFC3339(iv.Value),
		Grain: iv.Grain.String(),
	})
}

// formatRFC3339 renders YYYY-MM-DDTHH:MM:SS.sss±HH:MM with millisecond
// fractional seconds (rounded, zero-padded) and a DST-aware zone offset.
func formatRFC3339(t time.Time) string {
	ms := int(math.Round(float64(t.Nanosecond()) / 1e6))
	if ms >= 1000 {
		t = t.Add(time.Second)
		ms -= 1000
	}
	_, offsetSec := t.Zone()
	sign := "+"
	if offsetSec < 0 {
		sign = "-"
		offsetSec = -offsetSec
	}
	oh := offsetSec / 3600
	om := (offsetSec % 3600) / 60
	return fmt.Sprintf("%s.%03d%s%02d:%02d", t.Format("2006-01-02T15:04:05"), ms, sign, oh, om)
}

// Direction distinguishes the two kinds of open interval.
type Direction int

const (
	Before Direction = iota
	After
)

func (d Direction) String() string {
	if d == After {
		return "after"
	}
	return "before"
}

// SingleTimeValue is one resolved value: a point, a closed interval, or an
// open (half-bounded) interval.
type SingleTimeValue interface {
	isSingleTimeValue()
	json.Marshaler
}

// Simple is a single instant, rendered with "type": "value".
type Simple struct {
	Instant InstantValue
}

func (Simple) isSingleTimeValue() {}

func (s Simple) String() string { return s.Instant.String() }

func (s Simple) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  string `json:"type"`
		Value string `json:"value"`
		Grain string `json:"grain"`
	}{
		Type:  "value",
		Value: formatRFC3339(s.Instant.Value),
		Grain: s.Instant.Grain.String(),
	})
}

// Interval is a closed [from, to) span.
type Interval struct {
	From InstantValue
	To   InstantValue
}

func (Interval) isSingleTimeValue() {}

func (iv Interval) String() string {
	return fmt.Sprintf("%s .. %s", iv.From, iv.To)
}

func (iv Interval) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type string       `json:"type"`
		From InstantValue `json:"from"`
		To   InstantValue `json:"to"`
	}{
		Type: "interval",
		From: iv.From,
		To:   iv.To,
	})
}

// OpenInterval is a half-bounded span: "before X" carries only To, "after
// X" carries only From.
type OpenInterval struct {
	Instant   InstantValue
	Direction Direction
}

func (OpenInterval) isSingleTimeValue() {}

func (o OpenInterval) String() string {
	return fmt.Sprintf("%s %s", o.Direction, o.Instant)
}

func (o OpenInterval) MarshalJSON() ([]byte, error) {
	if o.Direction == Before {
		return json.Marshal(struct {
			Type string       `json:"type"`
			To   InstantValue `json:"to"`
		}{Type: "interval", To: o.Instant})
	}
	return json.Marshal(struct {
		Type string       `json:"type"`
		From InstantValue `json:"from"`
	}{Type: "interval", From: o.Instant})
}

// TimeValue is the resolver's final output: the chosen value plus up to
// three alternatives drawn from the future matches left after the chosen
// one. When notImmediate drew a second match that was not chosen, that
// match is not among the alternatives (see Resolve).
type TimeValue struct {
	Chosen       SingleTimeValue
	Alternatives []SingleTimeValue
}

// MarshalJSON renders the chosen value's own JSON with an added "values"
// array of the alternatives' JSON.
func (tv TimeValue) MarshalJSON() ([]byte, error) {
	chosenJSON, err := tv.Chosen.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(chosenJSON, &fields); err != nil {
		return nil, err
	}

	values := make([]json.RawMessage, len(tv.Alternatives))
	for i, alt := range tv.Alternatives {
		b, err := alt.MarshalJSON()
		if err != nil {
			return nil, err
		}
		values[i] = b
	}
	valuesJSON, err := json.Marshal(values)
	if err != nil {
		return nil, err
	}
	fields["values"] = valuesJSON

	return json.Marshal(fields)
}
