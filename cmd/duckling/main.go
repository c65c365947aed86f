// Command duckling is a demo CLI over the time predicate engine: it builds
// a predicate from flags, resolves it against a reference instant, and
// prints the chosen value plus its alternatives.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/savithruml/duckling/grain"
	"github.com/savithruml/duckling/predicate"
	"github.com/savithruml/duckling/resolve"
)

func main() {
	var (
		dayOfWeek    int
		dayOfMonth   int
		month        int
		year         int
		hour         int
		is12h        bool
		ampmFlag     string
		refStr       string
		tzName       string
		notImmediate bool
		direction    string
		jsonOut      bool
	)

	flagSet := flag.NewFlagSet("duckling", flag.ExitOnError)
	flagSet.IntVar(&dayOfWeek, "dow", 0, "day of week, 1=Monday..7=Sunday (0 = unset)")
	flagSet.IntVar(&dayOfMonth, "dom", 0, "day of month, 1-31 (0 = unset)")
	flagSet.IntVar(&month, "month", 0, "month, 1-12 (0 = unset)")
	flagSet.IntVar(&year, "year", -1, "literal year, 2 or 4 digits (-1 = unset)")
	flagSet.IntVar(&hour, "hour", -1, "hour (-1 = unset)")
	flagSet.BoolVar(&is12h, "12h", true, "interpret -hour as 12-hour (requires -ampm to disambiguate)")
	flagSet.StringVar(&ampmFlag, "ampm", "", "am or pm, alone or paired with -hour")
	flagSet.StringVar(&refStr, "ref", "", "reference instant, RFC3339 (default: now)")
	flagSet.StringVar(&tzName, "tz", "America/Los_Angeles", "IANA zone name used for both reference and rendering")
	flagSet.BoolVar(&notImmediate, "not-immediate", false, "skip the match that overlaps the reference instant")
	flagSet.StringVar(&direction, "direction", "", "before or after, renders an open interval instead of a point/interval value")
	flagSet.BoolVar(&jsonOut, "json", false, "print the resolved value as JSON instead of a table")
	flagSet.Usage = usage(flagSet)
	flagSet.Parse(os.Args[1:])

	zone, err := time.LoadLocation(tzName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bad -tz %q: %v\n", tzName, err)
		os.Exit(1)
	}

	ref := time.Now()
	if refStr != "" {
		ref, err = time.ParseInLocation(time.RFC3339, refStr, zone)
		if err != nil {
			fmt.Fprintf(os.Stderr, "bad -ref %q: %v\n", refStr, err)
			os.Exit(1)
		}
	}

	pred, ok := buildPredicate(dayOfWeek, dayOfMonth, month, year, hour, is12h, ampmFlag)
	if !ok {
		fmt.Fprintln(os.Stderr, "no predicate flags given; see -h")
		os.Exit(1)
	}

	td := resolve.TimeData{
		Predicate:    pred,
		TimeGrain:    grain.Day,
		NotImmediate: notImmediate,
	}
	if direction != "" {
		d, err := parseDirection(direction)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		td.Direction = &d
	}

	tv, ok := resolve.Resolve(td, resolve.Context{Reference: ref, Zone: zone})
	if !ok {
		fmt.Fprintln(os.Stderr, "no resolution: predicate has no match near the reference instant")
		os.Exit(1)
	}

	if jsonOut {
		b, err := tv.MarshalJSON()
		if err != nil {
			fmt.Fprintf(os.Stderr, "marshal error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(b))
		return
	}

	printResult(tv)
}

// buildPredicate intersects every given field constraint; returns ok=false
// when no flag was supplied.
func buildPredicate(dayOfWeek, dayOfMonth, month, year, hour int, is12h bool, ampmFlag string) (predicate.Predicate, bool) {
	var ampm *predicate.AMPM
	if ampmFlag != "" {
		a, err := parseAMPM(ampmFlag)
		if err == nil {
			ampm = &a
		}
	}

	parts := make([]predicate.Predicate, 0, 6)
	if dayOfWeek != 0 {
		parts = append(parts, predicate.DayOfWeekOf(dayOfWeek))
	}
	if dayOfMonth != 0 {
		parts = append(parts, predicate.DayOfMonthOf(dayOfMonth))
	}
	if month != 0 {
		parts = append(parts, predicate.MonthOf(month))
	}
	if year != -1 {
		parts = append(parts, predicate.YearOf(year))
	}
	if hour != -1 {
		parts = append(parts, predicate.HourOf(is12h, hour, ampm))
	} else if ampm != nil {
		parts = append(parts, predicate.AmPm(*ampm))
	}

	if len(parts) == 0 {
		return predicate.Empty(), false
	}
	p := parts[0]
	for _, next := range parts[1:] {
		p = predicate.Intersect(p, next)
	}
	return p, true
}

func parseAMPM(s string) (predicate.AMPM, error) {
	switch strings.ToLower(s) {
	case "am":
		return predicate.AM, nil
	case "pm":
		return predicate.PM, nil
	default:
		return 0, fmt.Errorf("bad -ampm %q: want am or pm", s)
	}
}

func parseDirection(s string) (resolve.Direction, error) {
	switch strings.ToLower(s) {
	case "before":
		return resolve.Before, nil
	case "after":
		return resolve.After, nil
	default:
		return 0, fmt.Errorf("bad -direction %q: want before or after", s)
	}
}

// printResult renders the chosen value highlighted, and the alternatives as
// a table.
func printResult(tv *resolve.TimeValue) {
	fmt.Printf("%s %s\n", color.GreenString("chosen:"), tv.Chosen)

	if len(tv.Alternatives) == 0 {
		return
	}

	table := tablewriter.NewTable(os.Stdout)
	table.Header([]string{"#", "alternative"})
	for i, alt := range tv.Alternatives {
		table.Append([]string{fmt.Sprintf("%d", i+1), fmt.Sprint(alt)})
	}
	table.Render()
}

func usage(fs *flag.FlagSet) func() {
	return func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Resolves a time predicate built from flags against a reference instant.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s -dow 2 -not-immediate\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -hour 4 -ampm pm -ref 2013-02-12T04:30:00-08:00\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -month 2 -dom 30\n", os.Args[0])
	}
}
