package converters

import (
	"time"

	"cloud.google.com/go/civil"
	"github.com/araddon/dateparse"

	"github.com/teranos/typeinfer/conv"
)

// Layout tables, in the order they are tried.
var (
	DefaultDateLayouts = []string{
		"2006-1-2",
		"1-2-2006",
		"1/2/2006",
		"1.2.2006",
		"1-2-06",
		"January 2, 2006",
		"January 2, 06",
		"Jan 2, 2006",
		"Jan 2, 06",
	}

	DefaultTimeLayouts = []string{
		"15:04:05",
		"15:04",
		"3:04:05 PM",
		"3:04 PM",
		"3:04",
	}

	DefaultSeparators = []string{" ", "T"}
)

// DateOptions controls how dates and date-times are recognized.
type DateOptions struct {
	DateLayouts []string
	TimeLayouts []string
	Separators  []string
	// GeneralParser tries dateparse before the layout tables.
	GeneralParser bool
}

// Time returns a converter for times of day matching one of layouts.
func Time(layouts []string) conv.Converter {
	layouts = clone(layouts)
	return func(s string) conv.Result {
		if t, ok := parseAny(s, layouts); ok {
			return conv.Converted(civil.TimeOf(t))
		}
		return conv.Miss()
	}
}

// Date returns a converter for calendar dates.
func Date(opts DateOptions) conv.Converter {
	layouts := clone(opts.DateLayouts)
	general := opts.GeneralParser
	return func(s string) conv.Result {
		if general {
			if t, ok := generalParse(s); ok {
				return conv.Converted(civil.DateOf(t))
			}
		}
		if t, ok := parseAny(s, layouts); ok {
			return conv.Converted(civil.DateOf(t))
		}
		return conv.Miss()
	}
}

// DateTime returns a converter for a date followed by a time of day.
// The general parser only claims values with a non-midnight time, so bare
// dates fall through to the date converter. A layout match needs an explicit
// time and is accepted at any time of day.
func DateTime(opts DateOptions) conv.Converter {
	layouts := combine(opts.DateLayouts, opts.Separators, opts.TimeLayouts)
	general := opts.GeneralParser
	return func(s string) conv.Result {
		if general {
			if t, ok := generalParse(s); ok && !isMidnight(t) {
				return conv.Converted(civil.DateTimeOf(t))
			}
		}
		if t, ok := parseAny(s, layouts); ok {
			return conv.Converted(civil.DateTimeOf(t))
		}
		return conv.Miss()
	}
}

// generalParse runs dateparse and drops results without a year, which
// dateparse reports as year 0 for inputs like "12/31" or "1.2.3".
func generalParse(s string) (time.Time, bool) {
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil || t.Year() == 0 {
		return time.Time{}, false
	}
	return t, true
}

func parseAny(s string, layouts []string) (time.Time, bool) {
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// combine expands date x separator x time, date-major.
func combine(dates, seps, times []string) []string {
	out := make([]string, 0, len(dates)*len(seps)*len(times))
	for _, d := range dates {
		for _, tl := range times {
			for _, sep := range seps {
				out = append(out, d+sep+tl)
			}
		}
	}
	return out
}

func isMidnight(t time.Time) bool {
	return t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0
}

func clone(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}
