package generator

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/chinazagideon/mock-generator/internal/schema"
)

// Args are the arguments a parameterized spec passes to its producer.
//
// Producers take three positional slots: (options|min, max, precision).
// Slot 1 holds the options list when the spec has one, otherwise min, so a
// spec carrying both options and min hides min from numeric producers.
// The named fields below keep that slotting observable while letting each
// producer read what it needs.
type Args struct {
	Options   []any
	Min       *float64
	Max       *float64
	Precision *float64
	StartDate string
	EndDate   string
	Length    *int
}

// ArgsFrom resolves spec params into producer arguments.
func ArgsFrom(p *schema.Params) Args {
	if p == nil {
		return Args{}
	}
	a := Args{Max: p.Max, Precision: p.Precision}
	if p.Options != nil {
		a.Options = p.Options
	} else {
		a.Min = p.Min
	}
	// date bounds and length only fill a slot left empty
	if a.Options == nil && a.Min == nil {
		a.StartDate = p.StartDate
		a.Length = p.Length
	}
	if a.Max == nil {
		a.EndDate = p.EndDate
	}
	return a
}

func (a Args) slotOneIsList() bool { return a.Options != nil }

func enum(r *Rand, a Args) (any, error) {
	if len(a.Options) == 0 {
		return nil, fmt.Errorf("enum: %w: options must be a non-empty list", ErrBadArgs)
	}
	return Pick(r, a.Options), nil
}

// numberRange defaults mirror an unbounded integer draw: [0, 2^53-1].
func numberRange(r *Rand, a Args) (any, error) {
	lo, hi := 0.0, float64(1<<53-1)
	if a.Min != nil {
		lo = *a.Min
	}
	if a.Max != nil {
		hi = *a.Max
	}
	from, to := int64(math.Ceil(lo)), int64(math.Floor(hi))
	if from > to {
		return nil, fmt.Errorf("numberRange: %w: min %v > max %v", ErrBadArgs, lo, hi)
	}
	return int(r.Int64Range(from, to)), nil
}

// floatRange defaults: [0, 1] with precision 0.01.
func floatRange(r *Rand, a Args) (any, error) {
	lo, hi, precision := 0.0, 1.0, 0.01
	if a.Min != nil {
		lo = *a.Min
	}
	if a.Max != nil {
		hi = *a.Max
	}
	if a.Precision != nil {
		precision = *a.Precision
	}
	return quantized(r, lo, hi, precision)
}

// quantized draws a multiple of precision uniformly from [lo, hi].
func quantized(r *Rand, lo, hi, precision float64) (float64, error) {
	if precision <= 0 || math.IsNaN(precision) || math.IsInf(precision, 0) {
		return 0, fmt.Errorf("floatRange: %w: precision must be > 0", ErrBadArgs)
	}
	first := math.Ceil(lo/precision - 1e-9)
	last := math.Floor(hi/precision + 1e-9)
	if first > last {
		return 0, fmt.Errorf("floatRange: %w: no multiple of %v in [%v, %v]", ErrBadArgs, precision, lo, hi)
	}
	n := r.Int64Range(int64(first), int64(last))
	return roundTo(float64(n)*precision, decimals(precision)), nil
}

func decimals(precision float64) int {
	if precision >= 1 {
		return 0
	}
	return int(math.Ceil(-math.Log10(precision) - 1e-9))
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

func dateRange(r *Rand, a Args) (any, error) {
	if a.slotOneIsList() {
		return nil, fmt.Errorf("dateRange: %w: options given instead of a start date", ErrBadArgs)
	}
	from, err := bound(a.Min, a.StartDate)
	if err != nil {
		return nil, fmt.Errorf("dateRange start: %w", err)
	}
	to, err := bound(a.Max, a.EndDate)
	if err != nil {
		return nil, fmt.Errorf("dateRange end: %w", err)
	}
	if from.After(to) {
		return nil, fmt.Errorf("dateRange: %w: start %s after end %s", ErrBadArgs, isoTime(from), isoTime(to))
	}
	return isoTime(r.Between(from, to)), nil
}

// bound reads a date slot: numbers are epoch milliseconds, strings are dates.
func bound(ms *float64, s string) (time.Time, error) {
	if ms != nil {
		return time.UnixMilli(int64(*ms)).UTC(), nil
	}
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: missing date", ErrBadArgs)
	}
	return parseDate(s)
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000Z",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unparsable date %q", ErrBadArgs, s)
}

// isoTime renders t the way mock consumers expect: UTC with milliseconds.
func isoTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}

func stringLength(r *Rand, a Args) (any, error) {
	if a.slotOneIsList() {
		return nil, fmt.Errorf("stringLength: %w: options given instead of a length", ErrBadArgs)
	}
	n := 1
	switch {
	case a.Min != nil:
		n = int(*a.Min)
	case a.Length != nil:
		n = *a.Length
	}
	if n < 0 {
		return nil, fmt.Errorf("stringLength: %w: negative length %d", ErrBadArgs, n)
	}
	return r.Alphanumeric(n), nil
}
