package divyield

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/etnz/divyield/date"
)

// Unit is the calendar unit of a Lookback.
type Unit string

const (
	Days   Unit = "d"
	Months Unit = "mo"
	Years  Unit = "y"
)

// defaultCount is the count used when a period string has a unit but no number.
var defaultCount = map[Unit]int{
	Days:   30,
	Months: 11,
	Years:  1,
}

// DefaultLookback is the period used when none, or an unrecognized one, is given.
var DefaultLookback = Lookback{N: 11, Unit: Months}

var lookbackRE = regexp.MustCompile(`^(\d*)(d|mo|y)$`)

// Lookback is a trailing period like "11mo", "1y" or "90d".
type Lookback struct {
	N    int
	Unit Unit
}

// ParseLookback parses a period string of the form <int><unit> with unit one of d, mo
// or y.
//
// It never fails: a missing count takes the unit default (30d, 11mo, 1y) and an empty
// or unrecognized string is DefaultLookback.
func ParseLookback(s string) Lookback {
	s = strings.ToLower(strings.TrimSpace(s))
	match := lookbackRE.FindStringSubmatch(s)
	if match == nil {
		return DefaultLookback
	}
	unit := Unit(match[2])
	n := defaultCount[unit]
	if match[1] != "" {
		// zero and overflowing counts fall back to the unit default.
		if v, err := strconv.Atoi(match[1]); err == nil && v > 0 {
			n = v
		}
	}
	return Lookback{N: n, Unit: unit}
}

func (l Lookback) String() string { return fmt.Sprintf("%d%s", l.N, l.Unit) }

// IsZero reports whether l is the zero Lookback.
func (l Lookback) IsZero() bool { return l.N == 0 && l.Unit == "" }

// Start returns the first day excluded from the lookback window ending at anchor.
//
// The window itself is (Start(anchor), anchor].
func (l Lookback) Start(anchor date.Date) date.Date {
	switch l.Unit {
	case Days:
		return anchor.Add(-l.N)
	case Years:
		return anchor.AddYear(-l.N)
	case Months:
		return anchor.AddMonth(-l.N)
	default:
		return DefaultLookback.Start(anchor)
	}
}

// Window returns the days covered by the lookback ending at anchor.
func (l Lookback) Window(anchor date.Date) date.Range {
	return date.Range{From: l.Start(anchor).Add(1), To: anchor}
}

// Months returns the number of whole months covered by l, at least one.
func (l Lookback) Months() int {
	switch l.Unit {
	case Years:
		return max(1, 12*l.N)
	case Days:
		return max(1, (l.N+29)/30)
	default:
		return max(1, l.N)
	}
}
