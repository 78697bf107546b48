package divyield

import (
	"fmt"
	"slices"
	"strings"

	"github.com/etnz/divyield/date"
)

// Granularity is the alignment grid used by the yield calculator.
type Granularity int

const (
	// Auto detects the granularity from the price series.
	Auto Granularity = iota
	Daily
	Monthly
)

func (g Granularity) String() string {
	switch g {
	case Daily:
		return "daily"
	case Monthly:
		return "monthly"
	default:
		return "auto"
	}
}

// Interval returns the price interval to fetch for that granularity.
func (g Granularity) Interval() Interval {
	if g == Monthly {
		return OneMonth
	}
	return OneDay
}

// ParseGranularity parses "daily", "monthly" or "auto" (also "day", "month" and "").
func ParseGranularity(s string) (Granularity, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == "auto" {
		return Auto, nil
	}
	p, err := date.ParsePeriod(s)
	if err != nil {
		return Auto, err
	}
	switch p {
	case date.Daily:
		return Daily, nil
	case date.Monthly:
		return Monthly, nil
	default:
		return Auto, fmt.Errorf("unsupported granularity %s, want daily or monthly", p)
	}
}

// monthlySpacing is the median gap, in days, from which a price series is considered
// monthly.
const monthlySpacing = 28

// DetectGranularity guesses the granularity of a price series from the median gap
// between consecutive dates. Series with less than two points are Daily.
func DetectGranularity(prices []PricePoint) Granularity {
	days := make([]date.Date, 0, len(prices))
	for _, p := range prices {
		days = append(days, p.Date)
	}
	slices.SortFunc(days, date.Date.Compare)
	days = slices.Compact(days)
	if len(days) < 2 {
		return Daily
	}
	gaps := make([]int, 0, len(days)-1)
	for i := 1; i < len(days); i++ {
		gaps = append(gaps, days[i].Sub(days[i-1]))
	}
	slices.Sort(gaps)
	if gaps[len(gaps)/2] >= monthlySpacing {
		return Monthly
	}
	return Daily
}
