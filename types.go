package divyield

import (
	"fmt"
	"strings"

	"github.com/etnz/divyield/date"
	"github.com/shopspring/decimal"
)

// PricePoint is the closing price of a security on a given day.
type PricePoint struct {
	Date  date.Date
	Close decimal.Decimal
}

// DividendEvent is a dividend payment, dated on its ex-dividend day.
type DividendEvent struct {
	Date     date.Date
	Amount   decimal.Decimal // per share
	Currency string          // optional ISO 4217 code, as reported by the provider
}

// YieldPoint is a dividend yield, in percent, on a given day.
type YieldPoint struct {
	Date  date.Date
	Value decimal.Decimal
}

func (p YieldPoint) String() string { return fmt.Sprintf("%s %s%%", p.Date, p.Value) }

// Interval is the sampling interval of a price series, in the provider notation.
type Interval string

const (
	OneDay   Interval = "1d"
	OneWeek  Interval = "1wk"
	OneMonth Interval = "1mo"
)

// ParseInterval parses "1d", "1wk" or "1mo" (case insensitive).
func ParseInterval(s string) (Interval, error) {
	switch iv := Interval(strings.ToLower(strings.TrimSpace(s))); iv {
	case OneDay, OneWeek, OneMonth:
		return iv, nil
	default:
		return OneDay, fmt.Errorf("unknown interval %q, want one of 1d, 1wk, 1mo", s)
	}
}

// Period returns the calendar period sampled by the interval.
func (iv Interval) Period() date.Period {
	switch iv {
	case OneWeek:
		return date.Weekly
	case OneMonth:
		return date.Monthly
	default:
		return date.Daily
	}
}
