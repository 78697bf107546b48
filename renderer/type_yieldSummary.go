package renderer

import (
	"github.com/etnz/divyield"
	"github.com/etnz/divyield/date"
	"github.com/shopspring/decimal"
)

// DefaultSMAWindow is the number of points averaged in the summary.
const DefaultSMAWindow = 3

// YieldSummary is a struct to represent a yield series for rendering.
type YieldSummary struct {
	Symbol      string
	Provider    string
	Period      string
	Granularity string
	GeneratedOn string

	From, To date.Date
	Points   int

	Latest   divyield.YieldPoint
	Min, Max divyield.YieldPoint

	SMAWindow int
	SMA       *decimal.Decimal // nil when there are fewer points than SMAWindow
	Momentum  divyield.Direction

	Dividends      []divyield.DividendEvent
	TotalDividends decimal.Decimal
	Currency       string // of TotalDividends, empty when mixed or unknown
}

// NewYieldSummary computes the summary of a yield series, and of the dividends paid
// over the same period.
func NewYieldSummary(symbol, provider string, lookback divyield.Lookback, g divyield.Granularity, series []divyield.YieldPoint, dividends []divyield.DividendEvent) *YieldSummary {
	s := &YieldSummary{
		Symbol:      symbol,
		Provider:    provider,
		Period:      lookback.String(),
		Granularity: g.String(),
		GeneratedOn: Now().Format("2006-01-02 15:04"),
		Points:      len(series),
		SMAWindow:   DefaultSMAWindow,
		Momentum:    divyield.Momentum(series, divyield.DefaultMomentumLookback),
	}
	if len(series) > 0 {
		s.From, s.To = series[0].Date, series[len(series)-1].Date
		s.Latest, s.Min, s.Max = series[len(series)-1], series[0], series[0]
		for _, p := range series {
			if p.Value.LessThan(s.Min.Value) {
				s.Min = p
			}
			if p.Value.GreaterThan(s.Max.Value) {
				s.Max = p
			}
		}
	}
	if sma, err := divyield.SMA(series, s.SMAWindow); err == nil && len(sma) > 0 {
		v := sma[len(sma)-1].Value.Round(divyield.YieldPrecision)
		s.SMA = &v
	}

	r := date.NewRange(s.From, s.To)
	currencies := make(map[string]bool)
	for _, d := range dividends {
		if len(series) > 0 && !r.Contains(d.Date) {
			continue
		}
		s.Dividends = append(s.Dividends, d)
		s.TotalDividends = s.TotalDividends.Add(d.Amount)
		currencies[d.Currency] = true
	}
	if len(currencies) == 1 {
		for c := range currencies {
			s.Currency = c
		}
	}
	return s
}
