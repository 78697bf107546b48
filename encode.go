package divyield

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/etnz/divyield/date"
	"github.com/shopspring/decimal"
)

// SeriesPoint is a point of a JSON time series.
//
// Its value is encoded as a JSON number, not as the quoted string decimal uses by default.
type SeriesPoint struct {
	Date  date.Date       `json:"date"`
	Value decimal.Decimal `json:"value"`
}

func (p SeriesPoint) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("date", p.Date)
	w.Raw("value", []byte(p.Value.String()))
	return w.MarshalJSON()
}

// YieldPayload is the output of the yield command.
type YieldPayload struct {
	Symbol string        `json:"symbol"`
	Series []SeriesPoint `json:"series"`
}

// NewYieldPayload returns the payload of a yield series.
func NewYieldPayload(symbol string, points []YieldPoint) *YieldPayload {
	series := make([]SeriesPoint, 0, len(points))
	for _, p := range points {
		series = append(series, SeriesPoint{Date: p.Date, Value: p.Value})
	}
	return &YieldPayload{Symbol: symbol, Series: series}
}

func (p YieldPayload) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("symbol", p.Symbol)
	w.Append("series", nonNil(p.Series))
	return w.MarshalJSON()
}

// PricesPayload is the output of the prices command.
type PricesPayload struct {
	Symbols []string                 `json:"symbols"`
	Series  map[string][]SeriesPoint `json:"series"`
}

// NewPricesPayload returns a payload with an empty series for each symbol.
func NewPricesPayload(symbols ...string) *PricesPayload {
	p := &PricesPayload{
		Symbols: symbols,
		Series:  make(map[string][]SeriesPoint, len(symbols)),
	}
	for _, s := range symbols {
		p.Series[s] = []SeriesPoint{}
	}
	return p
}

// Set replaces the series of symbol, adding the symbol if needed.
func (p *PricesPayload) Set(symbol string, prices []PricePoint) {
	if p.Series == nil {
		p.Series = make(map[string][]SeriesPoint)
	}
	if _, exists := p.Series[symbol]; !exists {
		p.Symbols = append(p.Symbols, symbol)
	}
	series := make([]SeriesPoint, 0, len(prices))
	for _, pp := range prices {
		series = append(series, SeriesPoint{Date: pp.Date, Value: pp.Close})
	}
	p.Series[symbol] = series
}

// MarshalJSON writes the series in the order of Symbols.
func (p PricesPayload) MarshalJSON() ([]byte, error) {
	var series jsonObjectWriter
	for _, s := range p.Symbols {
		series.Append(s, nonNil(p.Series[s]))
	}
	raw, err := series.MarshalJSON()
	if err != nil {
		return nil, err
	}

	var w jsonObjectWriter
	w.Append("symbols", nonNil(p.Symbols))
	w.Raw("series", raw)
	return w.MarshalJSON()
}

// nonNil returns an empty slice for nil, so that it is encoded as [] and not null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// Encode writes v as a single JSON object followed by a newline.
func Encode(w io.Writer, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("cannot encode %T: %w", v, err)
	}
	_, err = w.Write(append(b, '\n'))
	return err
}
