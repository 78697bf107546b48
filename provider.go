package divyield

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/etnz/divyield/date"
)

var (
	// ErrNoData is returned by a Provider that has nothing for the symbol and range.
	ErrNoData = errors.New("no data")

	// ErrInvalidTicker is returned for a malformed ticker symbol.
	ErrInvalidTicker = errors.New("invalid ticker")

	// ErrMissingAPIKey is returned when a provider requires an API key that is not set.
	ErrMissingAPIKey = errors.New("missing API key")
)

// Provider is a source of market data.
type Provider interface {
	// Name identifies the provider in logs and error messages.
	Name() string

	// Dividends returns the dividend events of symbol with an ex-dividend date in r.
	Dividends(ctx context.Context, symbol string, r date.Range) ([]DividendEvent, error)

	// Prices returns the closing prices of symbol in r, sampled at iv.
	Prices(ctx context.Context, symbol string, r date.Range, iv Interval) ([]PricePoint, error)
}

var tickerRE = regexp.MustCompile(`^[A-Z0-9^][A-Z0-9.=^-]{0,19}$`)

// NormalizeTicker trims and upper-cases a ticker symbol, and checks it is a single
// plausible symbol like "SPY", "BRK-B", "^GSPC" or "SPY.US".
func NormalizeTicker(s string) (string, error) {
	t := strings.ToUpper(strings.TrimSpace(s))
	if !tickerRE.MatchString(t) {
		return "", fmt.Errorf("%w %q", ErrInvalidTicker, s)
	}
	return t, nil
}

// ParseTickers parses a comma separated list of tickers. Empty items are ignored, and
// duplicates are removed keeping the first occurrence.
func ParseTickers(s string) ([]string, error) {
	var tickers []string
	for item := range strings.SplitSeq(s, ",") {
		if strings.TrimSpace(item) == "" {
			continue
		}
		t, err := NormalizeTicker(item)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(tickers, t) {
			tickers = append(tickers, t)
		}
	}
	if len(tickers) == 0 {
		return nil, fmt.Errorf("%w: no ticker in %q", ErrInvalidTicker, s)
	}
	return tickers, nil
}

// MemoryProvider is a Provider serving fixed series, mostly useful in tests.
type MemoryProvider struct {
	prices    map[string][]PricePoint
	dividends map[string][]DividendEvent

	// Err, if set, is returned by every call.
	Err error
}

// NewMemoryProvider returns an empty MemoryProvider.
func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{
		prices:    make(map[string][]PricePoint),
		dividends: make(map[string][]DividendEvent),
	}
}

// AddPrices appends prices for symbol.
func (m *MemoryProvider) AddPrices(symbol string, prices ...PricePoint) *MemoryProvider {
	m.prices[symbol] = append(m.prices[symbol], prices...)
	return m
}

// AddDividends appends dividend events for symbol.
func (m *MemoryProvider) AddDividends(symbol string, events ...DividendEvent) *MemoryProvider {
	m.dividends[symbol] = append(m.dividends[symbol], events...)
	return m
}

func (m *MemoryProvider) Name() string { return "memory" }

func (m *MemoryProvider) Dividends(ctx context.Context, symbol string, r date.Range) ([]DividendEvent, error) {
	if err := m.check(ctx); err != nil {
		return nil, err
	}
	var events []DividendEvent
	for _, e := range m.dividends[symbol] {
		if r.Contains(e.Date) {
			events = append(events, e)
		}
	}
	if len(events) == 0 {
		return nil, fmt.Errorf("%s dividends %s: %w", symbol, r, ErrNoData)
	}
	return events, nil
}

// Prices returns the stored prices in r, keeping the last one of each iv period.
func (m *MemoryProvider) Prices(ctx context.Context, symbol string, r date.Range, iv Interval) ([]PricePoint, error) {
	if err := m.check(ctx); err != nil {
		return nil, err
	}
	h := new(date.History[PricePoint])
	for _, p := range m.prices[symbol] {
		if r.Contains(p.Date) {
			h.Append(p.Date.StartOf(iv.Period()), p)
		}
	}
	if h.Len() == 0 {
		return nil, fmt.Errorf("%s prices %s: %w", symbol, r, ErrNoData)
	}
	prices := make([]PricePoint, 0, h.Len())
	for on, p := range h.Values() {
		prices = append(prices, PricePoint{Date: on, Close: p.Close})
	}
	return prices, nil
}

func (m *MemoryProvider) check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return m.Err
}
