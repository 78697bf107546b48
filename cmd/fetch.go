package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/etnz/divyield"
	"github.com/etnz/divyield/date"
	"github.com/etnz/divyield/internal/logger"
)

// yieldFlags are the inputs of the commands computing a yield series.
type yieldFlags struct {
	period      string
	ticker      string
	source      string
	granularity string
}

func (y *yieldFlags) SetFlags(f *flag.FlagSet) {
	f.StringVar(&y.period, "period", divyield.DefaultLookback.String(), "Lookback period of the series: <n>d, <n>mo or <n>y.")
	f.StringVar(&y.ticker, "ticker", "SPY", "Symbol of the fund.")
	f.StringVar(&y.source, "source", "spy", "Dividend yield source. Only spy is supported.")
	f.StringVar(&y.granularity, "granularity", "daily", "Series granularity, daily or monthly.")
}

// yieldRequest is a validated yieldFlags.
type yieldRequest struct {
	symbol      string
	lookback    divyield.Lookback
	granularity divyield.Granularity
}

// parse validates the flags. A bad granularity is a usage error, a bad ticker or
// source is a runtime one.
func (y *yieldFlags) parse() (yieldRequest, error) {
	g, err := divyield.ParseGranularity(y.granularity)
	if err != nil {
		return yieldRequest{}, usageError{err}
	}
	if g == divyield.Auto {
		g = divyield.Daily
	}
	if s := strings.ToLower(strings.TrimSpace(y.source)); s != "spy" {
		return yieldRequest{}, fmt.Errorf("unsupported source %q, only spy is supported", y.source)
	}
	symbol, err := divyield.NormalizeTicker(y.ticker)
	if err != nil {
		return yieldRequest{}, err
	}
	return yieldRequest{symbol: symbol, lookback: divyield.ParseLookback(y.period), granularity: g}, nil
}

// dividendHistory is how far before the first price dividends are fetched, so that
// the first point already sees a full year of them.
const dividendHistory = 366

// priceRange returns the prices to fetch for a series ending on today.
func (q yieldRequest) priceRange(today date.Date) date.Range {
	start := q.lookback.Start(today)
	if q.granularity == divyield.Monthly {
		// a whole TTM before the window, month-ends are needed back to there.
		return date.NewRange(start.AddMonth(-divyield.TTMMonths).StartOf(date.Monthly), today)
	}
	// a week of margin for the holidays at the window start.
	return date.NewRange(start.Add(-7), today)
}

// yieldResult is the fetched data and its TTM yield series.
type yieldResult struct {
	series    []divyield.YieldPoint
	dividends []divyield.DividendEvent
}

// fetchYield fetches the prices and dividends of q.symbol and computes the series ending
// on the last price on or before today. Missing data yields an empty series.
func fetchYield(ctx context.Context, p divyield.Provider, log *logger.Logger, q yieldRequest, today date.Date) (yieldResult, error) {
	log = log.WithFields(logger.NewField("symbol", q.symbol))
	pr := q.priceRange(today)
	prices, err := p.Prices(ctx, q.symbol, pr, q.granularity.Interval())
	switch {
	case errors.Is(err, divyield.ErrNoData):
		log.Warn("no price", logger.NewField("range", pr.String()))
		return yieldResult{}, nil
	case err != nil:
		return yieldResult{}, err
	}

	since := pr.From.Add(-dividendHistory)
	dividends, err := p.Dividends(ctx, q.symbol, date.NewRange(since, today))
	switch {
	case errors.Is(err, divyield.ErrNoData):
		log.Info("no dividend")
		dividends = nil
	case err != nil:
		return yieldResult{}, err
	}

	series := divyield.TTMYield(divyield.YieldInput{
		Prices:         prices,
		Dividends:      dividends,
		DividendsSince: since,
		Granularity:    q.granularity,
		Lookback:       q.lookback,
	})
	log.Debug("yield",
		logger.NewField("prices", len(prices)),
		logger.NewField("dividends", len(dividends)),
		logger.NewField("points", len(series)),
	)
	return yieldResult{series: series, dividends: dividends}, nil
}
