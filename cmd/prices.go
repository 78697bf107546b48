package cmd

import (
	"context"
	"errors"
	"flag"

	"github.com/etnz/divyield"
	"github.com/etnz/divyield/date"
	"github.com/etnz/divyield/internal/logger"
	"github.com/google/subcommands"
)

// pricesCmd holds the flags for the 'prices' subcommand.
type pricesCmd struct {
	session

	tickers  string
	period   string
	interval string
}

func (*pricesCmd) Name() string     { return "prices" }
func (*pricesCmd) Synopsis() string { return "print the close prices of several tickers as JSON" }
func (*pricesCmd) Usage() string {
	return `divyield prices -tickers SPY,VTI [-period 11mo] [-interval 1d|1wk|1mo] [-provider yahoo|eodhd]

  Prints the close prices of each ticker over the lookback period ending today:

    {"symbols":["SPY","VTI"],"series":{"SPY":[{"date":"2025-06-30","value":617.85},...],"VTI":[...]}}

  Tickers are trimmed, upper-cased and de-duplicated, in order. A ticker without data
  gets an empty series.
`
}

func (c *pricesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.tickers, "tickers", "", "Comma separated list of tickers (required).")
	f.StringVar(&c.period, "period", divyield.DefaultLookback.String(), "Lookback period: <n>d, <n>mo or <n>y.")
	f.StringVar(&c.interval, "interval", string(divyield.OneDay), "Bar interval: 1d, 1wk or 1mo.")
	c.setProviderFlags(f)
}

func (c *pricesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	c.name = c.Name()
	if status, ok := c.open(); !ok {
		return status
	}
	defer c.close()

	symbols, err := divyield.ParseTickers(c.tickers)
	if err != nil {
		c.errorf("-tickers: %v", err)
		return subcommands.ExitUsageError
	}
	iv, err := divyield.ParseInterval(c.interval)
	if err != nil {
		c.errorf("-interval: %v", err)
		return subcommands.ExitUsageError
	}
	r := divyield.ParseLookback(c.period).Window(c.today)

	payload, err := fetchPrices(ctx, c.market, c.log, symbols, r, iv)
	if err != nil {
		c.errorf("%v", err)
		return exitStatus(err)
	}
	if err := divyield.Encode(c.stdout, payload); err != nil {
		c.errorf("cannot write the prices: %v", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// fetchPrices fetches the prices of every symbol in r. A symbol without data gets an
// empty series, any other error aborts.
func fetchPrices(ctx context.Context, p divyield.Provider, log *logger.Logger, symbols []string, r date.Range, iv divyield.Interval) (*divyield.PricesPayload, error) {
	payload := divyield.NewPricesPayload(symbols...)
	for _, symbol := range symbols {
		prices, err := p.Prices(ctx, symbol, r, iv)
		switch {
		case errors.Is(err, divyield.ErrNoData):
			log.Warn("no price", logger.NewField("symbol", symbol), logger.NewField("range", r.String()))
		case err != nil:
			return nil, err
		}
		payload.Set(symbol, prices)
	}
	return payload, nil
}
