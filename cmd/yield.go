package cmd

import (
	"context"
	"flag"

	"github.com/etnz/divyield"
	"github.com/google/subcommands"
)

// yieldCmd holds the flags for the 'yield' subcommand.
type yieldCmd struct {
	session
	yieldFlags
}

func (*yieldCmd) Name() string     { return "yield" }
func (*yieldCmd) Synopsis() string { return "print the trailing twelve months dividend yield series as JSON" }
func (*yieldCmd) Usage() string {
	return `divyield yield [-period 11mo] [-ticker SPY] [-granularity daily|monthly] [-provider yahoo|eodhd]

  Prints the trailing twelve months dividend yield of a fund over the lookback period:

    {"symbol":"SPY","series":[{"date":"2025-06-30","value":1.2345},...]}

  Each value is the sum of the dividends paid over the year ending on that date, divided
  by the close price on that date, in percent. The series is empty when the provider
  has no price for the fund.
`
}

func (c *yieldCmd) SetFlags(f *flag.FlagSet) {
	c.yieldFlags.SetFlags(f)
	c.setProviderFlags(f)
}

func (c *yieldCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	c.name = c.Name()
	if status, ok := c.open(); !ok {
		return status
	}
	defer c.close()

	q, err := c.parse()
	if err != nil {
		c.errorf("%v", err)
		return exitStatus(err)
	}

	res, err := fetchYield(ctx, c.market, c.log, q, c.today)
	if err != nil {
		c.errorf("%v", err)
		return exitStatus(err)
	}

	if err := divyield.Encode(c.stdout, divyield.NewYieldPayload(q.symbol, res.series)); err != nil {
		c.errorf("cannot write the series: %v", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
