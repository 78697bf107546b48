package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/divyield/renderer"
	"github.com/google/subcommands"
)

// summaryCmd holds the flags for the 'summary' subcommand.
type summaryCmd struct {
	session
	yieldFlags

	raw bool
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display a dividend yield report" }
func (*summaryCmd) Usage() string {
	return `divyield summary [-period 11mo] [-ticker SPY] [-granularity daily|monthly] [-raw]

  Displays the trailing twelve months dividend yield of a fund over the lookback period:
  its latest, minimum and maximum values, its moving average and momentum, and the
  dividends paid.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	c.yieldFlags.SetFlags(f)
	c.setProviderFlags(f)
	f.BoolVar(&c.raw, "raw", false, "Print the markdown source instead of rendering it.")
}

func (c *summaryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	s := renderer.NewYieldSummary(q.symbol, c.market.Name(), q.lookback, q.granularity, res.series, res.dividends)
	md := renderer.RenderYieldSummary(s)
	if c.raw {
		fmt.Fprint(c.stdout, md)
		return subcommands.ExitSuccess
	}
	if err := printMarkdown(c.stdout, md); err != nil {
		c.errorf("%v", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// printMarkdown renders md for the terminal.
func printMarkdown(w io.Writer, md string) error {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return fmt.Errorf("cannot create markdown renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return fmt.Errorf("cannot render markdown: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}
