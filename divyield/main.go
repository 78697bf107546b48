// Command divyield prints the trailing twelve months dividend yield of a fund, and the
// close prices of tickers, from Yahoo Finance or eodhd.com.
package main

import (
	"context"
	"flag"
	"maps"
	"os"
	"os/signal"
	"path"
	"syscall"

	"github.com/etnz/divyield/cmd"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// completion describes the command line for shell completion.
func completion() *complete.Command {
	providers := predict.Set{"yahoo", "eodhd"}
	periods := predict.Set{"1mo", "3mo", "6mo", "11mo", "1y", "2y"}
	yield := map[string]complete.Predictor{
		"period":        periods,
		"ticker":        predict.Something,
		"source":        predict.Set{"spy"},
		"granularity":   predict.Set{"daily", "monthly"},
		"provider":      providers,
		"eodhd-api-key": predict.Something,
	}
	summary := map[string]complete.Predictor{"raw": predict.Nothing}
	maps.Copy(summary, yield)
	return &complete.Command{
		Sub: map[string]*complete.Command{
			"yield":   {Flags: yield},
			"summary": {Flags: summary},
			"prices": {Flags: map[string]complete.Predictor{
				"tickers":       predict.Something,
				"period":        periods,
				"interval":      predict.Set{"1d", "1wk", "1mo"},
				"provider":      providers,
				"eodhd-api-key": predict.Something,
			}},
			"topic": {
				Flags: map[string]complete.Predictor{"raw": predict.Nothing},
				Args:  predict.Set{"readme", "yield", "prices", "providers", "configuration", "*"},
			},
			"help":     {},
			"flags":    {},
			"commands": {},
		},
		Flags: map[string]complete.Predictor{"v": predict.Nothing},
	}
}

func main() {
	name := path.Base(os.Args[0])
	// exits when invoked by the shell for completion.
	completion().Complete(name)

	commander := subcommands.NewCommander(flag.CommandLine, name)
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	status := commander.Execute(ctx)
	stop()
	os.Exit(int(status))
}
