package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/etnz/divyield"
	"github.com/etnz/divyield/date"
	"github.com/etnz/divyield/internal/config"
	"github.com/etnz/divyield/internal/logger"
	"github.com/google/go-cmp/cmp"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

var today = date.New(2025, time.June, 30)

// market returns a provider with a constant 100 close for SPY since 2022, and a 1.00
// dividend every quarter since 2021.
func market() *divyield.MemoryProvider {
	m := divyield.NewMemoryProvider()
	for d := date.New(2022, time.January, 1); !d.After(today); d = d.Add(1) {
		m.AddPrices("SPY", divyield.PricePoint{Date: d, Close: decimal.NewFromInt(100)})
	}
	for y := 2021; y <= 2025; y++ {
		for _, month := range []time.Month{time.March, time.June, time.September, time.December} {
			m.AddDividends("SPY", divyield.DividendEvent{Date: date.New(y, month, 15), Amount: decimal.NewFromInt(1), Currency: "USD"})
		}
	}
	return m
}

// testSession returns a session using p, writing to the returned buffers.
func testSession(t *testing.T, p divyield.Provider) (session, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	cfg, err := config.Parse(map[string]string{})
	if err != nil {
		t.Fatalf("config.Parse() unexpected error: %v", err)
	}
	stdout, stderr := new(bytes.Buffer), new(bytes.Buffer)
	return session{
		stdout: stdout,
		stderr: stderr,
		cfg:    cfg,
		log:    logger.Nop(),
		market: p,
		today:  today,
	}, stdout, stderr
}

// run parses args and executes c.
func run(t *testing.T, c subcommands.Command, args ...string) subcommands.ExitStatus {
	t.Helper()
	f := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	c.SetFlags(f)
	if err := f.Parse(args); err != nil {
		t.Fatalf("cannot parse %v: %v", args, err)
	}
	return c.Execute(context.Background(), f)
}

type jsonPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

type jsonYield struct {
	Symbol string      `json:"symbol"`
	Series []jsonPoint `json:"series"`
}

func decodeYield(t *testing.T, b *bytes.Buffer) jsonYield {
	t.Helper()
	var got jsonYield
	if err := json.Unmarshal(b.Bytes(), &got); err != nil {
		t.Fatalf("invalid output %q: %v", b.String(), err)
	}
	return got
}

// constant returns one point per day in [from, to] with value v.
func constant(from, to date.Date, v float64) []jsonPoint {
	var points []jsonPoint
	for d := range date.NewRange(from, to).Days() {
		points = append(points, jsonPoint{Date: d.String(), Value: v})
	}
	return points
}

func TestYieldCmd_Daily(t *testing.T) {
	s, stdout, stderr := testSession(t, market())
	c := &yieldCmd{session: s}

	if status := run(t, c, "-period", "1mo"); status != subcommands.ExitSuccess {
		t.Fatalf("yield exit status = %v, stderr: %s", status, stderr)
	}
	if !strings.HasSuffix(stdout.String(), "}\n") {
		t.Errorf("yield output is not a single JSON line: %q", stdout)
	}
	got := decodeYield(t, stdout)
	want := jsonYield{
		Symbol: "SPY",
		Series: constant(date.New(2025, time.May, 31), today, 4),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("yield mismatch (-want +got):\n%s", diff)
	}
	if stderr.Len() != 0 {
		t.Errorf("yield wrote on stderr: %s", stderr)
	}
}

func TestYieldCmd_Monthly(t *testing.T) {
	s, stdout, stderr := testSession(t, market())
	c := &yieldCmd{session: s}

	if status := run(t, c, "-period", "3mo", "-granularity", "monthly", "-ticker", " spy "); status != subcommands.ExitSuccess {
		t.Fatalf("yield exit status = %v, stderr: %s", status, stderr)
	}
	want := jsonYield{
		Symbol: "SPY",
		Series: []jsonPoint{
			{Date: "2025-04-30", Value: 4},
			{Date: "2025-05-31", Value: 4},
			{Date: "2025-06-30", Value: 4},
		},
	}
	if diff := cmp.Diff(want, decodeYield(t, stdout)); diff != "" {
		t.Errorf("yield mismatch (-want +got):\n%s", diff)
	}
}

func TestYieldCmd_NoData(t *testing.T) {
	s, stdout, stderr := testSession(t, market())
	c := &yieldCmd{session: s}

	if status := run(t, c, "-ticker", "QQQ"); status != subcommands.ExitSuccess {
		t.Fatalf("yield exit status = %v, stderr: %s", status, stderr)
	}
	if got, want := stdout.String(), `{"symbol":"QQQ","series":[]}`+"\n"; got != want {
		t.Errorf("yield output = %q, want %q", got, want)
	}
}

func TestYieldCmd_Errors(t *testing.T) {
	failing := market()
	failing.Err = errors.New("connection refused")

	tests := []struct {
		name   string
		market divyield.Provider
		args   []string
		status subcommands.ExitStatus
		stderr string
	}{
		{"ticker list", market(), []string{"-ticker", "SPY,QQQ"}, subcommands.ExitFailure, "invalid ticker"},
		{"empty ticker", market(), []string{"-ticker", ""}, subcommands.ExitFailure, "invalid ticker"},
		{"source", market(), []string{"-source", "qqq"}, subcommands.ExitFailure, "unsupported source"},
		{"granularity", market(), []string{"-granularity", "hourly"}, subcommands.ExitUsageError, "hourly"},
		{"provider", failing, nil, subcommands.ExitFailure, "connection refused"},
		{"unknown provider", nil, []string{"-provider", "bloomberg"}, subcommands.ExitUsageError, "unknown provider"},
		{"eodhd key", nil, []string{"-provider", "eodhd"}, subcommands.ExitUsageError, "EODHD_API_KEY"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, stdout, stderr := testSession(t, tt.market)
			c := &yieldCmd{session: s}
			if got := run(t, c, tt.args...); got != tt.status {
				t.Errorf("yield exit status = %v, want %v", got, tt.status)
			}
			if stdout.Len() != 0 {
				t.Errorf("yield wrote on stdout: %s", stdout)
			}
			if got := stderr.String(); !strings.HasPrefix(got, "[yield] Error: ") || !strings.Contains(got, tt.stderr) {
				t.Errorf("yield stderr = %q, want an error about %q", got, tt.stderr)
			}
		})
	}
}

type jsonPrices struct {
	Symbols []string               `json:"symbols"`
	Series  map[string][]jsonPoint `json:"series"`
}

func TestPricesCmd(t *testing.T) {
	s, stdout, stderr := testSession(t, market())
	c := &pricesCmd{session: s}

	if status := run(t, c, "-tickers", "spy, vti,SPY", "-period", "5d"); status != subcommands.ExitSuccess {
		t.Fatalf("prices exit status = %v, stderr: %s", status, stderr)
	}
	var got jsonPrices
	if err := json.Unmarshal(stdout.Bytes(), &got); err != nil {
		t.Fatalf("invalid output %q: %v", stdout, err)
	}
	want := jsonPrices{
		Symbols: []string{"SPY", "VTI"},
		Series: map[string][]jsonPoint{
			"SPY": constant(date.New(2025, time.June, 26), today, 100),
			"VTI": {},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("prices mismatch (-want +got):\n%s", diff)
	}
	if !strings.HasPrefix(stdout.String(), `{"symbols":["SPY","VTI"],"series":{"SPY":[{"date":"2025-06-26","value":100},`) {
		t.Errorf("prices output = %s", stdout)
	}
}

func TestPricesCmd_Errors(t *testing.T) {
	failing := market()
	failing.Err = errors.New("connection refused")

	tests := []struct {
		name   string
		market divyield.Provider
		args   []string
		status subcommands.ExitStatus
	}{
		{"no tickers", market(), nil, subcommands.ExitUsageError},
		{"blank tickers", market(), []string{"-tickers", " , "}, subcommands.ExitUsageError},
		{"interval", market(), []string{"-tickers", "SPY", "-interval", "1h"}, subcommands.ExitUsageError},
		{"provider", failing, []string{"-tickers", "SPY"}, subcommands.ExitFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, stdout, stderr := testSession(t, tt.market)
			c := &pricesCmd{session: s}
			if got := run(t, c, tt.args...); got != tt.status {
				t.Errorf("prices exit status = %v, want %v", got, tt.status)
			}
			if stdout.Len() != 0 {
				t.Errorf("prices wrote on stdout: %s", stdout)
			}
			if !strings.HasPrefix(stderr.String(), "[prices] Error: ") {
				t.Errorf("prices stderr = %q", stderr)
			}
		})
	}
}

func TestSummaryCmd(t *testing.T) {
	t.Setenv("DIVYIELD_TESTING_NOW", "2025-06-30 18:00:00")
	s, stdout, stderr := testSession(t, market())
	c := &summaryCmd{session: s}

	if status := run(t, c, "-raw", "-period", "1mo"); status != subcommands.ExitSuccess {
		t.Fatalf("summary exit status = %v, stderr: %s", status, stderr)
	}
	for _, want := range []string{
		"# SPY dividend yield",
		"TTM yield from 2025-05-31 to 2025-06-30, daily, last 1mo (31 points, source memory).",
		"| Latest | 2025-06-30 | 4.00% |",
		"| 2025-06-15 | $1.00 |",
	} {
		if !strings.Contains(stdout.String(), want) {
			t.Errorf("summary does not contain %q:\n%s", want, stdout)
		}
	}
}

func TestNewProvider(t *testing.T) {
	cfg, err := config.Parse(map[string]string{"EODHD_API_KEY": "demo"})
	if err != nil {
		t.Fatalf("config.Parse() unexpected error: %v", err)
	}
	for name, want := range map[string]string{"": "yahoo", "Yahoo": "yahoo", "eodhd": "eodhd"} {
		p, err := newProvider(cfg, logger.Nop(), name, "")
		if err != nil {
			t.Errorf("newProvider(%q) unexpected error: %v", name, err)
			continue
		}
		if p.Name() != want {
			t.Errorf("newProvider(%q) = %s, want %s", name, p.Name(), want)
		}
	}
	if _, err := newProvider(cfg, logger.Nop(), "bloomberg", ""); exitStatus(err) != subcommands.ExitUsageError {
		t.Errorf("newProvider(bloomberg) error = %v, want a usage error", err)
	}
}

func TestTopicCmd(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		status subcommands.ExitStatus
		stdout string
		stderr string
	}{
		{"raw topic", []string{"-raw", "yield"}, subcommands.ExitSuccess, "# yield\n", ""},
		{"raw index", []string{"-raw"}, subcommands.ExitSuccess, "# divyield", ""},
		{"unknown topic", []string{"-raw", "nope"}, subcommands.ExitUsageError, "", `[topic] Error: topic "nope" not found`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, stderr := new(bytes.Buffer), new(bytes.Buffer)
			c := &topicCmd{session: session{stdout: stdout, stderr: stderr}}
			if got := run(t, c, tt.args...); got != tt.status {
				t.Errorf("topic exit status = %v, want %v", got, tt.status)
			}
			if !strings.HasPrefix(stdout.String(), tt.stdout) || (tt.stdout == "" && stdout.Len() != 0) {
				t.Errorf("topic stdout = %q, want %q", stdout, tt.stdout)
			}
			if !strings.HasPrefix(stderr.String(), tt.stderr) || (tt.stderr == "" && stderr.Len() != 0) {
				t.Errorf("topic stderr = %q, want %q", stderr, tt.stderr)
			}
		})
	}
}

func TestFetchYield_Log(t *testing.T) {
	path := filepath.Join(t.TempDir(), "divyield.log")
	cfg, err := config.Parse(map[string]string{"DIVYIELD_LOG_OUTPUT": path})
	if err != nil {
		t.Fatalf("config.Parse() unexpected error: %v", err)
	}
	log, err := newLogger(cfg)
	if err != nil {
		t.Fatalf("newLogger() unexpected error: %v", err)
	}
	q := yieldRequest{symbol: "QQQ", lookback: divyield.DefaultLookback, granularity: divyield.Daily}
	if _, err := fetchYield(context.Background(), market(), log.Named("yield"), q, today); err != nil {
		t.Fatalf("fetchYield() unexpected error: %v", err)
	}
	_ = log.Sync()

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"WARN", "yield", "no price", `"symbol": "QQQ"`} {
		if !strings.Contains(string(content), want) {
			t.Errorf("log does not contain %q:\n%s", want, content)
		}
	}
}
