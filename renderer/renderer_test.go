package renderer

import (
	"strings"
	"testing"
	"time"

	"github.com/etnz/divyield"
	"github.com/etnz/divyield/date"
	"github.com/shopspring/decimal"
)

func yp(y int, m time.Month, d int, v string) divyield.YieldPoint {
	return divyield.YieldPoint{Date: date.New(y, m, d), Value: decimal.RequireFromString(v)}
}

func TestRenderYieldSummary(t *testing.T) {
	t.Setenv("DIVYIELD_TESTING_NOW", "2025-07-01 08:00:00")
	series := []divyield.YieldPoint{
		yp(2025, time.June, 25, "1.2100"),
		yp(2025, time.June, 26, "1.1900"),
		yp(2025, time.June, 27, "1.2000"),
		yp(2025, time.June, 30, "1.2300"),
	}
	dividends := []divyield.DividendEvent{
		{Date: date.New(2025, time.March, 21), Amount: decimal.RequireFromString("1.6964"), Currency: "USD"},
		{Date: date.New(2025, time.June, 27), Amount: decimal.RequireFromString("1.76"), Currency: "USD"},
	}
	s := NewYieldSummary("SPY", "yahoo", divyield.ParseLookback("1mo"), divyield.Daily, series, dividends)
	got := RenderYieldSummary(s)

	for _, want := range []string{
		"# SPY dividend yield",
		"TTM yield from 2025-06-25 to 2025-06-30, daily, last 1mo (4 points, source yahoo).",
		"| Latest | 2025-06-30 | 1.23% |",
		"| Minimum | 2025-06-26 | 1.19% |",
		"| Maximum | 2025-06-30 | 1.23% |",
		"| SMA(3) | 2025-06-30 | 1.21% |",
		"Momentum: **up**",
		"| 2025-06-27 | $1.76 |",
		"| **Total** | **$1.76** |",
		"_Generated on 2025-07-01 08:00_",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("RenderYieldSummary() does not contain %q:\n%s", want, got)
		}
	}
	// the March dividend is before the series.
	if strings.Contains(got, "2025-03-21") {
		t.Errorf("RenderYieldSummary() contains a dividend out of the period:\n%s", got)
	}
	if strings.Contains(got, "error") {
		t.Errorf("RenderYieldSummary() failed:\n%s", got)
	}
}

func TestRenderYieldSummary_Empty(t *testing.T) {
	s := NewYieldSummary("SPY", "eodhd", divyield.DefaultLookback, divyield.Monthly, nil, nil)
	got := RenderYieldSummary(s)
	for _, want := range []string{"No yield point over the last 11mo (source eodhd).", "No dividend paid over the period."} {
		if !strings.Contains(got, want) {
			t.Errorf("RenderYieldSummary() does not contain %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "Statistics") {
		t.Errorf("RenderYieldSummary() has statistics without points:\n%s", got)
	}
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		amount   string
		currency string
		want     string
	}{
		{"1.76", "USD", "$1.76"},
		{"2", "USD", "$2.00"},
		{"1.6964", "USD", "$1.6964"},
		{"0.5", "", "0.5"},
		{"0.5", "XXY", "0.5 XXY"},
	}
	for _, tt := range tests {
		if got := formatMoney(decimal.RequireFromString(tt.amount), tt.currency); got != tt.want {
			t.Errorf("formatMoney(%s, %q) = %q, want %q", tt.amount, tt.currency, got, tt.want)
		}
	}
}
