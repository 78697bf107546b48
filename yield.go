package divyield

import (
	"slices"

	"github.com/etnz/divyield/date"
	"github.com/shopspring/decimal"
)

const (
	// YieldPrecision is the number of decimal places of a yield value.
	YieldPrecision = 4

	// TTMDays is the length of the daily trailing window.
	TTMDays = 365

	// TTMMonths is the length of the monthly trailing window.
	TTMMonths = 12

	// MinObservedDays is the dividend history required before a daily value is defined.
	MinObservedDays = 60
)

var hundred = decimal.NewFromInt(100)

// YieldInput holds everything TTMYield needs.
type YieldInput struct {
	Prices    []PricePoint
	Dividends []DividendEvent

	// DividendsSince is the first day covered by Dividends.
	// The zero value means Dividends is the complete history of the security.
	DividendsSince date.Date

	Granularity Granularity // Auto if unset
	Lookback    Lookback    // DefaultLookback if unset
}

// TTMYield computes the trailing twelve months dividend yield series.
//
// Every point is dated on a day of the price series (a month end for monthly series).
// Its value is the sum of the dividends paid over the trailing window ending that day,
// divided by the close of that day, in percent, rounded to YieldPrecision places. A
// close lower or equal to zero gives a zero yield.
//
// The daily window is the last TTMDays days. The monthly window is the last TTMMonths
// calendar months, and requires all of them to be in the price series, otherwise the
// latest defined sum is carried forward.
//
// Only points in the lookback window ending on the last price day are returned, in
// chronological order.
func TTMYield(in YieldInput) []YieldPoint {
	g := in.Granularity
	if g == Auto {
		g = DetectGranularity(in.Prices)
	}
	lookback := in.Lookback
	if lookback.IsZero() {
		lookback = DefaultLookback
	}

	prices := priceHistory(in.Prices, g)
	if prices.Len() == 0 {
		return nil
	}
	dividends := dividendHistory(in.Dividends)

	if g == Monthly {
		return monthlyYield(prices, dividends, in.DividendsSince, lookback)
	}
	return dailyYield(prices, dividends, in.DividendsSince, lookback)
}

// priceHistory aligns prices on the grid of g, the latest close wins.
func priceHistory(points []PricePoint, g Granularity) *date.History[decimal.Decimal] {
	sorted := slices.Clone(points)
	// stable, so that for identical dates the last in input order wins.
	slices.SortStableFunc(sorted, func(a, b PricePoint) int { return a.Date.Compare(b.Date) })

	h := new(date.History[decimal.Decimal])
	for _, p := range sorted {
		on := p.Date
		if g == Monthly {
			on = on.EndOf(date.Monthly)
		}
		h.Append(on, p.Close)
	}
	return h
}

// dividendHistory sums dividends per day. Days without an event are implicitly zero.
func dividendHistory(events []DividendEvent) *date.History[decimal.Decimal] {
	h := new(date.History[decimal.Decimal])
	for _, e := range events {
		h.Merge(e.Date, e.Amount, decimal.Decimal.Add)
	}
	return h
}

// sum returns the total of the dividends paid in r.
func sum(dividends *date.History[decimal.Decimal], r date.Range) decimal.Decimal {
	total := decimal.Zero
	for _, amount := range dividends.Between(r) {
		total = total.Add(amount)
	}
	return total
}

// yieldOf returns ttm/price in percent, zero when price is not positive.
func yieldOf(ttm, price decimal.Decimal) decimal.Decimal {
	if !price.IsPositive() {
		return decimal.Zero
	}
	return ttm.Div(price).Mul(hundred).Round(YieldPrecision)
}

func dailyYield(prices, dividends *date.History[decimal.Decimal], since date.Date, lookback Lookback) []YieldPoint {
	anchor, _ := prices.Latest()
	window := lookback.Window(anchor)

	var points []YieldPoint
	for on, price := range prices.Between(window) {
		if !since.IsZero() && on.Sub(since)+1 < MinObservedDays {
			continue
		}
		ttm := sum(dividends, date.Range{From: on.Add(1 - TTMDays), To: on})
		points = append(points, YieldPoint{Date: on, Value: yieldOf(ttm, price)})
	}
	return points
}

func monthlyYield(prices, dividends *date.History[decimal.Decimal], since date.Date, lookback Lookback) []YieldPoint {
	anchor, _ := prices.Latest()
	start := anchor.AddMonth(-lookback.Months()).EndOf(date.Monthly)

	var (
		points  []YieldPoint
		ttm     decimal.Decimal
		defined bool
	)
	for on, price := range prices.Values() {
		first := on.AddMonth(1 - TTMMonths).StartOf(date.Monthly)
		if complete(prices, on) && (since.IsZero() || !first.Before(since.StartOf(date.Monthly))) {
			ttm, defined = sum(dividends, date.Range{From: first, To: on}), true
		}
		// otherwise the previous ttm is carried forward, if any.
		if !defined || !on.After(start) {
			continue
		}
		points = append(points, YieldPoint{Date: on, Value: yieldOf(ttm, price)})
	}
	return points
}

// complete reports whether the TTMMonths month ends up to m are all in prices.
func complete(prices *date.History[decimal.Decimal], m date.Date) bool {
	for k := range TTMMonths {
		if _, ok := prices.Get(m.AddMonth(-k).EndOf(date.Monthly)); !ok {
			return false
		}
	}
	return true
}
