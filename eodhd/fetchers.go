package eodhd

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/divyield"
	"github.com/etnz/divyield/date"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// This file contains functions to access the EODHD API.

// endpoint returns the url of an api path for ticker, from and to are included.
func (c *Client) endpoint(path, ticker string, r date.Range, extra url.Values) string {
	q := url.Values{}
	q.Set("api_token", c.apiKey)
	q.Set("fmt", "json")
	q.Set("from", r.From.String())
	q.Set("to", r.To.String())
	for k, v := range extra {
		q[k] = v
	}
	return fmt.Sprintf("%s/api/%s/%s?%s", c.baseURL, path, url.PathEscape(ticker), q.Encode())
}

// fetchDividends returns the dividend history for a given EODHD ticker.
func (c *Client) fetchDividends(ctx context.Context, ticker string, r date.Range) ([]divyield.DividendEvent, error) {
	// https://eodhd.com/api/div/AAPL.US?api_token=demo&fmt=json&from=2023-01-01
	// [
	//   {
	//     "date": "2023-02-10",
	//     "declarationDate": "2023-02-02",
	//     "recordDate": "2023-02-13",
	//     "paymentDate": "2023-02-16",
	//     "period": "Quarterly",
	//     "value": 0.23,
	//     "unadjustedValue": 0.23,
	//     "currency": "USD"
	//   },
	type apiDividend struct {
		Date     date.Date       `json:"date"` // ex-dividend date
		Value    decimal.Decimal `json:"value"`
		Currency string          `json:"currency"`
	}

	content := make([]apiDividend, 0)
	if err := jwget(ctx, c.http, c.endpoint("div", ticker, r, nil), &content); err != nil {
		return nil, err
	}
	if len(content) == 0 {
		return nil, divyield.ErrNoData
	}

	events := make([]divyield.DividendEvent, 0, len(content))
	for _, d := range content {
		if !r.Contains(d.Date) {
			continue
		}
		events = append(events, divyield.DividendEvent{
			Date:     d.Date,
			Amount:   d.Value,
			Currency: currencyCode(d.Currency),
		})
	}
	if len(events) == 0 {
		return nil, divyield.ErrNoData
	}
	return events, nil
}

// periods maps intervals to the eodhd period parameter.
var periods = map[divyield.Interval]string{
	divyield.OneDay:   "d",
	divyield.OneWeek:  "w",
	divyield.OneMonth: "m",
}

// fetchPrices returns the closes for a given EODHD ticker.
func (c *Client) fetchPrices(ctx context.Context, ticker string, r date.Range, iv divyield.Interval) ([]divyield.PricePoint, error) {
	// https://eodhd.com/api/eod/SPY.US?api_token=demo&fmt=json&period=d
	// [
	//	{
	//		"date": "2024-02-13",
	//		"open": 494.53,
	//		"high": 494.8,
	//		"low": 489.58,
	//		"close": 494.08,
	//		"adjusted_close": 486.4467,
	//		"volume": 113099200
	//	},
	period, ok := periods[iv]
	if !ok {
		return nil, fmt.Errorf("unsupported interval %q", iv)
	}

	// rows are decoded generically, the close is read with the compiled field list.
	content := make([]map[string]any, 0)
	if err := jwget(ctx, c.http, c.endpoint("eod", ticker, r, url.Values{"period": {period}}), &content); err != nil {
		return nil, err
	}

	prices := make([]divyield.PricePoint, 0, len(content))
	for _, row := range content {
		s, _ := row["date"].(string)
		on, err := date.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("invalid row %v: %w", row, err)
		}
		value, field, err := c.close(ctx, row)
		if err != nil {
			c.logger.Debug("skipped row", zap.String("ticker", ticker), zap.Stringer("date", on), zap.Error(err))
			continue
		}
		if field != c.fields[0].name {
			c.logger.Debug("fallback price field", zap.String("ticker", ticker), zap.Stringer("date", on), zap.String("field", field))
		}
		prices = append(prices, divyield.PricePoint{Date: on, Close: value})
	}
	if len(prices) == 0 {
		return nil, divyield.ErrNoData
	}
	return prices, nil
}

// compileFields compiles field names into JSONPath evaluables.
func compileFields(names []string) ([]priceField, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("eodhd: empty price field list")
	}
	fields := make([]priceField, 0, len(names))
	for _, name := range names {
		path := name
		if !strings.HasPrefix(path, "$") {
			path = "$." + name
		}
		eval, err := jsonpath.New(path)
		if err != nil {
			return nil, fmt.Errorf("eodhd: invalid price field %q: %w", name, err)
		}
		fields = append(fields, priceField{name: name, eval: eval})
	}
	return fields, nil
}

// close returns the first price field of row holding a number, and its name.
func (c *Client) close(ctx context.Context, row map[string]any) (decimal.Decimal, string, error) {
	for _, f := range c.fields {
		v, err := f.eval(ctx, row)
		if err != nil {
			continue
		}
		if d, ok := toDecimal(v); ok {
			return d, f.name, nil
		}
	}
	return decimal.Zero, "", errNoField
}
