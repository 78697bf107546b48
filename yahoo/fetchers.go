package yahoo

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/PaesslerAG/gval"
	"github.com/PaesslerAG/jsonpath"
	"github.com/Rhymond/go-money"
	"github.com/etnz/divyield"
	"github.com/etnz/divyield/date"
	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// bounds returns the [start, end) instants covering r.
func bounds(r date.Range) (start, end time.Time) {
	// one more day on both sides, bars are filtered on their exchange date.
	return r.From.Add(-1).Time(), r.To.Add(2).Time()
}

// Prices returns the closes of symbol in r.
func (c *Client) Prices(ctx context.Context, symbol string, r date.Range, iv divyield.Interval) ([]divyield.PricePoint, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start, end := bounds(r)
	params := &chart.Params{
		Params:   finance.Params{Context: &ctx},
		Symbol:   symbol,
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Interval: datetime.Interval(iv),
	}

	raw, meta, status, err := c.chartBars(params)
	switch {
	case err != nil && status == http.StatusNotFound:
		return nil, fmt.Errorf("yahoo: prices of %s: %w: %v", symbol, divyield.ErrNoData, err)
	case err != nil:
		return nil, fmt.Errorf("yahoo: prices of %s: %w", symbol, err)
	case len(raw) == 0:
		return nil, fmt.Errorf("yahoo: prices of %s: %w", symbol, divyield.ErrNoData)
	}
	loc := location(meta.ExchangeTimezoneName)

	prices := make([]divyield.PricePoint, 0, len(raw))
	for _, b := range raw {
		on := date.FromTime(time.Unix(int64(b.Timestamp), 0).In(loc))
		if !r.Contains(on) {
			continue
		}
		value, ok := c.close(b)
		if !ok {
			c.logger.Debug("skipped bar", zap.String("symbol", symbol), zap.Stringer("date", on))
			continue
		}
		prices = append(prices, divyield.PricePoint{Date: on, Close: value})
	}
	if len(prices) == 0 {
		return nil, fmt.Errorf("yahoo: prices of %s: %w", symbol, divyield.ErrNoData)
	}
	c.logger.Debug("prices", zap.String("symbol", symbol), zap.Stringer("range", r), zap.Int("points", len(prices)))
	return prices, nil
}

// close returns the first non zero price field of b.
func (c *Client) close(b *finance.ChartBar) (decimal.Decimal, bool) {
	for _, f := range c.fields {
		if v := f.get(b); !v.IsZero() {
			return v, true
		}
	}
	return decimal.Zero, false
}

func mustCompile(path string) gval.Evaluable {
	eval, err := jsonpath.New(path)
	if err != nil {
		panic(err)
	}
	return eval
}

var (
	dividendsPath = mustCompile("$.chart.result[0].events.dividends")
	timezonePath  = mustCompile("$.chart.result[0].meta.exchangeTimezoneName")
	currencyPath  = mustCompile("$.chart.result[0].meta.currency")
	errorPath     = mustCompile("$.chart.error.description")
)

// lookup evaluates path on doc, false if there is nothing there.
func lookup(ctx context.Context, path gval.Evaluable, doc any) (any, bool) {
	v, err := path(ctx, doc)
	if err != nil || v == nil {
		return nil, false
	}
	return v, true
}

// Dividends returns the dividends of symbol with an ex-dividend date in r.
func (c *Client) Dividends(ctx context.Context, symbol string, r date.Range) ([]divyield.DividendEvent, error) {
	events, err := c.fetchDividends(ctx, symbol, r)
	if err != nil {
		return nil, fmt.Errorf("yahoo: dividends of %s: %w", symbol, err)
	}
	c.logger.Debug("dividends", zap.String("symbol", symbol), zap.Stringer("range", r), zap.Int("events", len(events)))
	return events, nil
}

func (c *Client) fetchDividends(ctx context.Context, symbol string, r date.Range) ([]divyield.DividendEvent, error) {
	// https://query2.finance.yahoo.com/v8/finance/chart/SPY?period1=1704067200&period2=1735689600&interval=1d&events=div
	// {"chart":{"result":[{
	//     "meta":{"currency":"USD","symbol":"SPY","exchangeTimezoneName":"America/New_York",...},
	//     "timestamp":[...],
	//     "events":{"dividends":{"1710509400":{"amount":1.595,"date":1710509400},...}},
	//     "indicators":{...}}],
	//   "error":null}}
	start, end := bounds(r)
	q := url.Values{}
	q.Set("period1", strconv.FormatInt(start.Unix(), 10))
	q.Set("period2", strconv.FormatInt(end.Unix(), 10))
	q.Set("interval", "1d")
	q.Set("events", "div")
	addr := fmt.Sprintf("%s/v8/finance/chart/%s?%s", c.baseURL, url.PathEscape(symbol), q.Encode())

	var doc any
	if err := jwget(ctx, c.http, addr, &doc); err != nil {
		return nil, err
	}
	if description, ok := lookup(ctx, errorPath, doc); ok {
		return nil, fmt.Errorf("%w: %v", divyield.ErrNoData, description)
	}
	jdividends, ok := lookup(ctx, dividendsPath, doc)
	if !ok {
		return nil, divyield.ErrNoData
	}
	dividends, ok := jdividends.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("unexpected dividends %T", jdividends)
	}

	tz, _ := lookup(ctx, timezonePath, doc)
	name, _ := tz.(string)
	loc := location(name)
	currency := ""
	if jcur, ok := lookup(ctx, currencyPath, doc); ok {
		currency = currencyCode(fmt.Sprint(jcur))
	}

	events := make([]divyield.DividendEvent, 0, len(dividends))
	for key, jdiv := range dividends {
		div, ok := jdiv.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("unexpected dividend %q: %v", key, jdiv)
		}
		amount, err := number(div["amount"])
		if err != nil {
			return nil, fmt.Errorf("invalid dividend amount %q: %w", key, err)
		}
		ts, err := number(div["date"])
		if err != nil {
			return nil, fmt.Errorf("invalid dividend date %q: %w", key, err)
		}
		on := date.FromTime(time.Unix(ts.IntPart(), 0).In(loc))
		if !r.Contains(on) {
			continue
		}
		events = append(events, divyield.DividendEvent{Date: on, Amount: amount, Currency: currency})
	}
	if len(events) == 0 {
		return nil, divyield.ErrNoData
	}
	// dividends are keyed by timestamp in a json object.
	slices.SortFunc(events, func(a, b divyield.DividendEvent) int {
		return cmp.Or(a.Date.Compare(b.Date), a.Amount.Cmp(b.Amount))
	})
	return events, nil
}

// number converts a decoded json number to a decimal.
func number(v any) (decimal.Decimal, error) {
	switch x := v.(type) {
	case json.Number:
		return decimal.NewFromString(x.String())
	case float64:
		return decimal.NewFromFloat(x), nil
	default:
		return decimal.Zero, fmt.Errorf("not a number: %v", v)
	}
}

// currencyCode returns the ISO 4217 code of c, or "" if it is not a known currency.
func currencyCode(c string) string {
	c = strings.ToUpper(strings.TrimSpace(c))
	if c == "" || money.GetCurrency(c) == nil {
		return ""
	}
	return c
}

// jwget performs an HTTP GET request to the given address and unmarshals the
// JSON response body into data. Numbers are decoded as json.Number.
func jwget(ctx context.Context, client *http.Client, addr string, data any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return err
	}
	// the chart endpoint rejects requests without a browser like agent.
	req.Header.Set("User-Agent", "Mozilla/5.0")
	resp, err := client.Do(req)
	if err != nil {
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return fmt.Errorf("cannot http GET %v%v: %w", req.URL.Host, req.URL.Path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return divyield.ErrNoData
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("cannot http GET %v%v: %v", req.URL.Host, req.URL.Path, resp.Status)
	}
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(data); err != nil {
		return fmt.Errorf("cannot decode %v%v: %w", req.URL.Host, req.URL.Path, err)
	}
	return nil
}
