package eodhd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/etnz/divyield"
	"github.com/shopspring/decimal"
)

// jwget performs an HTTP GET request to the given address and unmarshals the
// JSON response body into data. Numbers are decoded as json.Number.
//
// A 404 is reported as divyield.ErrNoData.
func jwget(ctx context.Context, client *http.Client, addr string, data any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		// the url holds the api token.
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

// toDecimal converts a decoded JSON value to a decimal.
func toDecimal(v any) (decimal.Decimal, bool) {
	switch x := v.(type) {
	case json.Number:
		d, err := decimal.NewFromString(x.String())
		return d, err == nil
	case float64:
		return decimal.NewFromFloat(x), true
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(x))
		return d, err == nil
	default:
		return decimal.Zero, false
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
