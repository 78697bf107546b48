// Package eodhd implements a divyield.Provider backed by the eodhd.com API.
package eodhd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PaesslerAG/gval"
	"github.com/etnz/divyield"
	"github.com/etnz/divyield/date"
	"github.com/etnz/divyield/internal/httprate"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the eodhd.com API root.
const DefaultBaseURL = "https://eodhd.com"

// DefaultPriceFields is the ordered list of fields read as the close of a price row.
var DefaultPriceFields = []string{"close", "adjusted_close"}

type options struct {
	apiKey      string
	baseURL     string
	exchange    string
	timeout     time.Duration
	limiter     *rate.Limiter
	client      *http.Client
	priceFields []string
	logger      *zap.Logger
}

// Option configures a Client.
type Option func(o options) options

// APIKey sets the api_token sent with every request. It is required.
func APIKey(key string) Option {
	return func(o options) options {
		o.apiKey = key
		return o
	}
}

// BaseURL overrides DefaultBaseURL.
func BaseURL(u string) Option {
	return func(o options) options {
		o.baseURL = strings.TrimSuffix(u, "/")
		return o
	}
}

// Exchange sets the eodhd exchange code appended to bare tickers. Default is "US".
func Exchange(code string) Option {
	return func(o options) options {
		o.exchange = strings.ToUpper(code)
		return o
	}
}

// Timeout bounds each HTTP request. Default is 30s.
func Timeout(d time.Duration) Option {
	return func(o options) options {
		o.timeout = d
		return o
	}
}

// RateLimiter spaces out requests.
func RateLimiter(l *rate.Limiter) Option {
	return func(o options) options {
		o.limiter = l
		return o
	}
}

// HTTPClient replaces the client built from Timeout and RateLimiter.
func HTTPClient(c *http.Client) Option {
	return func(o options) options {
		o.client = c
		return o
	}
}

// PriceFields sets the ordered list of row fields read as the close price. A field is
// either a plain name like "adjusted_close" or a JSONPath like "$.close".
func PriceFields(fields ...string) Option {
	return func(o options) options {
		o.priceFields = fields
		return o
	}
}

// Logger sets the logger used to trace requests.
func Logger(l *zap.Logger) Option {
	return func(o options) options {
		o.logger = l
		return o
	}
}

// Client fetches dividends and prices from eodhd.com.
type Client struct {
	apiKey   string
	baseURL  string
	exchange string
	http     *http.Client
	fields   []priceField
	logger   *zap.Logger
}

// priceField is a compiled price field.
type priceField struct {
	name string
	eval gval.Evaluable
}

var _ divyield.Provider = (*Client)(nil)

// NewClient returns a Client, or divyield.ErrMissingAPIKey if no APIKey is given.
func NewClient(opts ...Option) (*Client, error) {
	o := options{
		baseURL:     DefaultBaseURL,
		exchange:    "US",
		timeout:     30 * time.Second,
		priceFields: DefaultPriceFields,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		o = opt(o)
	}
	if o.apiKey == "" {
		return nil, fmt.Errorf("eodhd: %w, set EODHD_API_KEY or pass -eodhd-api-key", divyield.ErrMissingAPIKey)
	}
	fields, err := compileFields(o.priceFields)
	if err != nil {
		return nil, err
	}
	client := o.client
	if client == nil {
		client = httprate.NewClient(o.timeout, o.limiter, o.logger)
	}
	return &Client{
		apiKey:   o.apiKey,
		baseURL:  o.baseURL,
		exchange: o.exchange,
		http:     client,
		fields:   fields,
		logger:   o.logger,
	}, nil
}

func (c *Client) Name() string { return "eodhd" }

// exchanges are the eodhd exchange codes recognized as a ticker suffix.
var exchanges = map[string]bool{
	"US": true, "NYSE": true, "NASDAQ": true, "BATS": true, "AMEX": true,
	"TO": true, "V": true, "NEO": true, "LSE": true, "IL": true, "XETRA": true,
	"F": true, "BE": true, "DU": true, "HM": true, "MU": true, "STU": true,
	"PA": true, "AS": true, "BR": true, "LS": true, "MI": true, "MC": true,
	"SW": true, "VI": true, "CO": true, "ST": true, "OL": true, "HE": true,
	"IR": true, "WAR": true, "HK": true, "SHG": true, "SHE": true, "KO": true,
	"KQ": true, "TW": true, "AU": true, "NSE": true, "BSE": true, "JSE": true,
	"SA": true, "MX": true, "TA": true, "INDX": true, "CC": true, "FOREX": true,
}

// Ticker returns the eodhd ticker of symbol, "SPY" is "SPY.US" on the default exchange.
// A dot not followed by a known exchange code is a share class: "BRK.B" is "BRK-B.US".
func (c *Client) Ticker(symbol string) string {
	if i := strings.LastIndexByte(symbol, '.'); i >= 0 && exchanges[strings.ToUpper(symbol[i+1:])] {
		return symbol
	}
	return strings.ReplaceAll(symbol, ".", "-") + "." + c.exchange
}

// Dividends returns the dividends of symbol with an ex-dividend date in r.
func (c *Client) Dividends(ctx context.Context, symbol string, r date.Range) ([]divyield.DividendEvent, error) {
	events, err := c.fetchDividends(ctx, c.Ticker(symbol), r)
	if err != nil {
		return nil, fmt.Errorf("eodhd: dividends of %s: %w", symbol, err)
	}
	c.logger.Debug("dividends", zap.String("symbol", symbol), zap.Stringer("range", r), zap.Int("events", len(events)))
	return events, nil
}

// Prices returns the closes of symbol in r.
func (c *Client) Prices(ctx context.Context, symbol string, r date.Range, iv divyield.Interval) ([]divyield.PricePoint, error) {
	prices, err := c.fetchPrices(ctx, c.Ticker(symbol), r, iv)
	if err != nil {
		return nil, fmt.Errorf("eodhd: prices of %s: %w", symbol, err)
	}
	c.logger.Debug("prices", zap.String("symbol", symbol), zap.Stringer("range", r), zap.Int("points", len(prices)))
	return prices, nil
}

// errNoField is returned when no price field matches a row.
var errNoField = errors.New("no price field")
