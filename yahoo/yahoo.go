// Package yahoo implements a divyield.Provider backed by Yahoo Finance.
//
// Prices are read with github.com/piquette/finance-go, dividends with a direct call to
// the chart endpoint, which finance-go does not expose.
package yahoo

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/etnz/divyield"
	"github.com/etnz/divyield/internal/httprate"
	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/chart"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the Yahoo Finance API root.
const DefaultBaseURL = "https://query2.finance.yahoo.com"

// DefaultPriceFields is the ordered list of bar fields read as the close.
var DefaultPriceFields = []string{"close", "adjclose"}

// DefaultTimezone is used when the chart does not report the exchange timezone.
const DefaultTimezone = "America/New_York"

type options struct {
	baseURL     string
	timeout     time.Duration
	limiter     *rate.Limiter
	client      *http.Client
	priceFields []string
	logger      *zap.Logger
}

// Option configures a Client.
type Option func(o options) options

// BaseURL overrides DefaultBaseURL.
func BaseURL(u string) Option {
	return func(o options) options {
		o.baseURL = strings.TrimSuffix(u, "/")
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

// PriceFields sets the ordered list of bar fields read as the close, among "close"
// and "adjclose".
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

// bars is the iterator returned by chart.Get.
type bars interface {
	Next() bool
	Bar() *finance.ChartBar
	Err() error
	Meta() finance.ChartMeta
}

// barField reads a price from a bar.
type barField struct {
	name string
	get  func(*finance.ChartBar) decimal.Decimal
}

var barFields = map[string]func(*finance.ChartBar) decimal.Decimal{
	"close":    func(b *finance.ChartBar) decimal.Decimal { return b.Close },
	"adjclose": func(b *finance.ChartBar) decimal.Decimal { return b.AdjClose },
}

// Client fetches dividends and prices from Yahoo Finance.
type Client struct {
	baseURL string
	http    *http.Client
	fields  []barField
	logger  *zap.Logger

	chart func(*chart.Params) bars
}

var _ divyield.Provider = (*Client)(nil)

// NewClient returns a Client.
func NewClient(opts ...Option) (*Client, error) {
	o := options{
		baseURL:     DefaultBaseURL,
		timeout:     30 * time.Second,
		priceFields: DefaultPriceFields,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		o = opt(o)
	}
	if len(o.priceFields) == 0 {
		return nil, fmt.Errorf("yahoo: empty price field list")
	}
	fields := make([]barField, 0, len(o.priceFields))
	for _, name := range o.priceFields {
		name = strings.ToLower(strings.TrimSpace(name))
		get, ok := barFields[name]
		if !ok {
			return nil, fmt.Errorf("yahoo: unknown price field %q, want close or adjclose", name)
		}
		fields = append(fields, barField{name: name, get: get})
	}
	client := o.client
	if client == nil {
		client = httprate.NewClient(o.timeout, o.limiter, o.logger)
	}
	return &Client{
		baseURL: o.baseURL,
		http:    client,
		fields:  fields,
		logger:  o.logger,
		chart:   func(p *chart.Params) bars { return chart.Get(p) },
	}, nil
}

func (c *Client) Name() string { return "yahoo" }

// finance-go reads its backend from a package level variable: every chart request
// installs the client's own and holds backendMu until its bars are read.
var backendMu sync.Mutex

// chartBars runs the chart request of p with the client's HTTP client and base URL.
// It returns the bars read, the chart meta, and the HTTP status of the last response.
func (c *Client) chartBars(p *chart.Params) (raw []*finance.ChartBar, meta finance.ChartMeta, status int, err error) {
	rec := &statusRecorder{base: c.http.Transport}
	hc := *c.http
	hc.Transport = rec

	backendMu.Lock()
	defer backendMu.Unlock()
	finance.SetBackend(finance.YFinBackend, &finance.BackendConfiguration{
		Type:       finance.YFinBackend,
		URL:        c.baseURL,
		HTTPClient: &hc,
	})

	it := c.chart(p)
	for it.Next() {
		raw = append(raw, it.Bar())
	}
	if err := it.Err(); err != nil {
		return nil, meta, rec.status, err
	}
	if len(raw) > 0 {
		// the chart meta is only available once some bars were read.
		meta = it.Meta()
	}
	return raw, meta, rec.status, nil
}

// statusRecorder keeps the status code of the last response, finance-go drops it.
type statusRecorder struct {
	base   http.RoundTripper
	status int
}

func (s *statusRecorder) RoundTrip(req *http.Request) (*http.Response, error) {
	base := s.base
	if base == nil {
		base = http.DefaultTransport
	}
	resp, err := base.RoundTrip(req)
	if resp != nil {
		s.status = resp.StatusCode
	}
	return resp, err
}

// location returns the timezone named name, DefaultTimezone if empty, UTC if unknown.
func location(name string) *time.Location {
	if name == "" {
		name = DefaultTimezone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}
