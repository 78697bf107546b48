// Package httprate provides HTTP clients that space out outgoing requests.
package httprate

import (
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Transport is an http.RoundTripper that waits for its limiter before each request.
type Transport struct {
	Base        http.RoundTripper // http.DefaultTransport if nil
	Ratelimiter *rate.Limiter     // unlimited if nil
	Logger      *zap.Logger       // no logs if nil
}

// RoundTrip implements the http.RoundTripper interface.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.Ratelimiter != nil {
		if err := t.Ratelimiter.Wait(req.Context()); err != nil {
			return nil, err
		}
	}
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	start := time.Now()
	resp, err := base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if t.Logger != nil {
		t.Logger.Debug("http",
			zap.String("method", req.Method),
			zap.String("host", req.URL.Host),
			zap.String("path", req.URL.Path),
			zap.String("status", resp.Status),
			zap.Duration("elapsed", time.Since(start)),
		)
	}
	return resp, nil
}

// Every returns a limiter allowing one request per interval, or an unlimited one
// for a non positive interval.
func Every(interval time.Duration) *rate.Limiter {
	if interval <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(interval), 1)
}

// NewClient returns an http.Client with a timeout per request and a shared limiter.
func NewClient(timeout time.Duration, limiter *rate.Limiter, logger *zap.Logger) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &Transport{
			Base:        http.DefaultTransport,
			Ratelimiter: limiter,
			Logger:      logger,
		},
	}
}
