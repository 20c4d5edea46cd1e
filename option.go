package yenepay

import (
	"net/http"
	"time"

	"github.com/yenepay/yenepay-go/logger"
	"github.com/yenepay/yenepay-go/metrics"
	"github.com/yenepay/yenepay-go/types"
)

type Option func(*Client)

// WithPDTToken sets the request authentication token from the Settings
// page of the merchant account manager. Required for PDT checks.
func WithPDTToken(token string) Option {
	return func(c *Client) {
		c.pdtToken = token
	}
}

// WithSandbox switches the client to the sandbox environment.
func WithSandbox(sandbox bool) Option {
	return func(c *Client) {
		c.sandbox = sandbox
	}
}

// WithTimeout bounds each platform round trip.
func WithTimeout(t time.Duration) Option {
	return func(c *Client) {
		c.timeout = t
	}
}

// WithHTTPClient replaces the default HTTP client. The caller owns its
// timeout configuration.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.httpClient = h
	}
}

// WithEndpoints overrides the platform endpoint table, typically to point
// tests at a stub server.
func WithEndpoints(e types.Endpoints) Option {
	return func(c *Client) {
		c.endpoints = e
	}
}

func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

func WithMetrics(r metrics.Recorder) Option {
	return func(c *Client) {
		c.metrics = r
	}
}
