// Package yenepay is a client SDK for the YenePay payment platform. It
// builds checkout redirect URLs for the Express and Cart flows, checks
// payment status through Payment Data Transfer and validates Instant
// Payment Notification callbacks. The platform remains the source of
// truth for every transaction; this library only formats requests to it
// and parses its responses.
package yenepay

import (
	"context"
	"net/http"
	"time"

	"github.com/yenepay/yenepay-go/api"
	"github.com/yenepay/yenepay-go/checkout"
	"github.com/yenepay/yenepay-go/ipn"
	"github.com/yenepay/yenepay-go/logger"
	"github.com/yenepay/yenepay-go/metrics"
	"github.com/yenepay/yenepay-go/pdt"
	"github.com/yenepay/yenepay-go/types"
	"github.com/yenepay/yenepay-go/utils"
)

// Client holds a merchant identity and is the factory for checkouts and
// the entry point for PDT and IPN verification. All fields are read-only
// after New returns, so a single Client is safe for concurrent use.
type Client struct {
	merchantID string
	pdtToken   string
	sandbox    bool

	endpoints  types.Endpoints
	timeout    time.Duration
	httpClient *http.Client
	transport  *api.Transport

	logger  logger.Logger
	metrics metrics.Recorder

	pdt *pdt.Requester
	ipn *ipn.Validator
}

// New creates a client for the given merchant short code. The code is the
// numeric identifier assigned when signing up for a merchant account, at
// least four digits long; anything else fails with ValidationError.
func New(merchantID string, opts ...Option) (*Client, error) {
	if err := utils.ValidateMerchantID(merchantID); err != nil {
		return nil, err
	}

	c := &Client{
		merchantID: merchantID,
		timeout:    api.DefaultTimeout,
		logger:     logger.NoopLogger{},
		metrics:    metrics.NoopRecorder{},
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.endpoints == (types.Endpoints{}) {
		c.endpoints = types.DefaultEndpoints(c.sandbox)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: c.timeout}
	}

	c.transport = api.New(c.httpClient, c.endpoints)
	c.pdt = pdt.NewRequester(c.transport)
	c.ipn = ipn.NewValidator(c.merchantID, c.transport)

	return c, nil
}

// MerchantID returns the merchant short code.
func (c *Client) MerchantID() string {
	return c.merchantID
}

// PDTToken returns the PDT token, empty when none was configured.
func (c *Client) PDTToken() string {
	return c.pdtToken
}

// IsSandbox reports whether the client targets the sandbox environment.
func (c *Client) IsSandbox() bool {
	return c.sandbox
}

func (c *Client) identity() checkout.Identity {
	return checkout.Identity{
		MerchantID: c.merchantID,
		PDTToken:   c.pdtToken,
		UseSandbox: c.sandbox,
	}
}

// ExpressCheckout builds a single-item checkout bound to this client's
// identity and environment.
func (c *Client) ExpressCheckout(item types.Item, opts types.CheckoutOptions) (*checkout.Checkout, error) {
	co, err := checkout.NewExpress(c.identity(), item, opts)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("express checkout created", map[string]any{
		"merchant_id":       c.merchantID,
		"merchant_order_id": opts.MerchantOrderID,
		"environment":       types.EnvironmentLabel(c.sandbox),
	})
	return co, nil
}

// CartCheckout builds a multi-item checkout bound to this client's
// identity and environment.
func (c *Client) CartCheckout(items []types.Item, opts types.CheckoutOptions) (*checkout.Checkout, error) {
	co, err := checkout.NewCart(c.identity(), items, opts)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("cart checkout created", map[string]any{
		"merchant_id":       c.merchantID,
		"merchant_order_id": opts.MerchantOrderID,
		"items":             len(items),
		"environment":       types.EnvironmentLabel(c.sandbox),
	})
	return co, nil
}

// CartCheckoutFromCart builds a multi-item checkout from a cart.
func (c *Client) CartCheckoutFromCart(cart *types.Cart, opts types.CheckoutOptions) (*checkout.Checkout, error) {
	return c.CartCheckout(cart.Items(), opts)
}

// GenerateCheckoutURL asks the platform to generate the checkout URL for
// an order built by this client instead of encoding it locally.
func (c *Client) GenerateCheckoutURL(ctx context.Context, co *checkout.Checkout) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	u, err := co.RemoteURL(ctx, c.transport)
	c.observe("checkout_url_generate", start, err)
	if err != nil {
		return "", err
	}
	return u, nil
}

// CheckPDTStatus checks the latest status of a payment order using this
// client's PDT token. A single attempt is made; retrying is up to the
// caller.
func (c *Client) CheckPDTStatus(ctx context.Context, merchantOrderID, transactionID string) (*types.PDTResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.pdt.CheckStatus(ctx, c.pdtToken, merchantOrderID, transactionID)
	c.observe("pdt_check", start, err)
	if err != nil {
		c.logger.Warn("pdt check failed", map[string]any{
			"merchant_order_id": merchantOrderID,
			"transaction_id":    transactionID,
			"error":             err.Error(),
		})
		return nil, err
	}

	c.logger.Info("pdt check completed", map[string]any{
		"merchant_order_id": merchantOrderID,
		"transaction_id":    transactionID,
		"result":            resp.Result,
		"status":            resp.Status,
	})
	return resp, nil
}

// ParseIPN decodes a raw notification body delivered to the merchant's
// IPN endpoint.
func (c *Client) ParseIPN(raw string) (*types.IPN, error) {
	return ipn.Parse(raw)
}

// ValidateIPN performs the local notification checks: required fields
// present and the claimed merchant id matching this client.
func (c *Client) ValidateIPN(n *types.IPN) error {
	return c.ipn.Validate(n)
}

// IsIPNAuthentic verifies a notification against the platform's IPN
// verify endpoint.
func (c *Client) IsIPNAuthentic(ctx context.Context, n *types.IPN) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	ok, err := c.ipn.IsAuthentic(ctx, n)
	c.observe("ipn_verify", start, err)
	return ok, err
}

// VerifyIPN runs the full notification path, local checks then the
// platform authenticity call, and returns a result mirroring the PDT
// response shape.
func (c *Client) VerifyIPN(ctx context.Context, n *types.IPN) (*types.IPNResult, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	result, err := c.ipn.Verify(ctx, n)
	c.observe("ipn_verify", start, err)
	return result, err
}

func (c *Client) observe(operation string, start time.Time, err error) {
	labels := map[string]string{"environment": types.EnvironmentLabel(c.sandbox)}
	c.metrics.ObserveLatency(operation, time.Since(start), labels)
	if err != nil {
		c.metrics.IncCounter(operation+"_error", labels)
		return
	}
	c.metrics.IncCounter(operation, labels)
}

// Version of the library.
const Version = "1.0.0"
