// Package api is the thin HTTP wrapper shared by the checkout URL-generate,
// PDT and IPN verification paths.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/yenepay/yenepay-go/types"
)

// DefaultTimeout bounds a single round trip to the platform when the
// caller supplies no http.Client of its own.
const DefaultTimeout = 30 * time.Second

// maxResponseBytes caps how much of a platform response is read.
const maxResponseBytes = 1 << 20

// Transport issues requests against the platform endpoint table. A zero
// httpClient is replaced with one bounded by DefaultTimeout. Safe for
// concurrent use; all fields are read-only after construction.
type Transport struct {
	httpClient *http.Client
	endpoints  types.Endpoints
}

// New creates a transport for the given endpoint table.
func New(httpClient *http.Client, endpoints types.Endpoints) *Transport {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &Transport{
		httpClient: httpClient,
		endpoints:  endpoints,
	}
}

// Endpoints returns the endpoint table the transport targets.
func (t *Transport) Endpoints() types.Endpoints {
	return t.endpoints
}

// Checkout posts a checkout order to the URL-generate endpoint.
func (t *Transport) Checkout(ctx context.Context, req *types.CheckoutRequest) (int, []byte, error) {
	return t.postJSON(ctx, t.endpoints.URLGenerate, req)
}

// PDT posts a Payment Data Transfer status check.
func (t *Transport) PDT(ctx context.Context, req *types.PDTRequest) (int, []byte, error) {
	return t.postJSON(ctx, t.endpoints.PDT, req)
}

// IPN posts a received notification back to the platform for
// authenticity verification.
func (t *Transport) IPN(ctx context.Context, payload *types.IPN) (int, []byte, error) {
	return t.postJSON(ctx, t.endpoints.IPN, payload)
}

func (t *Transport) postJSON(ctx context.Context, url string, v interface{}) (int, []byte, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to encode request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("request to %s failed: %w", url, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return resp.StatusCode, data, nil
}
