// Package pdt implements the Payment Data Transfer status check: an
// on-demand, caller-driven recheck of a payment order against the platform.
package pdt

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/yenepay/yenepay-go/api"
	"github.com/yenepay/yenepay-go/types"
)

const (
	ErrMissingToken      = "pdt_missing_token"
	ErrTransport         = "pdt_transport_failure"
	ErrRejected          = "pdt_request_rejected"
	ErrMalformedResponse = "pdt_malformed_response"
)

// Requester issues PDT checks over the shared transport. A single failed
// attempt surfaces immediately; whether to retry is the caller's call.
type Requester struct {
	transport *api.Transport
}

// NewRequester creates a requester bound to a transport.
func NewRequester(transport *api.Transport) *Requester {
	return &Requester{transport: transport}
}

// CheckStatus checks the latest status of a payment order. The transaction
// id is the platform-issued identifier delivered to the success or IPN
// endpoint; the merchant order id is the one set when the checkout was
// created.
func (r *Requester) CheckStatus(ctx context.Context, token, merchantOrderID, transactionID string) (*types.PDTResponse, error) {
	if token == "" {
		return nil, &types.PDTError{Code: ErrMissingToken, Message: "client has no PDT token"}
	}

	req := &types.PDTRequest{
		RequestType:     "PDT",
		PDTToken:        token,
		TransactionID:   transactionID,
		MerchantOrderID: merchantOrderID,
	}

	status, body, err := r.transport.PDT(ctx, req)
	if err != nil {
		return nil, &types.PDTError{Code: ErrTransport, Message: "pdt request failed", Err: err}
	}
	if status != 200 {
		return nil, &types.PDTError{
			Code:    ErrRejected,
			Message: fmt.Sprintf("platform rejected pdt request with status %d: %s", status, body),
		}
	}

	return ParseResponse(body)
}

// ParseResponse parses the platform's form-encoded PDT body
// (result=SUCCESS&status=Paid&...) into a PDTResponse. A body without a
// recognizable result field fails outright; no partially populated
// response is ever returned.
func ParseResponse(body []byte) (*types.PDTResponse, error) {
	values, err := url.ParseQuery(string(body))
	if err != nil {
		return nil, &types.PDTError{Code: ErrMalformedResponse, Message: "unparsable pdt response body", Err: err}
	}

	resp := &types.PDTResponse{}
	seenResult := false

	for key := range values {
		value := values.Get(key)
		// The platform mixes casing across fields (result, Status,
		// BuyerId, TotalAmount); fold before matching.
		switch strings.ToLower(key) {
		case "result":
			resp.Result = value
			seenResult = true
		case "status":
			resp.Status = value
		case "buyerid":
			resp.BuyerID = value
		case "transactionid":
			resp.TransactionID = value
		case "transactioncode":
			resp.TransactionCode = value
		case "merchantorderid":
			resp.MerchantOrderID = value
		case "totalamount":
			amount, err := decimal.NewFromString(value)
			if err != nil {
				return nil, &types.PDTError{
					Code:    ErrMalformedResponse,
					Message: fmt.Sprintf("unparsable pdt total amount %q", value),
					Err:     err,
				}
			}
			resp.TotalAmount = amount
		case "currency":
			resp.Currency = value
		}
	}

	if !seenResult {
		return nil, &types.PDTError{Code: ErrMalformedResponse, Message: "pdt response carries no result field"}
	}
	return resp, nil
}
