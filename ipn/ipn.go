// Package ipn parses and verifies Instant Payment Notifications pushed
// by the platform to the merchant's configured IPN endpoint.
package ipn

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/yenepay/yenepay-go/api"
	"github.com/yenepay/yenepay-go/types"
	"github.com/yenepay/yenepay-go/utils"
)

const (
	ErrUnparsableBody   = "ipn_unparsable_body"
	ErrMissingField     = "ipn_missing_field"
	ErrMerchantMismatch = "ipn_merchant_mismatch"
	ErrTransport        = "ipn_transport_failure"
	ErrNotAuthentic     = "ipn_not_authentic"
)

// Parse decodes a raw urlencoded notification body into an IPN payload.
// Field names are matched case-insensitively; the platform delivers them
// in mixed casing.
func Parse(raw string) (*types.IPN, error) {
	values, err := url.ParseQuery(raw)
	if err != nil {
		return nil, &types.IPNError{Code: ErrUnparsableBody, Message: "unparsable notification body", Err: err}
	}

	n := &types.IPN{}
	for key := range values {
		value := values.Get(key)
		switch strings.ToLower(key) {
		case "totalamount":
			amount, err := decimal.NewFromString(value)
			if err != nil {
				return nil, &types.IPNError{
					Code:    ErrUnparsableBody,
					Message: fmt.Sprintf("unparsable total amount %q", value),
					Err:     err,
				}
			}
			n.TotalAmount = amount
		case "buyerid":
			n.BuyerID = value
		case "merchantid":
			n.MerchantID = value
		case "merchantorderid":
			n.MerchantOrderID = value
		case "merchantcode":
			n.MerchantCode = value
		case "transactionid":
			n.TransactionID = value
		case "transactioncode":
			n.TransactionCode = value
		case "status":
			n.Status = value
		case "currency":
			n.Currency = value
		case "signature":
			n.Signature = value
		}
	}
	return n, nil
}

// Validator checks notifications against the merchant identity expected
// to receive them. Local validation never touches the network; the
// authenticity check reuses the same transport as PDT.
type Validator struct {
	merchantID string
	transport  *api.Transport
}

// NewValidator creates a validator for the given merchant id.
func NewValidator(merchantID string, transport *api.Transport) *Validator {
	return &Validator{
		merchantID: merchantID,
		transport:  transport,
	}
}

// Validate performs the local checks: all required fields present and the
// claimed merchant id matching the expected one.
func (v *Validator) Validate(n *types.IPN) error {
	if err := utils.ValidateStruct(n); err != nil {
		var ferrs validator.ValidationErrors
		if errors.As(err, &ferrs) && len(ferrs) > 0 {
			return &types.IPNError{
				Code:    ErrMissingField,
				Message: fmt.Sprintf("notification is missing %s", ferrs[0].Field()),
			}
		}
		return &types.IPNError{Code: ErrMissingField, Message: err.Error()}
	}

	if n.MerchantID != v.merchantID {
		return &types.IPNError{
			Code:    ErrMerchantMismatch,
			Message: fmt.Sprintf("notification claims merchant %s, expected %s", n.MerchantID, v.merchantID),
		}
	}
	return nil
}

// IsAuthentic posts the notification back to the platform's IPN verify
// endpoint. The platform answering OK is what authenticates the payload;
// the signature is opaque to the merchant.
func (v *Validator) IsAuthentic(ctx context.Context, n *types.IPN) (bool, error) {
	if err := v.Validate(n); err != nil {
		return false, err
	}

	status, body, err := v.transport.IPN(ctx, n)
	if err != nil {
		return false, &types.IPNError{Code: ErrTransport, Message: "ipn verification request failed", Err: err}
	}
	if status != 200 {
		return false, &types.IPNError{
			Code:    ErrNotAuthentic,
			Message: fmt.Sprintf("platform rejected notification with status %d: %s", status, body),
		}
	}
	return true, nil
}

// Verify runs the full validation path and produces a result mirroring
// the PDT response shape.
func (v *Validator) Verify(ctx context.Context, n *types.IPN) (*types.IPNResult, error) {
	if _, err := v.IsAuthentic(ctx, n); err != nil {
		return nil, err
	}

	return &types.IPNResult{
		Result:          types.ResultSuccess,
		Status:          n.Status,
		BuyerID:         n.BuyerID,
		TransactionID:   n.TransactionID,
		MerchantOrderID: n.MerchantOrderID,
		TotalAmount:     n.TotalAmount,
	}, nil
}
