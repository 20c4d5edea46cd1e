// Package checkout builds redirect URLs for the platform's Express and
// Cart payment flows.
package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/yenepay/yenepay-go/api"
	"github.com/yenepay/yenepay-go/types"
	"github.com/yenepay/yenepay-go/utils"
)

// Identity is the merchant identity a checkout is bound to. It is supplied
// by the owning client, which has already validated the merchant id format.
type Identity struct {
	MerchantID string `validate:"required,merchantid"`
	PDTToken   string
	UseSandbox bool
}

// Checkout is an immutable checkout order. URL is a pure function of the
// fields fixed at construction; nothing here tracks remote payment state.
type Checkout struct {
	process   types.Process
	identity  Identity
	items     []types.Item
	opts      types.CheckoutOptions
	endpoints types.Endpoints
}

// NewExpress builds a single-item checkout.
func NewExpress(identity Identity, item types.Item, opts types.CheckoutOptions) (*Checkout, error) {
	return newCheckout(types.ProcessExpress, identity, []types.Item{item}, opts)
}

// NewCart builds a multi-item checkout from a slice of items.
func NewCart(identity Identity, items []types.Item, opts types.CheckoutOptions) (*Checkout, error) {
	return newCheckout(types.ProcessCart, identity, items, opts)
}

// NewCartFromCart builds a multi-item checkout from a cart.
func NewCartFromCart(identity Identity, cart *types.Cart, opts types.CheckoutOptions) (*Checkout, error) {
	return newCheckout(types.ProcessCart, identity, cart.Items(), opts)
}

func newCheckout(process types.Process, identity Identity, items []types.Item, opts types.CheckoutOptions) (*Checkout, error) {
	if err := utils.ValidateStruct(&identity); err != nil {
		return nil, asValidationError(err)
	}

	if len(items) == 0 {
		return nil, &types.ValidationError{Field: "items", Message: "items cannot be empty"}
	}
	if process == types.ProcessExpress && len(items) != 1 {
		return nil, &types.ValidationError{
			Field:   "items",
			Message: fmt.Sprintf("%s checkout is for a single item, got %d; use %s instead", types.ProcessExpress, len(items), types.ProcessCart),
		}
	}

	validated := make([]types.Item, 0, len(items))
	for _, item := range items {
		v, err := types.NewItemWithID(item.ID, item.Name, item.UnitPrice, item.Quantity)
		if err != nil {
			return nil, err
		}
		validated = append(validated, v)
	}

	if err := utils.ValidateStruct(&opts); err != nil {
		return nil, asValidationError(err)
	}
	if opts.ExpiresInDays == 0 {
		opts.ExpiresInDays = 1
	}

	// A sandbox checkout against a production-issued token signals a
	// credential/environment mix-up. The reverse direction is not
	// validated; the platform rejects it on its own.
	if identity.UseSandbox && identity.PDTToken != "" && !utils.IsSandboxToken(identity.PDTToken) {
		return nil, &types.CheckoutError{
			Code:    ErrEnvironmentMismatch,
			Message: "sandbox checkout requested with a production PDT token",
		}
	}

	return &Checkout{
		process:   process,
		identity:  identity,
		items:     validated,
		opts:      opts,
		endpoints: types.DefaultEndpoints(identity.UseSandbox),
	}, nil
}

// Process returns the checkout flow type.
func (c *Checkout) Process() types.Process {
	return c.process
}

// MerchantID returns the merchant short code this checkout pays to.
func (c *Checkout) MerchantID() string {
	return c.identity.MerchantID
}

// MerchantOrderID returns the merchant-side order identifier, if any.
func (c *Checkout) MerchantOrderID() string {
	return c.opts.MerchantOrderID
}

// IsSandbox reports whether the checkout targets the sandbox environment.
func (c *Checkout) IsSandbox() bool {
	return c.identity.UseSandbox
}

// Items returns a copy of the checkout's items.
func (c *Checkout) Items() []types.Item {
	out := make([]types.Item, len(c.items))
	copy(out, c.items)
	return out
}

// Options returns the optional order fields fixed at construction.
func (c *Checkout) Options() types.CheckoutOptions {
	return c.opts
}

// TotalPrice returns the sum of price x quantity over the checkout items.
func (c *Checkout) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// QueryValues returns the checkout encoded as the platform's query
// parameters. Parameter names are the platform contract and are
// reproduced exactly.
func (c *Checkout) QueryValues() url.Values {
	v := url.Values{}
	v.Set("Process", c.process.String())
	v.Set("MerchantId", c.identity.MerchantID)

	setIfPresent(v, "MerchantOrderId", c.opts.MerchantOrderID)
	setIfPresent(v, "SuccessUrl", c.opts.SuccessURL)
	setIfPresent(v, "CancelUrl", c.opts.CancelURL)
	setIfPresent(v, "IPNUrl", c.opts.IPNURL)
	setIfPresent(v, "FailureUrl", c.opts.FailureURL)

	if c.opts.ExpiresAfter > 0 {
		v.Set("ExpiresAfter", strconv.Itoa(c.opts.ExpiresAfter))
	}
	if c.opts.ExpiresInDays > 0 {
		v.Set("ExpiresInDays", strconv.Itoa(c.opts.ExpiresInDays))
	}

	setDecimal(v, "TotalItemsHandlingFee", c.opts.TotalItemsHandlingFee)
	setDecimal(v, "TotalItemsDeliveryFee", c.opts.TotalItemsDeliveryFee)
	setDecimal(v, "TotalItemsDiscount", c.opts.TotalItemsDiscount)
	setDecimal(v, "TotalItemsTax1", c.opts.TotalItemsTax1)
	setDecimal(v, "TotalItemsTax2", c.opts.TotalItemsTax2)

	if c.process == types.ProcessExpress {
		item := c.items[0]
		v.Set("ItemId", item.ID)
		v.Set("ItemName", item.Name)
		v.Set("UnitPrice", item.UnitPrice.String())
		v.Set("Quantity", strconv.Itoa(item.Quantity))
		return v
	}

	for i, item := range c.items {
		prefix := fmt.Sprintf("Items[%d].", i)
		v.Set(prefix+"ItemId", item.ID)
		v.Set(prefix+"ItemName", item.Name)
		v.Set(prefix+"UnitPrice", item.UnitPrice.String())
		v.Set(prefix+"Quantity", strconv.Itoa(item.Quantity))
	}
	return v
}

// URL returns the checkout redirect URL for the environment fixed at
// construction.
func (c *Checkout) URL() string {
	return c.endpoints.Checkout + "?" + c.QueryValues().Encode()
}

// Request returns the checkout in the wire form the URL-generate endpoint
// expects.
func (c *Checkout) Request() *types.CheckoutRequest {
	return &types.CheckoutRequest{
		Process:               c.process.String(),
		MerchantID:            c.identity.MerchantID,
		MerchantOrderID:       c.opts.MerchantOrderID,
		SuccessURL:            c.opts.SuccessURL,
		CancelURL:             c.opts.CancelURL,
		IPNURL:                c.opts.IPNURL,
		FailureURL:            c.opts.FailureURL,
		ExpiresAfter:          c.opts.ExpiresAfter,
		ExpiresInDays:         c.opts.ExpiresInDays,
		TotalItemsHandlingFee: c.opts.TotalItemsHandlingFee,
		TotalItemsDeliveryFee: c.opts.TotalItemsDeliveryFee,
		TotalItemsDiscount:    c.opts.TotalItemsDiscount,
		TotalItemsTax1:        c.opts.TotalItemsTax1,
		TotalItemsTax2:        c.opts.TotalItemsTax2,
		Items:                 c.Items(),
	}
}

// RemoteURL asks the platform's URL-generate endpoint to produce the
// checkout URL instead of building it locally.
func (c *Checkout) RemoteURL(ctx context.Context, transport *api.Transport) (string, error) {
	status, body, err := transport.Checkout(ctx, c.Request())
	if err != nil {
		return "", &types.CheckoutError{Code: ErrTransport, Message: "checkout url request failed", Err: err}
	}
	if status != 200 {
		return "", &types.CheckoutError{
			Code:    ErrURLRejected,
			Message: fmt.Sprintf("platform rejected checkout url request with status %d: %s", status, body),
		}
	}

	var result struct {
		Result string `json:"result"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", &types.CheckoutError{Code: ErrMalformedResponse, Message: "unparsable checkout url response", Err: err}
	}
	if result.Result == "" {
		return "", &types.CheckoutError{Code: ErrMalformedResponse, Message: "checkout url response carries no result"}
	}
	return result.Result, nil
}

func setIfPresent(v url.Values, key, value string) {
	if value != "" {
		v.Set(key, value)
	}
}

func setDecimal(v url.Values, key string, value *decimal.Decimal) {
	if value != nil {
		v.Set(key, value.String())
	}
}

func asValidationError(err error) error {
	var ferrs validator.ValidationErrors
	if errors.As(err, &ferrs) && len(ferrs) > 0 {
		fe := ferrs[0]
		return &types.ValidationError{
			Field:   fe.Field(),
			Message: fmt.Sprintf("failed %q constraint", fe.Tag()),
		}
	}
	return &types.ValidationError{Field: "checkout", Message: err.Error()}
}
