package types

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Process represents the checkout flow type
type Process string

const (
	// ProcessExpress is the single-item checkout flow
	ProcessExpress Process = "Express"

	// ProcessCart is the multi-item checkout flow
	ProcessCart Process = "Cart"
)

func (p Process) String() string {
	return string(p)
}

// PDT result codes returned by the platform
const (
	ResultSuccess = "SUCCESS"
	ResultFailed  = "FAILED"
)

// Payment status values returned by the platform
const (
	StatusPaid      = "Paid"
	StatusPending   = "Pending"
	StatusCancelled = "Cancelled"
	StatusExpired   = "Expired"
)

// SandboxTokenPrefix marks PDT tokens issued for the sandbox environment.
// Production tokens never carry it.
const SandboxTokenPrefix = "test-"

// Item represents a single purchasable line item.
// Immutable once constructed; construct through NewItem or NewItemWithID.
type Item struct {
	ID        string          `json:"itemId"`
	Name      string          `json:"itemName"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
}

// NewItem creates an Item with a generated item id.
func NewItem(name string, unitPrice decimal.Decimal, quantity int) (Item, error) {
	return NewItemWithID(uuid.NewString(), name, unitPrice, quantity)
}

// NewItemWithID creates an Item with a caller-supplied id (SKU, UUID, ...)
// used to identify the item on the merchant's platform.
func NewItemWithID(id, name string, unitPrice decimal.Decimal, quantity int) (Item, error) {
	if id == "" {
		id = uuid.NewString()
	}
	if name == "" {
		return Item{}, &ValidationError{Field: "itemName", Message: "item name cannot be empty"}
	}
	if !unitPrice.IsPositive() {
		return Item{}, &ValidationError{Field: "unitPrice", Message: "unit price must be greater than zero"}
	}
	if quantity <= 0 {
		return Item{}, &ValidationError{Field: "quantity", Message: "quantity must be greater than zero"}
	}

	return Item{
		ID:        id,
		Name:      name,
		UnitPrice: unitPrice,
		Quantity:  quantity,
	}, nil
}

// LineTotal returns unit price multiplied by quantity.
func (i Item) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart is an ordered collection of items. Items are added and removed as
// whole values; contained items are never mutated in place.
type Cart struct {
	items []Item
}

// NewCart creates a cart holding the given items.
func NewCart(items ...Item) *Cart {
	c := &Cart{items: make([]Item, 0, len(items))}
	c.items = append(c.items, items...)
	return c
}

// Add appends a single item to the cart.
func (c *Cart) Add(item Item) {
	c.items = append(c.items, item)
}

// AddItems appends multiple items to the cart.
func (c *Cart) AddItems(items ...Item) {
	c.items = append(c.items, items...)
}

// Remove deletes the item at index i, preserving order.
// Returns false when i is out of range.
func (c *Cart) Remove(i int) bool {
	if i < 0 || i >= len(c.items) {
		return false
	}
	c.items = append(c.items[:i], c.items[i+1:]...)
	return true
}

// Len returns the number of items in the cart.
func (c *Cart) Len() int {
	return len(c.items)
}

// Items returns a copy of the cart's items in insertion order.
func (c *Cart) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// TotalPrice returns the sum of price x quantity over all items.
func (c *Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// CheckoutOptions carries the optional fields of a checkout order.
// URL fields, when set, must be absolute http(s) URLs.
type CheckoutOptions struct {
	// A unique identifier for this payment order on the merchant's
	// platform. Used to track payment status for the order.
	MerchantOrderID string `json:"merchantOrderId,omitempty"`

	// Redirect target after the payment completes successfully.
	SuccessURL string `json:"successUrl,omitempty" validate:"omitempty,http_url"`

	// Redirect target when the paying customer cancels.
	CancelURL string `json:"cancelUrl,omitempty" validate:"omitempty,http_url"`

	// Endpoint that receives Instant Payment Notifications.
	IPNURL string `json:"ipnUrl,omitempty" validate:"omitempty,http_url"`

	// Redirect target when the payment fails.
	FailureURL string `json:"failureUrl,omitempty" validate:"omitempty,http_url"`

	// Expiration period for this payment in minutes.
	ExpiresAfter int `json:"expiresAfter,omitempty" validate:"omitempty,gt=0"`

	// Expiration period for this payment in days. Defaults to 1.
	ExpiresInDays int `json:"expiresInDays,omitempty" validate:"omitempty,gt=0"`

	// Cart-level adjustments in ETB, added to (or, for the discount,
	// deducted from) the items total when the platform computes the
	// payment amount.
	TotalItemsHandlingFee *decimal.Decimal `json:"totalItemsHandlingFee,omitempty"`
	TotalItemsDeliveryFee *decimal.Decimal `json:"totalItemsDeliveryFee,omitempty"`
	TotalItemsDiscount    *decimal.Decimal `json:"totalItemsDiscount,omitempty"`
	TotalItemsTax1        *decimal.Decimal `json:"totalItemsTax1,omitempty"`
	TotalItemsTax2        *decimal.Decimal `json:"totalItemsTax2,omitempty"`
}

// CheckoutRequest is the wire form of a checkout order as the platform's
// URL-generate endpoint expects it.
type CheckoutRequest struct {
	Process         string `json:"process"`
	MerchantID      string `json:"merchantId"`
	MerchantOrderID string `json:"merchantOrderId,omitempty"`
	SuccessURL      string `json:"successUrl,omitempty"`
	CancelURL       string `json:"cancelUrl,omitempty"`
	IPNURL          string `json:"ipnUrl,omitempty"`
	FailureURL      string `json:"failureUrl,omitempty"`
	ExpiresAfter    int    `json:"expiresAfter,omitempty"`
	ExpiresInDays   int    `json:"expiresInDays,omitempty"`

	TotalItemsHandlingFee *decimal.Decimal `json:"totalItemsHandlingFee,omitempty"`
	TotalItemsDeliveryFee *decimal.Decimal `json:"totalItemsDeliveryFee,omitempty"`
	TotalItemsDiscount    *decimal.Decimal `json:"totalItemsDiscount,omitempty"`
	TotalItemsTax1        *decimal.Decimal `json:"totalItemsTax1,omitempty"`
	TotalItemsTax2        *decimal.Decimal `json:"totalItemsTax2,omitempty"`

	Items []Item `json:"items"`
}

// PDTRequest is the wire form of a Payment Data Transfer status check.
type PDTRequest struct {
	RequestType     string `json:"requestType"`
	PDTToken        string `json:"pdtToken"`
	TransactionID   string `json:"transactionId"`
	MerchantOrderID string `json:"merchantOrderId"`
}

// PDTResponse is the parsed result of a Payment Data Transfer check.
// It is an immutable snapshot; the platform remains the source of truth.
type PDTResponse struct {
	// Result is SUCCESS or FAILED.
	Result string

	// Status is the payment status, e.g. "Paid".
	Status string

	// BuyerID identifies the paying customer on the platform.
	BuyerID string

	TransactionID   string
	TransactionCode string
	MerchantOrderID string

	// TotalAmount is the payment amount in ETB, zero when the platform
	// omitted it.
	TotalAmount decimal.Decimal

	Currency string
}

// IPN is an Instant Payment Notification payload as delivered by the
// platform to the merchant's IPN endpoint. The merchant interprets it but
// does not own it.
type IPN struct {
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	BuyerID         string          `json:"buyerId" validate:"required"`
	MerchantID      string          `json:"merchantId" validate:"required"`
	MerchantOrderID string          `json:"merchantOrderId" validate:"required"`
	MerchantCode    string          `json:"merchantCode"`
	TransactionID   string          `json:"transactionId" validate:"required"`
	TransactionCode string          `json:"transactionCode"`
	Status          string          `json:"status" validate:"required"`
	Currency        string          `json:"currency"`
	Signature       string          `json:"signature" validate:"required"`
}

// IPNResult mirrors PDTResponse for notifications that passed validation.
type IPNResult struct {
	Result          string
	Status          string
	BuyerID         string
	TransactionID   string
	MerchantOrderID string
	TotalAmount     decimal.Decimal
}
