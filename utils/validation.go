package utils

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/yenepay/yenepay-go/types"
)

var validate *validator.Validate

var merchantIDPattern = regexp.MustCompile(`^[0-9]{4,}$`)

func init() {
	validate = validator.New()

	validate.RegisterValidation("merchantid", validateMerchantIDTag)
}

// ValidateStruct runs struct-tag validation on v.
func ValidateStruct(v interface{}) error {
	return validate.Struct(v)
}

// ValidateMerchantID checks the merchant short code format: digits only,
// at least four of them.
func ValidateMerchantID(id string) error {
	if id == "" {
		return &types.ValidationError{Field: "merchantId", Message: "merchant id cannot be empty"}
	}
	if !merchantIDPattern.MatchString(id) {
		return &types.ValidationError{
			Field:   "merchantId",
			Message: fmt.Sprintf("merchant id must be numeric with at least 4 digits, got %q", id),
		}
	}
	return nil
}

// ValidateAmount checks that an amount string is a valid non-negative decimal.
func ValidateAmount(amount string) (*decimal.Decimal, error) {
	if amount == "" {
		return nil, fmt.Errorf("amount cannot be empty")
	}

	dec, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount format: %w", err)
	}

	if dec.IsNegative() {
		return nil, fmt.Errorf("amount cannot be negative")
	}

	return &dec, nil
}

// ValidatePrice checks that a unit price is strictly positive.
func ValidatePrice(price decimal.Decimal) error {
	if !price.IsPositive() {
		return &types.ValidationError{Field: "unitPrice", Message: "unit price must be greater than zero"}
	}
	return nil
}

// ValidateQuantity checks that an item quantity is strictly positive.
func ValidateQuantity(quantity int) error {
	if quantity <= 0 {
		return &types.ValidationError{Field: "quantity", Message: "quantity must be greater than zero"}
	}
	return nil
}

// ValidateAbsoluteURL checks that raw parses as an absolute http(s) URL.
// Empty strings pass; the URL fields of a checkout are optional.
func ValidateAbsoluteURL(field, raw string) error {
	if raw == "" {
		return nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return &types.ValidationError{Field: field, Message: fmt.Sprintf("malformed URL: %v", err)}
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return &types.ValidationError{Field: field, Message: fmt.Sprintf("URL must be absolute http(s), got %q", raw)}
	}
	return nil
}

// IsSandboxToken reports whether a PDT token was issued for the sandbox
// environment.
func IsSandboxToken(token string) bool {
	return strings.HasPrefix(token, types.SandboxTokenPrefix)
}

func validateMerchantIDTag(fl validator.FieldLevel) bool {
	return merchantIDPattern.MatchString(fl.Field().String())
}
