package types

import "fmt"

// ValidationError reports malformed caller input: a bad merchant id, a
// non-positive price or quantity, a malformed URL or an empty item set.
// Raised at construction, never deferred.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// CheckoutError reports checkout-specific misuse, such as a
// sandbox/production credential mismatch or a rejected remote URL request.
type CheckoutError struct {
	Code    string
	Message string
	Err     error
}

func (e *CheckoutError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("checkout error [%s]: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("checkout error [%s]: %s", e.Code, e.Message)
}

func (e *CheckoutError) Unwrap() error {
	return e.Err
}

// PDTError reports a failed Payment Data Transfer check: a transport
// failure, a non-OK response or a malformed response body. The underlying
// cause, when present, is wrapped.
type PDTError struct {
	Code    string
	Message string
	Err     error
}

func (e *PDTError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("pdt error [%s]: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("pdt error [%s]: %s", e.Code, e.Message)
}

func (e *PDTError) Unwrap() error {
	return e.Err
}

// IPNError reports an Instant Payment Notification that failed validation:
// missing required fields, a merchant id mismatch or a rejected
// authenticity check.
type IPNError struct {
	Code    string
	Message string
	Err     error
}

func (e *IPNError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("ipn error [%s]: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("ipn error [%s]: %s", e.Code, e.Message)
}

func (e *IPNError) Unwrap() error {
	return e.Err
}
