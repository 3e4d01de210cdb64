package billing

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies every failure the payment pipeline can produce. Handlers
// map a kind straight to an HTTP status; callers branch on the kind string
// rather than parsing the description.
type Kind string

const (
	KindValidation         Kind = "validation_error"
	KindNotFound           Kind = "not_found"
	KindPricingUnavailable Kind = "pricing_unavailable"
	KindConversion         Kind = "conversion_error"
	KindGatewayTimeout     Kind = "gateway_timeout"
	KindGateway            Kind = "gateway_error"
	KindInternal           Kind = "internal_error"
)

// HTTPStatus returns the response status code for the kind.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation, KindPricingUnavailable:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindGatewayTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// Error is the typed failure carried through the pipeline. Description is
// safe to show to the caller; the wrapped cause is for logs only.
type Error struct {
	Kind        Kind
	Description string
	cause       error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Description, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Description)
}

func (e *Error) Unwrap() error { return e.cause }

// NewError creates a typed pipeline error wrapping an optional cause.
func NewError(kind Kind, cause error, description string) *Error {
	return &Error{Kind: kind, Description: description, cause: cause}
}

// Validationf creates a validation error with a formatted description.
func Validationf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Description: fmt.Sprintf(format, args...)}
}

// PricingUnavailablef creates a pricing-unavailable error.
func PricingUnavailablef(format string, args ...interface{}) *Error {
	return &Error{Kind: KindPricingUnavailable, Description: fmt.Sprintf(format, args...)}
}

// AsError extracts a typed pipeline error from an error chain.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
