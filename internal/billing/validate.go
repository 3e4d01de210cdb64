package billing

import (
	"regexp"
	"strings"

	"github.com/opulencedeveloper/hotelsuite/internal/plans"
)

// Basic local@domain.tld shape; full RFC 5322 parsing is the mail provider's
// problem, not ours.
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ValidatePurchase checks the raw input in a fixed order and returns the
// normalized request. The first failing check wins; failures are distinct
// validation errors with caller-facing descriptions.
func ValidatePurchase(in PurchaseInput, currencies *CurrencyTable) (*PurchaseRequest, *Error) {
	if in.PlanID == "" || in.Email == "" || in.Name == "" || in.Currency == "" || in.BillingPeriod == "" {
		return nil, Validationf("planId, email, name, currency and billingPeriod are all required")
	}

	name := strings.TrimSpace(in.Name)
	if len(name) < 2 {
		return nil, Validationf("name must be at least 2 characters")
	}

	period := plans.BillingPeriod(in.BillingPeriod)
	if !period.IsValid() {
		return nil, Validationf("billingPeriod must be 'yearly' or 'quarterly'")
	}

	if !emailPattern.MatchString(in.Email) {
		return nil, Validationf("email is not a valid address")
	}

	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if !currencies.Supports(currency) {
		return nil, Validationf("currency %s is not supported by the payment gateway", currency)
	}

	return &PurchaseRequest{
		PlanID:        in.PlanID,
		BuyerEmail:    in.Email,
		BuyerName:     name,
		Currency:      currency,
		BillingPeriod: period,
	}, nil
}
