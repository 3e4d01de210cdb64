package billing

import (
	"context"

	"github.com/opulencedeveloper/hotelsuite/internal/license"
	"github.com/opulencedeveloper/hotelsuite/internal/plans"
)

// PurchaseInput is the raw request body for POST /payment/initiate.
type PurchaseInput struct {
	PlanID        string `json:"planId"`
	Email         string `json:"email"`
	Name          string `json:"name"`
	Currency      string `json:"currency"`
	BillingPeriod string `json:"billingPeriod"`
}

// PurchaseRequest is a validated, normalized purchase: trimmed name, upper
// cased currency, checked billing period. Constructed once per call.
type PurchaseRequest struct {
	PlanID        string
	BuyerEmail    string
	BuyerName     string
	Currency      string
	BillingPeriod plans.BillingPeriod
}

// ConversionResult is the outcome of resolving a USD price into the buyer's
// currency. Derived per request, never persisted.
type ConversionResult struct {
	SourceAmountUSD float64
	TargetCurrency  string
	ConvertedAmount float64
	Rounding        RoundingPolicy
}

// RateLeg is one side of a gateway rate quote.
type RateLeg struct {
	Currency string   `json:"currency"`
	Amount   *float64 `json:"amount"`
}

// RateQuote is the gateway's rate response as received, before
// disambiguation. The gateway is inconsistent about whether the destination
// amount is a converted total or a bare rate; Convert sorts that out.
type RateQuote struct {
	Rate        *float64 `json:"rate"`
	Source      *RateLeg `json:"source"`
	Destination *RateLeg `json:"destination"`
}

// LinkRequest carries everything the gateway needs to create a hosted
// checkout link. Metadata is echoed back by the payment-confirmation
// webhook, so it must be enough to reconstruct the purchase without a
// lookup keyed only on the transaction reference.
type LinkRequest struct {
	LicenseKeyID  string
	Amount        float64
	Currency      string
	BuyerEmail    string
	BuyerName     string
	PlanID        string
	PlanName      string
	USDPrice      float64
	BillingPeriod plans.BillingPeriod
}

// PlanStore is the plan-catalog collaborator.
type PlanStore interface {
	FindPlanByID(ctx context.Context, id string) (*plans.Plan, error)
}

// LicenseRegistrar is the license-key-service collaborator.
type LicenseRegistrar interface {
	CreatePendingLicense(ctx context.Context, planID, billingPeriod, buyerEmail, buyerName string) (*license.PendingLicense, error)
}

// Gateway is the payment-gateway collaborator: one-shot, cancellable calls
// for rate lookup and hosted-link creation.
type Gateway interface {
	LookupRate(ctx context.Context, amountUSD float64, destinationCurrency string) (*RateQuote, error)
	CreatePaymentLink(ctx context.Context, req LinkRequest) (string, error)
}
