package billing

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/opulencedeveloper/hotelsuite/internal/plans"
)

// Service runs the payment-initiation pipeline: validate, resolve the plan,
// convert the price, register a pending license, create the hosted payment
// link. Each stage short-circuits on failure; nothing is retried within one
// request.
type Service struct {
	plans      PlanStore
	licenses   LicenseRegistrar
	gateway    Gateway
	currencies *CurrencyTable
}

// NewService creates the payment pipeline service.
func NewService(planStore PlanStore, licenses LicenseRegistrar, gateway Gateway, currencies *CurrencyTable) *Service {
	return &Service{
		plans:      planStore,
		licenses:   licenses,
		gateway:    gateway,
		currencies: currencies,
	}
}

// InitiatePayment runs the full pipeline and returns the hosted checkout
// link URL. Every failure is a *Error; the handler maps kinds to statuses.
func (s *Service) InitiatePayment(ctx context.Context, in PurchaseInput) (string, error) {
	req, verr := ValidatePurchase(in, s.currencies)
	if verr != nil {
		return "", verr
	}

	plan, usdPrice, err := s.resolvePlan(ctx, req)
	if err != nil {
		s.logFailure(req, err, "plan resolution failed")
		return "", err
	}

	conv, err := s.resolveConversion(ctx, usdPrice, req.Currency)
	if err != nil {
		s.logFailure(req, err, "currency conversion failed")
		return "", err
	}

	lic, err := s.licenses.CreatePendingLicense(ctx, plan.ID, req.BillingPeriod.String(), req.BuyerEmail, req.BuyerName)
	if err != nil {
		wrapped := NewError(KindInternal, err, "failed to register license for purchase")
		s.logFailure(req, wrapped, "pending license creation failed")
		return "", wrapped
	}

	link, err := s.gateway.CreatePaymentLink(ctx, LinkRequest{
		LicenseKeyID:  lic.ID,
		Amount:        conv.ConvertedAmount,
		Currency:      conv.TargetCurrency,
		BuyerEmail:    req.BuyerEmail,
		BuyerName:     req.BuyerName,
		PlanID:        plan.ID,
		PlanName:      plan.Name,
		USDPrice:      usdPrice,
		BillingPeriod: req.BillingPeriod,
	})
	if err != nil {
		wrapped := s.asGatewayError(err, "failed to create payment link")
		s.logFailure(req, wrapped, "payment link creation failed")
		return "", wrapped
	}

	log.Info().
		Str("plan_id", plan.ID).
		Str("currency", conv.TargetCurrency).
		Str("billing_period", req.BillingPeriod.String()).
		Str("license_key_id", lic.ID).
		Float64("amount", conv.ConvertedAmount).
		Str("buyer", MaskEmail(req.BuyerEmail)).
		Msg("Payment link created")

	return link, nil
}

// resolvePlan loads the plan and selects the USD price for the requested
// period. Missing the requested period is a period-specific error even when
// the other period is priced: silently switching periods would charge the
// wrong amount.
func (s *Service) resolvePlan(ctx context.Context, req *PurchaseRequest) (*plans.Plan, float64, error) {
	plan, err := s.plans.FindPlanByID(ctx, req.PlanID)
	if err != nil {
		if errors.Is(err, plans.ErrNotFound) {
			return nil, 0, NewError(KindNotFound, nil, "plan not found")
		}
		return nil, 0, NewError(KindInternal, err, "failed to load plan")
	}

	if !plan.HasSelfServePricing() {
		return nil, 0, PricingUnavailablef("plan %s has no self-serve pricing, contact sales", plan.Name)
	}

	price := plan.PriceUSD(req.BillingPeriod)
	if price == nil {
		return nil, 0, PricingUnavailablef("%s pricing is not available for plan %s", req.BillingPeriod, plan.Name)
	}

	return plan, *price, nil
}

// resolveConversion converts the USD price into the target currency. USD
// short-circuits without touching the gateway.
func (s *Service) resolveConversion(ctx context.Context, usdPrice float64, currency string) (*ConversionResult, error) {
	if currency == "USD" {
		return &ConversionResult{
			SourceAmountUSD: usdPrice,
			TargetCurrency:  currency,
			ConvertedAmount: usdPrice,
			Rounding:        s.currencies.Policy(currency),
		}, nil
	}

	quote, err := s.gateway.LookupRate(ctx, usdPrice, currency)
	if err != nil {
		return nil, s.asGatewayError(err, "failed to fetch exchange rate")
	}

	conv, cerr := Convert(usdPrice, currency, quote, s.currencies)
	if cerr != nil {
		return nil, cerr
	}
	return conv, nil
}

// asGatewayError ensures a gateway failure reaches the handler as a typed
// error, preserving an already-typed kind (e.g. a timeout).
func (s *Service) asGatewayError(err error, description string) *Error {
	if typed, ok := AsError(err); ok {
		return typed
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return NewError(KindGatewayTimeout, err, "payment gateway timed out")
	}
	return NewError(KindGateway, err, description)
}

func (s *Service) logFailure(req *PurchaseRequest, err error, msg string) {
	log.Error().
		Err(err).
		Str("plan_id", req.PlanID).
		Str("currency", req.Currency).
		Str("buyer", MaskEmail(req.BuyerEmail)).
		Msg(msg)
}

// MaskEmail hides the local part of an address for logging.
func MaskEmail(email string) string {
	at := strings.IndexRune(email, '@')
	if at <= 0 {
		return "***"
	}
	return email[:1] + "***" + email[at:]
}
