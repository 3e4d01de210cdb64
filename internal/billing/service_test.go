package billing

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/opulencedeveloper/hotelsuite/internal/license"
	"github.com/opulencedeveloper/hotelsuite/internal/plans"
)

type fakePlanStore struct {
	plans map[string]*plans.Plan
}

func (s *fakePlanStore) FindPlanByID(ctx context.Context, id string) (*plans.Plan, error) {
	p, ok := s.plans[id]
	if !ok {
		return nil, plans.ErrNotFound
	}
	return p, nil
}

type fakeRegistrar struct {
	created []*license.PendingLicense
	err     error
}

func (r *fakeRegistrar) CreatePendingLicense(ctx context.Context, planID, billingPeriod, buyerEmail, buyerName string) (*license.PendingLicense, error) {
	if r.err != nil {
		return nil, r.err
	}
	lic := &license.PendingLicense{
		ID:            uuid.NewString(),
		PlanID:        planID,
		BillingPeriod: billingPeriod,
		BuyerEmail:    buyerEmail,
		BuyerName:     buyerName,
		Status:        license.StatusPendingPayment,
	}
	r.created = append(r.created, lic)
	return lic, nil
}

type fakeGateway struct {
	quote     *RateQuote
	rateErr   error
	linkErr   error
	rateCalls int
	linkCalls int
	lastLink  LinkRequest
}

func (g *fakeGateway) LookupRate(ctx context.Context, amountUSD float64, destinationCurrency string) (*RateQuote, error) {
	g.rateCalls++
	if g.rateErr != nil {
		return nil, g.rateErr
	}
	return g.quote, nil
}

func (g *fakeGateway) CreatePaymentLink(ctx context.Context, req LinkRequest) (string, error) {
	g.linkCalls++
	g.lastLink = req
	if g.linkErr != nil {
		return "", g.linkErr
	}
	return "https://checkout.example.com/" + req.LicenseKeyID, nil
}

func testService(gw *fakeGateway, reg *fakeRegistrar) *Service {
	yearly := 1000.0
	quarterly := 300.0
	store := &fakePlanStore{plans: map[string]*plans.Plan{
		"standard": {
			ID:                "standard",
			Name:              "Standard",
			PriceYearlyUSD:    &yearly,
			PriceQuarterlyUSD: &quarterly,
		},
		"starter-yearly-only": {
			ID:             "starter-yearly-only",
			Name:           "Starter",
			PriceYearlyUSD: &yearly,
		},
		"enterprise": {
			ID:   "enterprise",
			Name: "Enterprise",
		},
	}}
	return NewService(store, reg, gw, testCurrencies())
}

func ngnPurchase() PurchaseInput {
	return PurchaseInput{
		PlanID:        "standard",
		Email:         "guest@example.com",
		Name:          "Ada Obi",
		Currency:      "NGN",
		BillingPeriod: "yearly",
	}
}

func TestInitiatePayment_NGNEndToEnd(t *testing.T) {
	gw := &fakeGateway{quote: &RateQuote{
		Source:      &RateLeg{Currency: "USD", Amount: f(1000)},
		Destination: &RateLeg{Currency: "NGN", Amount: f(1500000)},
	}}
	reg := &fakeRegistrar{}
	svc := testService(gw, reg)

	link, err := svc.InitiatePayment(context.Background(), ngnPurchase())
	require.NoError(t, err)

	require.Len(t, reg.created, 1)
	lic := reg.created[0]
	require.Equal(t, license.StatusPendingPayment, lic.Status)
	require.Equal(t, "standard", lic.PlanID)

	require.Equal(t, 1, gw.rateCalls)
	require.Equal(t, 1, gw.linkCalls)
	require.Equal(t, lic.ID, gw.lastLink.LicenseKeyID)
	require.Equal(t, 1500000.0, gw.lastLink.Amount)
	require.Equal(t, "NGN", gw.lastLink.Currency)
	require.Equal(t, 1000.0, gw.lastLink.USDPrice)
	require.Equal(t, "Standard", gw.lastLink.PlanName)
	require.Equal(t, "https://checkout.example.com/"+lic.ID, link)
}

func TestInitiatePayment_USDSkipsRateLookup(t *testing.T) {
	gw := &fakeGateway{}
	reg := &fakeRegistrar{}
	svc := testService(gw, reg)

	in := ngnPurchase()
	in.Currency = "USD"

	_, err := svc.InitiatePayment(context.Background(), in)
	require.NoError(t, err)

	require.Equal(t, 0, gw.rateCalls)
	require.Equal(t, 1, gw.linkCalls)
	require.Equal(t, 1000.0, gw.lastLink.Amount)
	require.Equal(t, "USD", gw.lastLink.Currency)
}

func TestInitiatePayment_UnsupportedCurrencyRejectedBeforeGateway(t *testing.T) {
	gw := &fakeGateway{}
	reg := &fakeRegistrar{}
	svc := testService(gw, reg)

	in := ngnPurchase()
	in.Currency = "ZWL"

	_, err := svc.InitiatePayment(context.Background(), in)
	typed, ok := AsError(err)
	require.True(t, ok)
	require.Equal(t, KindValidation, typed.Kind)

	require.Equal(t, 0, gw.rateCalls)
	require.Equal(t, 0, gw.linkCalls)
	require.Empty(t, reg.created)
}

func TestInitiatePayment_MissingPeriodIsNotSubstituted(t *testing.T) {
	gw := &fakeGateway{}
	reg := &fakeRegistrar{}
	svc := testService(gw, reg)

	in := ngnPurchase()
	in.PlanID = "starter-yearly-only"
	in.BillingPeriod = "quarterly"

	_, err := svc.InitiatePayment(context.Background(), in)
	typed, ok := AsError(err)
	require.True(t, ok)
	require.Equal(t, KindPricingUnavailable, typed.Kind)
	require.Contains(t, typed.Description, "quarterly")

	require.Equal(t, 0, gw.rateCalls)
	require.Equal(t, 0, gw.linkCalls)
	require.Empty(t, reg.created)
}

func TestInitiatePayment_NoSelfServePricing(t *testing.T) {
	gw := &fakeGateway{}
	svc := testService(gw, &fakeRegistrar{})

	in := ngnPurchase()
	in.PlanID = "enterprise"

	_, err := svc.InitiatePayment(context.Background(), in)
	typed, ok := AsError(err)
	require.True(t, ok)
	require.Equal(t, KindPricingUnavailable, typed.Kind)
	require.Contains(t, typed.Description, "contact sales")
}

func TestInitiatePayment_UnknownPlan(t *testing.T) {
	svc := testService(&fakeGateway{}, &fakeRegistrar{})

	in := ngnPurchase()
	in.PlanID = "nope"

	_, err := svc.InitiatePayment(context.Background(), in)
	typed, ok := AsError(err)
	require.True(t, ok)
	require.Equal(t, KindNotFound, typed.Kind)
}

func TestInitiatePayment_RateTimeoutLeavesNoSideEffects(t *testing.T) {
	gw := &fakeGateway{rateErr: fmt.Errorf("rate lookup: %w", context.DeadlineExceeded)}
	reg := &fakeRegistrar{}
	svc := testService(gw, reg)

	_, err := svc.InitiatePayment(context.Background(), ngnPurchase())
	typed, ok := AsError(err)
	require.True(t, ok)
	require.Equal(t, KindGatewayTimeout, typed.Kind)

	require.Empty(t, reg.created)
	require.Equal(t, 0, gw.linkCalls)
}

func TestInitiatePayment_LinkFailureIsGatewayError(t *testing.T) {
	gw := &fakeGateway{
		quote: &RateQuote{
			Source:      &RateLeg{Currency: "USD", Amount: f(1000)},
			Destination: &RateLeg{Currency: "NGN", Amount: f(1500000)},
		},
		linkErr: fmt.Errorf("gateway returned status 502"),
	}
	reg := &fakeRegistrar{}
	svc := testService(gw, reg)

	_, err := svc.InitiatePayment(context.Background(), ngnPurchase())
	typed, ok := AsError(err)
	require.True(t, ok)
	require.Equal(t, KindGateway, typed.Kind)

	// The pending license was already registered; the link step failed after.
	require.Len(t, reg.created, 1)
}

func TestInitiatePayment_RegistrarFailureIsInternal(t *testing.T) {
	gw := &fakeGateway{quote: &RateQuote{
		Source:      &RateLeg{Currency: "USD", Amount: f(1000)},
		Destination: &RateLeg{Currency: "NGN", Amount: f(1500000)},
	}}
	reg := &fakeRegistrar{err: fmt.Errorf("pq: connection refused")}
	svc := testService(gw, reg)

	_, err := svc.InitiatePayment(context.Background(), ngnPurchase())
	typed, ok := AsError(err)
	require.True(t, ok)
	require.Equal(t, KindInternal, typed.Kind)
	require.Equal(t, 0, gw.linkCalls)
}

func TestInitiatePayment_DuplicatePurchasesGetDistinctLicenses(t *testing.T) {
	gw := &fakeGateway{quote: &RateQuote{
		Source:      &RateLeg{Currency: "USD", Amount: f(1000)},
		Destination: &RateLeg{Currency: "NGN", Amount: f(1500000)},
	}}
	reg := &fakeRegistrar{}
	svc := testService(gw, reg)

	_, err := svc.InitiatePayment(context.Background(), ngnPurchase())
	require.NoError(t, err)
	_, err = svc.InitiatePayment(context.Background(), ngnPurchase())
	require.NoError(t, err)

	require.Len(t, reg.created, 2)
	require.NotEqual(t, reg.created[0].ID, reg.created[1].ID)
}
