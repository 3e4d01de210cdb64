package billing

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/opulencedeveloper/hotelsuite/internal/plans"
)

func validInput() PurchaseInput {
	return PurchaseInput{
		PlanID:        "standard",
		Email:         "guest@example.com",
		Name:          "Ada Obi",
		Currency:      "ngn",
		BillingPeriod: "yearly",
	}
}

func TestValidatePurchase_Normalizes(t *testing.T) {
	in := validInput()
	in.Name = "  Ada Obi  "

	req, verr := ValidatePurchase(in, testCurrencies())
	require.Nil(t, verr)
	require.Equal(t, "NGN", req.Currency)
	require.Equal(t, "Ada Obi", req.BuyerName)
	require.Equal(t, plans.PeriodYearly, req.BillingPeriod)
}

func TestValidatePurchase_FirstFailureWins(t *testing.T) {
	// Several fields are wrong; the missing-field check fires first.
	in := PurchaseInput{
		PlanID:        "",
		Email:         "not-an-email",
		Name:          "x",
		Currency:      "ZZZ",
		BillingPeriod: "weekly",
	}

	_, verr := ValidatePurchase(in, testCurrencies())
	require.NotNil(t, verr)
	require.Equal(t, KindValidation, verr.Kind)
	require.Contains(t, verr.Description, "required")
}

func TestValidatePurchase_OrderedChecks(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*PurchaseInput)
		want   string
	}{
		{"short name", func(in *PurchaseInput) { in.Name = " a " }, "at least 2 characters"},
		{"bad period", func(in *PurchaseInput) { in.BillingPeriod = "monthly" }, "yearly' or 'quarterly"},
		{"bad email", func(in *PurchaseInput) { in.Email = "nope@nodomain" }, "valid address"},
		{"unsupported currency", func(in *PurchaseInput) { in.Currency = "ZZ" }, "not supported"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.mutate(&in)

			_, verr := ValidatePurchase(in, testCurrencies())
			require.NotNil(t, verr)
			require.Equal(t, KindValidation, verr.Kind)
			require.Contains(t, verr.Description, tc.want)
		})
	}
}

func TestMaskEmail(t *testing.T) {
	require.Equal(t, "g***@example.com", MaskEmail("guest@example.com"))
	require.Equal(t, "***", MaskEmail("no-at-sign"))
}
