package plans

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBillingPeriodIsValid(t *testing.T) {
	require.True(t, PeriodYearly.IsValid())
	require.True(t, PeriodQuarterly.IsValid())
	require.False(t, BillingPeriod("monthly").IsValid())
	require.False(t, BillingPeriod("").IsValid())
}

func TestPlanPricing(t *testing.T) {
	yearly := 1000.0
	quarterly := 300.0

	full := Plan{ID: "standard", PriceYearlyUSD: &yearly, PriceQuarterlyUSD: &quarterly}
	require.True(t, full.HasSelfServePricing())
	require.Equal(t, yearly, *full.PriceUSD(PeriodYearly))
	require.Equal(t, quarterly, *full.PriceUSD(PeriodQuarterly))

	yearlyOnly := Plan{ID: "starter", PriceYearlyUSD: &yearly}
	require.True(t, yearlyOnly.HasSelfServePricing())
	require.Nil(t, yearlyOnly.PriceUSD(PeriodQuarterly))

	enterprise := Plan{ID: "enterprise"}
	require.False(t, enterprise.HasSelfServePricing())
	require.Nil(t, enterprise.PriceUSD(PeriodYearly))
}
