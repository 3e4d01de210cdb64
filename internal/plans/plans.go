package plans

import "errors"

// BillingPeriod is the subscription term a price is quoted against.
type BillingPeriod string

const (
	PeriodYearly    BillingPeriod = "yearly"
	PeriodQuarterly BillingPeriod = "quarterly"
)

// IsValid checks if the billing period is one of the accepted literals.
func (p BillingPeriod) IsValid() bool {
	return p == PeriodYearly || p == PeriodQuarterly
}

// String returns the string representation of the billing period.
func (p BillingPeriod) String() string {
	return string(p)
}

// ErrNotFound is returned when a plan id has no catalog entry.
var ErrNotFound = errors.New("plans: not found")

// Plan is a purchasable subscription tier. Prices are quoted in USD; either
// period may be absent (enterprise tiers have no self-serve pricing at all).
type Plan struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	PriceYearlyUSD    *float64 `json:"price_yearly_usd,omitempty"`
	PriceQuarterlyUSD *float64 `json:"price_quarterly_usd,omitempty"`
}

// HasSelfServePricing reports whether at least one billing period is priced.
func (p *Plan) HasSelfServePricing() bool {
	return p.PriceYearlyUSD != nil || p.PriceQuarterlyUSD != nil
}

// PriceUSD returns the USD price for the given period, or nil when that
// period is not offered for this plan.
func (p *Plan) PriceUSD(period BillingPeriod) *float64 {
	switch period {
	case PeriodYearly:
		return p.PriceYearlyUSD
	case PeriodQuarterly:
		return p.PriceQuarterlyUSD
	default:
		return nil
	}
}
