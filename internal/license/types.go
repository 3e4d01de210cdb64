package license

import "time"

// Status values for the license-key lifecycle. A key is created as
// pending-payment before any money moves; the payment-confirmation webhook
// (handled elsewhere) activates it, and the sweeper expires keys whose
// payment never arrived.
const (
	StatusPendingPayment = "pending-payment"
	StatusActive         = "active"
	StatusExpired        = "expired"
)

// PendingLicense is a license-key record awaiting payment confirmation. Its
// id travels in the payment link's metadata so the confirmation step can
// find the record again.
type PendingLicense struct {
	ID            string    `json:"id"`
	PlanID        string    `json:"plan_id"`
	BillingPeriod string    `json:"billing_period"`
	BuyerEmail    string    `json:"buyer_email"`
	BuyerName     string    `json:"buyer_name"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}
