package api

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/opulencedeveloper/hotelsuite/internal/billing"
	"github.com/opulencedeveloper/hotelsuite/internal/plans"
)

// PlanLister is the read side of the plan catalog used by the listing
// endpoint.
type PlanLister interface {
	ListPlans(ctx context.Context) ([]plans.Plan, error)
}

// PaymentHandler handles the payment-initiation endpoints.
type PaymentHandler struct {
	service *billing.Service
	catalog PlanLister
}

// NewPaymentHandler creates a new payment handler.
func NewPaymentHandler(service *billing.Service, catalog PlanLister) *PaymentHandler {
	return &PaymentHandler{service: service, catalog: catalog}
}

// InitiatePayment handles POST /payment/initiate.
func (h *PaymentHandler) InitiatePayment(c echo.Context) error {
	var in billing.PurchaseInput
	if err := c.Bind(&in); err != nil {
		return Failure(c, billing.Validationf("invalid request body"))
	}

	link, err := h.service.InitiatePayment(c.Request().Context(), in)
	if err != nil {
		return Failure(c, err)
	}

	return Success(c, "payment link created", map[string]string{
		"paymentLink": link,
	})
}

// ListPlans handles GET /payment/plans.
func (h *PaymentHandler) ListPlans(c echo.Context) error {
	catalog, err := h.catalog.ListPlans(c.Request().Context())
	if err != nil {
		return Failure(c, billing.NewError(billing.KindInternal, err, "failed to load plans"))
	}

	return Success(c, "plans", map[string]interface{}{
		"plans": catalog,
		"count": len(catalog),
	})
}
