// Package flutterwave implements the billing.Gateway collaborator against
// the Flutterwave v3 API: the transfers/rates lookup used by the conversion
// resolver and the hosted payment-link creation.
package flutterwave

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/opulencedeveloper/hotelsuite/internal/billing"
)

// Client is a one-shot HTTP client for the Flutterwave API. No connection
// state is held across requests beyond the transport's own pooling.
type Client struct {
	httpClient      *http.Client
	baseURL         string
	secretKey       string
	rateTimeout     time.Duration
	linkTimeout     time.Duration
	redirectURL     string
	checkoutTitle   string
	checkoutLogoURL string
}

// Config holds the gateway settings the client needs.
type Config struct {
	BaseURL         string
	SecretKey       string
	RateTimeout     time.Duration
	LinkTimeout     time.Duration
	RedirectURL     string
	CheckoutTitle   string
	CheckoutLogoURL string
}

// NewClient creates a Flutterwave API client.
func NewClient(cfg Config) *Client {
	return &Client{
		httpClient:      &http.Client{},
		baseURL:         cfg.BaseURL,
		secretKey:       cfg.SecretKey,
		rateTimeout:     cfg.RateTimeout,
		linkTimeout:     cfg.LinkTimeout,
		redirectURL:     cfg.RedirectURL,
		checkoutTitle:   cfg.CheckoutTitle,
		checkoutLogoURL: cfg.CheckoutLogoURL,
	}
}

type rateResponse struct {
	Status  string            `json:"status"`
	Message string            `json:"message"`
	Data    billing.RateQuote `json:"data"`
}

// LookupRate fetches the USD→destination conversion for the given amount.
// The call is bounded by the configured deadline; on expiry the in-flight
// request is cancelled and the error unwraps to context.DeadlineExceeded.
func (c *Client) LookupRate(ctx context.Context, amountUSD float64, destinationCurrency string) (*billing.RateQuote, error) {
	ctx, cancel := context.WithTimeout(ctx, c.rateTimeout)
	defer cancel()

	query := url.Values{}
	query.Set("amount", strconv.FormatFloat(amountUSD, 'f', -1, 64))
	query.Set("destination_currency", destinationCurrency)
	query.Set("source_currency", "USD")

	reqURL := fmt.Sprintf("%s/transfers/rates?%s", c.baseURL, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating rate request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error making rate request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading rate response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("flutterwave API error (status %d): %s", resp.StatusCode, string(body))
	}

	if !isJSON(resp.Header.Get("Content-Type")) {
		return nil, fmt.Errorf("flutterwave returned non-JSON rate response (%s)", resp.Header.Get("Content-Type"))
	}

	var rate rateResponse
	if err := json.Unmarshal(body, &rate); err != nil {
		return nil, fmt.Errorf("error unmarshaling rate response: %w", err)
	}

	return &rate.Data, nil
}

type paymentCustomer struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type paymentCustomizations struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Logo        string `json:"logo,omitempty"`
}

type paymentRequest struct {
	TxRef          string                `json:"tx_ref"`
	Amount         float64               `json:"amount"`
	Currency       string                `json:"currency"`
	RedirectURL    string                `json:"redirect_url"`
	Customer       paymentCustomer       `json:"customer"`
	Meta           map[string]string     `json:"meta"`
	Customizations paymentCustomizations `json:"customizations"`
}

type paymentResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Link string `json:"link"`
	} `json:"data"`
}

// CreatePaymentLink creates a hosted checkout link, bounded by the
// configured deadline like the rate lookup. The tx_ref combines the license
// key id with a timestamp for uniqueness, and the metadata carries the
// purchase context so the confirmation webhook can reconstruct it without a
// second catalog read.
func (c *Client) CreatePaymentLink(ctx context.Context, link billing.LinkRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.linkTimeout)
	defer cancel()

	payload := paymentRequest{
		TxRef:       fmt.Sprintf("HSL-%s-%d", link.LicenseKeyID, time.Now().UnixNano()),
		Amount:      link.Amount,
		Currency:    link.Currency,
		RedirectURL: c.redirectURL,
		Customer: paymentCustomer{
			Email: link.BuyerEmail,
			Name:  link.BuyerName,
		},
		Meta: map[string]string{
			"plan_id":        link.PlanID,
			"plan_name":      link.PlanName,
			"usd_price":      strconv.FormatFloat(link.USDPrice, 'f', -1, 64),
			"billing_period": link.BillingPeriod.String(),
			"license_key_id": link.LicenseKeyID,
		},
		Customizations: paymentCustomizations{
			Title:       c.checkoutTitle,
			Description: fmt.Sprintf("%s plan, billed %s", link.PlanName, link.BillingPeriod),
			Logo:        c.checkoutLogoURL,
		},
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("error marshaling payment request: %w", err)
	}

	reqURL := fmt.Sprintf("%s/payments", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("error creating payment request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("error making payment request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("error reading payment response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("flutterwave API error (status %d): %s", resp.StatusCode, string(body))
	}

	var payment paymentResponse
	if err := json.Unmarshal(body, &payment); err != nil {
		return "", fmt.Errorf("error unmarshaling payment response: %w", err)
	}

	if payment.Status != "success" || payment.Data.Link == "" {
		return "", fmt.Errorf("flutterwave did not return a payment link (status %q)", payment.Status)
	}

	return payment.Data.Link, nil
}

func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json"
}
