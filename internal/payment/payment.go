// Package payment integrates with the payment provider used for the
// paid signup flow: order creation over the provider's REST API and
// HMAC verification of completed checkouts.
package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json/v2"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sandosh-prabu-2005/Legacy25-Backend/internal/config"
	domainerrors "github.com/sandosh-prabu-2005/Legacy25-Backend/internal/errors"
)

// Order is a provider-side payment order awaiting checkout.
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// Provider creates orders and verifies checkout signatures.
type Provider interface {
	CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*Order, error)
	VerifySignature(orderID, paymentID, signature string) bool
	SignupAmount() int64
	Currency() string
	KeyID() string
}

// Client talks to the provider's REST API with basic auth.
type Client struct {
	httpClient *http.Client
	baseURL    string
	keyID      string
	keySecret  string
	amount     int64
	currency   string
}

// NewClient creates a payment client from configuration.
func NewClient(cfg config.PaymentConfig) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    cfg.BaseURL,
		keyID:      cfg.KeyID,
		keySecret:  cfg.KeySecret,
		amount:     cfg.SignupAmount,
		currency:   cfg.Currency,
	}
}

// SignupAmount returns the signup fee in minor currency units.
func (c *Client) SignupAmount() int64 { return c.amount }

// Currency returns the order currency code.
func (c *Client) Currency() string { return c.currency }

// KeyID returns the public key identifier the checkout widget needs.
func (c *Client) KeyID() string { return c.keyID }

// CreateOrder creates a provider order for the given amount.
func (c *Client) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*Order, error) {
	payload := map[string]any{
		"amount":   amount,
		"currency": currency,
		"receipt":  receipt,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding order request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating order request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.keyID, c.keySecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "payment provider unreachable")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("reading order response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, domainerrors.Internal(
			fmt.Sprintf("payment provider returned %d: %s", resp.StatusCode, raw))
	}

	var order Order
	if err := json.Unmarshal(raw, &order); err != nil {
		return nil, fmt.Errorf("decoding order response: %w", err)
	}
	return &order, nil
}

// VerifySignature checks the checkout signature: HMAC-SHA256 over
// "<orderID>|<paymentID>" keyed with the API secret, hex-encoded.
func (c *Client) VerifySignature(orderID, paymentID, signature string) bool {
	return VerifySignature(orderID, paymentID, signature, c.keySecret)
}

// VerifySignature reports whether signature is a valid hex HMAC-SHA256
// of "<orderID>|<paymentID>" under secret. Comparison is constant time.
func VerifySignature(orderID, paymentID, signature, secret string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%s|%s", orderID, paymentID)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
