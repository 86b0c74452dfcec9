// Package payments talks to the PayPal REST API to confirm that a client
// side PayPal checkout really happened before an order is recorded.
package payments

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

var ErrPaymentNotFound = errors.New("paypal order not found")

type PayPalConfig struct {
	ClientID     string
	ClientSecret string
	BaseURL      string
}

func (c PayPalConfig) Enabled() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

// Verification is what PayPal reports for a checkout order.
type Verification struct {
	OrderID  string
	Status   string
	Currency string
	Amount   float64
}

type PayPalClient struct {
	client *resty.Client
	cfg    PayPalConfig
	log    *zap.Logger

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

func NewPayPalClient(cfg PayPalConfig, log *zap.Logger) *PayPalClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api-m.sandbox.paypal.com"
	}
	client := resty.New().
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetTimeout(30 * time.Second).
		SetHeader("Accept", "application/json")
	return &PayPalClient{client: client, cfg: cfg, log: log}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

func (p *PayPalClient) accessToken(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.token != "" && time.Now().Before(p.tokenExpiry) {
		return p.token, nil
	}

	var result tokenResponse
	resp, err := p.client.R().
		SetContext(ctx).
		SetBasicAuth(p.cfg.ClientID, p.cfg.ClientSecret).
		SetFormData(map[string]string{"grant_type": "client_credentials"}).
		SetResult(&result).
		Post("/v1/oauth2/token")
	if err != nil {
		return "", err
	}
	if resp.StatusCode() != 200 {
		return "", fmt.Errorf("paypal token request failed with status %d: %s", resp.StatusCode(), string(resp.Body()))
	}
	if result.AccessToken == "" {
		return "", fmt.Errorf("token not found in paypal response")
	}

	// refresh a minute early
	p.token = result.AccessToken
	p.tokenExpiry = time.Now().Add(time.Duration(result.ExpiresIn)*time.Second - time.Minute)
	return p.token, nil
}

type orderResponse struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	PurchaseUnits []struct {
		Amount struct {
			CurrencyCode string `json:"currency_code"`
			Value        string `json:"value"`
		} `json:"amount"`
	} `json:"purchase_units"`
}

// Verify looks up a PayPal checkout order by id.
func (p *PayPalClient) Verify(ctx context.Context, orderID string) (*Verification, error) {
	token, err := p.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	var result orderResponse
	resp, err := p.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetPathParam("id", orderID).
		SetResult(&result).
		Get("/v2/checkout/orders/{id}")
	if err != nil {
		return nil, err
	}
	switch resp.StatusCode() {
	case 200:
	case 404:
		return nil, ErrPaymentNotFound
	default:
		return nil, fmt.Errorf("paypal order lookup failed with status %d: %s", resp.StatusCode(), string(resp.Body()))
	}

	v := &Verification{OrderID: result.ID, Status: MapStatus(result.Status)}
	if len(result.PurchaseUnits) > 0 {
		amount := result.PurchaseUnits[0].Amount
		v.Currency = amount.CurrencyCode
		if value, err := strconv.ParseFloat(amount.Value, 64); err == nil {
			v.Amount = value
		}
	}
	p.log.Debug("paypal order verified", zap.String("paypal_order_id", orderID), zap.String("status", v.Status))
	return v, nil
}

// MapStatus converts a PayPal order status to the payment status stored on
// orders.
func MapStatus(status string) string {
	switch strings.ToUpper(status) {
	case "COMPLETED":
		return "COMPLETED"
	case "VOIDED":
		return "FAILED"
	default:
		return "PENDING"
	}
}
