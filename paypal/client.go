// Package paypal talks to the PayPal REST API to confirm payments reported by
// the browser before an order is marked paid.
package paypal

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go-storefront/config"
	"go-storefront/pricing"
	"go-storefront/telemetry"
)

var (
	ErrNotCompleted   = errors.New("paypal order is not completed")
	ErrAmountMismatch = errors.New("paypal amount does not match order total")
)

// Amount is a PayPal money value
type Amount struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

type PurchaseUnit struct {
	Amount Amount `json:"amount"`
}

// Order is the part of a PayPal checkout order needed to confirm a payment
type Order struct {
	ID            string         `json:"id"`
	Status        string         `json:"status"`
	PurchaseUnits []PurchaseUnit `json:"purchase_units"`
}

// Client reads checkout orders with client-credentials auth
type Client struct {
	httpClient   *http.Client
	baseApiURL   string
	clientID     string
	clientSecret string
}

func NewClient(cfg *config.Paypal) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout:   30 * time.Second,
			Transport: telemetry.Transport(nil),
		},
		baseApiURL:   cfg.BaseApiURL,
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
	}
}

func (c *Client) getAccessToken(ctx context.Context) (string, error) {
	auth := base64.StdEncoding.EncodeToString([]byte(c.clientID + ":" + c.clientSecret))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseApiURL+"/v1/oauth2/token",
		bytes.NewBufferString("grant_type=client_credentials"))
	if err != nil {
		return "", fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Authorization", "Basic "+auth)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("paypal token error %d: %s", resp.StatusCode, string(b))
	}

	var res struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	return res.AccessToken, nil
}

// GetOrder fetches a checkout order by id
func (c *Client) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	accessToken, err := c.getAccessToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("get paypal access token: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/v2/checkout/orders/%s", c.baseApiURL, url.PathEscape(orderID)), nil)
	if err != nil {
		return nil, fmt.Errorf("create order request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("paypal order request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("paypal error %d: %s", resp.StatusCode, string(b))
	}

	var order Order
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, fmt.Errorf("decode paypal order: %w", err)
	}
	return &order, nil
}

// Verify confirms that the PayPal order paymentID is completed and was for
// total. It satisfies the order controller's payment verifier.
func (c *Client) Verify(ctx context.Context, paymentID string, total float64) error {
	order, err := c.GetOrder(ctx, paymentID)
	if err != nil {
		return err
	}
	if order.Status != "COMPLETED" {
		return fmt.Errorf("%w: status %s", ErrNotCompleted, order.Status)
	}
	if len(order.PurchaseUnits) == 0 {
		return fmt.Errorf("%w: no purchase units", ErrAmountMismatch)
	}
	want := pricing.Format(total)
	if got := order.PurchaseUnits[0].Amount.Value; got != want {
		return fmt.Errorf("%w: paid %s, expected %s", ErrAmountMismatch, got, want)
	}
	return nil
}
