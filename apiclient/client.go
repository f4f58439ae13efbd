// Package apiclient is the storefront client's view of the REST API.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go-storefront/models"
	"go-storefront/pricing"
)

// APIError is a non-2xx answer. Message comes from the body's "message"
// field when there is one.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

// Message is the text shown to the user for err: the server's message for
// API errors, otherwise the error text itself
func Message(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}

// Client calls the API at BaseURL
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) do(ctx context.Context, method, path, token string, body, out interface{}) error {
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		r = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, r)
	if err != nil {
		return fmt.Errorf("http new request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		var msg struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(data, &msg) == nil && msg.Message != "" {
			apiErr.Message = msg.Message
		} else {
			apiErr.Message = strings.TrimSpace(string(data))
		}
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}

	switch v := out.(type) {
	case nil:
		return nil
	case *string:
		*v = string(data)
		return nil
	default:
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	}
}

func (c *Client) Signin(ctx context.Context, email, password string) (*models.UserInfo, error) {
	var info models.UserInfo
	err := c.do(ctx, http.MethodPost, "/api/users/signin", "",
		map[string]string{"email": email, "password": password}, &info)
	if err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *Client) Register(ctx context.Context, name, email, password string) (*models.UserInfo, error) {
	var info models.UserInfo
	err := c.do(ctx, http.MethodPost, "/api/users/register", "",
		map[string]string{"name": name, "email": email, "password": password}, &info)
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// ProfileUpdate holds the fields to change; empty fields are left alone
type ProfileUpdate struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password,omitempty"`
}

func (c *Client) UpdateProfile(ctx context.Context, token string, update ProfileUpdate) (*models.UserInfo, error) {
	var info models.UserInfo
	if err := c.do(ctx, http.MethodPut, "/api/users/profile", token, update, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *Client) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := c.do(ctx, http.MethodGet, "/api/products", "", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := c.do(ctx, http.MethodGet, "/api/products/"+id, "", nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// OrderRequest is the cart snapshot sent when placing an order. The prices
// are what the client showed; the server recomputes its own.
type OrderRequest struct {
	OrderItems      []models.OrderItem     `json:"orderItems"`
	ShippingAddress models.ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string                 `json:"paymentMethod"`
	pricing.Prices
}

type orderEnvelope struct {
	Message string        `json:"message"`
	Order   *models.Order `json:"order"`
}

func (c *Client) CreateOrder(ctx context.Context, token string, order OrderRequest) (*models.Order, error) {
	var res orderEnvelope
	if err := c.do(ctx, http.MethodPost, "/api/orders", token, order, &res); err != nil {
		return nil, err
	}
	return res.Order, nil
}

func (c *Client) GetOrder(ctx context.Context, token, id string) (*models.Order, error) {
	var order models.Order
	if err := c.do(ctx, http.MethodGet, "/api/orders/"+id, token, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) PayOrder(ctx context.Context, token, id string, result models.PaymentResult) (*models.Order, error) {
	var res orderEnvelope
	if err := c.do(ctx, http.MethodPut, "/api/orders/"+id+"/pay", token, result, &res); err != nil {
		return nil, err
	}
	return res.Order, nil
}

func (c *Client) ListMyOrders(ctx context.Context, token string) ([]models.Order, error) {
	var orders []models.Order
	if err := c.do(ctx, http.MethodGet, "/api/orders/mine", token, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// PayPalClientID fetches the id the payment widget is loaded with
func (c *Client) PayPalClientID(ctx context.Context) (string, error) {
	var id string
	if err := c.do(ctx, http.MethodGet, "/api/config/paypal", "", nil, &id); err != nil {
		return "", err
	}
	return id, nil
}
