package paypal

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-storefront/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPaypalServer(t *testing.T, orders map[string]Order) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "client" || pass != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"access_token": "A21"})
	})
	mux.HandleFunc("/v2/checkout/orders/", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer A21" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		order, ok := orders[r.URL.Path[len("/v2/checkout/orders/"):]]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"name":"RESOURCE_NOT_FOUND"}`))
			return
		}
		json.NewEncoder(w).Encode(order)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func completed(id, value string) Order {
	return Order{
		ID:            id,
		Status:        "COMPLETED",
		PurchaseUnits: []PurchaseUnit{{Amount: Amount{CurrencyCode: "USD", Value: value}}},
	}
}

func TestVerify(t *testing.T) {
	srv := newPaypalServer(t, map[string]Order{
		"PAY-OK":      completed("PAY-OK", "102.00"),
		"PAY-PENDING": {ID: "PAY-PENDING", Status: "APPROVED"},
		"PAY-SHORT":   completed("PAY-SHORT", "1.00"),
	})
	c := NewClient(&config.Paypal{ClientID: "client", ClientSecret: "secret", BaseApiURL: srv.URL})
	ctx := context.Background()

	assert.NoError(t, c.Verify(ctx, "PAY-OK", 102))
	assert.ErrorIs(t, c.Verify(ctx, "PAY-PENDING", 102), ErrNotCompleted)
	assert.ErrorIs(t, c.Verify(ctx, "PAY-SHORT", 102), ErrAmountMismatch)

	err := c.Verify(ctx, "PAY-MISSING", 102)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestBadCredentials(t *testing.T) {
	srv := newPaypalServer(t, map[string]Order{"PAY-OK": completed("PAY-OK", "10.00")})
	c := NewClient(&config.Paypal{ClientID: "client", ClientSecret: "wrong", BaseApiURL: srv.URL})

	_, err := c.GetOrder(context.Background(), "PAY-OK")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access token")
}
