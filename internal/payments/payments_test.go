package payments

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azursoldev/likes-io/internal/catalog"
	"github.com/azursoldev/likes-io/internal/orders"
)

func sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	body := []byte(`{"order_id":"ord-1","status":"paid","ref":"ch_123"}`)

	assert.True(t, VerifySignature("topsecret", body, sign("topsecret", body)))
	assert.False(t, VerifySignature("topsecret", body, sign("wrong", body)))
	assert.False(t, VerifySignature("topsecret", body, "deadbeef"))
	assert.False(t, VerifySignature("topsecret", []byte("tampered"), sign("topsecret", body)))
}

func TestMethodValid(t *testing.T) {
	for _, m := range []Method{MethodCard, MethodCrypto, MethodRegional, MethodWallet} {
		assert.True(t, m.Valid())
	}
	assert.False(t, Method("paypal").Valid())
	assert.False(t, Method("").Valid())
}

func testOrder() orders.Order {
	return orders.Order{
		ID:          "ord-1",
		Platform:    catalog.PlatformInstagram,
		ServiceType: catalog.ServiceFollowers,
		Quantity:    1000,
		Total:       decimal.RequireFromString("21.58"),
		Status:      orders.StatusPendingPayment,
	}
}

func TestRedirectGatewayBegin(t *testing.T) {
	var got createSessionReq
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/checkout/sessions", r.URL.Path)
		assert.Equal(t, "Bearer key-123", r.Header.Get("Authorization"))

		b, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(b, &got))
		_ = json.NewEncoder(w).Encode(map[string]string{
			"id":           "cs_1",
			"checkout_url": "https://pay.example.com/cs_1",
		})
	}))
	defer srv.Close()

	gw := NewCardGateway(srv.URL, "key-123")
	res, err := gw.Begin(context.Background(), testOrder())
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example.com/cs_1", res.CheckoutURL)
	assert.False(t, res.Settled)
	assert.Equal(t, "ord-1", got.Reference)
	assert.Equal(t, "21.58", got.Amount)
	assert.Equal(t, "USD", got.Currency)
}

func TestRedirectGatewayBeginMissingURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "cs_1"})
	}))
	defer srv.Close()

	gw := NewCryptoGateway(srv.URL, "key-123")
	_, err := gw.Begin(context.Background(), testOrder())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hosted_url")
}

func TestRedirectGatewayBeginHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	gw := NewRegionalGateway(srv.URL, "key-123")
	_, err := gw.Begin(context.Background(), testOrder())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "http 502")
}
