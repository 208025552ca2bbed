package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/azursoldev/likes-io/internal/orders"
)

// RedirectGateway covers every processor that hands back a hosted checkout
// URL: the card processor, the crypto processor, and the regional gateway.
// They share the create-session shape and differ only in path and in which
// response field carries the URL.
type RedirectGateway struct {
	Name     string
	BaseURL  string
	APIKey   string
	Path     string
	URLField string
	HTTP     *http.Client
}

func NewCardGateway(baseURL, apiKey string) *RedirectGateway {
	return &RedirectGateway{
		Name: string(MethodCard), BaseURL: baseURL, APIKey: apiKey,
		Path: "/v1/checkout/sessions", URLField: "checkout_url",
		HTTP: &http.Client{Timeout: 15 * time.Second},
	}
}

func NewCryptoGateway(baseURL, apiKey string) *RedirectGateway {
	return &RedirectGateway{
		Name: string(MethodCrypto), BaseURL: baseURL, APIKey: apiKey,
		Path: "/api/v1/charges", URLField: "hosted_url",
		HTTP: &http.Client{Timeout: 15 * time.Second},
	}
}

func NewRegionalGateway(baseURL, apiKey string) *RedirectGateway {
	return &RedirectGateway{
		Name: string(MethodRegional), BaseURL: baseURL, APIKey: apiKey,
		Path: "/v2/payments", URLField: "payment_url",
		HTTP: &http.Client{Timeout: 15 * time.Second},
	}
}

type createSessionReq struct {
	Reference   string `json:"reference"`
	Amount      string `json:"amount"`
	Currency    string `json:"currency"`
	Description string `json:"description"`
}

func (g *RedirectGateway) Begin(ctx context.Context, o orders.Order) (BeginResult, error) {
	body := createSessionReq{
		Reference:   o.ID,
		Amount:      o.Total.StringFixed(2),
		Currency:    "USD",
		Description: fmt.Sprintf("%d %s %s", o.Quantity, o.Platform, o.ServiceType),
	}
	b, err := json.Marshal(body)
	if err != nil {
		return BeginResult{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.BaseURL+g.Path, bytes.NewReader(b))
	if err != nil {
		return BeginResult{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.APIKey)

	resp, err := g.HTTP.Do(req)
	if err != nil {
		return BeginResult{}, fmt.Errorf("%s gateway: %w", g.Name, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return BeginResult{}, fmt.Errorf("%s gateway: http %d", g.Name, resp.StatusCode)
	}

	var out map[string]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return BeginResult{}, fmt.Errorf("%s gateway: decode: %w", g.Name, err)
	}
	var checkoutURL string
	if raw, ok := out[g.URLField]; ok {
		_ = json.Unmarshal(raw, &checkoutURL)
	}
	if checkoutURL == "" {
		return BeginResult{}, fmt.Errorf("%s gateway: missing %s in response", g.Name, g.URLField)
	}
	return BeginResult{CheckoutURL: checkoutURL}, nil
}
