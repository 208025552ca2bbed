package payments

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azursoldev/likes-io/internal/catalog"
	kafkax "github.com/azursoldev/likes-io/internal/kafka"
	"github.com/azursoldev/likes-io/internal/orders"
)

type fakeOrders struct {
	existing *orders.Order
	created  *orders.Order
}

func (f *fakeOrders) CreateOrderTx(_ context.Context, n orders.NewOrder) (string, bool, error) {
	if f.existing != nil {
		return f.existing.ID, true, nil
	}
	f.created = &orders.Order{
		ID:            "ord-new",
		ExternalID:    n.ExternalID,
		Email:         n.Email,
		Platform:      n.Platform,
		ServiceType:   n.ServiceType,
		Quality:       n.Quality,
		Quantity:      n.Quantity,
		Subtotal:      n.Order.Subtotal,
		Discount:      n.Order.Discount,
		Total:         n.Order.Total,
		PaymentMethod: n.PaymentMethod,
		Status:        orders.StatusPendingPayment,
	}
	return f.created.ID, false, nil
}

func (f *fakeOrders) Get(_ context.Context, orderID string) (orders.Order, error) {
	if f.existing != nil && f.existing.ID == orderID {
		return *f.existing, nil
	}
	return *f.created, nil
}

func (f *fakeOrders) SetStatus(_ context.Context, _ string, _, _ orders.Status) error {
	return nil
}

func (f *fakeOrders) MarkPaidTx(_ context.Context, _ pgx.Tx, _, _ string) error {
	return nil
}

type fakeTiers struct{}

func (fakeTiers) Tiers(_ context.Context, p catalog.Platform, s catalog.ServiceType, q catalog.Quality) ([]catalog.PackageTier, error) {
	return catalog.DefaultTiers(p, s, q), nil
}

type fakeGateway struct {
	begun []orders.Order
}

func (g *fakeGateway) Begin(_ context.Context, o orders.Order) (BeginResult, error) {
	g.begun = append(g.begun, o)
	return BeginResult{CheckoutURL: "https://pay.example.com/session"}, nil
}

func newCreateService(store *fakeOrders, gw Gateway) *Service {
	return &Service{
		Orders:  store,
		Catalog: fakeTiers{},
		Gateways: map[Method]Gateway{
			MethodCard: gw,
		},
		ProducerCreated: kafkax.NewProducer(nil, "order.created", 16),
		ProducerPaid:    kafkax.NewProducer(nil, "order.paid", 16),
		ServiceName:     "storefront-api-test",
	}
}

func createReq() CreateRequest {
	return CreateRequest{
		ExternalID:    "ext-1",
		Platform:      catalog.PlatformInstagram,
		ServiceType:   catalog.ServiceFollowers,
		Quality:       catalog.QualityHigh,
		Quantity:      1000,
		Links:         []string{"someuser"},
		Email:         "buyer@example.com",
		PaymentMethod: MethodCard,
	}
}

func TestCreateDerivesPriceFromCatalog(t *testing.T) {
	store := &fakeOrders{}
	gw := &fakeGateway{}
	svc := newCreateService(store, gw)

	resp, err := svc.Create(context.Background(), createReq())
	require.NoError(t, err)

	// 1000 followers high-quality is 17.99 regardless of what the client saw
	assert.Equal(t, "17.99", resp.TotalUSD)
	assert.Equal(t, "https://pay.example.com/session", resp.CheckoutURL)
	assert.False(t, resp.Idempotent)
	require.Len(t, gw.begun, 1)
	assert.True(t, gw.begun[0].Total.Equal(decimal.RequireFromString("17.99")))
}

func TestCreateRejectsUncatalogedQuantity(t *testing.T) {
	svc := newCreateService(&fakeOrders{}, &fakeGateway{})

	req := createReq()
	req.Quantity = 1234
	_, err := svc.Create(context.Background(), req)
	var ve ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "quantity not offered", string(ve))
}

// A replayed external id whose fast-path cache entry is gone must not run the
// gateway again once the order left PENDING_PAYMENT.
func TestCreateReplayOfSettledOrder(t *testing.T) {
	store := &fakeOrders{existing: &orders.Order{
		ID:         "ord-1",
		ExternalID: "ext-1",
		Total:      decimal.RequireFromString("17.99"),
		Status:     orders.StatusPaid,
	}}
	gw := &fakeGateway{}
	svc := newCreateService(store, gw)

	resp, err := svc.Create(context.Background(), createReq())
	require.NoError(t, err)
	assert.True(t, resp.Idempotent)
	assert.Equal(t, string(orders.StatusPaid), resp.PaymentStatus)
	assert.Empty(t, resp.CheckoutURL)
	assert.Empty(t, gw.begun, "settled order must not re-enter the gateway")
}

func TestCreateReplayOfPendingOrder(t *testing.T) {
	store := &fakeOrders{existing: &orders.Order{
		ID:         "ord-1",
		ExternalID: "ext-1",
		Total:      decimal.RequireFromString("17.99"),
		Status:     orders.StatusPendingPayment,
	}}
	gw := &fakeGateway{}
	svc := newCreateService(store, gw)

	resp, err := svc.Create(context.Background(), createReq())
	require.NoError(t, err)
	assert.True(t, resp.Idempotent)
	assert.Equal(t, "https://pay.example.com/session", resp.CheckoutURL)
	require.Len(t, gw.begun, 1)
}
