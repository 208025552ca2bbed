package fulfillment

import (
	"context"
	"errors"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azursoldev/likes-io/internal/catalog"
	kafkax "github.com/azursoldev/likes-io/internal/kafka"
	"github.com/azursoldev/likes-io/internal/orders"
	"github.com/azursoldev/likes-io/internal/smmpanel"
)

type fakeOrderStore struct {
	order     orders.Order
	targets   []orders.Target
	submitted map[int64]int64
}

func (f *fakeOrderStore) Get(_ context.Context, _ string) (orders.Order, error) {
	return f.order, nil
}

func (f *fakeOrderStore) ListTargets(_ context.Context, _ string) ([]orders.Target, error) {
	return f.targets, nil
}

func (f *fakeOrderStore) SetStatus(_ context.Context, _ string, _, to orders.Status) error {
	f.order.Status = to
	return nil
}

func (f *fakeOrderStore) MarkSubmitted(_ context.Context, _ string, panelIDs map[int64]int64) error {
	f.submitted = panelIDs
	f.order.Status = orders.StatusSubmitted
	for i := range f.targets {
		if id, ok := panelIDs[f.targets[i].ID]; ok {
			v := id
			f.targets[i].PanelOrderID = &v
		}
	}
	return nil
}

type defaultTiers struct{}

func (defaultTiers) Tiers(_ context.Context, p catalog.Platform, s catalog.ServiceType, q catalog.Quality) ([]catalog.PackageTier, error) {
	return catalog.DefaultTiers(p, s, q), nil
}

type flakyPanel struct {
	failures int
	rejected bool
	calls    int
}

func (p *flakyPanel) AddOrder(_ context.Context, _, _ string, _ int) (int64, error) {
	p.calls++
	if p.rejected {
		return 0, smmpanel.ErrRejected
	}
	if p.failures > 0 {
		p.failures--
		return 0, errors.New("connection reset")
	}
	return 7000 + int64(p.calls), nil
}

type mapDedup struct {
	seen map[string]bool
}

func (d *mapDedup) Seen(_ context.Context, scope, id string) (bool, error) {
	return d.seen[scope+":"+id], nil
}

func (d *mapDedup) Mark(_ context.Context, scope, id string) error {
	d.seen[scope+":"+id] = true
	return nil
}

func newFulfillment(store *fakeOrderStore, panel Panel, dedup *mapDedup) *Service {
	return &Service{
		Orders:       store,
		Catalog:      defaultTiers{},
		Dedup:        dedup,
		Panel:        panel,
		ProducerOK:   kafkax.NewProducer(nil, "order.submitted", 16),
		ProducerFail: kafkax.NewProducer(nil, "order.failed", 16),
		ServiceName:  "fulfillment-test",
	}
}

func paidMessage(orderID, eventID string) kafkago.Message {
	env := orders.Envelope{
		EventID:      eventID,
		EventType:    orders.EventOrderPaid,
		EventVersion: 1,
		OccurredAt:   time.Now().UTC(),
		Producer:     "storefront-api-test",
		Payload:      kafkax.MustMarshal(orders.OrderPaidPayload{OrderID: orderID}),
	}
	return kafkago.Message{Value: kafkax.MustMarshal(env)}
}

func paidStore() *fakeOrderStore {
	return &fakeOrderStore{
		order: orders.Order{
			ID:          "ord-1",
			Platform:    catalog.PlatformInstagram,
			ServiceType: catalog.ServiceLikes,
			Quality:     catalog.QualityHigh,
			Quantity:    1000,
			Status:      orders.StatusPaid,
		},
		targets: []orders.Target{
			{ID: 1, OrderID: "ord-1", Link: "https://instagram.com/p/a", Quantity: 500},
			{ID: 2, OrderID: "ord-1", Link: "https://instagram.com/p/b", Quantity: 500},
		},
	}
}

// A transient panel error must leave the dedup mark unset so the redelivered
// message actually retries instead of stranding the order in PAID.
func TestHandleOrderPaidRetriesAfterTransientError(t *testing.T) {
	store := paidStore()
	panel := &flakyPanel{failures: 1}
	dedup := &mapDedup{seen: map[string]bool{}}
	svc := newFulfillment(store, panel, dedup)
	msg := paidMessage("ord-1", "evt-1")

	err := svc.HandleOrderPaid(context.Background(), msg)
	require.Error(t, err)
	assert.Empty(t, dedup.seen, "transient failure must not mark the event handled")
	assert.Equal(t, orders.StatusPaid, store.order.Status)
	assert.Nil(t, store.submitted)

	// redelivery succeeds and only then marks the event
	err = svc.HandleOrderPaid(context.Background(), msg)
	require.NoError(t, err)
	assert.Equal(t, orders.StatusSubmitted, store.order.Status)
	assert.Len(t, store.submitted, 2)
	assert.True(t, dedup.seen["fulfillment:evt-1"])

	// a third delivery short-circuits on the mark
	calls := panel.calls
	require.NoError(t, svc.HandleOrderPaid(context.Background(), msg))
	assert.Equal(t, calls, panel.calls)
}

func TestHandleOrderPaidPanelRejection(t *testing.T) {
	store := paidStore()
	panel := &flakyPanel{rejected: true}
	dedup := &mapDedup{seen: map[string]bool{}}
	svc := newFulfillment(store, panel, dedup)

	err := svc.HandleOrderPaid(context.Background(), paidMessage("ord-1", "evt-2"))
	require.NoError(t, err)
	assert.Equal(t, orders.StatusFailed, store.order.Status)
	assert.True(t, dedup.seen["fulfillment:evt-2"], "terminal failure is handled, not redelivered")
}

func TestHandleOrderPaidIgnoresOtherEvents(t *testing.T) {
	store := paidStore()
	panel := &flakyPanel{}
	dedup := &mapDedup{seen: map[string]bool{}}
	svc := newFulfillment(store, panel, dedup)

	env := orders.Envelope{EventID: "evt-3", EventType: orders.EventOrderCreated}
	err := svc.HandleOrderPaid(context.Background(), kafkago.Message{Value: kafkax.MustMarshal(env)})
	require.NoError(t, err)
	assert.Zero(t, panel.calls)
	assert.Empty(t, dedup.seen)
}
