package fulfillment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/azursoldev/likes-io/internal/catalog"
	kafkax "github.com/azursoldev/likes-io/internal/kafka"
	"github.com/azursoldev/likes-io/internal/orders"
	"github.com/azursoldev/likes-io/internal/smmpanel"
)

const dedupScope = "fulfillment"

// OrderStore is what fulfillment needs from order persistence; orders.Repo
// implements it.
type OrderStore interface {
	Get(ctx context.Context, orderID string) (orders.Order, error)
	ListTargets(ctx context.Context, orderID string) ([]orders.Target, error)
	SetStatus(ctx context.Context, orderID string, from, to orders.Status) error
	MarkSubmitted(ctx context.Context, orderID string, panelIDs map[int64]int64) error
}

// Panel places orders with the SMM panel; smmpanel.Client implements it.
type Panel interface {
	AddOrder(ctx context.Context, serviceID, link string, quantity int) (int64, error)
}

// TierSource resolves catalog tiers; catalog.Resolver implements it.
type TierSource interface {
	Tiers(ctx context.Context, p catalog.Platform, s catalog.ServiceType, q catalog.Quality) ([]catalog.PackageTier, error)
}

// DedupStore remembers handled event ids; redisx.Dedup implements it.
type DedupStore interface {
	Seen(ctx context.Context, scope, eventID string) (bool, error)
	Mark(ctx context.Context, scope, eventID string) error
}

type Service struct {
	Orders       OrderStore
	Catalog      TierSource
	Dedup        DedupStore
	Panel        Panel
	ProducerOK   *kafkax.Producer // publish order.submitted
	ProducerFail *kafkax.Producer // publish order.failed
	ServiceName  string
}

// HandleOrderPaid consumes one OrderPaid event and pushes the order to the
// panel, one panel order per target link. The dedup mark lands only once the
// event reached a terminal outcome; a transient panel error leaves it unset
// so the redelivered message gets another attempt.
func (s *Service) HandleOrderPaid(ctx context.Context, m kafkago.Message) error {
	var env orders.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}
	if env.EventType != orders.EventOrderPaid {
		return nil
	}

	if seen, _ := s.Dedup.Seen(ctx, dedupScope, env.EventID); seen {
		return nil
	}

	p, err := kafkax.UnwrapPayload[orders.OrderPaidPayload](env.Payload)
	if err != nil {
		return err
	}

	o, err := s.Orders.Get(ctx, p.OrderID)
	if err != nil {
		return err
	}
	// idempotent short-circuit: a replayed event for a submitted order just
	// re-announces it
	if o.Status == orders.StatusSubmitted || o.Status == orders.StatusCompleted {
		targets, err := s.Orders.ListTargets(ctx, o.ID)
		if err != nil {
			return err
		}
		s.publishSubmitted(o.ID, panelIDs(targets), env.TraceID)
		s.markSeen(ctx, env.EventID)
		return nil
	}
	if o.Status != orders.StatusPaid {
		log.Printf("fulfillment: order %s in %s, skipping", o.ID, o.Status)
		s.markSeen(ctx, env.EventID)
		return nil
	}

	serviceID, err := s.panelServiceID(ctx, o)
	if err != nil {
		return s.fail(ctx, o, "NO_PANEL_SERVICE", env)
	}

	targets, err := s.Orders.ListTargets(ctx, o.ID)
	if err != nil {
		return err
	}

	placed := map[int64]int64{}
	for _, t := range targets {
		if t.PanelOrderID != nil {
			placed[t.ID] = *t.PanelOrderID
			continue
		}
		id, err := s.Panel.AddOrder(ctx, serviceID, t.Link, t.Quantity)
		if err != nil {
			if errors.Is(err, smmpanel.ErrRejected) {
				log.Printf("fulfillment: panel rejected order=%s link=%s: %v", o.ID, t.Link, err)
				return s.fail(ctx, o, "PANEL_REJECTED", env)
			}
			return err // transient, retry via redelivery
		}
		placed[t.ID] = id
	}

	if err := s.Orders.MarkSubmitted(ctx, o.ID, placed); err != nil {
		return err
	}
	ids := make([]int64, 0, len(placed))
	for _, id := range placed {
		ids = append(ids, id)
	}
	s.publishSubmitted(o.ID, ids, env.TraceID)
	s.markSeen(ctx, env.EventID)
	return nil
}

// panelServiceID resolves which panel service fulfills the order: the
// cataloged tier's provider id when set, the platform/service default
// otherwise.
func (s *Service) panelServiceID(ctx context.Context, o orders.Order) (string, error) {
	tiers, err := s.Catalog.Tiers(ctx, o.Platform, o.ServiceType, o.Quality)
	if err == nil {
		if tier, ok := catalog.FindQuantity(tiers, o.Quantity); ok && tier.ProviderServiceID != "" {
			return tier.ProviderServiceID, nil
		}
	}
	if id, ok := defaultPanelServices[panelKey{o.Platform, o.ServiceType, o.Quality}]; ok {
		return id, nil
	}
	return "", fmt.Errorf("no panel service for %s/%s/%s", o.Platform, o.ServiceType, o.Quality)
}

func (s *Service) fail(ctx context.Context, o orders.Order, reason string, env orders.Envelope) error {
	if err := s.Orders.SetStatus(ctx, o.ID, orders.StatusPaid, orders.StatusFailed); err != nil {
		return err
	}
	ev := orders.Envelope{
		EventID:       uuid.NewString(),
		EventType:     orders.EventOrderFailed,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      s.ServiceName,
		TraceID:       env.TraceID,
		CorrelationID: o.ID,
		Payload:       kafkax.MustMarshal(orders.OrderFailedPayload{OrderID: o.ID, Reason: reason}),
	}
	s.ProducerFail.Publish(orders.PartitionKey(o.ID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(orders.EventOrderFailed)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
	s.markSeen(ctx, env.EventID)
	return nil
}

func (s *Service) publishSubmitted(orderID string, ids []int64, trace string) {
	ev := orders.Envelope{
		EventID:       uuid.NewString(),
		EventType:     orders.EventOrderSubmitted,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      s.ServiceName,
		TraceID:       trace,
		CorrelationID: orderID,
		Payload:       kafkax.MustMarshal(orders.OrderSubmittedPayload{OrderID: orderID, PanelOrderIDs: ids}),
	}
	s.ProducerOK.Publish(orders.PartitionKey(orderID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(orders.EventOrderSubmitted)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}

func (s *Service) markSeen(ctx context.Context, eventID string) {
	if err := s.Dedup.Mark(ctx, dedupScope, eventID); err != nil {
		log.Printf("fulfillment: dedup mark %s: %v", eventID, err)
	}
}

func panelIDs(targets []orders.Target) []int64 {
	var out []int64
	for _, t := range targets {
		if t.PanelOrderID != nil {
			out = append(out, *t.PanelOrderID)
		}
	}
	return out
}
