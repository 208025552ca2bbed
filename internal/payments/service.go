package payments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/samber/lo"

	"github.com/azursoldev/likes-io/internal/catalog"
	"github.com/azursoldev/likes-io/internal/checkout"
	"github.com/azursoldev/likes-io/internal/coupon"
	kafkax "github.com/azursoldev/likes-io/internal/kafka"
	"github.com/azursoldev/likes-io/internal/orders"
	"github.com/azursoldev/likes-io/internal/pricing"
	"github.com/azursoldev/likes-io/internal/redisx"
	"github.com/azursoldev/likes-io/internal/upsell"
)

// ValidationError is a user-facing rejection; handlers map it to 400.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }

// OrderStore is what the service needs from order persistence; orders.Repo
// implements it.
type OrderStore interface {
	CreateOrderTx(ctx context.Context, n orders.NewOrder) (orderID string, existed bool, err error)
	Get(ctx context.Context, orderID string) (orders.Order, error)
	SetStatus(ctx context.Context, orderID string, from, to orders.Status) error
	MarkPaidTx(ctx context.Context, tx pgx.Tx, orderID, paymentRef string) error
}

// TierSource answers which package tiers a combination sells; catalog.Resolver
// implements it.
type TierSource interface {
	Tiers(ctx context.Context, p catalog.Platform, s catalog.ServiceType, q catalog.Quality) ([]catalog.PackageTier, error)
}

type Service struct {
	DB       *pgxpool.Pool
	Orders   OrderStore
	Catalog  TierSource
	Coupons  *coupon.Service
	Upsells  *upsell.Repo
	Gateways map[Method]Gateway
	Secrets  map[Method]string
	Redis    *redis.Client

	ProducerCreated *kafkax.Producer
	ProducerPaid    *kafkax.Producer
	ServiceName     string
}

type CreateRequest struct {
	ExternalID    string              `json:"external_id"`
	UserID        string              `json:"-"`
	TraceID       string              `json:"-"`
	Platform      catalog.Platform    `json:"platform"`
	ServiceType   catalog.ServiceType `json:"service_type"`
	Quality       catalog.Quality     `json:"quality"`
	Quantity      int                 `json:"quantity"`
	Links         []string            `json:"links"`
	Email         string              `json:"email"`
	PaymentMethod Method              `json:"payment_method"`
	Currency      pricing.Currency    `json:"currency"`
	CouponCode    string              `json:"coupon_code,omitempty"`
	UpsellIDs     []string            `json:"upsell_ids,omitempty"`
}

type CreateResponse struct {
	OrderID         string           `json:"order_id"`
	CheckoutURL     string           `json:"checkout_url,omitempty"`
	PaymentStatus   string           `json:"payment_status,omitempty"`
	TotalUSD        string           `json:"total_usd"`
	DisplayTotal    string           `json:"display_total"`
	DisplayCurrency pricing.Currency `json:"display_currency"`
	CouponApplied   bool             `json:"coupon_applied"`
	CouponMessage   string           `json:"coupon_message,omitempty"`
	Idempotent      bool             `json:"idempotent"`
}

// Create runs the submission: validate the accumulated flow state, re-derive
// the amount from the catalog (client prices are never trusted), persist the
// order, and hand off to the chosen gateway.
func (s *Service) Create(ctx context.Context, req CreateRequest) (CreateResponse, error) {
	if req.ExternalID == "" {
		req.ExternalID = uuid.NewString()
	}
	if !req.PaymentMethod.Valid() {
		return CreateResponse{}, ValidationError("unknown payment method")
	}
	gw, ok := s.Gateways[req.PaymentMethod]
	if !ok {
		return CreateResponse{}, ErrUnknownMethod
	}
	if req.PaymentMethod == MethodWallet && req.UserID == "" {
		return CreateResponse{}, ErrAuthRequired
	}
	if !catalog.Offered(req.Platform, req.ServiceType) {
		return CreateResponse{}, ValidationError("service not offered on platform")
	}
	if req.Currency == "" {
		req.Currency = pricing.USD
	}

	// Same rules the wizard enforces page by page, re-checked at the trust
	// boundary.
	st := checkout.State{
		Platform:    req.Platform,
		ServiceType: req.ServiceType,
		Quality:     req.Quality,
		Quantity:    req.Quantity,
		Targets:     req.Links,
		Email:       req.Email,
		Step:        checkout.StepPayment,
	}
	if err := st.CanAdvance(); err != nil {
		return CreateResponse{}, ValidationError(err.Error())
	}

	// Fast-path idempotency via Redis; the DB check inside CreateOrderTx
	// stays authoritative.
	idemKey := fmt.Sprintf(redisx.KeyIdemPaymentCreate, req.ExternalID)
	if s.Redis != nil {
		if orderID, err := s.Redis.Get(ctx, idemKey).Result(); err == nil && orderID != "" {
			return s.resume(ctx, orderID, gw, req.Currency)
		}
	}

	// Re-derive the amount. The quantity must match a cataloged tier; the
	// tier price wins over whatever the URL carried.
	tiers, err := s.Catalog.Tiers(ctx, req.Platform, req.ServiceType, req.Quality)
	if err != nil {
		return CreateResponse{}, err
	}
	tier, ok := catalog.FindQuantity(tiers, req.Quantity)
	if !ok {
		return CreateResponse{}, ValidationError("quantity not offered")
	}

	offers, err := s.Upsells.GetByIDs(ctx, req.UpsellIDs)
	if err != nil {
		return CreateResponse{}, err
	}
	lines := lo.Map(offers, func(o upsell.Offer, _ int) pricing.UpsellLine {
		return pricing.UpsellLine{ID: o.ID, Price: o.Price}
	})

	// Coupons stay non-fatal: an invalid code drops off with a message.
	var (
		applied   *pricing.AppliedCoupon
		couponMsg string
	)
	if req.CouponCode != "" {
		res, err := s.Coupons.Validate(ctx, coupon.ValidateRequest{
			Code:        req.CouponCode,
			OrderAmount: pricing.Compose(tier.Price, lines, nil).Subtotal,
			ServiceType: req.ServiceType,
			UserID:      req.UserID,
		})
		if err != nil {
			return CreateResponse{}, err
		}
		couponMsg = res.Message
		if res.Valid {
			applied = res.Coupon
		}
	}

	quote := pricing.Compose(tier.Price, lines, applied)

	splits := pricing.SplitQuantities(req.Quantity, len(req.Links))
	targets := make([]orders.TargetQty, len(req.Links))
	for i, link := range req.Links {
		targets[i] = orders.TargetQty{Link: link, Qty: splits[i]}
	}

	n := orders.NewOrder{
		ExternalID:    req.ExternalID,
		UserID:        req.UserID,
		Email:         req.Email,
		Platform:      req.Platform,
		ServiceType:   req.ServiceType,
		Quality:       req.Quality,
		Quantity:      req.Quantity,
		Targets:       targets,
		PaymentMethod: string(req.PaymentMethod),
	}
	n.Order.Subtotal = quote.Subtotal
	n.Order.Discount = quote.Discount
	n.Order.Total = quote.Total
	if applied != nil {
		n.Order.CouponCode = applied.Code
	}
	n.Upsells = lo.Map(offers, func(o upsell.Offer, _ int) orders.UpsellItem {
		return orders.UpsellItem{ID: o.ID, Price: o.Price}
	})

	orderID, existed, err := s.Orders.CreateOrderTx(ctx, n)
	if err != nil {
		return CreateResponse{}, err
	}

	if s.Redis != nil {
		_ = s.Redis.Set(ctx, idemKey, orderID, redisx.TTLIdempotency).Err()
	}

	// The external id was seen before but fell out of the Redis fast path.
	// Treat it exactly like the cached replay: settled orders report their
	// status, nothing re-enters a gateway it already cleared.
	if existed {
		return s.resume(ctx, orderID, gw, req.Currency)
	}

	s.cacheStatus(ctx, orderID, orders.StatusPendingPayment)
	s.publishCreated(ctx, orderID, req, targets, quote.Total.StringFixed(2))

	o, err := s.Orders.Get(ctx, orderID)
	if err != nil {
		return CreateResponse{}, err
	}
	resp, err := s.dispatch(ctx, o, gw, req.Currency)
	if err != nil {
		return CreateResponse{}, err
	}
	resp.CouponApplied = applied != nil
	resp.CouponMessage = couponMsg
	return resp, nil
}

// resume serves a replayed external id: settled orders report their status,
// pending redirect orders get a fresh checkout URL.
func (s *Service) resume(ctx context.Context, orderID string, gw Gateway, cur pricing.Currency) (CreateResponse, error) {
	o, err := s.Orders.Get(ctx, orderID)
	if err != nil {
		return CreateResponse{}, err
	}
	if o.Status != orders.StatusPendingPayment {
		return CreateResponse{
			OrderID:         o.ID,
			PaymentStatus:   string(o.Status),
			TotalUSD:        o.Total.StringFixed(2),
			DisplayTotal:    pricing.Display(o.Total, cur).StringFixed(2),
			DisplayCurrency: cur,
			Idempotent:      true,
		}, nil
	}
	resp, err := s.dispatch(ctx, o, gw, cur)
	if err != nil {
		return CreateResponse{}, err
	}
	resp.Idempotent = true
	return resp, nil
}

func (s *Service) dispatch(ctx context.Context, o orders.Order, gw Gateway, cur pricing.Currency) (CreateResponse, error) {
	res, err := gw.Begin(ctx, o)
	if err != nil {
		return CreateResponse{}, err
	}
	resp := CreateResponse{
		OrderID:         o.ID,
		TotalUSD:        o.Total.StringFixed(2),
		DisplayTotal:    pricing.Display(o.Total, cur).StringFixed(2),
		DisplayCurrency: cur,
	}
	if res.Settled {
		resp.PaymentStatus = "paid"
		s.cacheStatus(ctx, o.ID, orders.StatusPaid)
		s.publishPaid(ctx, o, res.Ref)
		return resp, nil
	}
	resp.CheckoutURL = res.CheckoutURL
	return resp, nil
}

func (s *Service) cacheStatus(ctx context.Context, orderID string, st orders.Status) {
	if s.Redis == nil {
		return
	}
	key := fmt.Sprintf(redisx.KeyOrderStatus, orderID)
	_ = s.Redis.Set(ctx, key, fmt.Sprintf(`{"status":%q}`, st), redisx.TTLStatusCache).Err()
}

func (s *Service) publishCreated(ctx context.Context, orderID string, req CreateRequest, targets []orders.TargetQty, totalUSD string) {
	ev := orders.Envelope{
		EventID:       uuid.NewString(),
		EventType:     orders.EventOrderCreated,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      s.ServiceName,
		TraceID:       req.TraceID,
		CorrelationID: orderID,
		Payload: kafkax.MustMarshal(orders.OrderCreatedPayload{
			OrderID:       orderID,
			ExternalID:    req.ExternalID,
			Platform:      string(req.Platform),
			ServiceType:   string(req.ServiceType),
			Quality:       string(req.Quality),
			Quantity:      req.Quantity,
			Targets:       targets,
			TotalUSD:      totalUSD,
			PaymentMethod: string(req.PaymentMethod),
		}),
	}
	s.ProducerCreated.Publish(orders.PartitionKey(orderID), kafkax.MustMarshal(ev))
}

func (s *Service) publishPaid(ctx context.Context, o orders.Order, ref string) {
	ev := orders.Envelope{
		EventID:       uuid.NewString(),
		EventType:     orders.EventOrderPaid,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      s.ServiceName,
		CorrelationID: o.ID,
		Payload: kafkax.MustMarshal(orders.OrderPaidPayload{
			OrderID:       o.ID,
			PaymentMethod: o.PaymentMethod,
			PaymentRef:    ref,
			AmountUSD:     o.Total.StringFixed(2),
		}),
	}
	s.ProducerPaid.Publish(orders.PartitionKey(o.ID), kafkax.MustMarshal(ev))
}

// markPaid is the webhook settle path: flip the status and burn the coupon
// use in one transaction.
func (s *Service) markPaid(ctx context.Context, o orders.Order, ref string) error {
	var c *coupon.Coupon
	if o.CouponCode != "" {
		var err error
		c, err = s.Coupons.Store.GetByCode(ctx, o.CouponCode)
		if err != nil {
			return err
		}
	}

	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := s.Orders.MarkPaidTx(ctx, tx, o.ID, ref); err != nil {
		return err
	}
	if c != nil {
		if err := s.Coupons.Consume(ctx, tx, c, o.UserID); err != nil && !errors.Is(err, coupon.ErrUsageLimit) {
			return err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}

	s.cacheStatus(ctx, o.ID, orders.StatusPaid)
	s.publishPaid(ctx, o, ref)
	return nil
}
