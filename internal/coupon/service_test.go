package coupon

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azursoldev/likes-io/internal/catalog"
	"github.com/azursoldev/likes-io/internal/pricing"
)

type fakeStore struct {
	coupon *Coupon
	usage  map[string]int
}

func (f *fakeStore) GetByCode(_ context.Context, code string) (*Coupon, error) {
	if f.coupon != nil && f.coupon.Code == code {
		return f.coupon, nil
	}
	return nil, nil
}

func (f *fakeStore) GetUsage(_ context.Context, _ int64, userID string) (int, error) {
	return f.usage[userID], nil
}

func (f *fakeStore) GetAndLockUsage(_ context.Context, _ pgx.Tx, _ int64, userID string) (int, error) {
	return f.usage[userID], nil
}

func (f *fakeStore) IncrementUsage(_ context.Context, _ pgx.Tx, _ int64, userID string) error {
	if f.usage == nil {
		f.usage = map[string]int{}
	}
	f.usage[userID]++
	return nil
}

var frozen = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

func baseCoupon() *Coupon {
	return &Coupon{
		ID:             1,
		Code:           "SAVE10",
		Kind:           pricing.DiscountPercent,
		Value:          decimal.RequireFromString("10"),
		MinOrderAmount: decimal.RequireFromString("15.00"),
		ExpiresAt:      frozen.Add(30 * 24 * time.Hour),
		MaxUsesPerUser: 2,
		Active:         true,
	}
}

func newService(c *Coupon, usage map[string]int) (*Service, *fakeStore) {
	st := &fakeStore{coupon: c, usage: usage}
	return &Service{Store: st, Now: func() time.Time { return frozen }}, st
}

func TestValidate(t *testing.T) {
	followers := catalog.ServiceFollowers

	cases := []struct {
		name    string
		mutate  func(*Coupon)
		req     ValidateRequest
		valid   bool
		message string
	}{
		{
			name:    "applied",
			mutate:  func(*Coupon) {},
			req:     ValidateRequest{Code: "SAVE10", OrderAmount: decimal.RequireFromString("23.98"), ServiceType: catalog.ServiceLikes},
			valid:   true,
			message: "coupon_applied",
		},
		{
			name:    "unknown code",
			mutate:  func(*Coupon) {},
			req:     ValidateRequest{Code: "NOPE", OrderAmount: decimal.RequireFromString("23.98")},
			message: "coupon_not_found",
		},
		{
			name:    "inactive",
			mutate:  func(c *Coupon) { c.Active = false },
			req:     ValidateRequest{Code: "SAVE10", OrderAmount: decimal.RequireFromString("23.98")},
			message: "coupon_inactive",
		},
		{
			name:    "expired",
			mutate:  func(c *Coupon) { c.ExpiresAt = frozen.Add(-time.Hour) },
			req:     ValidateRequest{Code: "SAVE10", OrderAmount: decimal.RequireFromString("23.98")},
			message: "coupon_expired",
		},
		{
			name: "before valid window",
			mutate: func(c *Coupon) {
				from := frozen.Add(time.Hour)
				c.ValidFrom = &from
			},
			req:     ValidateRequest{Code: "SAVE10", OrderAmount: decimal.RequireFromString("23.98")},
			message: "not_in_valid_window",
		},
		{
			name: "after valid window",
			mutate: func(c *Coupon) {
				to := frozen.Add(-time.Hour)
				c.ValidTo = &to
			},
			req:     ValidateRequest{Code: "SAVE10", OrderAmount: decimal.RequireFromString("23.98")},
			message: "not_in_valid_window",
		},
		{
			name:    "below minimum order",
			mutate:  func(*Coupon) {},
			req:     ValidateRequest{Code: "SAVE10", OrderAmount: decimal.RequireFromString("9.99")},
			message: "min_order_value_not_met",
		},
		{
			name:    "wrong service type",
			mutate:  func(c *Coupon) { c.ServiceType = &followers },
			req:     ValidateRequest{Code: "SAVE10", OrderAmount: decimal.RequireFromString("23.98"), ServiceType: catalog.ServiceLikes},
			message: "wrong_service_type",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cp := baseCoupon()
			c.mutate(cp)
			svc, _ := newService(cp, nil)

			res, err := svc.Validate(context.Background(), c.req)
			require.NoError(t, err)
			assert.Equal(t, c.valid, res.Valid)
			assert.Equal(t, c.message, res.Message)
			if c.valid {
				require.NotNil(t, res.Coupon)
				assert.Equal(t, "SAVE10", res.Coupon.Code)
			} else {
				assert.Nil(t, res.Coupon)
			}
		})
	}
}

func TestValidateUsageLimit(t *testing.T) {
	svc, _ := newService(baseCoupon(), map[string]int{"u1": 2})

	res, err := svc.Validate(context.Background(), ValidateRequest{
		Code:        "SAVE10",
		OrderAmount: decimal.RequireFromString("23.98"),
		UserID:      "u1",
	})
	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.Equal(t, "usage_limit_reached", res.Message)

	// guests skip the per-user check
	res, err = svc.Validate(context.Background(), ValidateRequest{
		Code:        "SAVE10",
		OrderAmount: decimal.RequireFromString("23.98"),
	})
	require.NoError(t, err)
	assert.True(t, res.Valid)
}

func TestConsume(t *testing.T) {
	cp := baseCoupon()
	svc, st := newService(cp, map[string]int{"u1": 1})

	require.NoError(t, svc.Consume(context.Background(), nil, cp, "u1"))
	assert.Equal(t, 2, st.usage["u1"])

	// second consume hits the limit under lock
	err := svc.Consume(context.Background(), nil, cp, "u1")
	assert.ErrorIs(t, err, ErrUsageLimit)
	assert.Equal(t, 2, st.usage["u1"])

	// unlimited coupons and guests are no-ops
	cp.MaxUsesPerUser = 0
	require.NoError(t, svc.Consume(context.Background(), nil, cp, "u1"))
	assert.Equal(t, 2, st.usage["u1"])
}
