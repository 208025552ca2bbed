package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestComposeNoCouponNoUpsells(t *testing.T) {
	q := Compose(d("17.99"), nil, nil)
	assert.Equal(t, "17.99", q.Subtotal.StringFixed(2))
	assert.Equal(t, "0.00", q.Discount.StringFixed(2))
	assert.Equal(t, "17.99", q.Total.StringFixed(2))
}

func TestComposePercentCoupon(t *testing.T) {
	// base 17.99 + upsell 5.99, 10% off -> subtotal 23.98, final 21.58
	q := Compose(d("17.99"),
		[]UpsellLine{{ID: "u1", Price: d("5.99")}},
		&AppliedCoupon{Code: "SAVE10", Kind: DiscountPercent, Value: d("10")},
	)
	assert.Equal(t, "23.98", q.Subtotal.StringFixed(2))
	assert.Equal(t, "2.40", q.Discount.StringFixed(2))
	assert.Equal(t, "21.58", q.Total.StringFixed(2))
}

func TestComposeFixedCouponFloorsAtZero(t *testing.T) {
	q := Compose(d("9.99"), nil, &AppliedCoupon{Code: "BIG", Kind: DiscountFixed, Value: d("20")})
	assert.Equal(t, "0.00", q.Total.StringFixed(2))
	assert.False(t, q.Total.IsNegative())
}

func TestComposeUpsellSumOrderIndependent(t *testing.T) {
	ups := []UpsellLine{
		{ID: "a", Price: d("1.49")},
		{ID: "b", Price: d("5.99")},
		{ID: "c", Price: d("2.50")},
	}
	q1 := Compose(d("10.00"), ups, nil)
	q2 := Compose(d("10.00"), []UpsellLine{ups[2], ups[0], ups[1]}, nil)
	assert.True(t, q1.Subtotal.Equal(q2.Subtotal))
	assert.Equal(t, "19.98", q1.Subtotal.StringFixed(2))
}

func TestComposeNeverNegative(t *testing.T) {
	cases := []struct {
		base  string
		kind  DiscountKind
		value string
	}{
		{"0.01", DiscountFixed, "100"},
		{"5.00", DiscountPercent, "100"},
		{"5.00", DiscountFixed, "5.00"},
		{"100.00", DiscountPercent, "10"},
	}
	for _, c := range cases {
		q := Compose(d(c.base), nil, &AppliedCoupon{Code: "X", Kind: c.kind, Value: d(c.value)})
		assert.False(t, q.Total.IsNegative(), "base=%s kind=%s value=%s", c.base, c.kind, c.value)
	}
}

func TestApplyDiscount(t *testing.T) {
	assert.Equal(t, "4.50", ApplyDiscount(d("5.00"), DiscountPercent, d("10")).StringFixed(2))
	assert.Equal(t, "3.00", ApplyDiscount(d("5.00"), DiscountFixed, d("2")).StringFixed(2))
	assert.Equal(t, "0.00", ApplyDiscount(d("5.00"), DiscountFixed, d("9")).StringFixed(2))
	// unknown kind leaves the base untouched
	assert.Equal(t, "5.00", ApplyDiscount(d("5.00"), DiscountKind("bogus"), d("9")).StringFixed(2))
}
