package pricing

import (
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

type DiscountKind string

const (
	DiscountPercent DiscountKind = "percent"
	DiscountFixed   DiscountKind = "fixed"
)

// AppliedCoupon is the validated snapshot a client holds after
// POST /coupons/validate. The amounts here are never trusted at submission;
// the coupon is re-validated server-side.
type AppliedCoupon struct {
	Code  string          `json:"code"`
	Kind  DiscountKind    `json:"kind"`
	Value decimal.Decimal `json:"value"`
}

type UpsellLine struct {
	ID    string          `json:"id"`
	Price decimal.Decimal `json:"price"`
}

// Quote is the composed amount for an order. All values are USD; display
// currency conversion happens at the edge only.
type Quote struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Discount decimal.Decimal `json:"discount"`
	Total    decimal.Decimal `json:"total"`
}

// Compose combines the base package price, selected upsells, and an optional
// coupon:
//
//	subtotal = base + sum(upsell.price)
//	discount = percent ? subtotal*value/100 : value
//	total    = max(0, subtotal - discount), rounded to cents
func Compose(base decimal.Decimal, upsells []UpsellLine, coupon *AppliedCoupon) Quote {
	subtotal := lo.Reduce(upsells, func(acc decimal.Decimal, u UpsellLine, _ int) decimal.Decimal {
		return acc.Add(u.Price)
	}, base)

	var discount decimal.Decimal
	if coupon != nil {
		switch coupon.Kind {
		case DiscountPercent:
			discount = subtotal.Mul(coupon.Value).Div(decimal.NewFromInt(100))
		case DiscountFixed:
			discount = coupon.Value
		}
	}

	total := subtotal.Sub(discount)
	if total.IsNegative() {
		total = decimal.Zero
	}
	return Quote{
		Subtotal: subtotal.Round(2),
		Discount: discount.Round(2),
		Total:    total.Round(2),
	}
}

// ApplyDiscount returns base minus a percent-or-fixed discount, floored at
// zero. Used for resolved upsell prices.
func ApplyDiscount(base decimal.Decimal, kind DiscountKind, value decimal.Decimal) decimal.Decimal {
	var out decimal.Decimal
	switch kind {
	case DiscountPercent:
		out = base.Sub(base.Mul(value).Div(decimal.NewFromInt(100)))
	case DiscountFixed:
		out = base.Sub(value)
	default:
		out = base
	}
	if out.IsNegative() {
		return decimal.Zero
	}
	return out.Round(2)
}
