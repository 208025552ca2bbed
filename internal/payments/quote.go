package payments

import (
	"context"

	"github.com/samber/lo"

	"github.com/azursoldev/likes-io/internal/catalog"
	"github.com/azursoldev/likes-io/internal/coupon"
	"github.com/azursoldev/likes-io/internal/pricing"
	"github.com/azursoldev/likes-io/internal/upsell"
)

type QuoteRequest struct {
	UserID      string              `json:"-"`
	Platform    catalog.Platform    `json:"platform"`
	ServiceType catalog.ServiceType `json:"service_type"`
	Quality     catalog.Quality     `json:"quality"`
	Quantity    int                 `json:"quantity"`
	TargetCount int                 `json:"target_count,omitempty"`
	Currency    pricing.Currency    `json:"currency,omitempty"`
	CouponCode  string              `json:"coupon_code,omitempty"`
	UpsellIDs   []string            `json:"upsell_ids,omitempty"`
}

type QuoteResponse struct {
	Subtotal        string           `json:"subtotal"`
	Discount        string           `json:"discount"`
	Total           string           `json:"total"`
	DisplayTotal    string           `json:"display_total"`
	DisplayCurrency pricing.Currency `json:"display_currency"`
	PerTarget       int              `json:"per_target,omitempty"`
	CouponApplied   bool             `json:"coupon_applied"`
	CouponMessage   string           `json:"coupon_message,omitempty"`
}

// Quote previews the final amount for the checkout page without creating
// anything. It runs the same derivation Create does.
func (s *Service) Quote(ctx context.Context, req QuoteRequest) (QuoteResponse, error) {
	if !catalog.Offered(req.Platform, req.ServiceType) {
		return QuoteResponse{}, ValidationError("service not offered on platform")
	}
	if req.Currency == "" {
		req.Currency = pricing.USD
	}
	if req.TargetCount > 0 {
		if err := pricing.CheckTargets(req.Quantity, req.TargetCount); err != nil {
			return QuoteResponse{}, ValidationError(err.Error())
		}
	}

	tiers, err := s.Catalog.Tiers(ctx, req.Platform, req.ServiceType, req.Quality)
	if err != nil {
		return QuoteResponse{}, err
	}
	tier, ok := catalog.FindQuantity(tiers, req.Quantity)
	if !ok {
		return QuoteResponse{}, ValidationError("quantity not offered")
	}

	offers, err := s.Upsells.GetByIDs(ctx, req.UpsellIDs)
	if err != nil {
		return QuoteResponse{}, err
	}
	lines := lo.Map(offers, func(o upsell.Offer, _ int) pricing.UpsellLine {
		return pricing.UpsellLine{ID: o.ID, Price: o.Price}
	})

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
			return QuoteResponse{}, err
		}
		couponMsg = res.Message
		if res.Valid {
			applied = res.Coupon
		}
	}

	q := pricing.Compose(tier.Price, lines, applied)
	resp := QuoteResponse{
		Subtotal:        q.Subtotal.StringFixed(2),
		Discount:        q.Discount.StringFixed(2),
		Total:           q.Total.StringFixed(2),
		DisplayTotal:    pricing.Display(q.Total, req.Currency).StringFixed(2),
		DisplayCurrency: req.Currency,
		CouponApplied:   applied != nil,
		CouponMessage:   couponMsg,
	}
	if req.TargetCount > 0 {
		resp.PerTarget = pricing.PerTarget(req.Quantity, req.TargetCount)
	}
	return resp, nil
}
