package catalog

import "github.com/shopspring/decimal"

// Compiled-in price tables used when the content-managed catalog has no rows
// for a combination. Tables are keyed by service type and quality; platforms
// share the same default ladder.

type defaultKey struct {
	Service ServiceType
	Quality Quality
}

func tier(qty int, price string) PackageTier {
	return PackageTier{Quantity: qty, Price: decimal.RequireFromString(price)}
}

func promo(qty int, price, strike, label string) PackageTier {
	return PackageTier{
		Quantity:      qty,
		Price:         decimal.RequireFromString(price),
		StrikePrice:   decimal.RequireFromString(strike),
		DiscountLabel: label,
	}
}

var defaultTiers = map[defaultKey][]PackageTier{
	{ServiceLikes, QualityHigh}: {
		tier(50, "1.99"),
		tier(100, "2.99"),
		tier(250, "5.49"),
		tier(500, "8.99"),
		promo(1000, "14.99", "19.99", "25% OFF"),
		tier(2500, "29.99"),
		tier(5000, "49.99"),
		tier(10000, "89.99"),
	},
	{ServiceLikes, QualityPremium}: {
		tier(50, "2.99"),
		tier(100, "4.49"),
		tier(250, "8.49"),
		tier(500, "13.99"),
		promo(1000, "22.99", "29.99", "23% OFF"),
		tier(2500, "44.99"),
		tier(5000, "74.99"),
		tier(10000, "129.99"),
	},
	{ServiceFollowers, QualityHigh}: {
		tier(100, "2.99"),
		tier(250, "5.99"),
		tier(500, "9.99"),
		promo(1000, "17.99", "23.99", "25% OFF"),
		tier(2500, "39.99"),
		tier(5000, "69.99"),
		tier(10000, "119.99"),
	},
	{ServiceFollowers, QualityPremium}: {
		tier(100, "4.49"),
		tier(250, "8.99"),
		tier(500, "14.99"),
		promo(1000, "26.99", "35.99", "25% OFF"),
		tier(2500, "59.99"),
		tier(5000, "99.99"),
		tier(10000, "179.99"),
	},
	{ServiceViews, QualityHigh}: {
		tier(500, "1.99"),
		tier(1000, "2.99"),
		tier(2500, "5.99"),
		tier(5000, "9.99"),
		promo(10000, "16.99", "21.99", "22% OFF"),
		tier(25000, "34.99"),
		tier(50000, "59.99"),
		tier(100000, "99.99"),
	},
	{ServiceViews, QualityPremium}: {
		tier(500, "2.99"),
		tier(1000, "4.49"),
		tier(2500, "8.99"),
		tier(5000, "14.99"),
		promo(10000, "24.99", "32.99", "24% OFF"),
		tier(25000, "52.99"),
		tier(50000, "89.99"),
		tier(100000, "149.99"),
	},
	{ServiceSubscribers, QualityHigh}: {
		tier(50, "4.99"),
		tier(100, "8.99"),
		tier(250, "19.99"),
		tier(500, "34.99"),
		promo(1000, "59.99", "79.99", "25% OFF"),
		tier(2500, "129.99"),
		tier(5000, "229.99"),
	},
	{ServiceSubscribers, QualityPremium}: {
		tier(50, "7.49"),
		tier(100, "12.99"),
		tier(250, "28.99"),
		tier(500, "52.99"),
		promo(1000, "89.99", "119.99", "25% OFF"),
		tier(2500, "194.99"),
		tier(5000, "339.99"),
	},
}

// DefaultTiers returns the fallback ladder for a combination, or nil when the
// platform does not sell the service type.
func DefaultTiers(p Platform, s ServiceType, q Quality) []PackageTier {
	if !Offered(p, s) {
		return nil
	}
	src := defaultTiers[defaultKey{s, q}]
	out := make([]PackageTier, len(src))
	copy(out, src)
	return out
}
