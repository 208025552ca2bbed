package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/azursoldev/likes-io/internal/redisx"
)

// priceTolerance is the matching slack for URL-supplied prices.
var priceTolerance = decimal.RequireFromString("0.01")

// Resolver answers "what can be bought for this combination". Precedence:
// Redis cache, content-managed rows, compiled-in defaults.
type Resolver struct {
	Repo  *Repo
	Redis *redis.Client
}

func (rs *Resolver) Tiers(ctx context.Context, p Platform, s ServiceType, q Quality) ([]PackageTier, error) {
	if !p.Valid() || !s.Valid() || !q.Valid() {
		return nil, fmt.Errorf("%w: %s/%s/%s", ErrNotOffered, p, s, q)
	}
	if !Offered(p, s) {
		return nil, fmt.Errorf("%w: %s does not sell %s", ErrNotOffered, p, s)
	}

	key := fmt.Sprintf(redisx.KeyCatalog, p, s, q)
	if rs.Redis != nil {
		if raw, err := rs.Redis.Get(ctx, key).Result(); err == nil && raw != "" {
			var tiers []PackageTier
			if err := json.Unmarshal([]byte(raw), &tiers); err == nil && len(tiers) > 0 {
				return tiers, nil
			}
		}
	}

	tiers, err := rs.Repo.ListTiers(ctx, p, s, q)
	if err != nil {
		// Degrade to the compiled-in table instead of failing the page.
		log.Printf("catalog list %s/%s/%s: %v", p, s, q, err)
		tiers = nil
	}
	if len(tiers) == 0 {
		tiers = DefaultTiers(p, s, q)
	}

	if rs.Redis != nil && len(tiers) > 0 {
		_ = rs.Redis.Set(ctx, key, mustJSON(tiers), redisx.TTLCatalog).Err()
	}
	return tiers, nil
}

// Invalidate busts the cached ladder after an admin write.
func (rs *Resolver) Invalidate(ctx context.Context, p Platform, s ServiceType, q Quality) {
	if rs.Redis == nil {
		return
	}
	_ = rs.Redis.Del(ctx, fmt.Sprintf(redisx.KeyCatalog, p, s, q)).Err()
}

// MatchTier resolves a quantity/price pair against the ladder. An exact
// quantity match within the price tolerance yields the canonical tier;
// anything else becomes a one-off custom tier that disables switching.
func MatchTier(tiers []PackageTier, qty int, price decimal.Decimal) PackageTier {
	t, ok := lo.Find(tiers, func(t PackageTier) bool {
		return t.Quantity == qty && t.Price.Sub(price).Abs().LessThanOrEqual(priceTolerance)
	})
	if ok {
		return t
	}
	return PackageTier{Quantity: qty, Price: price, Custom: true}
}

// FindQuantity returns the canonical tier for a quantity regardless of the
// price the client claims. Used server-side where prices are re-derived.
func FindQuantity(tiers []PackageTier, qty int) (PackageTier, bool) {
	return lo.Find(tiers, func(t PackageTier) bool { return t.Quantity == qty })
}

func mustJSON(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}
