package catalog

import (
	"context"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type Repo struct{ DB *pgxpool.Pool }

// ListTiers returns the content-managed tiers for a combination, sorted by
// quantity ascending. An empty result means "fall back to defaults".
func (r *Repo) ListTiers(ctx context.Context, p Platform, s ServiceType, q Quality) ([]PackageTier, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT quantity, price, strike_price, discount_label, provider_service_id
		FROM catalog_packages
		WHERE platform=$1 AND service_type=$2 AND quality=$3 AND active
		ORDER BY quantity`, p, s, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PackageTier
	for rows.Next() {
		var (
			t      PackageTier
			strike *decimal.Decimal
			label  *string
			svcID  *string
		)
		if err := rows.Scan(&t.Quantity, &t.Price, &strike, &label, &svcID); err != nil {
			return nil, err
		}
		if strike != nil {
			t.StrikePrice = *strike
		}
		if label != nil {
			t.DiscountLabel = *label
		}
		if svcID != nil {
			t.ProviderServiceID = *svcID
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// UpsertTiers replaces the managed ladder for a combination in one
// transaction. Writes validate that quantity and price grow together.
func (r *Repo) UpsertTiers(ctx context.Context, p Platform, s ServiceType, q Quality, tiers []PackageTier) error {
	sorted := make([]PackageTier, len(tiers))
	copy(sorted, tiers)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Quantity < sorted[j].Quantity })
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Quantity == sorted[i-1].Quantity {
			return fmt.Errorf("duplicate quantity %d", sorted[i].Quantity)
		}
		if sorted[i].Price.LessThanOrEqual(sorted[i-1].Price) {
			return fmt.Errorf("price must increase with quantity: %d -> %d", sorted[i-1].Quantity, sorted[i].Quantity)
		}
	}

	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `
		UPDATE catalog_packages SET active=false
		WHERE platform=$1 AND service_type=$2 AND quality=$3`, p, s, q); err != nil {
		return err
	}
	for _, t := range sorted {
		var strike *decimal.Decimal
		if !t.StrikePrice.IsZero() {
			strike = &t.StrikePrice
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO catalog_packages(platform, service_type, quality, quantity, price, strike_price, discount_label, provider_service_id, active)
			VALUES ($1,$2,$3,$4,$5,$6,NULLIF($7,''),NULLIF($8,''),true)
			ON CONFLICT (platform, service_type, quality, quantity)
			DO UPDATE SET price=EXCLUDED.price, strike_price=EXCLUDED.strike_price,
			              discount_label=EXCLUDED.discount_label,
			              provider_service_id=EXCLUDED.provider_service_id, active=true`,
			p, s, q, t.Quantity, t.Price, strike, t.DiscountLabel, t.ProviderServiceID); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}
