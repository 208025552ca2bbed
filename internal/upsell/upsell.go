package upsell

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/azursoldev/likes-io/internal/catalog"
	"github.com/azursoldev/likes-io/internal/pricing"
)

// Offer is a content-managed add-on shown at checkout.
type Offer struct {
	ID            string               `json:"id"`
	Title         string               `json:"title"`
	BasePrice     decimal.Decimal      `json:"base_price"`
	DiscountKind  pricing.DiscountKind `json:"discount_type"`
	DiscountValue decimal.Decimal      `json:"discount_value"`
	Icon          string               `json:"icon"`
	Platform      catalog.Platform     `json:"platform"`
	ServiceType   catalog.ServiceType  `json:"service_type"`
	Active        bool                 `json:"-"`
	CreatedAt     time.Time            `json:"-"`

	// Price is the resolved discounted price the buyer pays.
	Price decimal.Decimal `json:"price"`
}

func (o *Offer) resolve() {
	o.Price = pricing.ApplyDiscount(o.BasePrice, o.DiscountKind, o.DiscountValue)
}

type Repo struct{ DB *pgxpool.Pool }

func (r *Repo) ListActive(ctx context.Context, p catalog.Platform, s catalog.ServiceType) ([]Offer, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, title, base_price, discount_kind, discount_value, icon, platform, service_type
		FROM upsell_offers
		WHERE platform=$1 AND service_type=$2 AND active
		ORDER BY base_price`, p, s)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Offer
	for rows.Next() {
		var o Offer
		if err := rows.Scan(&o.ID, &o.Title, &o.BasePrice, &o.DiscountKind, &o.DiscountValue,
			&o.Icon, &o.Platform, &o.ServiceType); err != nil {
			return nil, err
		}
		o.resolve()
		out = append(out, o)
	}
	return out, rows.Err()
}

// GetByIDs loads active offers by id; missing or inactive ids are silently
// dropped so stale client selections cannot inflate an order.
func (r *Repo) GetByIDs(ctx context.Context, ids []string) ([]Offer, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.DB.Query(ctx, `
		SELECT id, title, base_price, discount_kind, discount_value, icon, platform, service_type
		FROM upsell_offers
		WHERE id = ANY($1) AND active`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Offer
	for rows.Next() {
		var o Offer
		if err := rows.Scan(&o.ID, &o.Title, &o.BasePrice, &o.DiscountKind, &o.DiscountValue,
			&o.Icon, &o.Platform, &o.ServiceType); err != nil {
			return nil, err
		}
		o.resolve()
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *Repo) Create(ctx context.Context, o Offer) (string, error) {
	var id string
	err := r.DB.QueryRow(ctx, `
		INSERT INTO upsell_offers(title, base_price, discount_kind, discount_value, icon, platform, service_type, active, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,true,NOW())
		RETURNING id`,
		o.Title, o.BasePrice, o.DiscountKind, o.DiscountValue, o.Icon, o.Platform, o.ServiceType,
	).Scan(&id)
	return id, err
}
