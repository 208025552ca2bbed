package payments

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/azursoldev/likes-io/internal/coupon"
	"github.com/azursoldev/likes-io/internal/orders"
	"github.com/azursoldev/likes-io/internal/wallet"
)

// WalletGateway settles synchronously: debit, mark paid, and consume the
// coupon use in one transaction. No redirect.
type WalletGateway struct {
	DB      *pgxpool.Pool
	Wallet  *wallet.Repo
	Orders  *orders.Repo
	Coupons *coupon.Service
}

func (g *WalletGateway) Begin(ctx context.Context, o orders.Order) (BeginResult, error) {
	if o.UserID == "" {
		return BeginResult{}, ErrAuthRequired
	}

	var c *coupon.Coupon
	if o.CouponCode != "" {
		var err error
		c, err = g.Coupons.Store.GetByCode(ctx, o.CouponCode)
		if err != nil {
			return BeginResult{}, err
		}
	}

	ref := "wallet-" + uuid.NewString()
	tx, err := g.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return BeginResult{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := g.Wallet.DebitTx(ctx, tx, o.UserID, o.Total); err != nil {
		return BeginResult{}, err
	}
	if err := g.Orders.MarkPaidTx(ctx, tx, o.ID, ref); err != nil {
		return BeginResult{}, err
	}
	if c != nil {
		if err := g.Coupons.Consume(ctx, tx, c, o.UserID); err != nil {
			return BeginResult{}, err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return BeginResult{}, err
	}
	return BeginResult{Settled: true, Ref: ref}, nil
}
