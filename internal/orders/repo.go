package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/azursoldev/likes-io/internal/catalog"
)

type Repo struct{ DB *pgxpool.Pool }

var ErrInvalidTransition = errors.New("invalid status transition")

// NewOrder carries everything CreateOrderTx persists. Amounts arrive already
// re-derived from the catalog; nothing here is taken from the client as-is.
type NewOrder struct {
	ExternalID    string
	UserID        string
	Email         string
	Platform      catalog.Platform
	ServiceType   catalog.ServiceType
	Quality       catalog.Quality
	Quantity      int
	Targets       []TargetQty
	Upsells       []UpsellItem
	Order         Order // only Subtotal/Discount/Total/CouponCode read from here
	PaymentMethod string
}

// CreateOrderTx is idempotent via external_id: when the id already exists the
// existing order is returned untouched (existed=true).
func (r *Repo) CreateOrderTx(ctx context.Context, n NewOrder) (orderID string, existed bool, err error) {
	row := r.DB.QueryRow(ctx, `SELECT id FROM orders WHERE external_id=$1`, n.ExternalID)
	if err = row.Scan(&orderID); err == nil {
		return orderID, true, nil
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return "", false, err
	}

	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return "", false, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	orderID = uuid.NewString()
	_, err = tx.Exec(ctx, `
		INSERT INTO orders(id, external_id, user_id, email, platform, service_type, quality,
		                   quantity, subtotal, discount, total, coupon_code, payment_method, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,NULLIF($12,''),$13,'PENDING_PAYMENT')`,
		orderID, n.ExternalID, n.UserID, n.Email, n.Platform, n.ServiceType, n.Quality,
		n.Quantity, n.Order.Subtotal, n.Order.Discount, n.Order.Total, n.Order.CouponCode, n.PaymentMethod)
	if err != nil {
		return "", false, err
	}

	for _, t := range n.Targets {
		if _, err = tx.Exec(ctx, `
			INSERT INTO order_targets(order_id, link, quantity)
			VALUES ($1,$2,$3)`, orderID, t.Link, t.Qty); err != nil {
			return "", false, err
		}
	}
	for _, u := range n.Upsells {
		if _, err = tx.Exec(ctx, `
			INSERT INTO order_upsells(order_id, upsell_id, price)
			VALUES ($1,$2,$3)`, orderID, u.ID, u.Price); err != nil {
			return "", false, err
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return "", false, err
	}
	return orderID, false, nil
}

func (r *Repo) Get(ctx context.Context, orderID string) (Order, error) {
	var o Order
	err := r.DB.QueryRow(ctx, `
		SELECT id, external_id, user_id, email, platform, service_type, quality, quantity,
		       subtotal, discount, total, COALESCE(coupon_code,''), payment_method,
		       COALESCE(payment_ref,''), status, created_at, updated_at
		FROM orders WHERE id=$1`, orderID).Scan(
		&o.ID, &o.ExternalID, &o.UserID, &o.Email, &o.Platform, &o.ServiceType, &o.Quality,
		&o.Quantity, &o.Subtotal, &o.Discount, &o.Total, &o.CouponCode, &o.PaymentMethod,
		&o.PaymentRef, &o.Status, &o.CreatedAt, &o.UpdatedAt)
	return o, err
}

func (r *Repo) GetStatus(ctx context.Context, orderID string) (Status, error) {
	var s string
	err := r.DB.QueryRow(ctx, `SELECT status FROM orders WHERE id=$1`, orderID).Scan(&s)
	if err != nil {
		return "", err
	}
	return Status(s), nil
}

func (r *Repo) ListTargets(ctx context.Context, orderID string) ([]Target, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, order_id, link, quantity, panel_order_id
		FROM order_targets WHERE order_id=$1 ORDER BY id`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Target
	for rows.Next() {
		var t Target
		if err := rows.Scan(&t.ID, &t.OrderID, &t.Link, &t.Quantity, &t.PanelOrderID); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// MarkPaidTx flips PENDING_PAYMENT -> PAID inside the caller's transaction.
func (r *Repo) MarkPaidTx(ctx context.Context, tx pgx.Tx, orderID, paymentRef string) error {
	ct, err := tx.Exec(ctx, `
		UPDATE orders SET status='PAID', payment_ref=$2, updated_at=NOW()
		WHERE id=$1 AND status='PENDING_PAYMENT'`, orderID, paymentRef)
	if err != nil {
		return err
	}
	if ct.RowsAffected() != 1 {
		return fmt.Errorf("%w: order %s is not awaiting payment", ErrInvalidTransition, orderID)
	}
	return nil
}

// SetStatus performs a guarded transition outside any caller transaction.
func (r *Repo) SetStatus(ctx context.Context, orderID string, from, to Status) error {
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	ct, err := r.DB.Exec(ctx, `
		UPDATE orders SET status=$3, updated_at=NOW()
		WHERE id=$1 AND status=$2`, orderID, from, to)
	if err != nil {
		return err
	}
	if ct.RowsAffected() != 1 {
		return fmt.Errorf("%w: order %s not in %s", ErrInvalidTransition, orderID, from)
	}
	return nil
}

// MarkSubmitted records panel order ids per target and flips PAID -> SUBMITTED
// atomically.
func (r *Repo) MarkSubmitted(ctx context.Context, orderID string, panelIDs map[int64]int64) error {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for targetID, panelID := range panelIDs {
		if _, err := tx.Exec(ctx, `
			UPDATE order_targets SET panel_order_id=$2 WHERE id=$1`, targetID, panelID); err != nil {
			return err
		}
	}
	ct, err := tx.Exec(ctx, `
		UPDATE orders SET status='SUBMITTED', updated_at=NOW()
		WHERE id=$1 AND status='PAID'`, orderID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() != 1 {
		return fmt.Errorf("%w: order %s is not PAID", ErrInvalidTransition, orderID)
	}
	return tx.Commit(ctx)
}
