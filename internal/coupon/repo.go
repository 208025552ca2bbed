package coupon

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ DB *pgxpool.Pool }

// GetByCode returns (nil, nil) when no coupon carries the code.
func (r *Repo) GetByCode(ctx context.Context, code string) (*Coupon, error) {
	var c Coupon
	err := r.DB.QueryRow(ctx, `
		SELECT id, code, kind, value, min_order_amount, valid_from, valid_to,
		       expires_at, max_uses_per_user, service_type, active, created_at, updated_at
		FROM coupons WHERE code=$1`, code).Scan(
		&c.ID, &c.Code, &c.Kind, &c.Value, &c.MinOrderAmount, &c.ValidFrom, &c.ValidTo,
		&c.ExpiresAt, &c.MaxUsesPerUser, &c.ServiceType, &c.Active, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *Repo) Create(ctx context.Context, c Coupon) (int64, error) {
	var id int64
	err := r.DB.QueryRow(ctx, `
		INSERT INTO coupons(code, kind, value, min_order_amount, valid_from, valid_to,
		                    expires_at, max_uses_per_user, service_type, active, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,NOW(),NOW())
		RETURNING id`,
		c.Code, c.Kind, c.Value, c.MinOrderAmount, c.ValidFrom, c.ValidTo,
		c.ExpiresAt, c.MaxUsesPerUser, c.ServiceType, c.Active,
	).Scan(&id)
	return id, err
}

// GetUsage is the non-locking read used during validation previews.
func (r *Repo) GetUsage(ctx context.Context, couponID int64, userID string) (int, error) {
	var n int
	err := r.DB.QueryRow(ctx, `
		SELECT usage_count FROM coupon_usage
		WHERE coupon_id=$1 AND user_id=$2`, couponID, userID).Scan(&n)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	return n, err
}

// GetAndLockUsage returns the usage row locked for update, creating it first
// when absent.
func (r *Repo) GetAndLockUsage(ctx context.Context, tx pgx.Tx, couponID int64, userID string) (int, error) {
	var n int
	err := tx.QueryRow(ctx, `
		SELECT usage_count FROM coupon_usage
		WHERE coupon_id=$1 AND user_id=$2 FOR UPDATE`, couponID, userID).Scan(&n)
	if errors.Is(err, pgx.ErrNoRows) {
		err = tx.QueryRow(ctx, `
			INSERT INTO coupon_usage(coupon_id, user_id, usage_count, last_used)
			VALUES ($1,$2,0,NOW())
			RETURNING usage_count`, couponID, userID).Scan(&n)
	}
	return n, err
}

func (r *Repo) IncrementUsage(ctx context.Context, tx pgx.Tx, couponID int64, userID string) error {
	_, err := tx.Exec(ctx, `
		UPDATE coupon_usage
		SET usage_count = usage_count + 1, last_used = NOW()
		WHERE coupon_id=$1 AND user_id=$2`, couponID, userID)
	return err
}
