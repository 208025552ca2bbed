package coupon

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/azursoldev/likes-io/internal/catalog"
	"github.com/azursoldev/likes-io/internal/pricing"
)

// Store is what the service needs from persistence; interfaces keep the
// validation rules testable without a database.
type Store interface {
	GetByCode(ctx context.Context, code string) (*Coupon, error)
	GetUsage(ctx context.Context, couponID int64, userID string) (int, error)
	GetAndLockUsage(ctx context.Context, tx pgx.Tx, couponID int64, userID string) (int, error)
	IncrementUsage(ctx context.Context, tx pgx.Tx, couponID int64, userID string) error
}

var ErrUsageLimit = errors.New("coupon usage limit reached")

type Service struct {
	Store Store
	// Now is swappable in tests; nil means time.Now.
	Now func() time.Time
}

type ValidateRequest struct {
	Code        string
	OrderAmount decimal.Decimal
	ServiceType catalog.ServiceType
	UserID      string
}

// Result is deliberately non-fatal: coupon problems come back as
// Valid=false plus a message and never fail the request.
type Result struct {
	Valid   bool                   `json:"valid"`
	Message string                 `json:"message"`
	Coupon  *pricing.AppliedCoupon `json:"coupon,omitempty"`
}

// Validate checks a code against a prospective order without consuming a use.
func (s *Service) Validate(ctx context.Context, req ValidateRequest) (Result, error) {
	c, err := s.Store.GetByCode(ctx, req.Code)
	if err != nil {
		return Result{}, err
	}
	if c == nil {
		return Result{Message: "coupon_not_found"}, nil
	}

	now := s.now()
	if !c.Active {
		return Result{Message: "coupon_inactive"}, nil
	}
	if c.ExpiresAt.Before(now) {
		return Result{Message: "coupon_expired"}, nil
	}
	if c.ValidFrom != nil && now.Before(*c.ValidFrom) {
		return Result{Message: "not_in_valid_window"}, nil
	}
	if c.ValidTo != nil && now.After(*c.ValidTo) {
		return Result{Message: "not_in_valid_window"}, nil
	}
	if c.MinOrderAmount.GreaterThan(req.OrderAmount) {
		return Result{Message: "min_order_value_not_met"}, nil
	}
	if c.ServiceType != nil && *c.ServiceType != req.ServiceType {
		return Result{Message: "wrong_service_type"}, nil
	}
	if c.MaxUsesPerUser > 0 && req.UserID != "" {
		used, err := s.Store.GetUsage(ctx, c.ID, req.UserID)
		if err != nil {
			return Result{}, err
		}
		if used >= c.MaxUsesPerUser {
			return Result{Message: "usage_limit_reached"}, nil
		}
	}

	return Result{Valid: true, Message: "coupon_applied", Coupon: c.Snapshot()}, nil
}

// Consume burns one use inside the caller's transaction, re-checking the
// per-user limit under a row lock. Called once payment succeeds.
func (s *Service) Consume(ctx context.Context, tx pgx.Tx, c *Coupon, userID string) error {
	if c.MaxUsesPerUser <= 0 || userID == "" {
		return nil
	}
	used, err := s.Store.GetAndLockUsage(ctx, tx, c.ID, userID)
	if err != nil {
		return err
	}
	if used >= c.MaxUsesPerUser {
		return ErrUsageLimit
	}
	return s.Store.IncrementUsage(ctx, tx, c.ID, userID)
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}
