package coupon

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/azursoldev/likes-io/internal/catalog"
	"github.com/azursoldev/likes-io/internal/pricing"
)

type Coupon struct {
	ID             int64
	Code           string
	Kind           pricing.DiscountKind
	Value          decimal.Decimal
	MinOrderAmount decimal.Decimal
	ValidFrom      *time.Time
	ValidTo        *time.Time
	ExpiresAt      time.Time
	MaxUsesPerUser int
	// ServiceType restricts the coupon to one service type when set.
	ServiceType *catalog.ServiceType
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Snapshot is what the client holds after a successful validation.
func (c *Coupon) Snapshot() *pricing.AppliedCoupon {
	return &pricing.AppliedCoupon{Code: c.Code, Kind: c.Kind, Value: c.Value}
}
