package orders

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/azursoldev/likes-io/internal/catalog"
)

type Order struct {
	ID            string
	ExternalID    string
	UserID        string
	Email         string
	Platform      catalog.Platform
	ServiceType   catalog.ServiceType
	Quality       catalog.Quality
	Quantity      int
	Subtotal      decimal.Decimal // USD
	Discount      decimal.Decimal
	Total         decimal.Decimal
	CouponCode    string
	PaymentMethod string
	PaymentRef    string
	Status        Status // see status.go
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Target is one post/video/account the purchased engagement is applied to,
// carrying its share of the split quantity.
type Target struct {
	ID           int64
	OrderID      string
	Link         string
	Quantity     int
	PanelOrderID *int64 // set once submitted to the SMM panel
}

type UpsellItem struct {
	ID    string
	Price decimal.Decimal
}
