package catalog

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

type Platform string

const (
	PlatformInstagram Platform = "instagram"
	PlatformTikTok    Platform = "tiktok"
	PlatformYouTube   Platform = "youtube"
)

type ServiceType string

const (
	ServiceLikes       ServiceType = "likes"
	ServiceFollowers   ServiceType = "followers"
	ServiceViews       ServiceType = "views"
	ServiceSubscribers ServiceType = "subscribers"
)

type Quality string

const (
	QualityHigh    Quality = "high-quality"
	QualityPremium Quality = "premium"
)

var ErrNotOffered = errors.New("combination not offered")

// offered lists the service types sold per platform. Followers are an
// account-level concept on Instagram/TikTok; YouTube sells subscribers instead.
var offered = map[Platform][]ServiceType{
	PlatformInstagram: {ServiceLikes, ServiceFollowers, ServiceViews},
	PlatformTikTok:    {ServiceLikes, ServiceFollowers, ServiceViews},
	PlatformYouTube:   {ServiceLikes, ServiceViews, ServiceSubscribers},
}

func (p Platform) Valid() bool {
	_, ok := offered[p]
	return ok
}

func (s ServiceType) Valid() bool {
	switch s {
	case ServiceLikes, ServiceFollowers, ServiceViews, ServiceSubscribers:
		return true
	}
	return false
}

func (q Quality) Valid() bool {
	return q == QualityHigh || q == QualityPremium
}

func Offered(p Platform, s ServiceType) bool {
	for _, st := range offered[p] {
		if st == s {
			return true
		}
	}
	return false
}

// ContentScoped reports whether the service targets individual posts/videos
// rather than the account itself.
func ContentScoped(s ServiceType) bool {
	return s == ServiceLikes || s == ServiceViews
}

type PackageTier struct {
	Quantity          int             `json:"quantity"`
	Price             decimal.Decimal `json:"price"`
	StrikePrice       decimal.Decimal `json:"strike_price,omitempty"`
	DiscountLabel     string          `json:"discount_label,omitempty"`
	ProviderServiceID string          `json:"provider_service_id,omitempty"`

	// Custom marks a one-off tier synthesized from quantity/price that matched
	// nothing in the catalog; the selector disables tier switching for it.
	Custom bool `json:"custom,omitempty"`
}

// ParseQuantity accepts plain integers and "1K"/"2.5K"/"1M" shorthand.
func ParseQuantity(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty quantity")
	}
	mult := 1
	switch last := s[len(s)-1]; last {
	case 'k', 'K':
		mult = 1_000
		s = s[:len(s)-1]
	case 'm', 'M':
		mult = 1_000_000
		s = s[:len(s)-1]
	}
	if mult == 1 {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid quantity %q", s)
		}
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 {
		return 0, fmt.Errorf("invalid quantity %q", s)
	}
	return int(f * float64(mult)), nil
}

// FormatQuantity renders round thousands with the "K" shorthand used on
// package labels.
func FormatQuantity(n int) string {
	if n >= 1000 && n%1000 == 0 {
		return strconv.Itoa(n/1000) + "K"
	}
	return strconv.Itoa(n)
}
