package checkout

import (
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/azursoldev/likes-io/internal/catalog"
)

// State is the in-progress order. There is no server-side session for the
// cart: every field round-trips through query parameters between wizard
// pages, and the server re-derives anything money-related at submission.
type State struct {
	Platform    catalog.Platform
	ServiceType catalog.ServiceType
	Quality     catalog.Quality
	Quantity    int
	Price       decimal.Decimal
	Targets     []string // usernames or content URLs
	Email       string
	CouponCode  string
	UpsellIDs   []string
	Step        Step
}

// Encode serializes the state for a forward navigation.
func (s State) Encode() url.Values {
	v := url.Values{}
	v.Set("platform", string(s.Platform))
	v.Set("type", string(s.ServiceType))
	v.Set("quality", string(s.Quality))
	v.Set("qty", catalog.FormatQuantity(s.Quantity))
	v.Set("price", s.Price.String())
	if len(s.Targets) > 0 {
		v.Set("targets", strings.Join(s.Targets, ","))
	}
	if s.Email != "" {
		v.Set("email", s.Email)
	}
	if s.CouponCode != "" {
		v.Set("coupon", s.CouponCode)
	}
	if len(s.UpsellIDs) > 0 {
		v.Set("upsells", strings.Join(s.UpsellIDs, ","))
	}
	v.Set("step", string(s.Step))
	return v
}

// Decode rebuilds state from query parameters, applying defaults for
// anything missing or malformed.
func Decode(v url.Values) State {
	s := State{
		Platform:    catalog.PlatformInstagram,
		ServiceType: catalog.ServiceLikes,
		Quality:     catalog.QualityHigh,
		Step:        StepDetails,
	}
	if p := catalog.Platform(v.Get("platform")); p.Valid() {
		s.Platform = p
	}
	if t := catalog.ServiceType(v.Get("type")); t.Valid() && catalog.Offered(s.Platform, t) {
		s.ServiceType = t
	}
	if q := catalog.Quality(v.Get("quality")); q.Valid() {
		s.Quality = q
	}
	if qty, err := catalog.ParseQuantity(v.Get("qty")); err == nil {
		s.Quantity = qty
	}
	if price, err := decimal.NewFromString(v.Get("price")); err == nil && !price.IsNegative() {
		s.Price = price
	}
	s.Targets = splitList(v.Get("targets"))
	s.Email = v.Get("email")
	s.CouponCode = v.Get("coupon")
	s.UpsellIDs = splitList(v.Get("upsells"))
	if st := Step(v.Get("step")); st.valid() {
		s.Step = st
	}
	return s
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
