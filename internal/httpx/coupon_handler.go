package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/azursoldev/likes-io/internal/catalog"
	"github.com/azursoldev/likes-io/internal/coupon"
	"github.com/azursoldev/likes-io/internal/pricing"
)

type CouponHandler struct {
	Service *coupon.Service
	Repo    *coupon.Repo
}

func (h *CouponHandler) Register(r *chi.Mux) {
	r.Post("/api/coupons/validate", h.validate)
	r.Post("/api/admin/coupons", h.create)
}

type validateCouponReq struct {
	Code        string              `json:"code"`
	OrderAmount decimal.Decimal     `json:"orderAmount"`
	ServiceType catalog.ServiceType `json:"serviceType"`
}

func (h *CouponHandler) validate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var req validateCouponReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if req.Code == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "code required"})
		return
	}

	res, err := h.Service.Validate(ctx, coupon.ValidateRequest{
		Code:        req.Code,
		OrderAmount: req.OrderAmount,
		ServiceType: req.ServiceType,
		UserID:      userID(r),
	})
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	// Always 200: coupon problems are inline messages, never checkout
	// blockers.
	writeJSON(w, http.StatusOK, res)
}

type createCouponReq struct {
	Code           string               `json:"code"`
	Kind           pricing.DiscountKind `json:"kind"`
	Value          decimal.Decimal      `json:"value"`
	MinOrderAmount decimal.Decimal      `json:"min_order_amount"`
	ValidFrom      string               `json:"valid_from,omitempty"` // RFC3339
	ValidTo        string               `json:"valid_to,omitempty"`
	ExpiresAt      string               `json:"expires_at"`
	MaxUsesPerUser int                  `json:"max_uses_per_user"`
	ServiceType    string               `json:"service_type,omitempty"`
}

func (h *CouponHandler) create(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var req createCouponReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if req.Code == "" || !req.Value.IsPositive() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "code and positive value required"})
		return
	}
	if req.Kind != pricing.DiscountPercent && req.Kind != pricing.DiscountFixed {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "kind must be percent or fixed"})
		return
	}

	expires, err := time.Parse(time.RFC3339, req.ExpiresAt)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid expires_at; use RFC3339"})
		return
	}
	validFrom, err := parseTimeOrEmpty(req.ValidFrom)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid valid_from; use RFC3339"})
		return
	}
	validTo, err := parseTimeOrEmpty(req.ValidTo)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid valid_to; use RFC3339"})
		return
	}

	c := coupon.Coupon{
		Code:           req.Code,
		Kind:           req.Kind,
		Value:          req.Value,
		MinOrderAmount: req.MinOrderAmount,
		ValidFrom:      validFrom,
		ValidTo:        validTo,
		ExpiresAt:      expires,
		MaxUsesPerUser: req.MaxUsesPerUser,
		Active:         true,
	}
	if req.ServiceType != "" {
		st := catalog.ServiceType(req.ServiceType)
		if !st.Valid() {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid service_type"})
			return
		}
		c.ServiceType = &st
	}

	id, err := h.Repo.Create(ctx, c)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed_create_coupon"})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"message": "coupon_created", "coupon_id": id})
}

func parseTimeOrEmpty(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
