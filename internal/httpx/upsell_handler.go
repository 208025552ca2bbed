package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/azursoldev/likes-io/internal/catalog"
	"github.com/azursoldev/likes-io/internal/pricing"
	"github.com/azursoldev/likes-io/internal/upsell"
)

type UpsellHandler struct {
	Repo *upsell.Repo
}

func (h *UpsellHandler) Register(r *chi.Mux) {
	r.Get("/api/upsells", h.list)
	r.Post("/api/admin/upsells", h.create)
}

func (h *UpsellHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	p := catalog.Platform(r.URL.Query().Get("platform"))
	s := catalog.ServiceType(r.URL.Query().Get("serviceType"))
	if !p.Valid() || !s.Valid() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "platform and serviceType required"})
		return
	}

	offers, err := h.Repo.ListActive(ctx, p, s)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"upsells": offers})
}

type createUpsellReq struct {
	Title         string               `json:"title"`
	BasePrice     decimal.Decimal      `json:"base_price"`
	DiscountKind  pricing.DiscountKind `json:"discount_type"`
	DiscountValue decimal.Decimal      `json:"discount_value"`
	Icon          string               `json:"icon"`
	Platform      catalog.Platform     `json:"platform"`
	ServiceType   catalog.ServiceType  `json:"service_type"`
}

func (h *UpsellHandler) create(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var req createUpsellReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if req.Title == "" || !req.BasePrice.IsPositive() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "title and positive base_price required"})
		return
	}
	if !req.Platform.Valid() || !req.ServiceType.Valid() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid platform or service_type"})
		return
	}

	id, err := h.Repo.Create(ctx, upsell.Offer{
		Title:         req.Title,
		BasePrice:     req.BasePrice,
		DiscountKind:  req.DiscountKind,
		DiscountValue: req.DiscountValue,
		Icon:          req.Icon,
		Platform:      req.Platform,
		ServiceType:   req.ServiceType,
	})
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed_create_upsell"})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"message": "upsell_created", "upsell_id": id})
}
