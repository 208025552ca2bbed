package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/azursoldev/likes-io/internal/payments"
	"github.com/azursoldev/likes-io/internal/wallet"
)

type PaymentsHandler struct {
	Service *payments.Service
	Wallet  *wallet.Repo
}

func (h *PaymentsHandler) Register(r *chi.Mux) {
	r.Post("/api/payments/create", h.create)
	r.Post("/api/payments/callback/{provider}", h.callback)
	r.Post("/api/quote", h.quote)
	r.Get("/api/wallet/balance", h.balance)
}

func (h *PaymentsHandler) create(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 20*time.Second)
	defer cancel()

	var req payments.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	req.UserID = userID(r)
	req.TraceID = middleware.GetReqID(r.Context())

	resp, err := h.Service.Create(ctx, req)
	if err != nil {
		writePaymentError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *PaymentsHandler) callback(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	method := payments.Method(chi.URLParam(r, "provider"))
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unreadable body"})
		return
	}
	sig := r.Header.Get("X-Signature")

	if err := h.Service.HandleCallback(ctx, method, sig, body); err != nil {
		switch {
		case errors.Is(err, payments.ErrBadSignature):
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid signature"})
		default:
			writePaymentError(w, err)
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *PaymentsHandler) quote(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var req payments.QuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	req.UserID = userID(r)

	resp, err := h.Service.Quote(ctx, req)
	if err != nil {
		writePaymentError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *PaymentsHandler) balance(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	uid := userID(r)
	if uid == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "login_required"})
		return
	}
	balance, currency, err := h.Wallet.Balance(ctx, uid)
	if err != nil {
		if errors.Is(err, wallet.ErrNoAccount) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "no_wallet_account"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"balance": balance, "currency": currency})
}

func writePaymentError(w http.ResponseWriter, err error) {
	var ve payments.ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": string(ve)})
	case errors.Is(err, payments.ErrAuthRequired):
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "login_required"})
	case errors.Is(err, wallet.ErrInsufficientBalance):
		writeJSON(w, http.StatusPaymentRequired, map[string]string{"error": "insufficient_balance"})
	case errors.Is(err, wallet.ErrNoAccount):
		writeJSON(w, http.StatusPaymentRequired, map[string]string{"error": "no_wallet_account"})
	case errors.Is(err, payments.ErrUnknownMethod):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown payment method"})
	default:
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
	}
}
