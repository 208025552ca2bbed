package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/azursoldev/likes-io/internal/catalog"
)

type CatalogHandler struct {
	Resolver *catalog.Resolver
	Repo     *catalog.Repo
}

func (h *CatalogHandler) Register(r *chi.Mux) {
	r.Get("/api/catalog/{platform}/{serviceType}", h.listPackages)
	r.Put("/api/admin/catalog/{platform}/{serviceType}/{quality}", h.upsertPackages)
}

func (h *CatalogHandler) listPackages(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	p := catalog.Platform(chi.URLParam(r, "platform"))
	s := catalog.ServiceType(chi.URLParam(r, "serviceType"))
	q := catalog.Quality(r.URL.Query().Get("quality"))
	if q == "" {
		q = catalog.QualityHigh
	}

	tiers, err := h.Resolver.Tiers(ctx, p, s, q)
	if err != nil {
		if errors.Is(err, catalog.ErrNotOffered) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"packages": tiers})
}

type upsertPackagesReq struct {
	Packages []catalog.PackageTier `json:"packages"`
}

func (h *CatalogHandler) upsertPackages(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	p := catalog.Platform(chi.URLParam(r, "platform"))
	s := catalog.ServiceType(chi.URLParam(r, "serviceType"))
	q := catalog.Quality(chi.URLParam(r, "quality"))
	if !p.Valid() || !s.Valid() || !q.Valid() || !catalog.Offered(p, s) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "combination not offered"})
		return
	}

	var req upsertPackagesReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if len(req.Packages) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "packages required"})
		return
	}

	if err := h.Repo.UpsertTiers(ctx, p, s, q, req.Packages); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	h.Resolver.Invalidate(ctx, p, s, q)
	writeJSON(w, http.StatusOK, map[string]string{"message": "packages_updated"})
}
