package httpx

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/azursoldev/likes-io/internal/catalog"
	"github.com/azursoldev/likes-io/internal/social"
)

type SocialHandler struct {
	Client *social.Client
}

func (h *SocialHandler) Register(r *chi.Mux) {
	r.Get("/api/social/{platform}/profile", h.profile)
	r.Get("/api/social/{platform}/posts", h.posts)
}

func (h *SocialHandler) profile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	p := catalog.Platform(chi.URLParam(r, "platform"))
	username := r.URL.Query().Get("username")
	if !p.Valid() || username == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "platform and username required"})
		return
	}

	profile, err := h.Client.Profile(ctx, p, username)
	if err != nil {
		switch {
		case errors.Is(err, social.ErrNotFound):
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "profile_not_found"})
		case errors.Is(err, social.ErrUnavailable):
			// lookup outage never blocks checkout; the client may proceed
			// unvalidated
			writeJSON(w, http.StatusBadGateway, map[string]any{"error": "profile_service_unavailable", "degraded": true})
		default:
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"profile": profile})
}

func (h *SocialHandler) posts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	p := catalog.Platform(chi.URLParam(r, "platform"))
	username := r.URL.Query().Get("username")
	if !p.Valid() || username == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "platform and username required"})
		return
	}

	page, err := h.Client.Posts(ctx, p, username, r.URL.Query().Get("cursor"))
	if err != nil {
		switch {
		case errors.Is(err, social.ErrNotFound):
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "profile_not_found"})
		case errors.Is(err, social.ErrUnavailable):
			writeJSON(w, http.StatusBadGateway, map[string]any{"error": "posts_service_unavailable", "degraded": true})
		default:
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
		return
	}
	writeJSON(w, http.StatusOK, page)
}
