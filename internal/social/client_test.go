package social

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azursoldev/likes-io/internal/catalog"
)

func TestProfileWrappedShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/social/instagram/profile", r.URL.Path)
		assert.Equal(t, "someuser", r.URL.Query().Get("username"))
		_, _ = w.Write([]byte(`{"profile": {"username": "someuser", "follower_count": 1234}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	p, err := c.Profile(context.Background(), catalog.PlatformInstagram, "someuser")
	require.NoError(t, err)
	assert.Equal(t, "someuser", p.Username)
	assert.Equal(t, 1234, p.FollowerCount)
}

func TestProfileBareShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"username": "someuser", "is_private": true}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	p, err := c.Profile(context.Background(), catalog.PlatformInstagram, "someuser")
	require.NoError(t, err)
	assert.Equal(t, "someuser", p.Username)
	assert.True(t, p.IsPrivate)
}

func TestProfileNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.Profile(context.Background(), catalog.PlatformTikTok, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProfileUpstreamDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.Profile(context.Background(), catalog.PlatformInstagram, "someuser")
	assert.ErrorIs(t, err, ErrUnavailable)

	// connection refused is an outage too
	srv.Close()
	_, err = c.Profile(context.Background(), catalog.PlatformInstagram, "someuser")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestPosts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/instagram/posts", r.URL.Path)
		assert.Equal(t, "c2", r.URL.Query().Get("cursor"))
		_, _ = w.Write([]byte(`{"posts": [{"id": "p1", "url": "https://instagram.com/p/p1"}], "next_cursor": "c3"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	page, err := c.Posts(context.Background(), catalog.PlatformInstagram, "someuser", "c2")
	require.NoError(t, err)
	require.Len(t, page.Posts, 1)
	assert.Equal(t, "p1", page.Posts[0].ID)
	assert.Equal(t, "c3", page.NextCursor)
}
