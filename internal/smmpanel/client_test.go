package smmpanel

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func panelServer(t *testing.T, handle func(form url.Values) string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(handle(r.PostForm)))
	}))
}

func TestAddOrder(t *testing.T) {
	srv := panelServer(t, func(form url.Values) string {
		assert.Equal(t, "k-1", form.Get("key"))
		assert.Equal(t, "add", form.Get("action"))
		assert.Equal(t, "1101", form.Get("service"))
		assert.Equal(t, "https://instagram.com/p/abc", form.Get("link"))
		assert.Equal(t, "500", form.Get("quantity"))
		return `{"order": 987654}`
	})
	defer srv.Close()

	c := NewClient(srv.URL, "k-1")
	id, err := c.AddOrder(context.Background(), "1101", "https://instagram.com/p/abc", 500)
	require.NoError(t, err)
	assert.Equal(t, int64(987654), id)
}

func TestAddOrderRejected(t *testing.T) {
	srv := panelServer(t, func(url.Values) string {
		return `{"error": "not enough funds"}`
	})
	defer srv.Close()

	c := NewClient(srv.URL, "k-1")
	_, err := c.AddOrder(context.Background(), "1101", "https://instagram.com/p/abc", 500)
	assert.ErrorIs(t, err, ErrRejected)
	assert.Contains(t, err.Error(), "not enough funds")
}

func TestAddOrderEmptyID(t *testing.T) {
	srv := panelServer(t, func(url.Values) string { return `{}` })
	defer srv.Close()

	c := NewClient(srv.URL, "k-1")
	_, err := c.AddOrder(context.Background(), "1101", "https://instagram.com/p/abc", 500)
	assert.ErrorIs(t, err, ErrRejected)
}

func TestAddOrderHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k-1")
	_, err := c.AddOrder(context.Background(), "1101", "https://instagram.com/p/abc", 500)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrRejected)
}

func TestStatus(t *testing.T) {
	srv := panelServer(t, func(form url.Values) string {
		assert.Equal(t, "status", form.Get("action"))
		assert.Equal(t, "987654", form.Get("order"))
		return `{"status": "In progress", "start_count": 120, "remains": 380}`
	})
	defer srv.Close()

	c := NewClient(srv.URL, "k-1")
	st, err := c.Status(context.Background(), 987654)
	require.NoError(t, err)
	assert.Equal(t, int64(987654), st.PanelOrderID)
	assert.Equal(t, "In progress", st.Status)
	assert.Equal(t, 120, st.StartCount)
	assert.Equal(t, 380, st.Remains)
}
