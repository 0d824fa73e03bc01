package provider

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFeedServer(t *testing.T, path string, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != path {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/javascript")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCBRDailyProvider_FetchRates(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		srv := newFeedServer(t, "/daily_json.js", http.StatusOK,
			`{"Date":"2024-05-01T11:30:00+03:00","Valute":{"USD":{"Nominal":1,"Value":75.0},"EUR":{"Nominal":1,"Value":85.0},"JPY":{"Nominal":100,"Value":60.0}}}`)

		p := NewCBRDailyProvider(srv.URL, 5)
		snap, err := p.FetchRates(context.Background())

		require.NoError(t, err)
		assert.Equal(t, Snapshot{USDRate: 75.0, EURRate: 85.0}, snap)
	})

	t.Run("nominal scales the rate", func(t *testing.T) {
		srv := newFeedServer(t, "/daily_json.js", http.StatusOK,
			`{"Valute":{"USD":{"Nominal":10,"Value":750.0},"EUR":{"Value":85.0}}}`)

		snap, err := NewCBRDailyProvider(srv.URL+"/", 5).FetchRates(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 75.0, snap.USDRate)
		assert.Equal(t, 85.0, snap.EURRate)
	})

	t.Run("missing EUR field", func(t *testing.T) {
		srv := newFeedServer(t, "/daily_json.js", http.StatusOK,
			`{"Valute":{"USD":{"Nominal":1,"Value":75.0}}}`)

		_, err := NewCBRDailyProvider(srv.URL, 5).FetchRates(context.Background())

		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrUnavailable))
		reason, ok := ReasonOf(err)
		assert.True(t, ok)
		assert.Equal(t, ReasonMalformed, reason)
	})

	t.Run("non-positive value", func(t *testing.T) {
		srv := newFeedServer(t, "/daily_json.js", http.StatusOK,
			`{"Valute":{"USD":{"Value":0},"EUR":{"Value":85.0}}}`)

		_, err := NewCBRDailyProvider(srv.URL, 5).FetchRates(context.Background())

		reason, _ := ReasonOf(err)
		assert.Equal(t, ReasonMalformed, reason)
	})

	t.Run("malformed body", func(t *testing.T) {
		srv := newFeedServer(t, "/daily_json.js", http.StatusOK, `<html>maintenance</html>`)

		_, err := NewCBRDailyProvider(srv.URL, 5).FetchRates(context.Background())

		reason, _ := ReasonOf(err)
		assert.Equal(t, ReasonMalformed, reason)
	})

	t.Run("bad status", func(t *testing.T) {
		srv := newFeedServer(t, "/daily_json.js", http.StatusServiceUnavailable, `down`)

		_, err := NewCBRDailyProvider(srv.URL, 5).FetchRates(context.Background())

		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrUnavailable))
		reason, _ := ReasonOf(err)
		assert.Equal(t, ReasonBadStatus, reason)
		assert.Contains(t, err.Error(), "status 503")
	})

	t.Run("connection refused", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		_, err := NewCBRDailyProvider(url, 5).FetchRates(context.Background())

		reason, _ := ReasonOf(err)
		assert.Equal(t, ReasonConnection, reason)
	})

	t.Run("timeout", func(t *testing.T) {
		release := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}))
		defer srv.Close()
		defer close(release)

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		_, err := NewCBRDailyProvider(srv.URL, 5).FetchRates(ctx)

		reason, _ := ReasonOf(err)
		assert.Equal(t, ReasonTimeout, reason)
	})
}
