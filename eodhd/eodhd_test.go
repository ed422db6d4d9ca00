package eodhd

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/etnz/wealth"
	"github.com/etnz/wealth/date"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTicker(t *testing.T) {
	tests := map[string]string{
		"00700.HK": "0700.HK",
		"9988.HK":  "9988.HK",
		"00005.hk": "0005.HK",
		"CBA.AX":   "CBA.AU",
		"aapl":     "AAPL.US",
		"VOD.LSE":  "VOD.LSE",
	}
	for in, want := range tests {
		assert.Equal(t, want, Ticker(in), "Ticker(%q)", in)
	}
}

func newTestOracle(t *testing.T, handler http.HandlerFunc) (*Oracle, *atomic.Int32) {
	t.Helper()
	calls := new(atomic.Int32)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	o := &Oracle{apiKey: "demo", url: srv.URL, client: &http.Client{Transport: &diskCache{
		base:  http.DefaultTransport,
		dir:   t.TempDir(),
		today: func() date.Date { return date.New(2024, time.June, 15) },
	}}}
	return o, calls
}

func TestEstimatePrice(t *testing.T) {
	o, calls := newTestOracle(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/real-time/0700.HK", r.URL.Path)
		assert.Equal(t, "demo", r.URL.Query().Get("api_token"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"code":"0700.HK","close":"NA","previousClose":372.4}`))
	})

	p, err := o.EstimatePrice(t.Context(), "00700.HK")
	require.NoError(t, err)
	assert.Equal(t, 372.4, p)

	// served from the cache
	p, err = o.EstimatePrice(t.Context(), "00700.HK")
	require.NoError(t, err)
	assert.Equal(t, 372.4, p)
	assert.Equal(t, int32(1), calls.Load())
}

func TestEstimatePrice_Unavailable(t *testing.T) {
	o, _ := newTestOracle(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/real-time/NOPE.US" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{"code":"X.US","close":"NA","previousClose":"NA"}`))
	})

	_, err := o.EstimatePrice(t.Context(), "NOPE")
	assert.ErrorIs(t, err, wealth.ErrUnavailable)
	_, err = o.EstimatePrice(t.Context(), "X")
	assert.ErrorIs(t, err, wealth.ErrUnavailable)

	_, err = (&Oracle{}).EstimatePrice(t.Context(), "X")
	assert.ErrorIs(t, err, wealth.ErrUnavailable)
}
