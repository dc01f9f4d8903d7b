package trends

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/polwatch/regime-risk-meter/internal/monitoring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchDisabledWithoutURL(t *testing.T) {
	c := NewClient("", monitoring.NewMetrics())
	_, err := c.Fetch(context.Background(), "Testland")
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestFetchAppliesSpikeDetection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/interest", r.URL.Path)
		assert.Equal(t, "Testland", r.URL.Query().Get("region"))
		assert.NotEmpty(t, r.URL.Query().Get("keywords"))

		json.NewEncoder(w).Encode(interestResponse{Series: []interestPoint{
			{Keyword: "emigrate", Interest: 80, Baseline: 30},  // 2.7x, spike
			{Keyword: "protest", Interest: 40, Baseline: 25},   // 1.6x, no spike
			{Keyword: "exit visa", Interest: 15, Baseline: 5},  // 3x but under floor
			{Keyword: "general strike", Interest: 50, Baseline: 0},
		}})
	}))
	defer srv.Close()

	metrics := monitoring.NewMetrics()
	c := NewClient(srv.URL, metrics)

	got, err := c.Fetch(context.Background(), "Testland")
	require.NoError(t, err)
	require.Len(t, got.Signals, 4)

	spikes := make(map[string]bool)
	for _, s := range got.Signals {
		spikes[s.Keyword] = s.Spike
	}
	assert.True(t, spikes["emigrate"])
	assert.False(t, spikes["protest"])
	assert.False(t, spikes["exit visa"], "spikes below the interest floor are noise")
	assert.False(t, spikes["general strike"], "zero baseline never spikes")

	assert.Equal(t, int64(1), metrics.TrendsAPICalls)
}

func TestFetchRetriesServerErrors(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode(interestResponse{Series: []interestPoint{
			{Keyword: "protest", Interest: 60, Baseline: 20},
		}})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, monitoring.NewMetrics())
	got, err := c.Fetch(context.Background(), "Testland")
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
	require.Len(t, got.Signals, 1)
	assert.True(t, got.Signals[0].Spike)
}
