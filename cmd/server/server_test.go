package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/polwatch/regime-risk-meter/internal/monitoring"
	"github.com/polwatch/regime-risk-meter/internal/ratelimit"
	"github.com/polwatch/regime-risk-meter/internal/reasoning"
	"github.com/polwatch/regime-risk-meter/internal/research"
	"github.com/polwatch/regime-risk-meter/internal/subcache"
	"github.com/polwatch/regime-risk-meter/internal/trends"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubCaller answers every reasoning call with a minimal payload for its
// declared tool.
type stubCaller struct{}

func (stubCaller) Call(ctx context.Context, prompt string, budget int, useSearch bool, output reasoning.Tool) (map[string]any, error) {
	switch output.Name {
	case "record_synthesis":
		return map[string]any{"summary": "stable", "overallTrend": "stable"}, nil
	case "record_public_opinion":
		return map[string]any{
			"publicOpinion": map[string]any{"score": 40.0, "evidence": "polls", "trend": "stable"},
		}, nil
	default:
		return map[string]any{}, nil
	}
}

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	metrics := monitoring.NewMetrics()
	logger := monitoring.NewLogger()
	cache := subcache.New(subcache.DefaultConfig())
	t.Cleanup(cache.Close)

	orchestrator := research.New(cache, metrics, logger, func(string) reasoning.Caller {
		return stubCaller{}
	})
	limiter := ratelimit.NewRateLimiter(&ratelimit.RedisClient{},
		ratelimit.Config{IPLimitPerMin: 1000, BurstMultiplier: 2}, metrics)

	return newRouter(serverDeps{
		metrics:      metrics,
		logger:       logger,
		cache:        cache,
		orchestrator: orchestrator,
		trendsClient: trends.NewClient("", metrics),
		limiter:      limiter,
	})
}

func postJSON(t *testing.T, r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	r := setupRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Contains(t, body, "metrics")
}

func TestResearchEndpointValidation(t *testing.T) {
	r := setupRouter(t)

	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing subject", map[string]any{"credential": "k", "mode": "quick"}},
		{"missing credential", map[string]any{"subject": "Testland", "mode": "quick"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(t, r, "/research", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestResearchEndpointSuccess(t *testing.T) {
	r := setupRouter(t)

	w := postJSON(t, r, "/research", map[string]any{
		"subject":    "Testland",
		"credential": "test-key",
		"mode":       "quick",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body, "publicOpinion")
	assert.Equal(t, "stable", body["summary"])
}

func TestResearchEndpointCredentialHeader(t *testing.T) {
	r := setupRouter(t)

	raw, _ := json.Marshal(map[string]any{"subject": "Testland", "mode": "quick"})
	req := httptest.NewRequest(http.MethodPost, "/research", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Reasoning-Key", "header-key")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCompareEndpoint(t *testing.T) {
	r := setupRouter(t)

	w := postJSON(t, r, "/compare", map[string]any{
		"factors": map[string]float64{
			"judicialIndependence": 70,
			"mediaFreedom":         65,
			"politicalCompetition": 60,
		},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	modelList, ok := body["models"].([]any)
	require.True(t, ok)
	assert.Len(t, modelList, 10, "full corpus runs when no models requested")

	consensus := body["consensus"].(map[string]any)
	assert.Contains(t, consensus, "mean")
	assert.Contains(t, consensus, "riskLevel")
	assert.Contains(t, consensus, "clusters")
}

func TestCompareEndpointModelSubset(t *testing.T) {
	r := setupRouter(t)

	w := postJSON(t, r, "/compare", map[string]any{
		"factors": map[string]float64{"mediaFreedom": 50},
		"models":  []string{"information-control", "civic-mobilization"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body["models"].([]any), 2)
}

func TestCompareEndpointValidation(t *testing.T) {
	r := setupRouter(t)

	// Missing factors.
	w := postJSON(t, r, "/compare", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Only unknown model ids.
	w = postJSON(t, r, "/compare", map[string]any{
		"factors": map[string]float64{"mediaFreedom": 50},
		"models":  []string{"does-not-exist"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSignalsAdjustEndpoint(t *testing.T) {
	r := setupRouter(t)

	w := postJSON(t, r, "/signals/adjust", map[string]any{
		"factors": map[string]float64{"mediaFreedom": 40},
		"opEds":   map[string]float64{"complianceRatio": 0.8, "criticalRatio": 0.1},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	adjusted := body["adjusted"].(map[string]any)
	assert.Equal(t, 50.0, adjusted["mediaFreedom"])
	assert.Len(t, body["appliedRules"].([]any), 1)
}

func TestSignalsAdjustValidation(t *testing.T) {
	r := setupRouter(t)

	w := postJSON(t, r, "/signals/adjust", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMetricsAndCacheStatsEndpoints(t *testing.T) {
	r := setupRouter(t)

	for _, path := range []string{"/metrics", "/cache/stats", "/ratelimit/stats"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestRateLimitBlocksWhenExceeded(t *testing.T) {
	gin.SetMode(gin.TestMode)

	metrics := monitoring.NewMetrics()
	limiter := ratelimit.NewRateLimiter(&ratelimit.RedisClient{},
		ratelimit.Config{IPLimitPerMin: 5, BurstMultiplier: 1}, metrics)
	cache := subcache.New(subcache.DefaultConfig())
	t.Cleanup(cache.Close)

	r := newRouter(serverDeps{
		metrics: metrics,
		logger:  monitoring.NewLogger(),
		cache:   cache,
		orchestrator: research.New(cache, metrics, monitoring.NewLogger(), func(string) reasoning.Caller {
			return stubCaller{}
		}),
		trendsClient: trends.NewClient("", metrics),
		limiter:      limiter,
	})

	var lastCode int
	for i := 0; i < 6; i++ {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		lastCode = w.Code
	}

	assert.Equal(t, http.StatusTooManyRequests, lastCode)
}
