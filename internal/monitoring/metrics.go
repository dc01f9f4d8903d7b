package monitoring

import (
	"sync"
	"sync/atomic"
	"time"
)

// Metrics holds application metrics.
type Metrics struct {
	RequestCount int64
	ErrorCount   int64
	CacheHits    int64
	CacheMisses  int64

	// Reasoning-service metrics.
	ReasoningCalls      int64
	ReasoningErrors     int64
	PausedContinuations int64
	ResearchRuns        int64
	SynthesisFailures   int64

	TrendsAPICalls int64

	RateLimitBlocks      int64
	RateLimitRedisErrors int64

	StartTime time.Time

	// Status code tracking.
	RequestCountByStatus map[int]int64
	statusMutex          sync.RWMutex
}

// NewMetrics creates a new metrics instance.
func NewMetrics() *Metrics {
	return &Metrics{
		StartTime:            time.Now(),
		RequestCountByStatus: make(map[int]int64),
	}
}

// IncrementRequest increments the request count.
func (m *Metrics) IncrementRequest() {
	atomic.AddInt64(&m.RequestCount, 1)
}

// IncrementError increments the error count.
func (m *Metrics) IncrementError() {
	atomic.AddInt64(&m.ErrorCount, 1)
}

// IncrementCacheHit increments the sub-query cache hit count.
func (m *Metrics) IncrementCacheHit() {
	atomic.AddInt64(&m.CacheHits, 1)
}

// IncrementCacheMiss increments the sub-query cache miss count.
func (m *Metrics) IncrementCacheMiss() {
	atomic.AddInt64(&m.CacheMisses, 1)
}

// IncrementReasoningCall counts one outbound reasoning-service call.
func (m *Metrics) IncrementReasoningCall() {
	atomic.AddInt64(&m.ReasoningCalls, 1)
}

// IncrementReasoningError counts one failed reasoning-service call.
func (m *Metrics) IncrementReasoningError() {
	atomic.AddInt64(&m.ReasoningErrors, 1)
}

// IncrementPausedContinuation counts one pause/continue turn.
func (m *Metrics) IncrementPausedContinuation() {
	atomic.AddInt64(&m.PausedContinuations, 1)
}

// IncrementResearchRun counts one orchestrated research run.
func (m *Metrics) IncrementResearchRun() {
	atomic.AddInt64(&m.ResearchRuns, 1)
}

// IncrementSynthesisFailure counts one failed second-phase synthesis call.
func (m *Metrics) IncrementSynthesisFailure() {
	atomic.AddInt64(&m.SynthesisFailures, 1)
}

// IncrementTrendsCalls counts one search-interest polling request.
func (m *Metrics) IncrementTrendsCalls() {
	atomic.AddInt64(&m.TrendsAPICalls, 1)
}

// IncrementRateLimitBlock counts one request rejected by the rate limiter.
func (m *Metrics) IncrementRateLimitBlock() {
	atomic.AddInt64(&m.RateLimitBlocks, 1)
}

// IncrementRateLimitRedisError counts one failed Redis rate-limit check.
func (m *Metrics) IncrementRateLimitRedisError() {
	atomic.AddInt64(&m.RateLimitRedisErrors, 1)
}

// RecordRequestByStatus records request count by HTTP status code.
func (m *Metrics) RecordRequestByStatus(statusCode int) {
	m.statusMutex.Lock()
	defer m.statusMutex.Unlock()
	m.RequestCountByStatus[statusCode]++
}

// GetStats returns a snapshot for the metrics endpoint.
func (m *Metrics) GetStats() map[string]any {
	m.statusMutex.RLock()
	byStatus := make(map[int]int64, len(m.RequestCountByStatus))
	for code, count := range m.RequestCountByStatus {
		byStatus[code] = count
	}
	m.statusMutex.RUnlock()

	return map[string]any{
		"uptime_seconds":       time.Since(m.StartTime).Seconds(),
		"request_count":        atomic.LoadInt64(&m.RequestCount),
		"error_count":          atomic.LoadInt64(&m.ErrorCount),
		"cache_hits":           atomic.LoadInt64(&m.CacheHits),
		"cache_misses":         atomic.LoadInt64(&m.CacheMisses),
		"reasoning_calls":      atomic.LoadInt64(&m.ReasoningCalls),
		"reasoning_errors":     atomic.LoadInt64(&m.ReasoningErrors),
		"paused_continuations": atomic.LoadInt64(&m.PausedContinuations),
		"research_runs":        atomic.LoadInt64(&m.ResearchRuns),
		"synthesis_failures":   atomic.LoadInt64(&m.SynthesisFailures),
		"trends_api_calls":     atomic.LoadInt64(&m.TrendsAPICalls),
		"rate_limit_blocks":    atomic.LoadInt64(&m.RateLimitBlocks),
		"requests_by_status":   byStatus,
	}
}
