// Package subcache is the in-process store for sub-query results, keyed by
// subject, research mode, and sub-query name. It is constructed once in main
// and injected into the orchestrator so tests can swap it out.
package subcache

import (
	"strings"
	"sync"
	"time"

	"github.com/polwatch/regime-risk-meter/internal/reasoning"
)

// Entry is one cached sub-query payload.
type Entry struct {
	Data      map[string]any `json:"data"`
	Timestamp time.Time      `json:"timestamp"`
}

// Config holds the mode-dependent TTLs. Live results go stale quickly; quick
// mode answers from existing knowledge and can be reused much longer.
type Config struct {
	LiveTTL  time.Duration
	QuickTTL time.Duration
}

// DefaultConfig returns the standard TTLs.
func DefaultConfig() Config {
	return Config{
		LiveTTL:  1 * time.Hour,
		QuickTTL: 24 * time.Hour,
	}
}

// Cache provides thread-safe sub-query caching with mode-dependent TTL.
// Expiry is lazy at read time; a background sweep keeps the map from growing
// without bound in long-lived processes.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]Entry
	cfg     Config

	now  func() time.Time
	stop chan struct{}
}

// New creates a cache and starts its sweep goroutine.
func New(cfg Config) *Cache {
	c := &Cache{
		entries: make(map[string]Entry),
		cfg:     cfg,
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	go c.sweep()
	return c
}

// key normalizes the subject so "Testland" and " testland " share entries.
func key(subject, mode, name string) string {
	return strings.ToLower(strings.TrimSpace(subject)) + "|" + mode + "|" + name
}

func (c *Cache) ttl(mode string) time.Duration {
	if mode == reasoning.ModeLive {
		return c.cfg.LiveTTL
	}
	return c.cfg.QuickTTL
}

// Get returns the cached payload for (subject, mode, name) when present and
// within the mode's TTL.
func (c *Cache) Get(subject, mode, name string) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key(subject, mode, name)]
	if !ok {
		return Entry{}, false
	}
	if c.now().Sub(entry.Timestamp) > c.ttl(mode) {
		return Entry{}, false
	}
	return entry, true
}

// Set stores a successful sub-query payload.
func (c *Cache) Set(subject, mode, name string, data map[string]any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key(subject, mode, name)] = Entry{
		Data:      data,
		Timestamp: c.now(),
	}
}

// Size returns the number of entries, expired ones included.
func (c *Cache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Clear removes all entries.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]Entry)
}

// Stats returns cache statistics for the stats endpoint.
func (c *Cache) Stats() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stale := 0
	for k, entry := range c.entries {
		mode := reasoning.ModeQuick
		if strings.Contains(k, "|"+reasoning.ModeLive+"|") {
			mode = reasoning.ModeLive
		}
		if c.now().Sub(entry.Timestamp) > c.ttl(mode) {
			stale++
		}
	}

	return map[string]any{
		"total_entries":     len(c.entries),
		"stale_entries":     stale,
		"active_entries":    len(c.entries) - stale,
		"live_ttl_seconds":  c.cfg.LiveTTL.Seconds(),
		"quick_ttl_seconds": c.cfg.QuickTTL.Seconds(),
	}
}

// Close stops the sweep goroutine.
func (c *Cache) Close() {
	close(c.stop)
}

// sweep removes stale entries periodically. The sweep interval is deliberately
// coarse; correctness comes from the lazy check in Get.
func (c *Cache) sweep() {
	ticker := time.NewTicker(15 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.mu.Lock()
			for k, entry := range c.entries {
				// Anything older than the longest TTL is stale in every mode.
				maxTTL := c.cfg.QuickTTL
				if c.cfg.LiveTTL > maxTTL {
					maxTTL = c.cfg.LiveTTL
				}
				if c.now().Sub(entry.Timestamp) > maxTTL {
					delete(c.entries, k)
				}
			}
			c.mu.Unlock()
		}
	}
}
