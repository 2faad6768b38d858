package llm

import (
	"context"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Stats tracks cache behavior across a Client's lifetime.
type Stats struct {
	Hits       int `json:"hits"`
	Misses     int `json:"misses"`
	TotalCalls int `json:"total_calls"`
	CacheSize  int `json:"cache_size"`
}

// HitRate returns hits over resolved lookups, 0 when nothing resolved yet.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// Client wraps a Provider with a response cache keyed by a hash of the
// prompt and generation parameters.
//
// Client is safe for concurrent use. Failed generations are not cached, so
// a transient provider failure does not poison the key.
type Client struct {
	provider Provider

	mu    sync.Mutex
	cache map[string]*Response
	stats Stats
}

// NewClient creates a caching client over the provider.
func NewClient(provider Provider) *Client {
	return &Client{
		provider: provider,
		cache:    make(map[string]*Response),
	}
}

// Provider returns the wrapped provider.
func (c *Client) Provider() Provider {
	return c.provider
}

// Generate resolves the prompt through the cache or the provider. It never
// returns a Go error: provider failures come back as a Response with
// Success false and the error message attached.
func (c *Client) Generate(ctx context.Context, prompt string, cfg GenerationConfig) *Response {
	key := cacheKey(prompt, cfg)

	c.mu.Lock()
	c.stats.TotalCalls++
	if cached, ok := c.cache[key]; ok {
		c.stats.Hits++
		c.mu.Unlock()
		return cached
	}
	c.stats.Misses++
	c.mu.Unlock()

	start := time.Now()
	resp, err := c.provider.Generate(ctx, prompt, cfg)
	latency := time.Since(start)

	if err != nil {
		slog.Warn("generation failed", "provider", c.provider.Name(), "error", err)
		return &Response{
			Success:      false,
			ErrorMessage: err.Error(),
			Latency:      latency,
		}
	}

	resp.Latency = latency

	c.mu.Lock()
	c.cache[key] = resp
	c.mu.Unlock()

	return resp
}

// Stats returns a snapshot of the cache counters.
func (c *Client) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.stats
	s.CacheSize = len(c.cache)
	return s
}

// ClearCache drops all cached responses. Counters are kept.
func (c *Client) ClearCache() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = make(map[string]*Response)
}

func cacheKey(prompt string, cfg GenerationConfig) string {
	sum := sha256.Sum256(fmt.Appendf(nil, "%s|%s|%g|%d", prompt, cfg.Model, cfg.Temperature, cfg.NumCandidates))
	return fmt.Sprintf("%x", sum)
}
