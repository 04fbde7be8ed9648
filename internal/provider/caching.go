package provider

import (
	"context"
	"sync"
	"time"

	"swingscore/pkg/model"
)

// CachingProvider wraps a Provider with an in-memory cache for
// GetDailyBars. Designed for scan scenarios where every ticker's score
// needs the same market-proxy and volatility-proxy series, and for the
// analysis service where the engine and the trade setup reuse one
// fetch.
type CachingProvider struct {
	inner   Provider
	cache   map[string][]model.Candle
	mu      sync.Mutex
	maxDays int
}

// NewCachingProvider creates a caching wrapper. maxDays is the number
// of bars always fetched on a miss (use 250 so the 200 SMA is covered
// no matter which caller misses first).
func NewCachingProvider(inner Provider, maxDays int) *CachingProvider {
	return &CachingProvider{
		inner:   inner,
		cache:   make(map[string][]model.Candle),
		maxDays: maxDays,
	}
}

func (p *CachingProvider) Name() string { return p.inner.Name() }

func (p *CachingProvider) IsAvailable() bool { return p.inner.IsAvailable() }

func (p *CachingProvider) RateLimit() int { return p.inner.RateLimit() }

// GetDailyBars serves from cache when possible. Point-in-time requests
// are keyed by the end date so a backdated scan never mixes with a
// live one.
func (p *CachingProvider) GetDailyBars(ctx context.Context, symbol string, days int, end time.Time) ([]model.Candle, error) {
	key := symbol
	if !end.IsZero() {
		key = symbol + "@" + end.Format("2006-01-02")
	}

	p.mu.Lock()
	cached, ok := p.cache[key]
	p.mu.Unlock()
	if ok {
		if len(cached) >= days {
			return cached[len(cached)-days:], nil
		}
		return cached, nil
	}

	// Fetch max days to satisfy all callers in one request
	fetchDays := p.maxDays
	if days > fetchDays {
		fetchDays = days
	}

	bars, err := p.inner.GetDailyBars(ctx, symbol, fetchDays, end)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	p.cache[key] = bars
	p.mu.Unlock()

	if len(bars) >= days {
		return bars[len(bars)-days:], nil
	}
	return bars, nil
}
