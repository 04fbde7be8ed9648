package provider

import (
	"context"
	"sort"
	"time"

	"swingscore/pkg/model"
)

// Provider defines the interface for daily-bar data providers.
type Provider interface {
	// Name returns the provider name
	Name() string

	// GetDailyBars fetches up to days daily OHLCV bars for the symbol,
	// ending at end (the zero time means now) to support point-in-time
	// scoring. Bars come back sorted ascending with unique timestamps.
	// A missing symbol or an empty result is an error, never an empty
	// slice.
	GetDailyBars(ctx context.Context, symbol string, days int, end time.Time) ([]model.Candle, error)

	// IsAvailable checks if the provider is available (has valid API key)
	IsAvailable() bool

	// RateLimit returns the rate limit per minute
	RateLimit() int
}

// ProviderError represents a provider-specific error
type ProviderError struct {
	Provider  string
	Err       error
	Retryable bool
}

func (e *ProviderError) Error() string {
	return e.Provider + ": " + e.Err.Error()
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// normalizeBars sorts bars ascending by timestamp and drops duplicate
// timestamps, keeping the first occurrence. Scorers rely on a strictly
// increasing series.
func normalizeBars(bars []model.Candle) []model.Candle {
	sort.SliceStable(bars, func(i, j int) bool {
		return bars[i].Time.Before(bars[j].Time)
	})

	out := bars[:0]
	var last time.Time
	for _, b := range bars {
		if !last.IsZero() && !b.Time.After(last) {
			continue
		}
		out = append(out, b)
		last = b.Time
	}
	return out
}

// FallbackProvider tries multiple providers in order
type FallbackProvider struct {
	providers []Provider
}

// NewFallbackProvider creates a new fallback provider
func NewFallbackProvider(providers ...Provider) *FallbackProvider {
	// Filter to only available providers
	available := make([]Provider, 0, len(providers))
	for _, p := range providers {
		if p.IsAvailable() {
			available = append(available, p)
		}
	}
	return &FallbackProvider{providers: available}
}

// Name returns the combined provider name
func (f *FallbackProvider) Name() string {
	return "fallback"
}

// GetDailyBars tries each provider in order until one succeeds
func (f *FallbackProvider) GetDailyBars(ctx context.Context, symbol string, days int, end time.Time) ([]model.Candle, error) {
	var lastErr error
	for _, p := range f.providers {
		bars, err := p.GetDailyBars(ctx, symbol, days, end)
		if err == nil {
			return bars, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

// IsAvailable returns true if any provider is available
func (f *FallbackProvider) IsAvailable() bool {
	return len(f.providers) > 0
}

// RateLimit returns the highest rate limit among providers
func (f *FallbackProvider) RateLimit() int {
	maxRate := 0
	for _, p := range f.providers {
		if p.RateLimit() > maxRate {
			maxRate = p.RateLimit()
		}
	}
	return maxRate
}

// Providers returns the list of underlying providers
func (f *FallbackProvider) Providers() []Provider {
	return f.providers
}
