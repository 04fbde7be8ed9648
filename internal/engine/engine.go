package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"swingscore/internal/provider"
	"swingscore/pkg/model"
)

// Config holds the engine's scoring parameters. Zero values fall back
// to the defaults used by the hosted service.
type Config struct {
	LookbackDays     int    // history window, must cover the 200 SMA
	MarketSymbol     string // broad-market proxy, e.g. SPY
	VolatilitySymbol string // volatility-index proxy, e.g. VIX; optional feed
}

func (c *Config) applyDefaults() {
	if c.LookbackDays <= 0 {
		c.LookbackDays = 250
	}
	if c.MarketSymbol == "" {
		c.MarketSymbol = "SPY"
	}
	if c.VolatilitySymbol == "" {
		c.VolatilitySymbol = "VIX"
	}
}

// Engine turns daily bars for a ticker, a market proxy, and an optional
// volatility proxy into a composite 0-100 swing score with a per-factor
// breakdown and a trade setup. Each invocation is stateless and pure
// given its input series, so concurrent scoring of different tickers
// needs no coordination.
type Engine struct {
	bars provider.Provider
	cfg  Config
}

// New creates a scoring engine backed by the given bar provider.
func New(bars provider.Provider, cfg Config) *Engine {
	cfg.applyDefaults()
	return &Engine{bars: bars, cfg: cfg}
}

// Score computes the swing score for ticker as of now.
func (e *Engine) Score(ctx context.Context, ticker string) (*model.ScoreResult, error) {
	return e.ScoreAt(ctx, ticker, time.Time{})
}

// ScoreAt computes the swing score for ticker as of the given end date
// (zero means now), supporting point-in-time scoring for historical
// dates. Fetch failure for the ticker or the market proxy is the only
// error path; a missing volatility feed degrades to a neutral regime
// input.
func (e *Engine) ScoreAt(ctx context.Context, ticker string, end time.Time) (*model.ScoreResult, error) {
	var (
		stock, market, vol          []model.Candle
		stockErr, marketErr, volErr error
		wg                          sync.WaitGroup
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		stock, stockErr = e.bars.GetDailyBars(ctx, ticker, e.cfg.LookbackDays, end)
	}()
	go func() {
		defer wg.Done()
		market, marketErr = e.bars.GetDailyBars(ctx, e.cfg.MarketSymbol, e.cfg.LookbackDays, end)
	}()
	go func() {
		defer wg.Done()
		vol, volErr = e.bars.GetDailyBars(ctx, e.cfg.VolatilitySymbol, e.cfg.LookbackDays, end)
	}()
	wg.Wait()

	if stockErr != nil {
		return nil, fmt.Errorf("fetching bars for %s: %w", ticker, stockErr)
	}
	if len(stock) == 0 {
		return nil, fmt.Errorf("no bars returned for %s", ticker)
	}
	if marketErr != nil {
		return nil, fmt.Errorf("fetching bars for %s: %w", e.cfg.MarketSymbol, marketErr)
	}
	if len(market) == 0 {
		return nil, fmt.Errorf("no bars returned for %s", e.cfg.MarketSymbol)
	}
	if volErr != nil {
		log.Warn().Str("symbol", e.cfg.VolatilitySymbol).Err(volErr).
			Msg("Volatility proxy unavailable, regime assumes neutral")
		vol = nil
	}

	// The factor scorers are pure and independent; fan out, then join.
	var (
		tech, regime model.FactorResult
		rel          model.RelativeStrength
	)
	wg.Add(3)
	go func() {
		defer wg.Done()
		tech = ScoreTechnicals(stock)
	}()
	go func() {
		defer wg.Done()
		regime = ScoreMarketRegime(market, vol)
	}()
	go func() {
		defer wg.Done()
		rel = ScoreRelativeStrength(stock, market)
	}()
	wg.Wait()

	price := stock[len(stock)-1].Close
	breakdown := model.ScoreBreakdown{
		Technicals:       tech.Score,
		MarketRegime:     regime.Score,
		RelativeStrength: rel.Score,
		Details: model.BreakdownDetails{
			Technicals:       tech.Details,
			MarketRegime:     regime.Details,
			RelativeStrength: rel.Details,
		},
	}

	if rel.KillSwitch {
		log.Info().Str("ticker", ticker).Msg("Relative-weakness kill switch fired")
		return &model.ScoreResult{
			Ticker:       ticker,
			Score:        0,
			Verdict:      model.VerdictRelWeakness,
			Breakdown:    breakdown,
			CurrentPrice: price,
			Reason:       "RELATIVE WEAKNESS KILL SWITCH",
		}, nil
	}

	final := tech.Score + regime.Score + rel.Score
	if final > 100 {
		final = 100
	}
	if final < 0 {
		final = 0
	}

	setup := BuildTradeSetup(stock)

	return &model.ScoreResult{
		Ticker:       ticker,
		Score:        final,
		Verdict:      VerdictForScore(final),
		Breakdown:    breakdown,
		CurrentPrice: price,
		TradeSetup:   &setup,
	}, nil
}

// VerdictForScore maps the composite score onto the engine's verdict
// bands.
func VerdictForScore(score int) model.Verdict {
	switch {
	case score >= 80:
		return model.VerdictStrongBuy
	case score >= 60:
		return model.VerdictBuy
	case score >= 40:
		return model.VerdictHold
	default:
		return model.VerdictAvoid
	}
}
