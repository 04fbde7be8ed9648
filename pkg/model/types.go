package model

import "time"

// Candle represents a single daily price bar (OHLCV data)
type Candle struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// NewsArticle represents a single news item for a ticker
type NewsArticle struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	PublishedUTC string `json:"published_utc"`
	Publisher    string `json:"publisher"`
	URL          string `json:"url"`
}

// FactorResult holds one factor's bounded sub-score plus a fully
// populated explanation map. Detail values are strings, numbers, or
// bools so the map serializes cleanly to JSON.
type FactorResult struct {
	Score   int            `json:"score"`
	Details map[string]any `json:"details"`
}

// RelativeStrength is the relative-strength factor output. KillSwitch
// reports the hard veto: the ticker fell over 5 bars while the market
// proxy rose.
type RelativeStrength struct {
	Score      int            `json:"score"`
	Details    map[string]any `json:"details"`
	KillSwitch bool           `json:"kill_switch"`
}

// BreakdownDetails carries the per-factor explanation maps, keyed by
// factor name in the serialized form.
type BreakdownDetails struct {
	Technicals       map[string]any `json:"technicals"`
	MarketRegime     map[string]any `json:"market_regime"`
	RelativeStrength map[string]any `json:"relative_strength"`
	AISentiment      map[string]any `json:"ai_sentiment,omitempty"`
}

// ScoreBreakdown aggregates the factor sub-scores. AISentiment is only
// populated by the analysis service layer, never by the engine itself.
type ScoreBreakdown struct {
	Technicals       int              `json:"technicals"`
	MarketRegime     int              `json:"market_regime"`
	RelativeStrength int              `json:"relative_strength"`
	AISentiment      int              `json:"ai_sentiment,omitempty"`
	Details          BreakdownDetails `json:"details"`
}

// TradeSetup holds the dual-target entry/exit plan. All price fields
// are absolute values derived from the same candle series. Error is set
// when the setup could not be computed; the remaining fields then carry
// the documented defaults so the structure always serializes fully.
type TradeSetup struct {
	BuyMin              float64 `json:"buy_min"`
	BuyMax              float64 `json:"buy_max"`
	SellStop            float64 `json:"sell_stop"`
	TargetSafe          float64 `json:"target_safe"`
	TargetSafePct       float64 `json:"target_safe_pct"`
	TargetAggro         float64 `json:"target_aggro"`
	TargetAggroPct      float64 `json:"target_aggro_pct"`
	ProbSafe            int     `json:"prob_safe"`
	ProbAggro           int     `json:"prob_aggro"`
	VolatilitySupported bool    `json:"volatility_supported"`
	Recommended         string  `json:"recommended"`
	Error               string  `json:"error,omitempty"`
}

// ScoreResult is the engine's top-level output for one ticker. Reason
// is present only when the relative-weakness kill switch fired; on that
// path TradeSetup is nil (the engine computes no setup for vetoed
// tickers).
type ScoreResult struct {
	Ticker       string         `json:"ticker"`
	Score        int            `json:"score"`
	Verdict      Verdict        `json:"verdict"`
	Breakdown    ScoreBreakdown `json:"breakdown"`
	CurrentPrice float64        `json:"current_price"`
	TradeSetup   *TradeSetup    `json:"trade_setup,omitempty"`
	Reason       string         `json:"reason,omitempty"`
}

// SentimentResult is the AI analyst's verdict on a scored ticker.
// SentimentScore runs -10 (bearish) to +10 (bullish).
type SentimentResult struct {
	SentimentScore int    `json:"sentiment_score"`
	Analysis       string `json:"analysis"`
	KeyRisk        string `json:"key_risk"`
}

// AnalysisReport is the caller-facing response built by the analysis
// service: the engine result plus news, AI sentiment, and a wall-clock
// timestamp.
type AnalysisReport struct {
	Ticker       string         `json:"ticker"`
	Score        int            `json:"score"`
	Verdict      Verdict        `json:"verdict"`
	Breakdown    ScoreBreakdown `json:"breakdown"`
	AISummary    string         `json:"ai_summary"`
	CurrentPrice float64        `json:"current_price"`
	News         []NewsArticle  `json:"news"`
	Timestamp    string         `json:"timestamp"`
	TradeSetup   *TradeSetup    `json:"trade_setup,omitempty"`
	Warning      string         `json:"warning,omitempty"`
}
