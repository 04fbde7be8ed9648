package engine

import (
	"fmt"
	"math"

	"swingscore/internal/indicator"
	"swingscore/pkg/model"
)

// Maximum point budgets per factor. The composite is the sum of the
// first three; the sentiment budget is applied by the analysis service
// on top of the engine score.
const (
	TechnicalsBudget       = 40
	MarketRegimeBudget     = 30
	RelativeStrengthBudget = 20
	SentimentBudget        = 10
)

// ScoreTechnicals scores the "Trend Pullback" setup for one ticker:
// a 200 SMA trend filter gates the base score, an RSI band rewards
// pullbacks and penalizes overbought entries, and proximity to the
// 20 EMA rewards entries at support. In a downtrend the total is capped
// at 40 no matter what the bonuses add up to.
//
// The factor never fails outward: an unusable series yields score 0
// with details["error"] set, so the aggregator always has a result to
// compose.
func ScoreTechnicals(candles []model.Candle) model.FactorResult {
	details := make(map[string]any)

	if len(candles) == 0 {
		details["error"] = "empty price series"
		return model.FactorResult{Score: 0, Details: details}
	}

	price := candles[len(candles)-1].Close
	sma200, haveSMA := indicator.SMA(candles, 200)
	ema20, haveEMA := indicator.EMA(candles, 20)
	rsi, haveRSI := indicator.RSI(candles, 14)

	raw := map[string]any{"price": price}
	raw["sma_200"] = optional(sma200, haveSMA)
	raw["ema_20"] = optional(ema20, haveEMA)
	raw["rsi"] = optional(rsi, haveRSI)
	details["raw_values"] = raw

	// Trend filter: the gatekeeper
	score := 0
	maxScoreCap := 100
	switch {
	case haveSMA && price > sma200:
		score = 50
		details["trend_filter"] = fmt.Sprintf("UPTREND: $%.2f > 200 SMA $%.2f (Base +50)", price, sma200)
		details["in_uptrend"] = true
	case haveSMA:
		score = 0
		maxScoreCap = 40
		details["trend_filter"] = fmt.Sprintf("DOWNTREND: $%.2f < 200 SMA $%.2f (Capped at 40)", price, sma200)
		details["in_uptrend"] = false
	default:
		score = 25
		details["trend_filter"] = "Insufficient data (need 200 days)"
		details["in_uptrend"] = nil
	}

	// RSI dip bonus: pullbacks inside an uptrend are the edge signal
	rsiScore := 0
	if haveRSI {
		var signal string
		rsiScore, signal = rsiDipBonus(rsi)
		details["rsi_signal"] = signal
	} else {
		details["rsi_signal"] = "RSI unavailable"
	}
	score += rsiScore
	details["rsi_score"] = rsiScore

	// EMA proximity bonus: the trigger
	emaScore := 0
	if haveEMA {
		distancePct := (price - ema20) / ema20 * 100
		var signal string
		emaScore, signal = emaProximityBonus(distancePct)
		details["ema_signal"] = signal
		details["ema_distance_pct"] = distancePct
	} else {
		details["ema_signal"] = "20 EMA unavailable"
	}
	score += emaScore
	details["ema_score"] = emaScore

	// Downtrend protection: the cap is absolute
	final := score
	if final > maxScoreCap {
		final = maxScoreCap
	}
	if final < 0 {
		final = 0
	}
	if maxScoreCap < 100 {
		details["cap_applied"] = fmt.Sprintf("Score capped at %d (downtrend protection)", maxScoreCap)
	}

	trendScore := 0
	if up, ok := details["in_uptrend"].(bool); ok && up {
		trendScore = 50
	}
	details["trend_score"] = trendScore

	return model.FactorResult{Score: final, Details: details}
}

// rsiDipBonus maps the 14-period RSI onto the dip-bonus bands. Bands
// are evaluated in priority order and do not overlap.
func rsiDipBonus(rsi float64) (int, string) {
	switch {
	case rsi > 70:
		return -20, fmt.Sprintf("OVERBOUGHT: RSI %.1f > 70 (-20)", rsi)
	case rsi >= 50:
		return 10, fmt.Sprintf("MOMENTUM: RSI %.1f in 50-70 (+10)", rsi)
	case rsi >= 30:
		return 30, fmt.Sprintf("SWEET SPOT: RSI %.1f in 30-50 (+30)", rsi)
	default:
		return 10, fmt.Sprintf("OVERSOLD: RSI %.1f < 30 (+10)", rsi)
	}
}

// emaProximityBonus maps the signed percent distance from the 20 EMA
// onto the proximity bands.
func emaProximityBonus(distancePct float64) (int, string) {
	switch {
	case math.Abs(distancePct) <= 2:
		return 20, fmt.Sprintf("NEAR SUPPORT: %+.1f%% from 20 EMA (+20)", distancePct)
	case distancePct > 10:
		return -10, fmt.Sprintf("EXTENDED: %+.1f%% above 20 EMA (-10)", distancePct)
	case distancePct < -10:
		return -10, fmt.Sprintf("FALLING: %+.1f%% below 20 EMA (-10)", distancePct)
	default:
		return 0, fmt.Sprintf("MODERATE: %+.1f%% from 20 EMA (0)", distancePct)
	}
}

// optional returns the value when the indicator is defined, nil
// otherwise, so JSON shows null instead of a misleading zero.
func optional(v float64, ok bool) any {
	if !ok {
		return nil
	}
	return v
}
