package engine

import (
	"fmt"

	"swingscore/internal/indicator"
	"swingscore/pkg/model"
)

// ScoreMarketRegime scores the broad-market backdrop: the market proxy
// above its 50 SMA earns bull points, and a low volatility index earns
// calm points. The volatility series is optional by design; many feeds
// lack one, and its absence contributes exactly zero with an explicit
// flag. The regime score floors at 0 even when high fear pushes the
// raw sum negative.
func ScoreMarketRegime(market, volatility []model.Candle) model.FactorResult {
	details := make(map[string]any)

	if len(market) == 0 {
		details["error"] = "empty market proxy series"
		return model.FactorResult{Score: 0, Details: details}
	}

	score := 0
	price := market[len(market)-1].Close
	sma50, haveSMA := indicator.SMA(market, 50)

	switch {
	case haveSMA && price > sma50:
		score += 15
		details["market_trend"] = fmt.Sprintf("Bull: $%.2f > $%.2f (+15)", price, sma50)
	case haveSMA:
		details["market_trend"] = fmt.Sprintf("Bear: $%.2f < $%.2f (0)", price, sma50)
	default:
		details["market_trend"] = "Bear: 50 SMA unavailable (0)"
	}

	if len(volatility) > 0 {
		vix := volatility[len(volatility)-1].Close
		switch {
		case vix < 20:
			score += 15
			details["vix"] = fmt.Sprintf("%.1f (Low Fear, +15)", vix)
		case vix > 30:
			score -= 20
			details["vix"] = fmt.Sprintf("%.1f (HIGH FEAR, -20)", vix)
		default:
			details["vix"] = fmt.Sprintf("%.1f (Elevated, 0)", vix)
		}
	} else {
		details["vix"] = "Not available (assuming neutral)"
	}

	if score < 0 {
		score = 0
	}
	details["regime_score"] = score

	return model.FactorResult{Score: score, Details: details}
}
