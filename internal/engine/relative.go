package engine

import (
	"fmt"

	"swingscore/pkg/model"
)

// relReturnBars is the trailing window for the relative-strength
// comparison: close[-1] vs close[-6], five trading days apart.
const relReturnBars = 6

// ScoreRelativeStrength compares the ticker's 5-bar return against the
// market proxy's. A ticker falling while the market rises trips the
// kill switch: score 0 and an absolute veto that overrides every other
// factor. Otherwise beating the market earns the leader points.
func ScoreRelativeStrength(stock, market []model.Candle) model.RelativeStrength {
	details := make(map[string]any)

	if len(stock) < relReturnBars || len(market) < relReturnBars {
		details["error"] = fmt.Sprintf("need at least %d bars for 5-day returns", relReturnBars)
		return model.RelativeStrength{Score: 0, Details: details}
	}

	stockReturn := trailingReturnPct(stock)
	marketReturn := trailingReturnPct(market)

	details["stock_5d_return"] = fmt.Sprintf("%+.2f%%", stockReturn)
	details["market_5d_return"] = fmt.Sprintf("%+.2f%%", marketReturn)

	if stockReturn < 0 && marketReturn > 0 {
		details["status"] = "RELATIVE WEAKNESS (Auto-Fail)"
		return model.RelativeStrength{Score: 0, Details: details, KillSwitch: true}
	}

	score := 0
	if stockReturn > marketReturn {
		score = 20
		details["status"] = "Leader (+20)"
	} else {
		details["status"] = "Laggard (0)"
	}

	return model.RelativeStrength{Score: score, Details: details}
}

func trailingReturnPct(candles []model.Candle) float64 {
	last := candles[len(candles)-1].Close
	base := candles[len(candles)-relReturnBars].Close
	return (last - base) / base * 100
}
