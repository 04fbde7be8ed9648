package engine

import (
	"math"

	"swingscore/internal/indicator"
	"swingscore/pkg/model"
)

// BuildTradeSetup derives the dual-target entry/exit plan from the
// ticker's candles:
//
//   - entry zone: 2% either side of the 20 EMA (around price when the
//     EMA is undefined)
//   - stop: the tighter of 8% below price and just under the 200 SMA
//   - safe target: +4%, pulled in to just under the 50 SMA when that
//     average sits overhead within 4% (aim under resistance, not
//     through it)
//   - aggressive target: +10%, flagged unsupported when the move needs
//     more than 5 ATRs
//
// The win probabilities are fixed policy constants, not fitted values.
// The function never fails outward: an unusable series returns the
// default-valued setup with Error set so the structure always
// serializes fully.
func BuildTradeSetup(candles []model.Candle) model.TradeSetup {
	if len(candles) == 0 {
		return defaultTradeSetup("empty price series")
	}

	price := candles[len(candles)-1].Close
	if price <= 0 {
		return defaultTradeSetup("non-positive closing price")
	}

	ema20, haveEMA := indicator.EMA(candles, 20)
	sma50, haveSMA50 := indicator.SMA(candles, 50)
	sma200, haveSMA200 := indicator.SMA(candles, 200)
	atr, haveATR := indicator.ATR(candles, 14)

	setup := model.TradeSetup{Recommended: "safe"}

	if haveEMA {
		setup.BuyMin = ema20 * 0.98
		setup.BuyMax = ema20 * 1.02
	} else {
		setup.BuyMin = price * 0.98
		setup.BuyMax = price * 1.02
	}

	// Stop: whichever of -8% and the 200 SMA line is less generous
	if haveSMA200 {
		setup.SellStop = math.Max(sma200*0.99, price*0.92)
	} else {
		setup.SellStop = price * 0.92
	}

	// Safe target: +4% unless the 50 SMA is a nearer overhead level
	targetSafe := price * 1.04
	if haveSMA50 && sma50 > price {
		distance := (sma50 - price) / price
		if distance < 0.04 {
			targetSafe = sma50 * 0.995
		}
	}
	setup.TargetSafe = targetSafe
	setup.TargetSafePct = roundPct((targetSafe - price) / price * 100)

	// Aggressive target: +10%, checked against typical daily range
	targetAggro := price * 1.10
	setup.VolatilitySupported = true
	if haveATR {
		atrRatio := (targetAggro - price) / atr
		if atrRatio > 5 {
			setup.VolatilitySupported = false
		}
	}
	setup.TargetAggro = targetAggro
	setup.TargetAggroPct = roundPct((targetAggro - price) / price * 100)

	probSafe, probAggro := 75, 40
	if haveSMA200 && price > sma200 {
		probSafe = min(85, probSafe+10)
		probAggro = min(55, probAggro+10)
	}
	if !setup.VolatilitySupported {
		probAggro = max(20, probAggro-15)
	}
	setup.ProbSafe = probSafe
	setup.ProbAggro = probAggro

	return setup
}

// defaultTradeSetup is the documented never-fail fallback shape.
func defaultTradeSetup(reason string) model.TradeSetup {
	return model.TradeSetup{
		TargetSafePct:       4.0,
		TargetAggroPct:      10.0,
		ProbSafe:            75,
		ProbAggro:           40,
		VolatilitySupported: true,
		Recommended:         "safe",
		Error:               reason,
	}
}

func roundPct(v float64) float64 {
	return math.Round(v*10) / 10
}
