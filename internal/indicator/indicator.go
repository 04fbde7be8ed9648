package indicator

import (
	"math"

	"swingscore/pkg/model"
)

// Each function returns the latest value of the indicator over the
// given daily candles. The second return is false when the series is
// too short for the window; callers treat that as "indicator
// undefined" and take their documented fallback path.

// SMA calculates the simple moving average of closing prices over the
// final period bars.
func SMA(candles []model.Candle, period int) (float64, bool) {
	if period <= 0 || len(candles) < period {
		return 0, false
	}

	var sum float64
	for i := len(candles) - period; i < len(candles); i++ {
		sum += candles[i].Close
	}
	return sum / float64(period), true
}

// EMA calculates the exponential moving average of closing prices,
// seeded with the SMA of the first period bars and smoothed with the
// standard 2/(period+1) multiplier.
func EMA(candles []model.Candle, period int) (float64, bool) {
	if period <= 0 || len(candles) < period {
		return 0, false
	}

	var seed float64
	for i := 0; i < period; i++ {
		seed += candles[i].Close
	}
	ema := seed / float64(period)

	k := 2.0 / float64(period+1)
	for i := period; i < len(candles); i++ {
		ema = candles[i].Close*k + ema*(1-k)
	}
	return ema, true
}

// RSI calculates the Relative Strength Index using Wilder's smoothing.
// Needs at least period+1 bars to form the first period of changes.
func RSI(candles []model.Candle, period int) (float64, bool) {
	if period <= 0 || len(candles) < period+1 {
		return 0, false
	}

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		change := candles[i].Close - candles[i-1].Close
		if change > 0 {
			avgGain += change
		} else {
			avgLoss -= change
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	for i := period + 1; i < len(candles); i++ {
		change := candles[i].Close - candles[i-1].Close
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
	}

	if avgLoss == 0 {
		return 100, true
	}

	rs := avgGain / avgLoss
	return 100 - (100 / (1 + rs)), true
}

// ATR calculates the Average True Range using Wilder's smoothing.
// Needs at least period+1 bars because the true range of each bar
// depends on the previous close.
func ATR(candles []model.Candle, period int) (float64, bool) {
	if period <= 0 || len(candles) < period+1 {
		return 0, false
	}

	trueRange := func(i int) float64 {
		hl := candles[i].High - candles[i].Low
		hc := math.Abs(candles[i].High - candles[i-1].Close)
		lc := math.Abs(candles[i].Low - candles[i-1].Close)
		return math.Max(hl, math.Max(hc, lc))
	}

	var atr float64
	for i := 1; i <= period; i++ {
		atr += trueRange(i)
	}
	atr /= float64(period)

	for i := period + 1; i < len(candles); i++ {
		atr = (atr*float64(period-1) + trueRange(i)) / float64(period)
	}
	return atr, true
}
