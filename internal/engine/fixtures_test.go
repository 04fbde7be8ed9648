package engine

import (
	"time"

	"swingscore/pkg/model"
)

// Synthetic daily series for the scorer tests. barRange controls the
// high/low spread around the close so the ATR can be pinned exactly.

func seriesFromCloses(closes []float64, barRange float64) []model.Candle {
	candles := make([]model.Candle, len(closes))
	day := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		candles[i] = model.Candle{
			Time:   day.AddDate(0, 0, i),
			Open:   c,
			High:   c + barRange/2,
			Low:    c - barRange/2,
			Close:  c,
			Volume: 1_000_000,
		}
	}
	return candles
}

func flatCloses(n int, level float64) []float64 {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = level
	}
	return closes
}

func rampCloses(n int, start, step float64) []float64 {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = start + float64(i+1)*step
	}
	return closes
}

// zigzagCloses appends pairs of (+up, -down) moves, so the net drift is
// (up-down)/2 per bar and the gain/loss ratio is up:down.
func zigzagCloses(pairs int, start, up, down float64) []float64 {
	closes := make([]float64, 0, pairs*2)
	level := start
	for i := 0; i < pairs; i++ {
		level += up
		closes = append(closes, level)
		level -= down
		closes = append(closes, level)
	}
	return closes
}

// uptrendPullbackSeries is the canonical sweet-spot setup: a long base,
// a sustained rally well above the 200 SMA, then a shallow loss-heavy
// pullback that parks the RSI in the 30-50 band with price hugging the
// 20 EMA. Ends at close 104 with a negative 5-bar return.
func uptrendPullbackSeries() []model.Candle {
	closes := flatCloses(200, 50)
	closes = append(closes, rampCloses(60, 50, 1)...)            // 50 -> 110
	closes = append(closes, zigzagCloses(30, 110, 0.4, 0.6)...) // drift to 104
	return seriesFromCloses(closes, 2)
}

// downtrendReboundSeries sits below the 200 SMA after a hard selloff,
// with a persistent rally pushing the RSI overbought and the price
// moderately above the 20 EMA.
func downtrendReboundSeries() []model.Candle {
	closes := flatCloses(200, 150)
	closes = append(closes, rampCloses(30, 150, -2)...) // 150 -> 90
	closes = append(closes, rampCloses(40, 90, 0.5)...) // 90 -> 110
	return seriesFromCloses(closes, 2)
}

// downtrendPullbackSeries is below the 200 SMA but shows the same
// RSI-sweet-spot/near-EMA texture as the uptrend fixture, so the raw
// bonuses sum past the downtrend cap.
func downtrendPullbackSeries() []model.Candle {
	closes := flatCloses(200, 150)
	closes = append(closes, rampCloses(60, 150, -0.5)...)       // 150 -> 120
	closes = append(closes, zigzagCloses(30, 120, 0.4, 0.6)...) // drift to 114
	return seriesFromCloses(closes, 2)
}

// bullMarketDipSeries rises steadily far above its 50 SMA, then gives
// back a little in the final week so its 5-bar return is clearly
// negative.
func bullMarketDipSeries() []model.Candle {
	closes := rampCloses(244, 100, 2) // 102 -> 588
	last := closes[len(closes)-1]
	closes = append(closes, rampCloses(6, last, -2.5)...) // 588 -> 573
	return seriesFromCloses(closes, 2)
}
