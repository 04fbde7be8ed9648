package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreRelativeStrength_KillSwitch(t *testing.T) {
	stock := seriesFromCloses([]float64{100, 99, 98, 97, 96, 95}, 2)
	market := seriesFromCloses([]float64{100, 101, 102, 103, 104, 105}, 2)

	result := ScoreRelativeStrength(stock, market)

	assert.True(t, result.KillSwitch)
	assert.Equal(t, 0, result.Score)
	assert.Equal(t, "RELATIVE WEAKNESS (Auto-Fail)", result.Details["status"])
	assert.Equal(t, "-5.00%", result.Details["stock_5d_return"])
	assert.Equal(t, "+5.00%", result.Details["market_5d_return"])
}

func TestScoreRelativeStrength_Leader(t *testing.T) {
	stock := seriesFromCloses([]float64{100, 102, 104, 106, 108, 110}, 2)
	market := seriesFromCloses([]float64{100, 101, 102, 103, 104, 105}, 2)

	result := ScoreRelativeStrength(stock, market)

	assert.False(t, result.KillSwitch)
	assert.Equal(t, 20, result.Score)
	assert.Equal(t, "Leader (+20)", result.Details["status"])
}

func TestScoreRelativeStrength_Laggard(t *testing.T) {
	stock := seriesFromCloses([]float64{100, 100, 101, 101, 102, 102}, 2)
	market := seriesFromCloses([]float64{100, 101, 102, 103, 104, 105}, 2)

	result := ScoreRelativeStrength(stock, market)

	assert.False(t, result.KillSwitch)
	assert.Equal(t, 0, result.Score)
	assert.Equal(t, "Laggard (0)", result.Details["status"])
}

func TestScoreRelativeStrength_EqualReturnsAreLaggard(t *testing.T) {
	series := seriesFromCloses([]float64{100, 101, 102, 103, 104, 105}, 2)

	result := ScoreRelativeStrength(series, series)

	assert.Equal(t, 0, result.Score)
	assert.False(t, result.KillSwitch)
}

// Falling less than a falling market is leadership, not a veto: the
// kill switch only fires against a rising tape.
func TestScoreRelativeStrength_DownLessThanMarket(t *testing.T) {
	stock := seriesFromCloses([]float64{100, 100, 100, 99.5, 99.5, 99}, 2)
	market := seriesFromCloses([]float64{100, 99, 98, 97, 96, 95}, 2)

	result := ScoreRelativeStrength(stock, market)

	assert.False(t, result.KillSwitch)
	assert.Equal(t, 20, result.Score)
}

func TestScoreRelativeStrength_InsufficientBars(t *testing.T) {
	stock := seriesFromCloses([]float64{100, 101, 102}, 2)
	market := seriesFromCloses([]float64{100, 101, 102, 103, 104, 105}, 2)

	result := ScoreRelativeStrength(stock, market)

	assert.Equal(t, 0, result.Score)
	assert.False(t, result.KillSwitch)
	assert.Contains(t, result.Details, "error")
}
