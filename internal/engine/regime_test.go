package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreMarketRegime_BullLowFear(t *testing.T) {
	market := seriesFromCloses(rampCloses(60, 100, 1), 2)
	vix := seriesFromCloses(flatCloses(30, 15), 1)

	result := ScoreMarketRegime(market, vix)

	assert.Equal(t, 30, result.Score)
	assert.Contains(t, result.Details["market_trend"], "Bull")
	assert.Contains(t, result.Details["vix"], "Low Fear")
}

func TestScoreMarketRegime_BearHighFearFloorsAtZero(t *testing.T) {
	market := seriesFromCloses(rampCloses(60, 160, -1), 2)
	vix := seriesFromCloses(flatCloses(30, 35), 1)

	result := ScoreMarketRegime(market, vix)

	// 0 bull points - 20 fear points, floored
	assert.Equal(t, 0, result.Score)
	assert.Contains(t, result.Details["market_trend"], "Bear")
	assert.Contains(t, result.Details["vix"], "HIGH FEAR")
	assert.Equal(t, 0, result.Details["regime_score"])
}

func TestScoreMarketRegime_ElevatedVIXContributesNothing(t *testing.T) {
	market := seriesFromCloses(rampCloses(60, 100, 1), 2)
	vix := seriesFromCloses(flatCloses(30, 25), 1)

	result := ScoreMarketRegime(market, vix)

	assert.Equal(t, 15, result.Score)
	assert.Contains(t, result.Details["vix"], "Elevated")
}

func TestScoreMarketRegime_MissingVIXAssumesNeutral(t *testing.T) {
	market := seriesFromCloses(rampCloses(60, 100, 1), 2)

	result := ScoreMarketRegime(market, nil)

	assert.Equal(t, 15, result.Score)
	assert.Equal(t, "Not available (assuming neutral)", result.Details["vix"])
}

func TestScoreMarketRegime_ShortSeriesIsBear(t *testing.T) {
	// Under 50 bars the SMA is undefined, which reads as no confirmed
	// bull trend
	market := seriesFromCloses(rampCloses(20, 100, 1), 2)

	result := ScoreMarketRegime(market, nil)

	assert.Equal(t, 0, result.Score)
	assert.Equal(t, "Bear: 50 SMA unavailable (0)", result.Details["market_trend"],
		"undefined SMA must not render as a zero price")
}

func TestScoreMarketRegime_EmptyMarket(t *testing.T) {
	result := ScoreMarketRegime(nil, nil)

	assert.Equal(t, 0, result.Score)
	assert.Contains(t, result.Details, "error")
}
