// Package service orchestrates a full ticker analysis: quantitative
// scoring, news retrieval, and the optional AI sentiment overlay folded
// into one report.
package service

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"swingscore/internal/engine"
	"swingscore/pkg/model"
)

var tickerPattern = regexp.MustCompile(`^[A-Z]{1,5}$`)

// Scorer produces the quantitative score for a ticker.
type Scorer interface {
	Score(ctx context.Context, ticker string) (*model.ScoreResult, error)
}

// NewsFetcher returns recent articles mentioning a ticker. A fetcher
// never fails the pipeline; it returns an empty slice on trouble.
type NewsFetcher interface {
	Fetch(ctx context.Context, ticker string) []model.NewsArticle
}

// SentimentAnalyst turns a scored ticker plus headlines into a
// -10..+10 sentiment read.
type SentimentAnalyst interface {
	Enabled() bool
	Analyze(ctx context.Context, ticker string, score int, breakdown model.ScoreBreakdown, articles []model.NewsArticle) model.SentimentResult
}

// Analyzer builds complete analysis reports.
type Analyzer struct {
	scorer  Scorer
	news    NewsFetcher
	analyst SentimentAnalyst
	now     func() time.Time
}

// NewAnalyzer wires the report pipeline. news and analyst may be nil,
// in which case the report carries no articles and neutral sentiment.
func NewAnalyzer(scorer Scorer, news NewsFetcher, analyst SentimentAnalyst) *Analyzer {
	return &Analyzer{scorer: scorer, news: news, analyst: analyst, now: time.Now}
}

// CleanTicker normalizes and validates a user-supplied ticker symbol.
func CleanTicker(raw string) (string, error) {
	ticker := strings.ToUpper(strings.TrimSpace(raw))
	if !tickerPattern.MatchString(ticker) {
		return "", fmt.Errorf("invalid ticker %q: must be 1-5 letters", raw)
	}
	return ticker, nil
}

// Analyze scores a ticker and enriches the result with news and AI
// sentiment. useAI toggles the model call; with it off (or the analyst
// disabled) the overlay contributes a neutral 5 points.
func (a *Analyzer) Analyze(ctx context.Context, rawTicker string, useAI bool) (*model.AnalysisReport, error) {
	ticker, err := CleanTicker(rawTicker)
	if err != nil {
		return nil, err
	}

	log.Info().Str("ticker", ticker).Bool("ai", useAI).Msg("Starting analysis")

	// Score and news have no data dependency, so they run together.
	var (
		result   *model.ScoreResult
		scoreErr error
		articles []model.NewsArticle
		wg       sync.WaitGroup
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		result, scoreErr = a.scorer.Score(ctx, ticker)
	}()
	if a.news != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			articles = a.news.Fetch(ctx, ticker)
		}()
	}
	wg.Wait()

	if scoreErr != nil {
		return nil, fmt.Errorf("scoring %s: %w", ticker, scoreErr)
	}

	sentiment := a.sentimentFor(ctx, ticker, result, articles, useAI)
	points := sentimentPoints(sentiment.SentimentScore)

	breakdown := result.Breakdown
	breakdown.AISentiment = points
	breakdown.Details.AISentiment = map[string]any{
		"ai_score": fmt.Sprintf("%+d/10", sentiment.SentimentScore),
		"points":   fmt.Sprintf("%d/10", points),
		"analysis": sentiment.Analysis,
		"key_risk": sentiment.KeyRisk,
	}

	finalScore := result.Score + points
	if finalScore > 100 {
		finalScore = 100
	}

	killSwitch := result.Reason != ""
	report := &model.AnalysisReport{
		Ticker:       ticker,
		Score:        finalScore,
		Verdict:      verdictWithSentiment(finalScore, killSwitch),
		Breakdown:    breakdown,
		AISummary:    sentiment.Analysis,
		CurrentPrice: result.CurrentPrice,
		News:         topArticles(articles, 3),
		Timestamp:    a.now().Format("2006-01-02 15:04:05"),
		TradeSetup:   result.TradeSetup,
	}
	if killSwitch {
		report.Warning = result.Reason
	}

	log.Info().Str("ticker", ticker).Int("score", finalScore).
		Str("verdict", string(report.Verdict)).Msg("Analysis complete")

	return report, nil
}

func (a *Analyzer) sentimentFor(ctx context.Context, ticker string, result *model.ScoreResult, articles []model.NewsArticle, useAI bool) model.SentimentResult {
	if !useAI || a.analyst == nil || !a.analyst.Enabled() {
		return model.SentimentResult{
			SentimentScore: 0,
			Analysis:       "AI analysis disabled",
			KeyRisk:        "N/A",
		}
	}
	return a.analyst.Analyze(ctx, ticker, result.Score, result.Breakdown, articles)
}

// sentimentPoints maps the -10..+10 sentiment onto a 0..10 additive
// contribution: -10 adds nothing, 0 adds 5, +10 adds the full budget.
func sentimentPoints(sentiment int) int {
	points := int(math.Round(float64(sentiment+10) / 20 * engine.SentimentBudget))
	if points < 0 {
		return 0
	}
	if points > engine.SentimentBudget {
		return engine.SentimentBudget
	}
	return points
}

// verdictWithSentiment uses finer bands than the raw engine since the
// AI overlay can shift scores near a boundary; the kill switch verdict
// is never overridden.
func verdictWithSentiment(score int, killSwitch bool) model.Verdict {
	if killSwitch {
		return model.VerdictRelWeakness
	}
	switch {
	case score >= 80:
		return model.VerdictStrongBuy
	case score >= 60:
		return model.VerdictBuy
	case score >= 40:
		return model.VerdictHold
	case score >= 20:
		return model.VerdictAvoid
	default:
		return model.VerdictStrongSell
	}
}

func topArticles(articles []model.NewsArticle, n int) []model.NewsArticle {
	if len(articles) <= n {
		return articles
	}
	return articles[:n]
}
