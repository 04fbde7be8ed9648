package analyst

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swingscore/pkg/model"
)

func completionServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4o-mini", req["model"])

		body := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": content}},
			},
		}
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestAnalyze_ParsesModelVerdict(t *testing.T) {
	srv := completionServer(t, `{"analysis": "Solid pullback entry.", "key_risk": "Earnings next week", "sentiment_score": 7}`)
	client := NewClient("test-key", WithBaseURL(srv.URL))

	result := client.Analyze(context.Background(), "AAPL", 85, model.ScoreBreakdown{}, nil)

	assert.Equal(t, 7, result.SentimentScore)
	assert.Equal(t, "Solid pullback entry.", result.Analysis)
	assert.Equal(t, "Earnings next week", result.KeyRisk)
}

func TestAnalyze_ClampsOutOfRangeSentiment(t *testing.T) {
	srv := completionServer(t, `{"analysis": "Euphoric.", "key_risk": "Everything", "sentiment_score": 42}`)
	client := NewClient("test-key", WithBaseURL(srv.URL))

	result := client.Analyze(context.Background(), "AAPL", 85, model.ScoreBreakdown{}, nil)

	assert.Equal(t, 10, result.SentimentScore)
}

func TestAnalyze_ServerErrorFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)
	client := NewClient("test-key", WithBaseURL(srv.URL))

	tests := []struct {
		score         int
		wantSentiment int
	}{
		{85, 5},
		{55, 0},
		{20, -3},
	}

	for _, tt := range tests {
		result := client.Analyze(context.Background(), "AAPL", tt.score, model.ScoreBreakdown{}, nil)
		assert.Equal(t, tt.wantSentiment, result.SentimentScore, "score %d", tt.score)
		assert.NotEmpty(t, result.Analysis)
		assert.NotEmpty(t, result.KeyRisk)
	}
}

func TestAnalyze_MalformedVerdictFallsBack(t *testing.T) {
	srv := completionServer(t, `not json at all`)
	client := NewClient("test-key", WithBaseURL(srv.URL))

	result := client.Analyze(context.Background(), "AAPL", 85, model.ScoreBreakdown{}, nil)

	assert.Equal(t, 5, result.SentimentScore)
}

func TestEnabled(t *testing.T) {
	assert.True(t, NewClient("key").Enabled())
	assert.False(t, NewClient("").Enabled())
}

func TestUserPromptIncludesHeadlinesAndBreakdown(t *testing.T) {
	breakdown := model.ScoreBreakdown{
		Technicals:       40,
		MarketRegime:     30,
		RelativeStrength: 20,
		Details: model.BreakdownDetails{
			Technicals:       map[string]any{"rsi_signal": "Sweet spot (+30)"},
			MarketRegime:     map[string]any{"vix": "Low Fear: 15.0 (+15)"},
			RelativeStrength: map[string]any{"status": "Leader (+20)"},
		},
	}
	articles := []model.NewsArticle{
		{Title: "AAPL beats estimates"},
		{Title: "Supplier expands capacity"},
	}

	prompt := userPrompt("AAPL", 90, breakdown, articles)

	assert.Contains(t, prompt, "Analyze $AAPL")
	assert.Contains(t, prompt, "Overall Score: 90/100")
	assert.Contains(t, prompt, "Technical Score: 40/40")
	assert.Contains(t, prompt, "Sweet spot (+30)")
	assert.Contains(t, prompt, "AAPL beats estimates")
	assert.NotContains(t, prompt, "No recent news")
}

func TestUserPromptWithoutNews(t *testing.T) {
	prompt := userPrompt("AAPL", 50, model.ScoreBreakdown{}, nil)

	assert.Contains(t, prompt, "[No recent news available - Focus on technical/market data]")
}
