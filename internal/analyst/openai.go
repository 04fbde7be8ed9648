// Package analyst wraps an OpenAI chat-completions call that turns a
// quantitative score, its breakdown, and recent headlines into a short
// qualitative read with a -10..+10 sentiment score.
package analyst

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"

	"swingscore/pkg/model"
)

const (
	defaultBaseURL = "https://api.openai.com"
	chatModel      = "gpt-4o-mini"
)

const systemPrompt = `You are a Senior Swing Trading Analyst at a prestigious hedge fund.
Your job is to provide ACTIONABLE insights to traders, not generic commentary.

CRITICAL RULES:
1. Always provide value - even without news, you can analyze the technicals
2. Be direct and specific - no fluff or generic statements
3. Focus on what matters most for the current score level
4. Professional tone - think Bloomberg Terminal, not Reddit

SCORING INTERPRETATION:
- 80-100: Strong Buy - Explain WHY this is a screaming opportunity
- 60-79: Buy - What's driving the setup, what's the risk
- 40-59: Hold - "If you're in, hold. If flat, wait for better entry."
- 20-39: Avoid - Clear reasons why this isn't tradeable
- 0-19: Strong Sell - Red flags that traders must know

IF NO NEWS:
- DO NOT say "no news available" or "insufficient data"
- INSTEAD: Focus on what you DO have - technicals, regime, momentum

Return ONLY valid JSON:
{
  "analysis": "2-3 sentence actionable summary",
  "key_risk": "The single biggest risk right now",
  "sentiment_score": <number -10 to +10 based on OVERALL outlook>
}`

// Client calls the chat-completions endpoint for sentiment analysis.
type Client struct {
	http    *resty.Client
	apiKey  string
	baseURL string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API host, mainly for tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// NewClient creates an analyst client. An empty API key disables it.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		http:    resty.New().SetTimeout(15 * time.Second),
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.http.SetBaseURL(c.baseURL)
	return c
}

// Enabled reports whether the client has credentials to call the API.
func (c *Client) Enabled() bool { return c.apiKey != "" }

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	Temperature    float64       `json:"temperature"`
	MaxTokens      int           `json:"max_tokens"`
	ResponseFormat struct {
		Type string `json:"type"`
	} `json:"response_format"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Analyze asks the model for a holistic read on a scored ticker. It
// never returns an error: a failed or malformed call degrades to a
// score-band fallback so the report pipeline keeps moving.
func (c *Client) Analyze(ctx context.Context, ticker string, score int, breakdown model.ScoreBreakdown, articles []model.NewsArticle) model.SentimentResult {
	result, err := c.analyze(ctx, ticker, score, breakdown, articles)
	if err != nil {
		log.Warn().Err(err).Str("ticker", ticker).Msg("sentiment analysis failed, using fallback")
		return fallbackSentiment(score)
	}
	return result
}

func (c *Client) analyze(ctx context.Context, ticker string, score int, breakdown model.ScoreBreakdown, articles []model.NewsArticle) (model.SentimentResult, error) {
	req := chatRequest{
		Model: chatModel,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt(ticker, score, breakdown, articles)},
		},
		Temperature: 0.7,
		MaxTokens:   250,
	}
	req.ResponseFormat.Type = "json_object"

	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(c.apiKey).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		Post("/v1/chat/completions")
	if err != nil {
		return model.SentimentResult{}, fmt.Errorf("calling chat completions: %w", err)
	}
	if resp.StatusCode() != 200 {
		return model.SentimentResult{}, fmt.Errorf("chat completions returned status %d", resp.StatusCode())
	}

	var body chatResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return model.SentimentResult{}, fmt.Errorf("parsing completion response: %w", err)
	}
	if len(body.Choices) == 0 {
		return model.SentimentResult{}, fmt.Errorf("completion response has no choices")
	}

	var parsed struct {
		Analysis       string `json:"analysis"`
		KeyRisk        string `json:"key_risk"`
		SentimentScore int    `json:"sentiment_score"`
	}
	if err := json.Unmarshal([]byte(body.Choices[0].Message.Content), &parsed); err != nil {
		return model.SentimentResult{}, fmt.Errorf("parsing model verdict: %w", err)
	}

	result := model.SentimentResult{
		SentimentScore: clampSentiment(parsed.SentimentScore),
		Analysis:       parsed.Analysis,
		KeyRisk:        parsed.KeyRisk,
	}
	if result.Analysis == "" {
		result.Analysis = "Analysis unavailable"
	}
	if result.KeyRisk == "" {
		result.KeyRisk = "Monitor market conditions"
	}
	return result, nil
}

func userPrompt(ticker string, score int, breakdown model.ScoreBreakdown, articles []model.NewsArticle) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Analyze $%s\n\n", ticker)
	fmt.Fprintf(&b, "QUANTITATIVE ANALYSIS:\n")
	fmt.Fprintf(&b, "- Overall Score: %d/100\n", score)
	fmt.Fprintf(&b, "- Technical Score: %d/40\n", breakdown.Technicals)
	writeDetails(&b, breakdown.Details.Technicals, "rsi_signal", "trend_filter", "ema_signal")
	fmt.Fprintf(&b, "- Market Regime: %d/30\n", breakdown.MarketRegime)
	writeDetails(&b, breakdown.Details.MarketRegime, "market_trend", "vix")
	fmt.Fprintf(&b, "- Relative Strength: %d/20\n", breakdown.RelativeStrength)
	writeDetails(&b, breakdown.Details.RelativeStrength, "stock_5d_return", "market_5d_return", "status")

	if len(articles) > 0 {
		b.WriteString("\nRECENT NEWS:\n")
		for i, article := range articles {
			if i >= 5 {
				break
			}
			fmt.Fprintf(&b, "- %s\n", article.Title)
		}
	} else {
		b.WriteString("\n[No recent news available - Focus on technical/market data]\n")
	}

	b.WriteString("\nProvide your professional analysis.")
	return b.String()
}

func writeDetails(b *strings.Builder, details map[string]any, keys ...string) {
	for _, key := range keys {
		if v, ok := details[key]; ok {
			fmt.Fprintf(b, "  - %s: %v\n", key, v)
		}
	}
}

// fallbackSentiment substitutes a deterministic read keyed off the
// quantitative score when the model cannot be reached.
func fallbackSentiment(score int) model.SentimentResult {
	switch {
	case score >= 70:
		return model.SentimentResult{
			SentimentScore: 5,
			Analysis:       "Strong technical setup with favorable market conditions. Monitor for entry timing.",
			KeyRisk:        "Potential for short-term pullback",
		}
	case score >= 50:
		return model.SentimentResult{
			SentimentScore: 0,
			Analysis:       "Mixed signals present. If holding, maintain position. If flat, wait for clearer setup.",
			KeyRisk:        "Unclear momentum direction",
		}
	default:
		return model.SentimentResult{
			SentimentScore: -3,
			Analysis:       "Technical setup not favorable for swing entry at current levels.",
			KeyRisk:        "Weak momentum and market headwinds",
		}
	}
}

func clampSentiment(s int) int {
	if s < -10 {
		return -10
	}
	if s > 10 {
		return 10
	}
	return s
}
