package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"swingscore/internal/ratelimit"
	"swingscore/pkg/model"
)

const alpacaDataURL = "https://data.alpaca.markets/v2"

// AlpacaProvider implements the Provider interface for the Alpaca
// Market Data REST API. Only the historical bars endpoint is used;
// the streaming API is deliberately never touched.
type AlpacaProvider struct {
	keyID     string
	secretKey string
	baseURL   string
	client    *http.Client
	limiter   *ratelimit.Limiter
	rateLimit int
}

// NewAlpacaProvider creates a new Alpaca data provider
func NewAlpacaProvider(keyID, secretKey string, rateLimitPerMin int) *AlpacaProvider {
	return &AlpacaProvider{
		keyID:     keyID,
		secretKey: secretKey,
		baseURL:   alpacaDataURL,
		client:    &http.Client{Timeout: 30 * time.Second},
		limiter:   ratelimit.NewLimiter("alpaca", rateLimitPerMin),
		rateLimit: rateLimitPerMin,
	}
}

// Name returns the provider name
func (p *AlpacaProvider) Name() string {
	return "alpaca"
}

// IsAvailable checks if the provider has an API key pair
func (p *AlpacaProvider) IsAvailable() bool {
	return p.keyID != "" && p.secretKey != ""
}

// RateLimit returns the rate limit per minute
func (p *AlpacaProvider) RateLimit() int {
	return p.rateLimit
}

// alpacaBar represents a single bar in the Alpaca response
type alpacaBar struct {
	T time.Time `json:"t"`
	O float64   `json:"o"`
	H float64   `json:"h"`
	L float64   `json:"l"`
	C float64   `json:"c"`
	V int64     `json:"v"`
}

// alpacaBarsResponse represents the Alpaca historical bars response
type alpacaBarsResponse struct {
	Bars          []alpacaBar `json:"bars"`
	Symbol        string      `json:"symbol"`
	NextPageToken *string     `json:"next_page_token"`
}

// GetDailyBars fetches daily bars for the symbol ending at end. days is
// the number of trading bars wanted; the request window is padded with
// calendar days to cover weekends and holidays, and the result is
// trimmed to the most recent days bars.
func (p *AlpacaProvider) GetDailyBars(ctx context.Context, symbol string, days int, end time.Time) ([]model.Candle, error) {
	if end.IsZero() {
		end = time.Now()
	}
	start := end.AddDate(0, 0, -(days*3/2 + 10))

	var candles []model.Candle
	pageToken := ""

	for {
		page, next, err := p.fetchBarsPage(ctx, symbol, start, end, pageToken)
		if err != nil {
			return nil, err
		}
		candles = append(candles, page...)
		if next == "" {
			break
		}
		pageToken = next
	}

	if len(candles) == 0 {
		return nil, &ProviderError{Provider: p.Name(), Err: fmt.Errorf("no data for %s", symbol), Retryable: false}
	}

	candles = normalizeBars(candles)
	if len(candles) > days {
		candles = candles[len(candles)-days:]
	}
	return candles, nil
}

func (p *AlpacaProvider) fetchBarsPage(ctx context.Context, symbol string, start, end time.Time, pageToken string) ([]model.Candle, string, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, "", err
	}

	q := url.Values{}
	q.Set("timeframe", "1Day")
	q.Set("start", start.UTC().Format(time.RFC3339))
	q.Set("end", end.UTC().Format(time.RFC3339))
	q.Set("limit", "10000")
	q.Set("adjustment", "split")
	if pageToken != "" {
		q.Set("page_token", pageToken)
	}

	reqURL := fmt.Sprintf("%s/stocks/%s/bars?%s", p.baseURL, url.PathEscape(symbol), q.Encode())

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("APCA-API-KEY-ID", p.keyID)
	req.Header.Set("APCA-API-SECRET-KEY", p.secretKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, "", &ProviderError{Provider: p.Name(), Err: err, Retryable: true}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		p.limiter.SignalRateLimited()
		return nil, "", &ProviderError{Provider: p.Name(), Err: fmt.Errorf("rate limited"), Retryable: true}
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, "", &ProviderError{Provider: p.Name(), Err: fmt.Errorf("symbol %s not found", symbol), Retryable: false}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, "", &ProviderError{Provider: p.Name(), Err: fmt.Errorf("status %d", resp.StatusCode), Retryable: false}
	}

	p.limiter.ResetBackoff()

	var data alpacaBarsResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, "", fmt.Errorf("decoding response: %w", err)
	}

	candles := make([]model.Candle, len(data.Bars))
	for i, b := range data.Bars {
		candles[i] = model.Candle{
			Time:   b.T,
			Open:   b.O,
			High:   b.H,
			Low:    b.L,
			Close:  b.C,
			Volume: b.V,
		}
	}

	next := ""
	if data.NextPageToken != nil {
		next = *data.NextPageToken
	}
	return candles, next, nil
}
