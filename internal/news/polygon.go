// Package news fetches recent market news and filters it down to the
// articles that actually mention a ticker.
package news

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
	defaultBaseURL = "https://api.polygon.io"

	// The news feed's per-ticker filter is unreliable, so we pull a
	// wide recent window and filter client-side.
	fetchLimit    = 50
	relevantLimit = 10
)

// Client is a Polygon reference-news client.
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

// NewClient creates a news client. An empty API key produces a client
// whose Fetch always returns no articles.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		http:    resty.New().SetTimeout(10 * time.Second),
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.http.SetBaseURL(c.baseURL)
	return c
}

type newsResponse struct {
	Results []struct {
		Title        string   `json:"title"`
		Description  string   `json:"description"`
		PublishedUTC string   `json:"published_utc"`
		ArticleURL   string   `json:"article_url"`
		Tickers      []string `json:"tickers"`
		Publisher    struct {
			Name string `json:"name"`
		} `json:"publisher"`
	} `json:"results"`
}

// Fetch returns up to 10 recent articles mentioning the ticker, either
// tagged with it or carrying it in the title. News is an enrichment,
// not a dependency: any failure logs a warning and returns an empty
// slice rather than an error.
func (c *Client) Fetch(ctx context.Context, ticker string) []model.NewsArticle {
	if c.apiKey == "" {
		return nil
	}

	articles, err := c.fetch(ctx, ticker)
	if err != nil {
		log.Warn().Err(err).Str("ticker", ticker).Msg("news fetch failed")
		return nil
	}
	return articles
}

func (c *Client) fetch(ctx context.Context, ticker string) ([]model.NewsArticle, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"limit":  fmt.Sprintf("%d", fetchLimit),
			"order":  "desc",
			"sort":   "published_utc",
			"apiKey": c.apiKey,
		}).
		Get("/v2/reference/news")
	if err != nil {
		return nil, fmt.Errorf("fetching news: %w", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("news API returned status %d", resp.StatusCode())
	}

	var body newsResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, fmt.Errorf("parsing news response: %w", err)
	}

	upper := strings.ToUpper(ticker)
	var relevant []model.NewsArticle
	for _, article := range body.Results {
		if !mentionsTicker(upper, article.Title, article.Tickers) {
			continue
		}
		publisher := article.Publisher.Name
		if publisher == "" {
			publisher = "Unknown"
		}
		relevant = append(relevant, model.NewsArticle{
			Title:        article.Title,
			Description:  article.Description,
			PublishedUTC: article.PublishedUTC,
			Publisher:    publisher,
			URL:          article.ArticleURL,
		})
		if len(relevant) >= relevantLimit {
			break
		}
	}

	log.Debug().Str("ticker", ticker).
		Int("scanned", len(body.Results)).
		Int("relevant", len(relevant)).
		Msg("news filtered")

	return relevant, nil
}

func mentionsTicker(upper, title string, tickers []string) bool {
	for _, t := range tickers {
		if strings.ToUpper(t) == upper {
			return true
		}
	}
	return strings.Contains(strings.ToUpper(title), upper)
}
