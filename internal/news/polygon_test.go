package news

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newsServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestFetch_FiltersByTickerTagAndTitle(t *testing.T) {
	srv := newsServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/reference/news", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("apiKey"))

		body := map[string]any{"results": []map[string]any{
			{
				"title":         "Markets rally broadly",
				"tickers":       []string{"SPY"},
				"published_utc": "2025-06-01T12:00:00Z",
				"publisher":     map[string]string{"name": "Newswire"},
				"article_url":   "https://example.com/1",
			},
			{
				"title":         "AAPL unveils new hardware",
				"tickers":       []string{},
				"published_utc": "2025-06-01T11:00:00Z",
				"publisher":     map[string]string{"name": "Tech Daily"},
				"article_url":   "https://example.com/2",
			},
			{
				"title":         "Supplier wins contract",
				"tickers":       []string{"AAPL", "TSM"},
				"published_utc": "2025-06-01T10:00:00Z",
				"publisher":     map[string]string{},
				"article_url":   "https://example.com/3",
			},
		}}
		_ = json.NewEncoder(w).Encode(body)
	})

	client := NewClient("test-key", WithBaseURL(srv.URL))
	articles := client.Fetch(context.Background(), "aapl")

	require.Len(t, articles, 2)
	assert.Equal(t, "AAPL unveils new hardware", articles[0].Title)
	assert.Equal(t, "Supplier wins contract", articles[1].Title)
	assert.Equal(t, "Unknown", articles[1].Publisher, "missing publisher name gets a placeholder")
}

func TestFetch_CapsAtTenArticles(t *testing.T) {
	srv := newsServer(t, func(w http.ResponseWriter, _ *http.Request) {
		results := make([]map[string]any, 0, 30)
		for i := 0; i < 30; i++ {
			results = append(results, map[string]any{
				"title":       fmt.Sprintf("AAPL story %d", i),
				"tickers":     []string{"AAPL"},
				"article_url": fmt.Sprintf("https://example.com/%d", i),
				"publisher":   map[string]string{"name": "Wire"},
			})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"results": results})
	})

	client := NewClient("test-key", WithBaseURL(srv.URL))
	articles := client.Fetch(context.Background(), "AAPL")

	assert.Len(t, articles, 10)
}

func TestFetch_FailureReturnsEmpty(t *testing.T) {
	srv := newsServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	client := NewClient("test-key", WithBaseURL(srv.URL))
	articles := client.Fetch(context.Background(), "AAPL")

	assert.Empty(t, articles)
}

func TestFetch_NoKeySkipsRequest(t *testing.T) {
	srv := newsServer(t, func(http.ResponseWriter, *http.Request) {
		t.Fatal("request should not be made without an API key")
	})

	client := NewClient("", WithBaseURL(srv.URL))
	articles := client.Fetch(context.Background(), "AAPL")

	assert.Empty(t, articles)
}
