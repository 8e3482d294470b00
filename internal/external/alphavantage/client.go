package alphavantage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/marketlens/backend/internal/contracts"
	"github.com/marketlens/backend/pkg/config"
	"github.com/marketlens/backend/pkg/httputil"
	"github.com/marketlens/backend/pkg/logger"
)

// Client handles communication with the Alpha Vantage API.
type Client struct {
	httpClient *httputil.Client
	limiter    *rate.Limiter
	logger     *logger.Logger
	apiKey     string
	baseURL    string
}

// NewClient creates a new Alpha Vantage client. Requests are throttled
// client-side to stay inside the free-tier quota.
func NewClient(cfg config.AlphaVantageConfig, httpClient *httputil.Client, log *logger.Logger) *Client {
	limit := cfg.RateLimit
	if limit <= 0 {
		limit = 5
	}
	window := cfg.RateWindow
	if window <= 0 {
		window = time.Minute
	}

	return &Client{
		httpClient: httpClient,
		limiter:    rate.NewLimiter(rate.Every(window/time.Duration(limit)), 1),
		logger:     log,
		apiKey:     cfg.APIKey,
		baseURL:    cfg.BaseURL,
	}
}

// searchResponse mirrors the SYMBOL_SEARCH wire format. Alpha Vantage
// numbers its JSON keys.
type searchResponse struct {
	ErrorMessage string        `json:"Error Message"`
	Note         string        `json:"Note"`
	BestMatches  []searchMatch `json:"bestMatches"`
}

type searchMatch struct {
	Symbol string `json:"1. symbol"`
	Name   string `json:"2. name"`
	Region string `json:"4. region"`
}

// Search calls SYMBOL_SEARCH for the given keywords and returns the
// candidate matches in response order.
func (c *Client) Search(ctx context.Context, keywords string) ([]contracts.SymbolMatch, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	params := url.Values{}
	params.Set("function", "SYMBOL_SEARCH")
	params.Set("keywords", keywords)
	params.Set("apikey", c.apiKey)

	fullURL := fmt.Sprintf("%s/query?%s", c.baseURL, params.Encode())

	resp, err := c.httpClient.Get(ctx, fullURL)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body failed: %w", err)
	}

	matches, err := parseSearchResponse(body)
	if err != nil {
		return nil, err
	}

	c.logger.WithFields(map[string]interface{}{
		"keywords": keywords,
		"count":    len(matches),
	}).Debug("Symbol search completed")
	return matches, nil
}

// parseSearchResponse decodes a SYMBOL_SEARCH body. An explicit error
// indicator in the payload is surfaced as an error.
func parseSearchResponse(body []byte) ([]contracts.SymbolMatch, error) {
	var decoded searchResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("decode response failed: %w", err)
	}

	if decoded.ErrorMessage != "" {
		return nil, fmt.Errorf("alpha vantage error: %s", decoded.ErrorMessage)
	}
	if decoded.Note != "" && len(decoded.BestMatches) == 0 {
		// The free tier answers with a Note body when throttled.
		return nil, fmt.Errorf("alpha vantage throttled: %s", decoded.Note)
	}

	matches := make([]contracts.SymbolMatch, 0, len(decoded.BestMatches))
	for _, m := range decoded.BestMatches {
		matches = append(matches, contracts.SymbolMatch{
			Symbol: m.Symbol,
			Name:   m.Name,
			Region: m.Region,
		})
	}
	return matches, nil
}
