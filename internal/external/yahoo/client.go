package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/marketlens/backend/internal/contracts"
	"github.com/marketlens/backend/pkg/config"
	"github.com/marketlens/backend/pkg/httputil"
	"github.com/marketlens/backend/pkg/logger"
)

// Client handles communication with the Yahoo Finance public API.
// It serves both the price-history and the market-cap lookups.
type Client struct {
	httpClient   *httputil.Client
	logger       *logger.Logger
	chartBaseURL string
	quoteBaseURL string
}

// NewClient creates a new Yahoo Finance client.
func NewClient(cfg config.YahooConfig, httpClient *httputil.Client, log *logger.Logger) *Client {
	return &Client{
		httpClient:   httpClient,
		logger:       log,
		chartBaseURL: cfg.ChartBaseURL,
		quoteBaseURL: cfg.QuoteBaseURL,
	}
}

var requestHeaders = map[string]string{
	"User-Agent": "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36",
	"Accept":     "application/json",
}

func (c *Client) getJSON(ctx context.Context, fullURL string) ([]byte, error) {
	resp, err := c.httpClient.GetWithHeaders(ctx, fullURL, requestHeaders)
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
	return body, nil
}

// FetchDailyCloses fetches about one month of daily closing prices.
func (c *Client) FetchDailyCloses(ctx context.Context, ticker string) (contracts.PriceSeries, error) {
	fullURL := fmt.Sprintf("%s/v8/finance/chart/%s?range=1mo&interval=1d", c.chartBaseURL, ticker)

	body, err := c.getJSON(ctx, fullURL)
	if err != nil {
		return contracts.PriceSeries{}, err
	}

	series, err := parseChartResponse(body)
	if err != nil {
		return contracts.PriceSeries{}, fmt.Errorf("parse chart response: %w", err)
	}

	c.logger.WithFields(map[string]interface{}{
		"ticker": ticker,
		"count":  len(series.Prices),
	}).Debug("Fetched daily closes")
	return series, nil
}

// FetchMarketCap fetches the market capitalization for a ticker.
func (c *Client) FetchMarketCap(ctx context.Context, ticker string) (float64, error) {
	fullURL := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=price", c.quoteBaseURL, ticker)

	body, err := c.getJSON(ctx, fullURL)
	if err != nil {
		return 0, err
	}

	marketCap, err := parseQuoteSummaryMarketCap(body)
	if err != nil {
		return 0, fmt.Errorf("parse quote summary: %w", err)
	}

	c.logger.WithFields(map[string]interface{}{
		"ticker":     ticker,
		"market_cap": marketCap,
	}).Debug("Fetched market cap")
	return marketCap, nil
}

// chartResponse mirrors the v8 chart wire format, closes only.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// parseChartResponse extracts closes and ISO date labels, skipping
// null entries (holidays, half-days). Prices are rounded to 2 decimals.
func parseChartResponse(body []byte) (contracts.PriceSeries, error) {
	var decoded chartResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return contracts.PriceSeries{}, fmt.Errorf("decode failed: %w", err)
	}

	if decoded.Chart.Error != nil {
		return contracts.PriceSeries{}, fmt.Errorf("chart error: %s", decoded.Chart.Error.Description)
	}
	if len(decoded.Chart.Result) == 0 || len(decoded.Chart.Result[0].Indicators.Quote) == 0 {
		return contracts.PriceSeries{Source: contracts.SeriesSourceReal}, nil
	}

	result := decoded.Chart.Result[0]
	closes := result.Indicators.Quote[0].Close

	series := contracts.PriceSeries{Source: contracts.SeriesSourceReal}
	for i, ts := range result.Timestamp {
		if i >= len(closes) || closes[i] == nil {
			continue
		}
		series.Prices = append(series.Prices, math.Round(*closes[i]*100)/100)
		series.Labels = append(series.Labels, time.Unix(ts, 0).UTC().Format("2006-01-02"))
	}

	return series, nil
}

// quoteSummaryResponse mirrors the quoteSummary price module.
type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			Price struct {
				MarketCap struct {
					Raw float64 `json:"raw"`
				} `json:"marketCap"`
			} `json:"price"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

// parseQuoteSummaryMarketCap extracts the raw market cap. Zero means
// the figure is absent.
func parseQuoteSummaryMarketCap(body []byte) (float64, error) {
	var decoded quoteSummaryResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return 0, fmt.Errorf("decode failed: %w", err)
	}

	if decoded.QuoteSummary.Error != nil {
		return 0, fmt.Errorf("quote summary error: %s", decoded.QuoteSummary.Error.Description)
	}
	if len(decoded.QuoteSummary.Result) == 0 {
		return 0, nil
	}

	return decoded.QuoteSummary.Result[0].Price.MarketCap.Raw, nil
}
