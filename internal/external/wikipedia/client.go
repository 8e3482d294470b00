package wikipedia

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/marketlens/backend/pkg/config"
	"github.com/marketlens/backend/pkg/httputil"
	"github.com/marketlens/backend/pkg/logger"
)

// Client handles communication with the Wikipedia API.
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
}

// NewClient creates a new Wikipedia client.
func NewClient(cfg config.WikipediaConfig, httpClient *httputil.Client, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log,
		baseURL:    cfg.BaseURL,
	}
}

// Search returns page titles matching the query, best first.
func (c *Client) Search(ctx context.Context, query string) ([]string, error) {
	params := url.Values{}
	params.Set("action", "opensearch")
	params.Set("search", query)
	params.Set("limit", "5")
	params.Set("format", "json")

	body, err := c.getJSON(ctx, params)
	if err != nil {
		return nil, err
	}

	return parseSearchResponse(body)
}

// Summary returns the intro extract of a page, clipped to the given
// number of sentences.
func (c *Client) Summary(ctx context.Context, title string, sentences int) (string, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("prop", "extracts")
	params.Set("exintro", "1")
	params.Set("titles", title)
	params.Set("format", "json")
	params.Set("redirects", "1")

	body, err := c.getJSON(ctx, params)
	if err != nil {
		return "", err
	}

	extract, err := parseExtractResponse(body)
	if err != nil {
		return "", err
	}

	text := stripHTML(extract)
	if text == "" {
		return "", fmt.Errorf("no extract for page %q", title)
	}

	return clipSentences(text, sentences), nil
}

// SummaryForCompany searches for the company and summarizes the best
// matching page in two sentences.
func (c *Client) SummaryForCompany(ctx context.Context, companyName string) (string, error) {
	titles, err := c.Search(ctx, companyName)
	if err != nil {
		return "", fmt.Errorf("wikipedia search: %w", err)
	}
	if len(titles) == 0 {
		return "", fmt.Errorf("no wikipedia page found for %q", companyName)
	}

	summary, err := c.Summary(ctx, titles[0], 2)
	if err != nil {
		return "", fmt.Errorf("wikipedia summary: %w", err)
	}

	c.logger.WithFields(map[string]interface{}{
		"company": companyName,
		"page":    titles[0],
	}).Debug("Fetched company summary")
	return summary, nil
}

func (c *Client) getJSON(ctx context.Context, params url.Values) ([]byte, error) {
	fullURL := fmt.Sprintf("%s/w/api.php?%s", c.baseURL, params.Encode())

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
	return body, nil
}

// parseSearchResponse decodes an opensearch body:
// [query, [titles...], [descriptions...], [urls...]]
func parseSearchResponse(body []byte) ([]string, error) {
	var decoded []json.RawMessage
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("decode failed: %w", err)
	}
	if len(decoded) < 2 {
		return nil, fmt.Errorf("unexpected opensearch shape")
	}

	var titles []string
	if err := json.Unmarshal(decoded[1], &titles); err != nil {
		return nil, fmt.Errorf("decode titles failed: %w", err)
	}
	return titles, nil
}

// extractResponse mirrors the query/extracts wire format.
type extractResponse struct {
	Query struct {
		Pages map[string]struct {
			Extract string `json:"extract"`
		} `json:"pages"`
	} `json:"query"`
}

// parseExtractResponse returns the first non-empty page extract.
func parseExtractResponse(body []byte) (string, error) {
	var decoded extractResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", fmt.Errorf("decode failed: %w", err)
	}

	for _, page := range decoded.Query.Pages {
		if page.Extract != "" {
			return page.Extract, nil
		}
	}
	return "", nil
}

// stripHTML reduces an HTML extract to plain text.
func stripHTML(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return strings.TrimSpace(html)
	}
	return strings.TrimSpace(doc.Text())
}

// clipSentences keeps the first n sentences of the text. Sentence
// boundaries are periods followed by whitespace; good enough for
// encyclopedia prose.
func clipSentences(text string, n int) string {
	if n <= 0 {
		return text
	}

	count := 0
	for i := 0; i < len(text)-1; i++ {
		if text[i] == '.' && (text[i+1] == ' ' || text[i+1] == '\n') {
			count++
			if count == n {
				return strings.TrimSpace(text[:i+1])
			}
		}
	}
	return strings.TrimSpace(text)
}
