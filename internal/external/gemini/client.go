package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/marketlens/backend/internal/contracts"
	"github.com/marketlens/backend/pkg/config"
	"github.com/marketlens/backend/pkg/logger"
)

const maxDescriptionChars = 500

// Client generates sector/competitor groupings with Gemini.
// When the API key is missing or the SDK client cannot be created the
// client stays in an explicit unavailable state and every call answers
// with the fixed fallback sectors.
type Client struct {
	genai  *genai.Client
	model  string
	logger *logger.Logger
}

// NewClient creates a Gemini client. Construction never fails; an
// unusable configuration produces an unavailable client.
func NewClient(ctx context.Context, cfg config.GeminiConfig, log *logger.Logger) *Client {
	c := &Client{
		model:  cfg.Model,
		logger: log,
	}
	if c.model == "" {
		c.model = "gemini-1.5-flash"
	}

	if cfg.APIKey == "" {
		log.Warn("GEMINI_API_KEY not set, sector generation will use fallback data")
		return c
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		log.WithError(err).Warn("Failed to create Gemini client, sector generation will use fallback data")
		return c
	}

	c.genai = client
	return c
}

// Available reports whether the underlying SDK client exists.
func (c *Client) Available() bool {
	return c.genai != nil
}

// GenerateSectors asks the model for sectors and competitors of the
// described company. Any failure degrades to the fixed fallback.
func (c *Client) GenerateSectors(ctx context.Context, description string) []contracts.SectorGroup {
	if c.genai == nil {
		return FallbackSectors()
	}

	prompt := buildPrompt(description)

	result, err := c.genai.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		c.logger.WithError(err).Warn("Gemini generation failed, using fallback sectors")
		return FallbackSectors()
	}

	sectors := ParseSectorBlocks(result.Text())
	if len(sectors) == 0 {
		c.logger.Warn("Gemini response had no parseable sectors, using fallback")
		return FallbackSectors()
	}

	c.logger.WithField("sectors", len(sectors)).Debug("Generated sectors")
	return sectors
}

// buildPrompt formats the request the model answers with plain sector
// blocks separated by blank lines.
func buildPrompt(description string) string {
	return fmt.Sprintf(`Provide a structured list of sectors and their competitors for the following company description:
%s
Format:
Sector Name :
    Competitor 1
    Competitor 2
    Competitor 3

Leave a line after each sector. Do not use bullet points.`, truncate(description, maxDescriptionChars))
}

// truncate clips s to at most n runes.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// ParseSectorBlocks parses the model output: blocks separated by blank
// lines, first line the sector name, remaining lines competitors.
// Blocks with no competitors are dropped.
func ParseSectorBlocks(content string) []contracts.SectorGroup {
	var sectors []contracts.SectorGroup

	for _, block := range strings.Split(content, "\n\n") {
		lines := strings.Split(strings.TrimSpace(block), "\n")
		if len(lines) < 2 {
			continue
		}

		name := strings.TrimSpace(lines[0])
		var competitors []string
		for _, l := range lines[1:] {
			if trimmed := strings.TrimSpace(l); trimmed != "" {
				competitors = append(competitors, trimmed)
			}
		}
		if name == "" || len(competitors) == 0 {
			continue
		}

		sectors = append(sectors, contracts.SectorGroup{
			Name:        name,
			Competitors: competitors,
		})
	}

	return sectors
}

// FallbackSectors is the fixed grouping returned whenever the model
// is unavailable or its answer cannot be used.
func FallbackSectors() []contracts.SectorGroup {
	return []contracts.SectorGroup{
		{
			Name:        "Technology Sector:",
			Competitors: []string{"Microsoft", "Apple", "IBM", "Oracle"},
		},
		{
			Name:        "Financial Sector:",
			Competitors: []string{"JPMorgan Chase", "Bank of America", "Wells Fargo", "Citigroup"},
		},
	}
}
