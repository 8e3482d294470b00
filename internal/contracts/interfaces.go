package contracts

import (
	"context"
	"time"
)

// TickerResolver maps a free-text company name to a ticker symbol.
// Resolution never fails; a heuristic guess is the last resort.
type TickerResolver interface {
	Resolve(ctx context.Context, companyName string) string
}

// SymbolSearcher searches an external provider for ticker candidates.
type SymbolSearcher interface {
	Search(ctx context.Context, keywords string) ([]SymbolMatch, error)
}

// MarketCapProvider fetches the market capitalization for a ticker.
// A zero value means the figure is unavailable.
type MarketCapProvider interface {
	FetchMarketCap(ctx context.Context, ticker string) (float64, error)
}

// PriceHistoryProvider fetches about one month of daily closes.
type PriceHistoryProvider interface {
	FetchDailyCloses(ctx context.Context, ticker string) (PriceSeries, error)
}

// SectorGenerator produces sector/competitor groupings from a company
// description. Implementations degrade to fixed fallback data and
// never return an empty result on failure.
type SectorGenerator interface {
	GenerateSectors(ctx context.Context, description string) []SectorGroup
}

// SummaryProvider looks up a short company description.
type SummaryProvider interface {
	SummaryForCompany(ctx context.Context, companyName string) (string, error)
}

// AnalysisEntry is one row of the analysis audit log.
type AnalysisEntry struct {
	ID         int64     `json:"id,omitempty"`
	Company    string    `json:"company"`
	Ticker     string    `json:"ticker"`
	TopTickers []string  `json:"top_tickers"`
	DurationMS int64     `json:"duration_ms"`
	CreatedAt  time.Time `json:"created_at"`
}

// HistoryRecorder persists analysis entries.
type HistoryRecorder interface {
	Record(ctx context.Context, entry AnalysisEntry) error
}
