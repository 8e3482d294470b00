package competitors

import (
	"context"
	"fmt"
	"strings"

	"github.com/marketlens/backend/internal/contracts"
	"github.com/marketlens/backend/internal/marketdata"
	"github.com/marketlens/backend/pkg/logger"
)

// fallbackNames substitutes for an empty candidate list and seeds the
// synthesized records when nothing resolves.
var fallbackNames = []string{"Microsoft", "Apple", "Amazon"}

const historyDays = 30

// Aggregator turns candidate competitor names into records with market
// data attached. Duplicates collapse at two levels: by name on input
// and by resolved ticker across the whole call. Every external failure
// degrades to synthetic data; aggregation itself never fails.
type Aggregator struct {
	resolver contracts.TickerResolver
	caps     contracts.MarketCapProvider
	prices   contracts.PriceHistoryProvider
	logger   *logger.Logger
}

// NewAggregator creates an aggregator.
func NewAggregator(resolver contracts.TickerResolver, caps contracts.MarketCapProvider, prices contracts.PriceHistoryProvider, log *logger.Logger) *Aggregator {
	return &Aggregator{
		resolver: resolver,
		caps:     caps,
		prices:   prices,
		logger:   log,
	}
}

// Aggregate builds one record per distinct resolved ticker, in
// first-seen candidate order. A candidate survives only when a market
// cap is available and both series are non-empty; a failed price fetch
// is patched with a synthetic series rather than dropping the record.
// When nothing survives, a deterministic fallback list is returned so
// the caller always has something to render.
func (a *Aggregator) Aggregate(ctx context.Context, candidateNames []string) []contracts.CompetitorRecord {
	candidates := dedupeNames(candidateNames)
	if len(candidates) == 0 {
		candidates = fallbackNames
	}

	var records []contracts.CompetitorRecord
	processed := make(map[string]bool)

	for _, name := range candidates {
		ticker := a.resolver.Resolve(ctx, name)
		if ticker == "" || processed[ticker] {
			continue
		}

		record, ok := a.buildRecord(ctx, name, ticker)
		if !ok {
			continue
		}

		records = append(records, record)
		processed[ticker] = true
	}

	if len(records) == 0 {
		a.logger.Warn("No valid competitor data found, using fallback records")
		return fallbackRecords()
	}

	return records
}

// buildRecord fetches market cap and price history for one ticker.
func (a *Aggregator) buildRecord(ctx context.Context, name, ticker string) (contracts.CompetitorRecord, bool) {
	marketCap, err := a.caps.FetchMarketCap(ctx, ticker)
	if err != nil {
		a.logger.WithError(err).WithField("ticker", ticker).Warn("Market cap fetch failed")
		marketCap = 0
	}

	series, err := a.prices.FetchDailyCloses(ctx, ticker)
	if err != nil || series.Empty() {
		if err != nil {
			a.logger.WithError(err).WithField("ticker", ticker).Warn("Price history fetch failed, synthesizing")
		}
		series = marketdata.Synthetic(historyDays)
	}

	if marketCap <= 0 || series.Empty() {
		a.logger.WithFields(map[string]interface{}{
			"name":   name,
			"ticker": ticker,
		}).Debug("Discarding competitor without market cap")
		return contracts.CompetitorRecord{}, false
	}

	return contracts.CompetitorRecord{
		Name:         name,
		Ticker:       ticker,
		MarketCap:    marketCap,
		StockPrices:  series.Prices,
		TimeLabels:   series.Labels,
		StockPrice:   series.Latest(),
		SeriesSource: series.Source,
	}, true
}

// fallbackRecords synthesizes the three fixed fallback companies with
// deterministic tickers, descending market caps and increasing prices.
func fallbackRecords() []contracts.CompetitorRecord {
	records := make([]contracts.CompetitorRecord, 0, len(fallbackNames))

	for i, name := range fallbackNames {
		ticker := strings.ToUpper(name[:3])
		marketCap := float64(1_000_000_000 * (3 - i))

		prices := make([]float64, historyDays)
		labels := make([]string, historyDays)
		for j := 0; j < historyDays; j++ {
			prices[j] = float64(100 + i*10 + j)
			labels[j] = fmt.Sprintf("2025-04-%02d", j+1)
		}

		records = append(records, contracts.CompetitorRecord{
			Name:         name,
			Ticker:       ticker,
			MarketCap:    marketCap,
			StockPrices:  prices,
			TimeLabels:   labels,
			StockPrice:   prices[historyDays-1],
			SeriesSource: contracts.SeriesSourceSynthetic,
		})
	}

	return records
}

// dedupeNames collapses duplicate candidate names, keeping first-seen
// order so aggregation output is deterministic.
func dedupeNames(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
