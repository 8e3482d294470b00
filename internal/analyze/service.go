package analyze

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/marketlens/backend/internal/competitors"
	"github.com/marketlens/backend/internal/contracts"
	"github.com/marketlens/backend/internal/marketdata"
	"github.com/marketlens/backend/pkg/logger"
)

// ErrNoCompanyName is the only failure surfaced to callers; every
// other problem degrades to fallback data inside the pipeline.
var ErrNoCompanyName = errors.New("no company name provided")

// Progress receives stage notifications while an analysis runs.
// Stages: description, ticker, prices, sectors, competitors, complete.
type Progress func(stage, message string)

// aggregator is the slice of the competitor pipeline the service needs.
type aggregator interface {
	Aggregate(ctx context.Context, candidateNames []string) []contracts.CompetitorRecord
}

// Service orchestrates one company analysis end to end: description,
// ticker, price history, LLM sectors, competitor aggregation, top-3.
type Service struct {
	summaries  contracts.SummaryProvider
	resolver   contracts.TickerResolver
	prices     contracts.PriceHistoryProvider
	sectors    contracts.SectorGenerator
	aggregator aggregator
	history    contracts.HistoryRecorder // optional
	logger     *logger.Logger
}

// NewService creates an analysis service. history may be nil.
func NewService(
	summaries contracts.SummaryProvider,
	resolver contracts.TickerResolver,
	prices contracts.PriceHistoryProvider,
	sectors contracts.SectorGenerator,
	agg aggregator,
	history contracts.HistoryRecorder,
	log *logger.Logger,
) *Service {
	return &Service{
		summaries:  summaries,
		resolver:   resolver,
		prices:     prices,
		sectors:    sectors,
		aggregator: agg,
		history:    history,
		logger:     log,
	}
}

// Analyze runs the full pipeline for one company name. progress may
// be nil. The only error returned is ErrNoCompanyName.
func (s *Service) Analyze(ctx context.Context, companyName string, progress Progress) (*contracts.AnalysisReport, error) {
	if companyName == "" {
		return nil, ErrNoCompanyName
	}
	if progress == nil {
		progress = func(string, string) {}
	}

	start := time.Now()
	log := s.logger.WithField("company", companyName)

	// 1. Description
	progress("description", "Looking up company description")
	description, err := s.summaries.SummaryForCompany(ctx, companyName)
	if err != nil || description == "" {
		log.WithError(err).Warn("Using fallback description")
		description = fallbackDescription(companyName)
	}

	// 2. Ticker
	progress("ticker", "Resolving ticker symbol")
	symbol := s.resolver.Resolve(ctx, companyName)

	// 3. Price history
	progress("prices", "Fetching price history")
	series, err := s.prices.FetchDailyCloses(ctx, symbol)
	if err != nil || series.Empty() {
		if err != nil {
			log.WithError(err).WithField("ticker", symbol).Warn("Price history fetch failed, synthesizing")
		}
		series = marketdata.Synthetic(30)
	}

	// 4. Sectors and competitors from the language model
	progress("sectors", "Generating competitor sectors")
	sectorGroups := s.sectors.GenerateSectors(ctx, description)
	if len(sectorGroups) == 0 {
		sectorGroups = []contracts.SectorGroup{
			{Name: "No Sectors", Competitors: []string{"No competitors found."}},
		}
	}

	// 5. Aggregate and rank competitors
	progress("competitors", "Comparing competitors by market cap")
	names := flattenCompetitors(sectorGroups)
	records := s.aggregator.Aggregate(ctx, names)
	top := competitors.SelectTop(records, competitors.DefaultTopN)

	report := &contracts.AnalysisReport{
		Success:        true,
		Description:    description,
		Ticker:         symbol,
		StockPrices:    series.Prices,
		TimeLabels:     series.Labels,
		Competitors:    sectorGroups,
		TopCompetitors: top,
	}

	s.record(ctx, companyName, report, time.Since(start))

	progress("complete", "Analysis complete")
	log.WithFields(map[string]interface{}{
		"ticker":   symbol,
		"top":      len(top),
		"duration": time.Since(start),
	}).Info("Company analysis completed")

	return report, nil
}

// record appends the analysis to the audit log, best effort.
func (s *Service) record(ctx context.Context, companyName string, report *contracts.AnalysisReport, took time.Duration) {
	if s.history == nil {
		return
	}

	topTickers := make([]string, len(report.TopCompetitors))
	for i, r := range report.TopCompetitors {
		topTickers[i] = r.Ticker
	}

	entry := contracts.AnalysisEntry{
		Company:    companyName,
		Ticker:     report.Ticker,
		TopTickers: topTickers,
		DurationMS: took.Milliseconds(),
		CreatedAt:  time.Now(),
	}
	if err := s.history.Record(ctx, entry); err != nil {
		s.logger.WithError(err).Warn("Failed to record analysis history")
	}
}

// flattenCompetitors collects competitor names across sectors in
// document order.
func flattenCompetitors(sectors []contracts.SectorGroup) []string {
	var names []string
	for _, sector := range sectors {
		names = append(names, sector.Competitors...)
	}
	return names
}

// fallbackDescription stands in when the encyclopedia lookup fails.
func fallbackDescription(companyName string) string {
	return fmt.Sprintf("%s is a company operating in various sectors including technology and finance.", companyName)
}
