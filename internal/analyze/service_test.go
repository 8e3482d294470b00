package analyze

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marketlens/backend/internal/contracts"
	"github.com/marketlens/backend/pkg/logger"
)

type fakeSummaries struct {
	summary string
	err     error
}

func (f *fakeSummaries) SummaryForCompany(ctx context.Context, companyName string) (string, error) {
	return f.summary, f.err
}

type fakeResolver struct{ symbol string }

func (f *fakeResolver) Resolve(ctx context.Context, companyName string) string {
	return f.symbol
}

type fakePrices struct {
	series contracts.PriceSeries
	err    error
}

func (f *fakePrices) FetchDailyCloses(ctx context.Context, ticker string) (contracts.PriceSeries, error) {
	return f.series, f.err
}

type fakeSectors struct{ groups []contracts.SectorGroup }

func (f *fakeSectors) GenerateSectors(ctx context.Context, description string) []contracts.SectorGroup {
	return f.groups
}

type fakeAggregator struct {
	records []contracts.CompetitorRecord
	gotIn   []string
}

func (f *fakeAggregator) Aggregate(ctx context.Context, candidateNames []string) []contracts.CompetitorRecord {
	f.gotIn = candidateNames
	return f.records
}

type fakeHistory struct {
	entries []contracts.AnalysisEntry
	err     error
}

func (f *fakeHistory) Record(ctx context.Context, entry contracts.AnalysisEntry) error {
	f.entries = append(f.entries, entry)
	return f.err
}

func series(n int) contracts.PriceSeries {
	s := contracts.PriceSeries{Source: contracts.SeriesSourceReal}
	for i := 0; i < n; i++ {
		s.Prices = append(s.Prices, 100+float64(i))
		s.Labels = append(s.Labels, "2025-01-02")
	}
	return s
}

func newTestService(sum *fakeSummaries, prices *fakePrices, sectors *fakeSectors, agg *fakeAggregator, hist contracts.HistoryRecorder) *Service {
	return NewService(sum, &fakeResolver{symbol: "ACME"}, prices, sectors, agg, hist, logger.NewNop())
}

func TestAnalyzeRequiresCompanyName(t *testing.T) {
	svc := newTestService(&fakeSummaries{}, &fakePrices{}, &fakeSectors{}, &fakeAggregator{}, nil)

	_, err := svc.Analyze(context.Background(), "", nil)

	assert.ErrorIs(t, err, ErrNoCompanyName)
}

func TestAnalyzeHappyPath(t *testing.T) {
	sectors := &fakeSectors{groups: []contracts.SectorGroup{
		{Name: "Technology Sector:", Competitors: []string{"Microsoft", "Apple"}},
		{Name: "Retail Sector:", Competitors: []string{"Walmart"}},
	}}
	agg := &fakeAggregator{records: []contracts.CompetitorRecord{
		{Name: "Microsoft", Ticker: "MSFT", MarketCap: 3e12},
		{Name: "Apple", Ticker: "AAPL", MarketCap: 2.9e12},
		{Name: "Walmart", Ticker: "WMT", MarketCap: 5e11},
	}}
	hist := &fakeHistory{}

	svc := newTestService(
		&fakeSummaries{summary: "Acme Corp makes everything."},
		&fakePrices{series: series(21)},
		sectors, agg, hist,
	)

	report, err := svc.Analyze(context.Background(), "Acme Corp", nil)
	require.NoError(t, err)

	assert.True(t, report.Success)
	assert.Equal(t, "Acme Corp makes everything.", report.Description)
	assert.Equal(t, "ACME", report.Ticker)
	assert.Len(t, report.StockPrices, 21)
	assert.Len(t, report.TimeLabels, 21)
	assert.Len(t, report.Competitors, 2)

	// Competitor names flow to the aggregator in document order.
	assert.Equal(t, []string{"Microsoft", "Apple", "Walmart"}, agg.gotIn)

	// Top list sorted by market cap descending.
	require.Len(t, report.TopCompetitors, 3)
	assert.Equal(t, "MSFT", report.TopCompetitors[0].Ticker)

	// History recorded.
	require.Len(t, hist.entries, 1)
	assert.Equal(t, "Acme Corp", hist.entries[0].Company)
	assert.Equal(t, []string{"MSFT", "AAPL", "WMT"}, hist.entries[0].TopTickers)
}

func TestAnalyzeFallsBackOnSummaryFailure(t *testing.T) {
	svc := newTestService(
		&fakeSummaries{err: errors.New("wikipedia down")},
		&fakePrices{series: series(21)},
		&fakeSectors{}, &fakeAggregator{}, nil,
	)

	report, err := svc.Analyze(context.Background(), "Acme Corp", nil)
	require.NoError(t, err)

	assert.Contains(t, report.Description, "Acme Corp is a company operating in various sectors")
}

func TestAnalyzeSynthesizesPricesOnFailure(t *testing.T) {
	svc := newTestService(
		&fakeSummaries{summary: "desc"},
		&fakePrices{err: errors.New("provider down")},
		&fakeSectors{}, &fakeAggregator{}, nil,
	)

	report, err := svc.Analyze(context.Background(), "Acme Corp", nil)
	require.NoError(t, err)

	assert.Len(t, report.StockPrices, 30)
	assert.Len(t, report.TimeLabels, 30)
}

func TestAnalyzeEmptySectorsGetPlaceholder(t *testing.T) {
	svc := newTestService(
		&fakeSummaries{summary: "desc"},
		&fakePrices{series: series(21)},
		&fakeSectors{groups: nil}, &fakeAggregator{}, nil,
	)

	report, err := svc.Analyze(context.Background(), "Acme Corp", nil)
	require.NoError(t, err)

	require.Len(t, report.Competitors, 1)
	assert.Equal(t, "No Sectors", report.Competitors[0].Name)
}

func TestAnalyzeEmitsProgressStages(t *testing.T) {
	svc := newTestService(
		&fakeSummaries{summary: "desc"},
		&fakePrices{series: series(21)},
		&fakeSectors{}, &fakeAggregator{}, nil,
	)

	var stages []string
	_, err := svc.Analyze(context.Background(), "Acme Corp", func(stage, message string) {
		stages = append(stages, stage)
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"description", "ticker", "prices", "sectors", "competitors", "complete"}, stages)
}

func TestAnalyzeHistoryFailureIsSwallowed(t *testing.T) {
	svc := newTestService(
		&fakeSummaries{summary: "desc"},
		&fakePrices{series: series(21)},
		&fakeSectors{}, &fakeAggregator{},
		&fakeHistory{err: errors.New("db down")},
	)

	_, err := svc.Analyze(context.Background(), "Acme Corp", nil)
	assert.NoError(t, err)
}
