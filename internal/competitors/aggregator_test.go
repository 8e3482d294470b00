package competitors

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marketlens/backend/internal/contracts"
	"github.com/marketlens/backend/pkg/logger"
)

// fakeResolver resolves by uppercasing the first word, with optional
// fixed overrides. Mirrors the heuristic tail of the real resolver.
type fakeResolver struct {
	overrides map[string]string
}

func (f *fakeResolver) Resolve(ctx context.Context, companyName string) string {
	if t, ok := f.overrides[companyName]; ok {
		return t
	}
	return strings.ToUpper(strings.Fields(companyName)[0])
}

type fakeCaps struct {
	caps map[string]float64
	err  error
}

func (f *fakeCaps) FetchMarketCap(ctx context.Context, ticker string) (float64, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.caps[ticker], nil
}

type fakePrices struct {
	series map[string]contracts.PriceSeries
	err    error
}

func (f *fakePrices) FetchDailyCloses(ctx context.Context, ticker string) (contracts.PriceSeries, error) {
	if f.err != nil {
		return contracts.PriceSeries{}, f.err
	}
	return f.series[ticker], nil
}

func realSeries(n int) contracts.PriceSeries {
	s := contracts.PriceSeries{Source: contracts.SeriesSourceReal}
	for i := 0; i < n; i++ {
		s.Prices = append(s.Prices, 100+float64(i))
		s.Labels = append(s.Labels, "2025-01-02")
	}
	return s
}

func TestAggregateHappyPath(t *testing.T) {
	agg := NewAggregator(
		&fakeResolver{},
		&fakeCaps{caps: map[string]float64{"MICROSOFT": 3e12, "APPLE": 2.9e12}},
		&fakePrices{series: map[string]contracts.PriceSeries{
			"MICROSOFT": realSeries(21),
			"APPLE":     realSeries(21),
		}},
		logger.NewNop(),
	)

	records := agg.Aggregate(context.Background(), []string{"Microsoft", "Apple"})

	require.Len(t, records, 2)
	for _, r := range records {
		assert.NotEmpty(t, r.StockPrices)
		assert.Equal(t, len(r.StockPrices), len(r.TimeLabels))
		assert.Equal(t, contracts.SeriesSourceReal, r.SeriesSource)
		assert.Equal(t, r.StockPrices[len(r.StockPrices)-1], r.StockPrice)
	}
}

func TestAggregateDeduplicatesByTicker(t *testing.T) {
	// Two different names resolving to the same ticker.
	agg := NewAggregator(
		&fakeResolver{overrides: map[string]string{
			"Google":   "GOOGL",
			"Alphabet": "GOOGL",
		}},
		&fakeCaps{caps: map[string]float64{"GOOGL": 2e12}},
		&fakePrices{series: map[string]contracts.PriceSeries{"GOOGL": realSeries(21)}},
		logger.NewNop(),
	)

	records := agg.Aggregate(context.Background(), []string{"Google", "Alphabet", "Google"})

	require.Len(t, records, 1)
	assert.Equal(t, "GOOGL", records[0].Ticker)
	assert.Equal(t, "Google", records[0].Name)

	seen := make(map[string]bool)
	for _, r := range records {
		assert.False(t, seen[r.Ticker], "duplicate ticker %s", r.Ticker)
		seen[r.Ticker] = true
	}
}

func TestAggregateSynthesizesPricesOnFetchFailure(t *testing.T) {
	agg := NewAggregator(
		&fakeResolver{},
		&fakeCaps{caps: map[string]float64{"MICROSOFT": 3e12}},
		&fakePrices{err: errors.New("provider down")},
		logger.NewNop(),
	)

	records := agg.Aggregate(context.Background(), []string{"Microsoft"})

	require.Len(t, records, 1)
	assert.Len(t, records[0].StockPrices, 30)
	assert.Len(t, records[0].TimeLabels, 30)
	assert.Equal(t, contracts.SeriesSourceSynthetic, records[0].SeriesSource)
}

func TestAggregateDiscardsCandidateWithoutMarketCap(t *testing.T) {
	agg := NewAggregator(
		&fakeResolver{},
		&fakeCaps{caps: map[string]float64{"MICROSOFT": 3e12}}, // APPLE absent
		&fakePrices{series: map[string]contracts.PriceSeries{
			"MICROSOFT": realSeries(21),
			"APPLE":     realSeries(21),
		}},
		logger.NewNop(),
	)

	records := agg.Aggregate(context.Background(), []string{"Microsoft", "Apple"})

	require.Len(t, records, 1)
	assert.Equal(t, "MICROSOFT", records[0].Ticker)
}

func TestAggregateEmptyInputUsesFallbackNames(t *testing.T) {
	caps := map[string]float64{"MICROSOFT": 3e12, "APPLE": 2.9e12, "AMAZON": 1.9e12}
	series := map[string]contracts.PriceSeries{
		"MICROSOFT": realSeries(21),
		"APPLE":     realSeries(21),
		"AMAZON":    realSeries(21),
	}

	agg := NewAggregator(&fakeResolver{}, &fakeCaps{caps: caps}, &fakePrices{series: series}, logger.NewNop())

	records := agg.Aggregate(context.Background(), nil)

	require.Len(t, records, 3)
	assert.Equal(t, "Microsoft", records[0].Name)
	assert.Equal(t, "Apple", records[1].Name)
	assert.Equal(t, "Amazon", records[2].Name)
}

func TestAggregateTotalFailureYieldsDeterministicFallback(t *testing.T) {
	agg := NewAggregator(
		&fakeResolver{},
		&fakeCaps{err: errors.New("unreachable")},
		&fakePrices{err: errors.New("unreachable")},
		logger.NewNop(),
	)

	records := agg.Aggregate(context.Background(), []string{"Nonexistent Co"})

	require.Len(t, records, 3)

	assert.Equal(t, "MIC", records[0].Ticker)
	assert.Equal(t, "APP", records[1].Ticker)
	assert.Equal(t, "AMA", records[2].Ticker)

	assert.Equal(t, 3e9, records[0].MarketCap)
	assert.Equal(t, 2e9, records[1].MarketCap)
	assert.Equal(t, 1e9, records[2].MarketCap)

	// Index 0 has the largest cap; strictly descending.
	assert.Greater(t, records[0].MarketCap, records[1].MarketCap)
	assert.Greater(t, records[1].MarketCap, records[2].MarketCap)

	for i, r := range records {
		require.Len(t, r.StockPrices, 30)
		require.Len(t, r.TimeLabels, 30)
		assert.Equal(t, "2025-04-01", r.TimeLabels[0])
		assert.Equal(t, "2025-04-30", r.TimeLabels[29])
		assert.Equal(t, float64(100+i*10), r.StockPrices[0])
		assert.Equal(t, float64(100+i*10+29), r.StockPrices[29])
		assert.Equal(t, r.StockPrices[29], r.StockPrice)
		assert.Equal(t, contracts.SeriesSourceSynthetic, r.SeriesSource)
	}
}

func TestAggregateReturnsAtMostDistinctTickers(t *testing.T) {
	agg := NewAggregator(
		&fakeResolver{},
		&fakeCaps{caps: map[string]float64{"FORD": 5e10}},
		&fakePrices{series: map[string]contracts.PriceSeries{"FORD": realSeries(21)}},
		logger.NewNop(),
	)

	records := agg.Aggregate(context.Background(), []string{"Ford Motor", "Ford Motor Company", "Ford"})

	assert.Len(t, records, 1)
}
