package marketdata

import (
	"context"

	"github.com/marketlens/backend/internal/contracts"
	"github.com/marketlens/backend/pkg/logger"
	"github.com/marketlens/backend/pkg/redis"
)

// CachedPriceProvider wraps a PriceHistoryProvider with a Redis cache.
// Only real series are cached; synthetic placeholders are not, so a
// recovered provider serves real data on the next request.
type CachedPriceProvider struct {
	inner  contracts.PriceHistoryProvider
	cache  *redis.Cache
	logger *logger.Logger
}

// NewCachedPriceProvider creates a caching decorator around inner.
func NewCachedPriceProvider(inner contracts.PriceHistoryProvider, cache *redis.Cache, log *logger.Logger) *CachedPriceProvider {
	return &CachedPriceProvider{
		inner:  inner,
		cache:  cache,
		logger: log,
	}
}

// FetchDailyCloses returns the cached series when present, otherwise
// delegates to the wrapped provider and caches a real result.
func (p *CachedPriceProvider) FetchDailyCloses(ctx context.Context, ticker string) (contracts.PriceSeries, error) {
	key := redis.PriceHistoryKey(ticker)

	var cached contracts.PriceSeries
	found, err := p.cache.Get(ctx, key, &cached)
	if err != nil {
		p.logger.WithError(err).WithField("ticker", ticker).Warn("Price cache read failed")
	}
	if found && !cached.Empty() {
		cached.Source = contracts.SeriesSourceReal
		return cached, nil
	}

	series, err := p.inner.FetchDailyCloses(ctx, ticker)
	if err != nil {
		return series, err
	}

	if series.Source == contracts.SeriesSourceReal && !series.Empty() {
		if err := p.cache.Set(ctx, key, series, redis.TTLMedium); err != nil {
			p.logger.WithError(err).WithField("ticker", ticker).Warn("Price cache write failed")
		}
	}

	return series, nil
}
