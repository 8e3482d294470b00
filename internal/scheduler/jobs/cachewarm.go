package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/marketlens/backend/internal/contracts"
	"github.com/marketlens/backend/pkg/logger"
)

// CacheWarmJob refreshes the price cache for every ticker in the
// resolution seed set so that common lookups hit Redis instead of
// Yahoo during the day.
type CacheWarmJob struct {
	symbols  func() []string
	prices   contracts.PriceHistoryProvider
	schedule string
	logger   *logger.Logger
}

// NewCacheWarmJob creates a cache warming job. symbols is called at run
// time so newly learned tickers are included.
func NewCacheWarmJob(symbols func() []string, prices contracts.PriceHistoryProvider, schedule string, log *logger.Logger) *CacheWarmJob {
	return &CacheWarmJob{
		symbols:  symbols,
		prices:   prices,
		schedule: schedule,
		logger:   log,
	}
}

// Name returns the job name.
func (j *CacheWarmJob) Name() string {
	return "cache_warm"
}

// Schedule returns the cron expression.
func (j *CacheWarmJob) Schedule() string {
	return j.schedule
}

// Run fetches daily closes for each known symbol. The provider caches
// successful results, so a fetch here is a cache write.
func (j *CacheWarmJob) Run(ctx context.Context) error {
	symbols := j.symbols()
	failed := 0

	for _, symbol := range symbols {
		series, err := j.prices.FetchDailyCloses(ctx, symbol)
		if err != nil || series.Empty() {
			failed++
			j.logger.WithField("ticker", symbol).Debug("Cache warm fetch failed")
		}

		// Keep well under upstream rate limits.
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(500 * time.Millisecond):
		}
	}

	j.logger.WithFields(map[string]interface{}{
		"symbols": len(symbols),
		"failed":  failed,
	}).Info("Cache warm finished")

	if failed == len(symbols) && len(symbols) > 0 {
		return fmt.Errorf("all %d cache warm fetches failed", failed)
	}
	return nil
}
