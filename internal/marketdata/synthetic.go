package marketdata

import (
	"math"
	"math/rand"
	"time"

	"github.com/marketlens/backend/internal/contracts"
)

const basePrice = 100.0

// Synthetic produces a placeholder price series covering the given
// number of consecutive calendar days ending today, oldest first.
// Prices are sampled around a base of 100 within ±10 and rounded to
// two decimal places. Callers use this when a real history is
// unavailable; the series is tagged synthetic.
func Synthetic(days int) contracts.PriceSeries {
	return SyntheticAt(days, time.Now())
}

// SyntheticAt is Synthetic with an explicit end date, for tests.
func SyntheticAt(days int, end time.Time) contracts.PriceSeries {
	if days <= 0 {
		return contracts.PriceSeries{Source: contracts.SeriesSourceSynthetic}
	}

	prices := make([]float64, days)
	labels := make([]string, days)

	for i := 0; i < days; i++ {
		day := end.AddDate(0, 0, -(days - 1 - i))
		labels[i] = day.Format("2006-01-02")
		prices[i] = round2(basePrice + (rand.Float64()*20 - 10))
	}

	return contracts.PriceSeries{
		Prices: prices,
		Labels: labels,
		Source: contracts.SeriesSourceSynthetic,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
