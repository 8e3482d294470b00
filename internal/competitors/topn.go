package competitors

import (
	"sort"

	"github.com/marketlens/backend/internal/contracts"
)

// DefaultTopN is how many competitors the dashboard shows.
const DefaultTopN = 3

// SelectTop returns the n records with the largest market caps,
// descending. The sort is stable, so ties keep input order. The input
// slice is not modified. Empty input yields empty output.
func SelectTop(records []contracts.CompetitorRecord, n int) []contracts.CompetitorRecord {
	if n <= 0 || len(records) == 0 {
		return nil
	}

	sorted := make([]contracts.CompetitorRecord, len(records))
	copy(sorted, records)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].MarketCap > sorted[j].MarketCap
	})

	if n > len(sorted) {
		n = len(sorted)
	}
	return sorted[:n]
}
