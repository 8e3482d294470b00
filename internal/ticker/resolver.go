package ticker

import (
	"context"
	"strings"
	"time"

	"github.com/marketlens/backend/internal/contracts"
	"github.com/marketlens/backend/pkg/logger"
)

// usRegion is the region a symbol-search candidate must carry.
const usRegion = "United States"

// Resolver maps free-text company names to ticker symbols. Order of
// attempts: cached substring match, external symbol search, heuristic
// guess from the first word of the name. Resolution always yields a
// symbol, fabricated if necessary.
type Resolver struct {
	cache   *Cache
	search  contracts.SymbolSearcher
	timeout time.Duration
	logger  *logger.Logger
}

// NewResolver creates a resolver. search may be nil, in which case the
// external step is skipped.
func NewResolver(cache *Cache, search contracts.SymbolSearcher, timeout time.Duration, log *logger.Logger) *Resolver {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Resolver{
		cache:   cache,
		search:  search,
		timeout: timeout,
		logger:  log,
	}
}

// Resolve returns a ticker symbol for the company name. On a
// successful external resolution the full lowercased name is learned
// into the cache as a side effect.
func (r *Resolver) Resolve(ctx context.Context, companyName string) string {
	if symbol, ok := r.cache.Lookup(companyName); ok {
		r.logger.WithFields(map[string]interface{}{
			"company": companyName,
			"ticker":  symbol,
		}).Debug("Resolved ticker from cache")
		return symbol
	}

	if symbol, ok := r.resolveExternal(ctx, companyName); ok {
		return symbol
	}

	return guessTicker(companyName)
}

// resolveExternal queries the symbol-search provider, bounded by the
// resolver timeout. The first candidate in the US region wins.
func (r *Resolver) resolveExternal(ctx context.Context, companyName string) (string, bool) {
	if r.search == nil {
		return "", false
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	matches, err := r.search.Search(ctx, companyName)
	if err != nil {
		r.logger.WithError(err).WithField("company", companyName).Warn("Symbol search failed")
		return "", false
	}

	for _, m := range matches {
		if m.Region == usRegion {
			r.cache.Learn(companyName, m.Symbol)
			r.logger.WithFields(map[string]interface{}{
				"company": companyName,
				"ticker":  m.Symbol,
			}).Debug("Resolved ticker from symbol search")
			return m.Symbol, true
		}
	}

	return "", false
}

// guessTicker fabricates a symbol from the first whitespace-delimited
// token of the name, uppercased. Never empty for a non-blank name.
func guessTicker(companyName string) string {
	fields := strings.Fields(companyName)
	if len(fields) == 0 {
		return strings.ToUpper(strings.TrimSpace(companyName))
	}
	return strings.ToUpper(fields[0])
}
