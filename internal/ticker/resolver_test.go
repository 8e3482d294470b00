package ticker

import (
	"context"
	"errors"
	"testing"

	"github.com/marketlens/backend/internal/contracts"
	"github.com/marketlens/backend/pkg/logger"
)

// fakeSearcher returns canned matches or an error, and records calls.
type fakeSearcher struct {
	matches []contracts.SymbolMatch
	err     error
	calls   int
}

func (f *fakeSearcher) Search(ctx context.Context, keywords string) ([]contracts.SymbolMatch, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.matches, nil
}

func TestResolveFromCacheSubstring(t *testing.T) {
	search := &fakeSearcher{err: errors.New("should not be called")}
	r := NewResolver(NewCache(), search, 0, logger.NewNop())

	got := r.Resolve(context.Background(), "Apple wants to buy stock")
	if got != "AAPL" {
		t.Errorf("Resolve() = %q, want AAPL", got)
	}
	if search.calls != 0 {
		t.Errorf("symbol search called %d times, want 0", search.calls)
	}
}

func TestResolveCacheOrderFirstMatchWins(t *testing.T) {
	r := NewResolver(NewCache(), nil, 0, logger.NewNop())

	// "pepsico" contains both "pepsi" and "pepsico" keys; the earlier
	// entry wins the scan.
	if got := r.Resolve(context.Background(), "PepsiCo Inc"); got != "PEP" {
		t.Errorf("Resolve(PepsiCo Inc) = %q, want PEP", got)
	}
}

func TestResolveFallbackOnSearchFailure(t *testing.T) {
	search := &fakeSearcher{err: errors.New("boom")}
	r := NewResolver(NewCache(), search, 0, logger.NewNop())

	got := r.Resolve(context.Background(), "Zzyzx Corp")
	if got != "ZZYZX" {
		t.Errorf("Resolve() = %q, want ZZYZX", got)
	}
	if search.calls != 1 {
		t.Errorf("symbol search called %d times, want 1", search.calls)
	}
}

func TestResolveExternalPicksFirstUSMatch(t *testing.T) {
	search := &fakeSearcher{matches: []contracts.SymbolMatch{
		{Symbol: "ZZX.LON", Region: "United Kingdom"},
		{Symbol: "ZZX", Region: "United States"},
		{Symbol: "ZZXB", Region: "United States"},
	}}
	cache := NewCache()
	r := NewResolver(cache, search, 0, logger.NewNop())

	got := r.Resolve(context.Background(), "Zzyzx Holdings")
	if got != "ZZX" {
		t.Errorf("Resolve() = %q, want ZZX", got)
	}

	// Learned under the full lowercased name.
	if symbol, ok := cache.Lookup("zzyzx holdings"); !ok || symbol != "ZZX" {
		t.Errorf("Lookup(zzyzx holdings) = %q, %v; want ZZX, true", symbol, ok)
	}
}

func TestResolveExternalNoUSMatchFallsBack(t *testing.T) {
	search := &fakeSearcher{matches: []contracts.SymbolMatch{
		{Symbol: "ZZX.LON", Region: "United Kingdom"},
	}}
	r := NewResolver(NewCache(), search, 0, logger.NewNop())

	if got := r.Resolve(context.Background(), "Zzyzx Holdings"); got != "ZZYZX" {
		t.Errorf("Resolve() = %q, want ZZYZX", got)
	}
}

func TestLearnedKeyMatchesOnlyContainingQueries(t *testing.T) {
	cache := NewCache()
	cache.Learn("Initech Global Systems", "INIT")

	// The learned key is the full phrase; a shorter later query does
	// not contain it and misses.
	if _, ok := cache.Lookup("Initech"); ok {
		t.Error("short query unexpectedly matched full-phrase key")
	}
	if symbol, ok := cache.Lookup("the initech global systems company"); !ok || symbol != "INIT" {
		t.Errorf("containing query = %q, %v; want INIT, true", symbol, ok)
	}
}

func TestLearnUpdatesExistingKeyInPlace(t *testing.T) {
	cache := NewCache()
	cache.Learn("acme", "ACM1")
	n := cache.Len()
	cache.Learn("acme", "ACM2")

	if cache.Len() != n {
		t.Errorf("Len() = %d after relearn, want %d", cache.Len(), n)
	}
	if symbol, _ := cache.Lookup("acme"); symbol != "ACM2" {
		t.Errorf("Lookup(acme) = %q, want ACM2", symbol)
	}
}

func TestGuessTicker(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"multi word", "Zzyzx Corp", "ZZYZX"},
		{"single word", "cyberdyne", "CYBERDYNE"},
		{"extra whitespace", "  stark   industries ", "STARK"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := guessTicker(tt.input); got != tt.want {
				t.Errorf("guessTicker(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
