package contracts

// SeriesSource marks whether a price series came from a real provider
// or was synthesized as placeholder data. The tag is internal: it is
// never serialized, so API consumers cannot tell the two apart.
type SeriesSource string

const (
	SeriesSourceReal      SeriesSource = "real"
	SeriesSourceSynthetic SeriesSource = "synthetic"
)

// PriceSeries is an ordered sequence of daily closing prices with
// matching calendar-date labels, oldest first.
type PriceSeries struct {
	Prices []float64    `json:"prices"`
	Labels []string     `json:"labels"`
	Source SeriesSource `json:"-"`
}

// Empty reports whether the series has no usable data.
func (s PriceSeries) Empty() bool {
	return len(s.Prices) == 0 || len(s.Labels) == 0
}

// Latest returns the most recent price, or 0 for an empty series.
func (s PriceSeries) Latest() float64 {
	if len(s.Prices) == 0 {
		return 0
	}
	return s.Prices[len(s.Prices)-1]
}

// SymbolMatch is one candidate from a symbol search.
type SymbolMatch struct {
	Symbol string
	Name   string
	Region string
}
