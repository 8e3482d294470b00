package contracts

// CompetitorRecord is one resolved competitor with market data attached.
// A record is only built when market cap and both series are present.
type CompetitorRecord struct {
	Name        string    `json:"name"`
	Ticker      string    `json:"ticker"`
	MarketCap   float64   `json:"market_cap"`
	StockPrices []float64 `json:"stock_prices"`
	TimeLabels  []string  `json:"time_labels"`
	StockPrice  float64   `json:"stock_price"`

	// SeriesSource tags the price series as real or synthetic.
	// Kept internal; not part of the API payload.
	SeriesSource SeriesSource `json:"-"`
}

// SectorGroup is one sector with the competitor names the language
// model assigned to it.
type SectorGroup struct {
	Name        string   `json:"name"`
	Competitors []string `json:"competitors"`
}

// AnalysisReport is the full payload returned for one company analysis.
type AnalysisReport struct {
	Success        bool               `json:"success"`
	Description    string             `json:"description"`
	Ticker         string             `json:"ticker"`
	StockPrices    []float64          `json:"stock_prices"`
	TimeLabels     []string           `json:"time_labels"`
	Competitors    []SectorGroup      `json:"competitors"`
	TopCompetitors []CompetitorRecord `json:"top_competitors"`
}
