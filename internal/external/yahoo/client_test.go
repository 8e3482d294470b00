package yahoo

import (
	"testing"
)

func TestParseChartResponse(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    int
		wantErr bool
	}{
		{
			name: "valid closes",
			body: `{"chart":{"result":[{"timestamp":[1704067200,1704153600],
				"indicators":{"quote":[{"close":[191.238,192.751]}]}}]}}`,
			want:    2,
			wantErr: false,
		},
		{
			name: "null close skipped",
			body: `{"chart":{"result":[{"timestamp":[1704067200,1704153600,1704240000],
				"indicators":{"quote":[{"close":[191.24,null,192.75]}]}}]}}`,
			want:    2,
			wantErr: false,
		},
		{
			name:    "chart error",
			body:    `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`,
			want:    0,
			wantErr: true,
		},
		{
			name:    "empty result",
			body:    `{"chart":{"result":[]}}`,
			want:    0,
			wantErr: false,
		},
		{
			name:    "malformed body",
			body:    `<html>`,
			want:    0,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseChartResponse([]byte(tt.body))
			if (err != nil) != tt.wantErr {
				t.Errorf("parseChartResponse() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if len(got.Prices) != tt.want {
				t.Errorf("parseChartResponse() got %d prices, want %d", len(got.Prices), tt.want)
			}
			if len(got.Prices) != len(got.Labels) {
				t.Errorf("prices/labels length mismatch: %d vs %d", len(got.Prices), len(got.Labels))
			}
		})
	}
}

func TestParseChartResponseRoundsAndLabels(t *testing.T) {
	body := `{"chart":{"result":[{"timestamp":[1704067200],
		"indicators":{"quote":[{"close":[191.238]}]}}]}}`

	got, err := parseChartResponse([]byte(body))
	if err != nil {
		t.Fatalf("parseChartResponse() error = %v", err)
	}
	if got.Prices[0] != 191.24 {
		t.Errorf("price = %v, want 191.24", got.Prices[0])
	}
	if got.Labels[0] != "2024-01-01" {
		t.Errorf("label = %q, want 2024-01-01", got.Labels[0])
	}
}

func TestParseQuoteSummaryMarketCap(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    float64
		wantErr bool
	}{
		{
			name:    "valid market cap",
			body:    `{"quoteSummary":{"result":[{"price":{"marketCap":{"raw":2950000000000,"fmt":"2.95T"}}}]}}`,
			want:    2950000000000,
			wantErr: false,
		},
		{
			name:    "absent market cap",
			body:    `{"quoteSummary":{"result":[{"price":{}}]}}`,
			want:    0,
			wantErr: false,
		},
		{
			name:    "empty result",
			body:    `{"quoteSummary":{"result":[]}}`,
			want:    0,
			wantErr: false,
		},
		{
			name:    "error payload",
			body:    `{"quoteSummary":{"result":null,"error":{"code":"Not Found","description":"Quote not found"}}}`,
			want:    0,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseQuoteSummaryMarketCap([]byte(tt.body))
			if (err != nil) != tt.wantErr {
				t.Errorf("parseQuoteSummaryMarketCap() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if got != tt.want {
				t.Errorf("parseQuoteSummaryMarketCap() = %v, want %v", got, tt.want)
			}
		})
	}
}
