package wikipedia

import (
	"testing"
)

func TestParseSearchResponse(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    []string
		wantErr bool
	}{
		{
			name: "titles present",
			body: `["apple",["Apple Inc.","Apple","Apple TV"],["","",""],["https://en.wikipedia.org/wiki/Apple_Inc."]]`,
			want: []string{"Apple Inc.", "Apple", "Apple TV"},
		},
		{
			name: "no results",
			body: `["zzyzx corp",[],[],[]]`,
			want: []string{},
		},
		{
			name:    "malformed",
			body:    `{"error":"bad"}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseSearchResponse([]byte(tt.body))
			if (err != nil) != tt.wantErr {
				t.Errorf("parseSearchResponse() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d titles, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("title[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestParseExtractResponse(t *testing.T) {
	body := `{"query":{"pages":{"856":{"pageid":856,"title":"Apple Inc.","extract":"<p><b>Apple Inc.</b> is an American multinational corporation.</p>"}}}}`

	got, err := parseExtractResponse([]byte(body))
	if err != nil {
		t.Fatalf("parseExtractResponse() error = %v", err)
	}
	if got == "" {
		t.Fatal("extract is empty")
	}
}

func TestStripHTML(t *testing.T) {
	got := stripHTML("<p><b>Apple Inc.</b> is an American company.</p>")
	want := "Apple Inc. is an American company."
	if got != want {
		t.Errorf("stripHTML() = %q, want %q", got, want)
	}
}

func TestClipSentences(t *testing.T) {
	tests := []struct {
		name string
		text string
		n    int
		want string
	}{
		{
			name: "clips to two",
			text: "First sentence. Second sentence. Third sentence.",
			n:    2,
			want: "First sentence. Second sentence.",
		},
		{
			name: "fewer sentences than limit",
			text: "Only one sentence.",
			n:    2,
			want: "Only one sentence.",
		},
		{
			name: "zero keeps everything",
			text: "A. B. C.",
			n:    0,
			want: "A. B. C.",
		},
		{
			name: "abbrev-free newline boundary",
			text: "Line one.\nLine two. Line three.",
			n:    1,
			want: "Line one.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := clipSentences(tt.text, tt.n); got != tt.want {
				t.Errorf("clipSentences() = %q, want %q", got, tt.want)
			}
		})
	}
}
