package enrich

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSummaryResponse(t *testing.T) {
	longText := strings.Repeat("0123456789", 30)

	tests := []struct {
		name       string
		response   string
		sourceText string
		want       Result
	}{
		{
			name:       "well formed response",
			response:   "Summary: Two short sentences about the article.\nCategory: AI",
			sourceText: "irrelevant",
			want:       Result{Summary: "Two short sentences about the article.", Category: "AI"},
		},
		{
			name:       "prefixes are case insensitive",
			response:   "SUMMARY: Upper case labels.\ncategory: cybersecurity",
			sourceText: "irrelevant",
			want:       Result{Summary: "Upper case labels.", Category: "cybersecurity"},
		},
		{
			name:       "surrounding chatter is ignored",
			response:   "Sure, here you go:\nSummary: The actual summary.\nCategory: startups\nHope that helps!",
			sourceText: "irrelevant",
			want:       Result{Summary: "The actual summary.", Category: "startups"},
		},
		{
			name:       "missing category defaults to technology",
			response:   "Summary: No category line here.",
			sourceText: "irrelevant",
			want:       Result{Summary: "No category line here.", Category: "technology"},
		},
		{
			name:       "empty category value defaults to technology",
			response:   "Summary: Something.\nCategory:",
			sourceText: "irrelevant",
			want:       Result{Summary: "Something.", Category: "technology"},
		},
		{
			name:       "missing summary truncates source text",
			response:   "Category: AI",
			sourceText: longText,
			want:       Result{Summary: longText[:180], Category: "AI"},
		},
		{
			name:       "completely malformed response",
			response:   "I cannot comply with that request.",
			sourceText: "short source",
			want:       Result{Summary: "short source", Category: "technology"},
		},
		{
			name:       "empty response",
			response:   "",
			sourceText: longText,
			want:       Result{Summary: longText[:180], Category: "technology"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseSummaryResponse(tt.response, tt.sourceText)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 180))
	assert.Equal(t, strings.Repeat("a", 180), Truncate(strings.Repeat("a", 200), 180))

	// Multi-byte runes are never split.
	assert.Equal(t, "héllo", Truncate("héllo wörld", 5))
}

func TestFallbackResult(t *testing.T) {
	long := strings.Repeat("x", 250)

	got := FallbackResult(long)
	assert.Equal(t, long[:180], got.Summary)
	assert.Equal(t, "technology", got.Category)

	assert.Equal(t, long[:180], FallbackExplainer(long))
}
