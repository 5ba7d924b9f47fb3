package enrich

import (
	"strings"
	"unicode/utf8"

	"techupnext/internal/domain"
)

// summaryMaxLen bounds the fallback summary taken from raw article text.
const summaryMaxLen = 180

// Result holds the output of one summarize-and-classify call.
type Result struct {
	Summary  string
	Category string
}

// ParseSummaryResponse extracts summary and category from a model response
// of the form:
//
//	Summary: ...
//	Category: ...
//
// Prefix matching is case-insensitive. When no summary line is present the
// source text is truncated instead; when no category line is present the
// default category applies. The model never gets to abort a run with a
// malformed response.
func ParseSummaryResponse(response, sourceText string) Result {
	result := Result{Category: domain.DefaultCategory}

	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		lower := strings.ToLower(line)
		switch {
		case strings.HasPrefix(lower, "summary:"):
			result.Summary = strings.TrimSpace(line[len("summary:"):])
		case strings.HasPrefix(lower, "category:"):
			if category := strings.TrimSpace(line[len("category:"):]); category != "" {
				result.Category = category
			}
		}
	}

	if result.Summary == "" {
		result.Summary = Truncate(sourceText, summaryMaxLen)
	}

	return result
}

// Truncate returns at most max runes of s without splitting a rune.
func Truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}

// FallbackResult is applied when the enrichment call itself fails.
func FallbackResult(sourceText string) Result {
	return Result{
		Summary:  Truncate(sourceText, summaryMaxLen),
		Category: domain.DefaultCategory,
	}
}

// FallbackExplainer is applied when the explainer call fails.
func FallbackExplainer(sourceText string) string {
	return Truncate(sourceText, summaryMaxLen)
}
