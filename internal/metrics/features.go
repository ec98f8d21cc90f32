package metrics

import (
	"strings"
	"unicode/utf8"
)

// runesPerToken is the rough English-text ratio used for local estimates.
const runesPerToken = 4

// Features holds basic local text features derived from an input string.
type Features struct {
	Bytes           int
	Runes           int
	Words           int
	Lines           int
	EstimatedTokens int
}

// CountFeatures computes byte, rune, word and line counts for s, plus a
// coarse token estimate.
func CountFeatures(s string) Features {
	r := utf8.RuneCountInString(s)
	return Features{
		Bytes:           len(s),
		Runes:           r,
		Words:           len(strings.Fields(s)),
		Lines:           countLines(s),
		EstimatedTokens: EstimateTokens(r),
	}
}

// EstimateTokens converts a rune count into a token estimate, rounding up so
// any non-empty text costs at least one token.
func EstimateTokens(runes int) int {
	if runes <= 0 {
		return 0
	}
	return (runes + runesPerToken - 1) / runesPerToken
}

// countLines returns 0 for empty strings; otherwise 1 plus the number of '\n' runes.
func countLines(s string) int {
	if s == "" {
		return 0
	}
	return 1 + strings.Count(s, "\n")
}
