// Package textutil provides text heuristics used by the summarization
// pipeline.
package textutil

import (
	"strings"
	"unicode/utf8"
)

// DefaultEnglishRatio is the ASCII fraction a text must strictly exceed to
// count as English prose.
const DefaultEnglishRatio = 0.8

// AsciiRatio returns the fraction of Unicode codepoints in s below 128.
// Codepoints, not bytes: a multi-byte rune counts once, so mixed-script text
// is not penalized per encoded byte. Returns 0 for empty input.
func AsciiRatio(s string) float64 {
	total := 0
	ascii := 0
	for _, r := range s {
		total++
		if r < 128 {
			ascii++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(ascii) / float64(total)
}

// IsEnglish reports whether text looks like English prose: its ASCII ratio
// must be strictly above threshold, which filters out pages that are mostly
// scanned-image artifacts or non-Latin script. A non-positive threshold
// falls back to DefaultEnglishRatio. Empty text is not English.
func IsEnglish(s string, threshold float64) bool {
	if threshold <= 0 {
		threshold = DefaultEnglishRatio
	}
	return AsciiRatio(s) > threshold
}

// WordCount returns the number of whitespace-separated words in s.
func WordCount(s string) int {
	return len(strings.Fields(s))
}

// TruncateRunes limits s to at most maxLen Unicode characters.
func TruncateRunes(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen])
}
