package textutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAsciiRatio(t *testing.T) {
	tests := []struct {
		name string
		text string
		want float64
	}{
		{"empty", "", 0},
		{"pure ascii", "hello world", 1},
		{"with newlines and tabs", "a\nb\tc\r", 1},
		{"pure cjk", "你好", 0},
		// Codepoint fraction, not byte fraction: two ASCII letters plus two
		// CJK characters is 2/4, even though the CJK pair is six bytes.
		{"half and half", "ab你好", 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, AsciiRatio(tt.text), 0.001)
		})
	}
}

func TestIsEnglish(t *testing.T) {
	assert.True(t, IsEnglish("Quarterly revenue grew 14% year over year.", DefaultEnglishRatio))
	assert.False(t, IsEnglish("", DefaultEnglishRatio))
	assert.False(t, IsEnglish(strings.Repeat("市场分析", 50), DefaultEnglishRatio))

	// Mostly English with a few non-ASCII characters stays above the bar.
	mixed := strings.Repeat("market share ", 20) + "café"
	assert.True(t, IsEnglish(mixed, DefaultEnglishRatio))

	// Non-positive thresholds fall back to the default.
	assert.False(t, IsEnglish(strings.Repeat("市场分析", 50), 0))
	assert.True(t, IsEnglish("plain english", 0))
}

func TestIsEnglishThreshold(t *testing.T) {
	// 6 ASCII codepoints out of 8 is 0.75: below the default bar, above a
	// caller-supplied looser one.
	text := "你好 hello"
	assert.InDelta(t, 0.75, AsciiRatio(text), 0.001)
	assert.False(t, IsEnglish(text, DefaultEnglishRatio))
	assert.True(t, IsEnglish(text, 0.5))
}

func TestIsEnglishBoundary(t *testing.T) {
	// A ratio of exactly the threshold is not enough; the bar is strict.
	// Four ASCII letters plus one accented rune is exactly 4/5 codepoints.
	text := "aaaa" + "é"
	assert.InDelta(t, 0.8, AsciiRatio(text), 0.001)
	assert.False(t, IsEnglish(text, 0.8))
}

func TestWordCount(t *testing.T) {
	assert.Equal(t, 0, WordCount(""))
	assert.Equal(t, 0, WordCount("   \n\t"))
	assert.Equal(t, 3, WordCount("net present value"))
	assert.Equal(t, 2, WordCount("  leading   trailing  "))
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "abc", TruncateRunes("abc", 10))
	assert.Equal(t, "ab", TruncateRunes("abcd", 2))
	assert.Equal(t, "你好", TruncateRunes("你好世界", 2))
}
