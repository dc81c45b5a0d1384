// Package tokenizer wraps BPE token encoding behind a small interface so
// chunking and truncation logic can be tested without the encoding tables.
package tokenizer

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// Codec encodes text to token IDs and back.
type Codec interface {
	// Encode converts text into token IDs.
	Encode(text string) []int
	// Decode converts token IDs back into text.
	Decode(tokens []int) string
	// Count returns the number of tokens in text.
	Count(text string) int
}

// Tiktoken is a Codec backed by the tiktoken BPE tables.
type Tiktoken struct {
	enc *tiktoken.Tiktoken
}

// ForModel returns a Codec using the encoding registered for the given model
// (e.g. "gpt-4" resolves to cl100k_base).
func ForModel(model string) (*Tiktoken, error) {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		return nil, fmt.Errorf("failed to load encoding for model %s: %w", model, err)
	}
	return &Tiktoken{enc: enc}, nil
}

// Encode converts text into token IDs.
func (t *Tiktoken) Encode(text string) []int {
	return t.enc.Encode(text, nil, nil)
}

// Decode converts token IDs back into text.
func (t *Tiktoken) Decode(tokens []int) string {
	return t.enc.Decode(tokens)
}

// Count returns the number of tokens in text.
func (t *Tiktoken) Count(text string) int {
	return len(t.Encode(text))
}

// Truncate limits text to at most maxTokens tokens using the given codec.
// Text already within the limit is returned unchanged.
func Truncate(codec Codec, text string, maxTokens int) string {
	if maxTokens <= 0 {
		return ""
	}
	tokens := codec.Encode(text)
	if len(tokens) <= maxTokens {
		return text
	}
	return codec.Decode(tokens[:maxTokens])
}
