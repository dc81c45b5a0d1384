// Package biz implements the briefd business logic: document chunking, the
// summarization pipeline, the conversational editor, slide bullet generation
// and retrieval-augmented question answering.
package biz

import (
	"github.com/kart-io/logger"

	"github.com/thrust-io/briefd/internal/pkg/textutil"
	"github.com/thrust-io/briefd/pkg/tokenizer"
)

// DefaultChunkTokens is the token window used to split documents.
const DefaultChunkTokens = 2000

// Chunk is one token window of the source document. Index is the position in
// the original split, before any language filtering.
type Chunk struct {
	Index int
	Text  string
}

// Chunker splits document text into fixed token windows.
type Chunker struct {
	codec     tokenizer.Codec
	maxTokens int
}

// NewChunker creates a Chunker. maxTokens <= 0 falls back to the default
// window size.
func NewChunker(codec tokenizer.Codec, maxTokens int) *Chunker {
	if maxTokens <= 0 {
		maxTokens = DefaultChunkTokens
	}
	return &Chunker{codec: codec, maxTokens: maxTokens}
}

// Split encodes text and cuts the token stream into consecutive windows of at
// most maxTokens tokens. Empty text yields no chunks.
func (c *Chunker) Split(text string) []Chunk {
	tokens := c.codec.Encode(text)
	if len(tokens) == 0 {
		return nil
	}

	chunks := make([]Chunk, 0, (len(tokens)+c.maxTokens-1)/c.maxTokens)
	for start := 0; start < len(tokens); start += c.maxTokens {
		end := start + c.maxTokens
		if end > len(tokens) {
			end = len(tokens)
		}

		chunkText := c.codec.Decode(tokens[start:end])
		index := len(chunks)
		logger.Debugw("chunk created",
			"index", index,
			"chars", len(chunkText),
			"words", textutil.WordCount(chunkText),
		)
		chunks = append(chunks, Chunk{Index: index, Text: chunkText})
	}

	return chunks
}

// FilterEnglish keeps only chunks whose ASCII ratio is strictly above
// threshold, preserving their original indices. A non-positive threshold
// falls back to the default.
func FilterEnglish(chunks []Chunk, threshold float64) []Chunk {
	kept := make([]Chunk, 0, len(chunks))
	for _, chunk := range chunks {
		if textutil.IsEnglish(chunk.Text, threshold) {
			kept = append(kept, chunk)
			continue
		}
		logger.Infow("skipping non-English chunk", "index", chunk.Index)
	}
	return kept
}
