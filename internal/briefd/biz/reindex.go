package biz

import (
	"context"
	"fmt"

	"github.com/kart-io/logger"

	"github.com/thrust-io/briefd/internal/briefd/metrics"
	"github.com/thrust-io/briefd/internal/briefd/store"
	"github.com/thrust-io/briefd/internal/model"
	"github.com/thrust-io/briefd/pkg/llm"
	"github.com/thrust-io/briefd/pkg/tokenizer"
)

// MaxEmbeddingTokens is the token ceiling of the embedding model input.
const MaxEmbeddingTokens = 8191

// EmbeddingText composes the text indexed for a brief: summary, executive
// summary and, when present, slide bullets.
func EmbeddingText(b *model.Brief) string {
	text := b.Summary + "\n" + b.ExecutiveSummary
	if b.SlideBullets != "" {
		text += "\n" + b.SlideBullets
	}
	return text
}

// Indexer embeds brief content and keeps the vector store in sync with the
// relational rows.
type Indexer struct {
	embedder llm.EmbeddingProvider
	codec    tokenizer.Codec
	vectors  store.VectorStore
	cache    *AskCache
}

// NewIndexer creates an Indexer. cache may be nil; when set, cached
// knowledgebase answers are invalidated whenever a brief is reindexed, since
// they may quote the content that just changed.
func NewIndexer(embedder llm.EmbeddingProvider, codec tokenizer.Codec, vectors store.VectorStore, cache *AskCache) *Indexer {
	return &Indexer{embedder: embedder, codec: codec, vectors: vectors, cache: cache}
}

// EmbedText embeds arbitrary text, truncated to the model's token ceiling.
func (ix *Indexer) EmbedText(ctx context.Context, text string) ([]float32, error) {
	return ix.embedder.EmbedSingle(ctx, tokenizer.Truncate(ix.codec, text, MaxEmbeddingTokens))
}

// Reindex recomputes a brief's embedding and replaces its vector.
func (ix *Indexer) Reindex(ctx context.Context, b *model.Brief) error {
	embedding, err := ix.EmbedText(ctx, EmbeddingText(b))
	if err != nil {
		metrics.Get().RecordReindex(err)
		return fmt.Errorf("failed to embed brief %s: %w", b.ID, err)
	}

	if err := ix.vectors.Upsert(ctx, b.ID, b.ProjectID, b.UserID, embedding); err != nil {
		metrics.Get().RecordReindex(err)
		return err
	}

	if err := ix.cache.Clear(ctx); err != nil {
		logger.Warnw("failed to invalidate ask cache", "brief_id", b.ID, "error", err.Error())
	}

	metrics.Get().RecordReindex(nil)
	logger.Debugw("brief reindexed", "brief_id", b.ID, "project_id", b.ProjectID)
	return nil
}
