package biz

import (
	"context"
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/thrust-io/briefd/internal/briefd/store"
	"github.com/thrust-io/briefd/pkg/llm"
)

func newBizFactory(t *testing.T) store.Factory {
	factory, _ := newBizFactoryDB(t)
	return factory
}

func newBizFactoryDB(t *testing.T) (store.Factory, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	factory := store.NewFactory(db)
	require.NoError(t, factory.AutoMigrate())
	return factory, db
}

// fakeChat scripts chat replies. Each call records the messages it received.
type fakeChat struct {
	mu    sync.Mutex
	reply func(messages []llm.Message) (string, error)
	calls [][]llm.Message
}

func (f *fakeChat) Chat(_ context.Context, messages []llm.Message) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, messages)
	f.mu.Unlock()
	return f.reply(messages)
}

func (f *fakeChat) Name() string { return "fake" }

func (f *fakeChat) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeChat) userPrompt(i int) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	msgs := f.calls[i]
	return msgs[len(msgs)-1].Content
}

// fakeEmbedder returns a fixed vector, or err when set.
type fakeEmbedder struct {
	mu    sync.Mutex
	err   error
	texts []string
}

func (f *fakeEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := f.EmbedSingle(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

func (f *fakeEmbedder) EmbedSingle(_ context.Context, text string) ([]float32, error) {
	f.mu.Lock()
	f.texts = append(f.texts, text)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

func (f *fakeEmbedder) Name() string { return "fake-embed" }

func (f *fakeEmbedder) lastText() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.texts) == 0 {
		return ""
	}
	return f.texts[len(f.texts)-1]
}

// fakeVectors is an in-memory VectorStore with scripted search results.
type fakeVectors struct {
	mu      sync.Mutex
	upserts []string // brief IDs in upsert order
	matches []store.Match
	err     error
}

func (f *fakeVectors) EnsureCollection(context.Context, int) error { return nil }

func (f *fakeVectors) Upsert(_ context.Context, briefID, _, _ string, _ []float32) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.upserts = append(f.upserts, briefID)
	return nil
}

func (f *fakeVectors) Delete(context.Context, string) error { return nil }

func (f *fakeVectors) SearchByProject(context.Context, []float32, string, int) ([]store.Match, error) {
	return f.matches, f.err
}

func (f *fakeVectors) SearchByUser(context.Context, []float32, string, int) ([]store.Match, error) {
	return f.matches, f.err
}

func (f *fakeVectors) Close(context.Context) error { return nil }

func (f *fakeVectors) upsertCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.upserts)
}

func newTestIndexer(embedder *fakeEmbedder, vectors *fakeVectors) *Indexer {
	return NewIndexer(embedder, newWordCodec(), vectors, nil)
}
