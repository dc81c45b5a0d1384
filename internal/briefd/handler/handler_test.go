package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/thrust-io/briefd/internal/briefd/biz"
	"github.com/thrust-io/briefd/internal/briefd/handler"
	"github.com/thrust-io/briefd/internal/briefd/router"
	"github.com/thrust-io/briefd/internal/briefd/store"
	"github.com/thrust-io/briefd/pkg/llm"
)

// scriptedChat answers chat completions from a test-provided function.
type scriptedChat struct {
	mu    sync.Mutex
	reply func(messages []llm.Message) (string, error)
	calls int
}

func (f *scriptedChat) Chat(_ context.Context, messages []llm.Message) (string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return f.reply(messages)
}

func (f *scriptedChat) Name() string { return "scripted" }

// fixedEmbedder returns a constant vector and records embedded texts.
type fixedEmbedder struct {
	mu    sync.Mutex
	err   error
	texts []string
}

func (f *fixedEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
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

func (f *fixedEmbedder) EmbedSingle(_ context.Context, text string) ([]float32, error) {
	f.mu.Lock()
	f.texts = append(f.texts, text)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

func (f *fixedEmbedder) Name() string { return "fixed" }

func (f *fixedEmbedder) lastText() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.texts) == 0 {
		return ""
	}
	return f.texts[len(f.texts)-1]
}

// memVectors is an in-memory VectorStore with scripted search results.
type memVectors struct {
	mu      sync.Mutex
	upserts []string
	matches []store.Match
}

func (m *memVectors) EnsureCollection(context.Context, int) error { return nil }

func (m *memVectors) Upsert(_ context.Context, briefID, _, _ string, _ []float32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upserts = append(m.upserts, briefID)
	return nil
}

func (m *memVectors) Delete(context.Context, string) error { return nil }

func (m *memVectors) SearchByProject(context.Context, []float32, string, int) ([]store.Match, error) {
	return m.matches, nil
}

func (m *memVectors) SearchByUser(context.Context, []float32, string, int) ([]store.Match, error) {
	return m.matches, nil
}

func (m *memVectors) Close(context.Context) error { return nil }

func (m *memVectors) upsertCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.upserts)
}

// wordCodec treats every whitespace-separated word as one token.
type wordCodec struct {
	mu    sync.Mutex
	words []string
}

func (c *wordCodec) Encode(text string) []int {
	c.mu.Lock()
	defer c.mu.Unlock()
	fields := strings.Fields(text)
	tokens := make([]int, len(fields))
	for i, w := range fields {
		c.words = append(c.words, w)
		tokens[i] = len(c.words) - 1
	}
	return tokens
}

func (c *wordCodec) Decode(tokens []int) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = c.words[t]
	}
	return strings.Join(out, " ")
}

func (c *wordCodec) Count(text string) int {
	return len(strings.Fields(text))
}

// testEnv assembles the full handler stack over in-memory stores.
type testEnv struct {
	engine   *gin.Engine
	factory  store.Factory
	db       *gorm.DB
	vectors  *memVectors
	embedder *fixedEmbedder
	chat     *scriptedChat
}

func newTestEnv(t *testing.T, reply func(messages []llm.Message) (string, error)) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	factory := store.NewFactory(db)
	require.NoError(t, factory.AutoMigrate())

	chat := &scriptedChat{reply: reply}
	embedder := &fixedEmbedder{}
	vectors := &memVectors{}
	codec := &wordCodec{}

	summarizer := biz.NewSummarizer(chat, 0)
	indexer := biz.NewIndexer(embedder, codec, vectors, nil)
	chunker := biz.NewChunker(codec, 50)
	pipeline := biz.NewPipeline(chunker, summarizer, indexer, factory, nil, 2, 0, 0)
	editor := biz.NewEditor(summarizer, indexer, factory)
	slides := biz.NewSlideService(summarizer, indexer, factory)
	responder := biz.NewResponder(summarizer, indexer, factory, vectors, nil)

	h := handler.New(pipeline, editor, slides, responder, indexer, factory, t.TempDir())

	engine := gin.New()
	router.Register(engine, h)

	return &testEnv{
		engine:   engine,
		factory:  factory,
		db:       db,
		vectors:  vectors,
		embedder: embedder,
		chat:     chat,
	}
}

// doJSON posts a JSON body and decodes the JSON response.
func (e *testEnv) doJSON(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)

	var resp map[string]any
	if len(w.Body.Bytes()) > 0 && w.Body.Bytes()[0] == '{' {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp
}
