// Package briefd provides the briefd server implementation.
package briefd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kart-io/logger"

	"github.com/thrust-io/briefd/internal/briefd/biz"
	"github.com/thrust-io/briefd/internal/briefd/handler"
	"github.com/thrust-io/briefd/internal/briefd/router"
	"github.com/thrust-io/briefd/internal/briefd/store"
	"github.com/thrust-io/briefd/pkg/app"
	"github.com/thrust-io/briefd/pkg/component/milvus"
	"github.com/thrust-io/briefd/pkg/component/postgres"
	"github.com/thrust-io/briefd/pkg/component/redis"
	"github.com/thrust-io/briefd/pkg/llm"
	"github.com/thrust-io/briefd/pkg/llm/resilience"
	"github.com/thrust-io/briefd/pkg/tokenizer"

	// LLM providers register themselves on import.
	_ "github.com/thrust-io/briefd/pkg/llm/ollama"
	_ "github.com/thrust-io/briefd/pkg/llm/openai"
)

// Name is the name of the application.
const Name = "briefd"

// shutdownTimeout bounds graceful shutdown on termination.
const shutdownTimeout = 15 * time.Second

// Server is the assembled briefd server.
type Server struct {
	httpServer *http.Server
	factory    store.Factory
	vectors    store.VectorStore
	redisClose func()
}

// NewServer wires all components and returns a ready-to-run Server.
func NewServer(ctx context.Context, opts *Options) (*Server, error) {
	fmt.Printf("Starting %s...\n", Name)

	// 1. Logger.
	opts.Log.AddInitialField("service.name", Name)
	opts.Log.AddInitialField("service.version", app.GetVersion())
	if err := opts.Log.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.Info("Starting briefd service...")

	// 2. Relational store.
	pgClient, err := postgres.NewWithContext(ctx, opts.Postgres)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize postgres: %w", err)
	}
	factory := store.NewFactory(pgClient.DB())
	if err := factory.AutoMigrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}
	logger.Infow("Postgres store initialized", "database", opts.Postgres.Database)

	// 3. Vector store.
	milvusClient, err := milvus.New(opts.Milvus)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize milvus: %w", err)
	}
	vectors := store.NewMilvusStore(milvusClient, opts.Briefs.Collection)
	if err := vectors.EnsureCollection(ctx, opts.Briefs.EmbeddingDim); err != nil {
		return nil, fmt.Errorf("failed to ensure embeddings collection: %w", err)
	}
	logger.Infow("Vector store initialized",
		"collection", opts.Briefs.Collection,
		"dimension", opts.Briefs.EmbeddingDim,
	)

	// 4. Ask-response cache. A broken Redis downgrades to no caching.
	var askCache *biz.AskCache
	var redisClose func()
	if opts.Cache.Enabled {
		redisClient, err := redis.New(ctx, opts.Cache.Redis)
		if err != nil {
			logger.Warnw("failed to connect to redis, ask cache disabled", "error", err.Error())
		} else {
			askCache = biz.NewAskCache(redisClient.RawClient(), opts.Cache.TTL)
			redisClose = func() { _ = redisClient.Close() }
			logger.Infow("Ask cache initialized", "addr", opts.Cache.Redis.Addr, "ttl", opts.Cache.TTL)
		}
	} else {
		logger.Info("Ask cache is disabled")
	}

	// 5. LLM providers, wrapped with retry and circuit breaking.
	rawEmbedder, err := llm.NewEmbeddingProvider(opts.Embedding.Provider, opts.Embedding.ToConfigMap())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize embedding provider (registered: %s): %w",
			strings.Join(llm.ListProviders(), ", "), err)
	}
	embedder := resilience.NewResilientEmbeddingProvider(rawEmbedder, nil, nil)
	logger.Infow("Embedding provider initialized",
		"provider", opts.Embedding.Provider,
		"model", opts.Embedding.Model,
	)

	rawChat, err := llm.NewChatProvider(opts.Chat.Provider, opts.Chat.ToConfigMap())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize chat provider (registered: %s): %w",
			strings.Join(llm.ListProviders(), ", "), err)
	}
	chat := resilience.NewResilientChatProvider(rawChat, nil, nil)
	logger.Infow("Chat provider initialized",
		"provider", opts.Chat.Provider,
		"model", opts.Chat.Model,
	)

	// 6. Tokenizer.
	codec, err := tokenizer.ForModel(opts.Briefs.TokenizerModel)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tokenizer: %w", err)
	}

	// 7. Biz layer.
	chunker := biz.NewChunker(codec, opts.Briefs.ChunkTokens)
	summarizer := biz.NewSummarizer(chat, opts.Briefs.MaxWordsPerBullet)
	indexer := biz.NewIndexer(embedder, codec, vectors, askCache)
	pipeline := biz.NewPipeline(chunker, summarizer, indexer, factory, nil,
		opts.Briefs.Workers, opts.Briefs.MetaThreshold, opts.Briefs.EnglishRatio)
	editor := biz.NewEditor(summarizer, indexer, factory)
	slides := biz.NewSlideService(summarizer, indexer, factory)
	responder := biz.NewResponder(summarizer, indexer, factory, vectors, askCache)
	logger.Info("Brief services initialized")

	// 8. HTTP layer.
	gin.SetMode(opts.HTTP.Mode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	h := handler.New(pipeline, editor, slides, responder, indexer, factory, opts.HTTP.UploadDir)
	router.Register(engine, h)

	httpServer := &http.Server{
		Addr:         opts.HTTP.Addr,
		Handler:      engine,
		ReadTimeout:  opts.HTTP.ReadTimeout,
		WriteTimeout: opts.HTTP.WriteTimeout,
		IdleTimeout:  opts.HTTP.IdleTimeout,
	}

	logger.Info("briefd service is ready")
	return &Server{
		httpServer: httpServer,
		factory:    factory,
		vectors:    vectors,
		redisClose: redisClose,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled or a
// termination signal arrives, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Infow("HTTP server listening", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	case sig := <-quit:
		logger.Infow("shutting down", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Errorw("http shutdown failed", "error", err.Error())
	}
	if err := s.vectors.Close(shutdownCtx); err != nil {
		logger.Warnw("failed to close vector store", "error", err.Error())
	}
	if err := s.factory.Close(); err != nil {
		logger.Warnw("failed to close postgres", "error", err.Error())
	}
	if s.redisClose != nil {
		s.redisClose()
	}

	logger.Info("briefd stopped")
	return nil
}
