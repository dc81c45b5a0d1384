package briefd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/thrust-io/briefd/internal/briefd/biz"
	"github.com/thrust-io/briefd/internal/briefd/store"
	"github.com/thrust-io/briefd/internal/pkg/textutil"
	"github.com/thrust-io/briefd/pkg/component/postgres"
	httpopts "github.com/thrust-io/briefd/pkg/options/http"
	logopts "github.com/thrust-io/briefd/pkg/options/logger"
	milvusopts "github.com/thrust-io/briefd/pkg/options/milvus"
	redisopts "github.com/thrust-io/briefd/pkg/options/redis"
)

// Options contains all briefd server options.
type Options struct {
	// HTTP contains HTTP server configuration.
	HTTP *httpopts.Options `json:"http" mapstructure:"http"`

	// Log contains logger configuration.
	Log *logopts.Options `json:"log" mapstructure:"log"`

	// Postgres contains relational store configuration.
	Postgres *postgres.Options `json:"postgres" mapstructure:"postgres"`

	// Milvus contains vector store configuration.
	Milvus *milvusopts.Options `json:"milvus" mapstructure:"milvus"`

	// Embedding contains embedding provider configuration.
	Embedding *LLMProviderOptions `json:"embedding" mapstructure:"embedding"`

	// Chat contains chat provider configuration.
	Chat *LLMProviderOptions `json:"chat" mapstructure:"chat"`

	// Briefs contains summarization pipeline configuration.
	Briefs *BriefOptions `json:"briefs" mapstructure:"briefs"`

	// Cache contains ask-response cache configuration.
	Cache *CacheOptions `json:"cache" mapstructure:"cache"`
}

// LLMProviderOptions configures one LLM provider.
type LLMProviderOptions struct {
	// Provider is the provider name (openai, ollama).
	Provider string `json:"provider" mapstructure:"provider"`

	// BaseURL is the API base URL.
	BaseURL string `json:"base-url" mapstructure:"base-url"`

	// APIKey is the API key (required for OpenAI).
	APIKey string `json:"-" mapstructure:"api-key"`

	// Model is the model name.
	Model string `json:"model" mapstructure:"model"`

	// Timeout is the per-request timeout.
	Timeout time.Duration `json:"timeout" mapstructure:"timeout"`

	// MaxRetries is the maximum number of request retries.
	MaxRetries int `json:"max-retries" mapstructure:"max-retries"`

	// Organization is the optional OpenAI organization ID.
	Organization string `json:"organization" mapstructure:"organization"`
}

// NewLLMProviderOptions creates LLM provider options with defaults.
func NewLLMProviderOptions() *LLMProviderOptions {
	return &LLMProviderOptions{
		Provider:   "openai",
		BaseURL:    "https://api.openai.com/v1",
		Timeout:    120 * time.Second,
		MaxRetries: 3,
	}
}

// ToConfigMap converts the options to the map consumed by provider
// factories.
func (o *LLMProviderOptions) ToConfigMap() map[string]any {
	return map[string]any{
		"base_url":     o.BaseURL,
		"api_key":      o.APIKey,
		"embed_model":  o.Model,
		"chat_model":   o.Model,
		"timeout":      o.Timeout,
		"max_retries":  o.MaxRetries,
		"organization": o.Organization,
	}
}

// BriefOptions contains summarization pipeline configuration.
type BriefOptions struct {
	// ChunkTokens is the token window for document chunks.
	ChunkTokens int `json:"chunk-tokens" mapstructure:"chunk-tokens"`

	// MaxWordsPerBullet caps the length of chunk summary bullets.
	MaxWordsPerBullet int `json:"max-words-per-bullet" mapstructure:"max-words-per-bullet"`

	// Workers bounds concurrent chunk summarization per job.
	Workers int `json:"workers" mapstructure:"workers"`

	// MetaThreshold is the chunk count above which chunk summaries are
	// meta-summarized instead of concatenated.
	MetaThreshold int `json:"meta-threshold" mapstructure:"meta-threshold"`

	// EnglishRatio is the ASCII codepoint fraction a chunk must exceed to
	// be kept by the language filter.
	EnglishRatio float64 `json:"english-ratio" mapstructure:"english-ratio"`

	// Collection is the Milvus collection holding brief embeddings.
	Collection string `json:"collection" mapstructure:"collection"`

	// EmbeddingDim is the dimension of embedding vectors.
	EmbeddingDim int `json:"embedding-dim" mapstructure:"embedding-dim"`

	// TokenizerModel selects the tokenizer used for chunking and embedding
	// input truncation.
	TokenizerModel string `json:"tokenizer-model" mapstructure:"tokenizer-model"`
}

// NewBriefOptions creates brief pipeline options with defaults.
func NewBriefOptions() *BriefOptions {
	return &BriefOptions{
		ChunkTokens:       biz.DefaultChunkTokens,
		MaxWordsPerBullet: biz.DefaultMaxWordsPerBullet,
		Workers:           4,
		MetaThreshold:     biz.DefaultMetaThreshold,
		EnglishRatio:      textutil.DefaultEnglishRatio,
		Collection:        store.DefaultCollection,
		EmbeddingDim:      1536, // text-embedding-3-small dimension
		TokenizerModel:    "gpt-4",
	}
}

// CacheOptions configures the ask-response cache.
type CacheOptions struct {
	// Enabled toggles the cache.
	Enabled bool `json:"enabled" mapstructure:"enabled"`

	// TTL is how long cached answers stay valid.
	TTL time.Duration `json:"ttl" mapstructure:"ttl"`

	// Redis contains Redis connection configuration.
	Redis *redisopts.Options `json:"redis" mapstructure:"redis"`
}

// NewCacheOptions creates cache options with defaults. The cache is off
// until explicitly enabled.
func NewCacheOptions() *CacheOptions {
	return &CacheOptions{
		Enabled: false,
		TTL:     biz.DefaultAskCacheTTL,
		Redis:   redisopts.NewOptions(),
	}
}

// NewOptions creates new Options with defaults.
func NewOptions() *Options {
	embedding := NewLLMProviderOptions()
	embedding.Model = "text-embedding-3-small"

	chat := NewLLMProviderOptions()
	chat.Model = "gpt-4"

	return &Options{
		HTTP:      httpopts.NewOptions(),
		Log:       logopts.NewOptions(),
		Postgres:  postgres.NewOptions(),
		Milvus:    milvusopts.NewOptions(),
		Embedding: embedding,
		Chat:      chat,
		Briefs:    NewBriefOptions(),
		Cache:     NewCacheOptions(),
	}
}

// AddFlags adds flags to the flagset.
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	o.HTTP.AddFlags(fs)
	o.Log.AddFlags(fs)
	o.Postgres.AddFlags(fs)
	o.Milvus.AddFlags(fs)
	o.addProviderFlags(fs, "embedding", o.Embedding)
	o.addProviderFlags(fs, "chat", o.Chat)
	o.addBriefFlags(fs)
	o.addCacheFlags(fs)
}

func (o *Options) addProviderFlags(fs *pflag.FlagSet, prefix string, p *LLMProviderOptions) {
	fs.StringVar(&p.Provider, prefix+".provider", p.Provider, "LLM provider (openai, ollama)")
	fs.StringVar(&p.BaseURL, prefix+".base-url", p.BaseURL, "LLM API base URL")
	fs.StringVar(&p.APIKey, prefix+".api-key", p.APIKey, "LLM API key (prefer the OPENAI_API_KEY env var)")
	fs.StringVar(&p.Model, prefix+".model", p.Model, "LLM model name")
	fs.DurationVar(&p.Timeout, prefix+".timeout", p.Timeout, "LLM request timeout")
	fs.IntVar(&p.MaxRetries, prefix+".max-retries", p.MaxRetries, "LLM max retries")
	fs.StringVar(&p.Organization, prefix+".organization", p.Organization, "OpenAI organization ID")
}

func (o *Options) addBriefFlags(fs *pflag.FlagSet) {
	fs.IntVar(&o.Briefs.ChunkTokens, "briefs.chunk-tokens", o.Briefs.ChunkTokens, "Token window for document chunks")
	fs.IntVar(&o.Briefs.MaxWordsPerBullet, "briefs.max-words-per-bullet", o.Briefs.MaxWordsPerBullet, "Word cap for chunk summary bullets")
	fs.IntVar(&o.Briefs.Workers, "briefs.workers", o.Briefs.Workers, "Concurrent chunk summarizations per job")
	fs.IntVar(&o.Briefs.MetaThreshold, "briefs.meta-threshold", o.Briefs.MetaThreshold, "Chunk count above which summaries are meta-summarized")
	fs.Float64Var(&o.Briefs.EnglishRatio, "briefs.english-ratio", o.Briefs.EnglishRatio, "ASCII fraction a chunk must exceed to be kept")
	fs.StringVar(&o.Briefs.Collection, "briefs.collection", o.Briefs.Collection, "Milvus collection for brief embeddings")
	fs.IntVar(&o.Briefs.EmbeddingDim, "briefs.embedding-dim", o.Briefs.EmbeddingDim, "Embedding vector dimension")
	fs.StringVar(&o.Briefs.TokenizerModel, "briefs.tokenizer-model", o.Briefs.TokenizerModel, "Tokenizer model for chunking")
}

func (o *Options) addCacheFlags(fs *pflag.FlagSet) {
	fs.BoolVar(&o.Cache.Enabled, "cache.enabled", o.Cache.Enabled, "Enable the ask-response cache")
	fs.DurationVar(&o.Cache.TTL, "cache.ttl", o.Cache.TTL, "Ask-response cache TTL")
	o.Cache.Redis.AddFlags(fs)
}

// Validate validates the options.
func (o *Options) Validate() error {
	if err := o.HTTP.Validate(); err != nil {
		return err
	}
	if err := o.Log.Validate(); err != nil {
		return err
	}
	if err := o.Postgres.Validate(); err != nil {
		return err
	}
	if err := o.Milvus.Validate(); err != nil {
		return err
	}
	if err := validateProvider("embedding", o.Embedding); err != nil {
		return err
	}
	if err := validateProvider("chat", o.Chat); err != nil {
		return err
	}
	if o.Briefs.ChunkTokens <= 0 {
		return fmt.Errorf("briefs.chunk-tokens must be positive")
	}
	if o.Briefs.Workers <= 0 {
		return fmt.Errorf("briefs.workers must be positive")
	}
	if o.Briefs.MetaThreshold <= 0 {
		return fmt.Errorf("briefs.meta-threshold must be positive")
	}
	if o.Briefs.EnglishRatio <= 0 || o.Briefs.EnglishRatio >= 1 {
		return fmt.Errorf("briefs.english-ratio must be between 0 and 1")
	}
	if o.Briefs.EmbeddingDim <= 0 {
		return fmt.Errorf("briefs.embedding-dim must be positive")
	}
	if o.Cache.Enabled {
		if err := o.Cache.Redis.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func validateProvider(prefix string, p *LLMProviderOptions) error {
	// Fall back to the environment when the key was not configured.
	if p.Provider == "openai" && p.APIKey == "" {
		p.APIKey = os.Getenv("OPENAI_API_KEY")
	}

	if p.Provider == "" {
		return fmt.Errorf("%s.provider is required", prefix)
	}
	if p.BaseURL == "" {
		return fmt.Errorf("%s.base-url is required", prefix)
	}
	if p.Model == "" {
		return fmt.Errorf("%s.model is required", prefix)
	}
	if p.Provider == "openai" && p.APIKey == "" {
		return fmt.Errorf("%s.api-key is required for the openai provider", prefix)
	}
	if p.Timeout <= 0 {
		return fmt.Errorf("%s.timeout must be positive", prefix)
	}
	return nil
}

// Complete completes the options.
func (o *Options) Complete() error {
	return nil
}
