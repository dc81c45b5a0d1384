package biz

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/kart-io/logger"
	"github.com/redis/go-redis/v9"

	"github.com/thrust-io/briefd/internal/model"
	"github.com/thrust-io/briefd/pkg/utils/json"
)

// DefaultAskCacheTTL is how long cached answers stay valid.
const DefaultAskCacheTTL = 10 * time.Minute

// AskCache caches knowledgebase answers in Redis. A nil *AskCache is a valid
// no-op cache.
type AskCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewAskCache creates an AskCache. ttl <= 0 falls back to the default.
func NewAskCache(client *redis.Client, ttl time.Duration) *AskCache {
	if ttl <= 0 {
		ttl = DefaultAskCacheTTL
	}
	return &AskCache{client: client, ttl: ttl, prefix: "briefd:ask:"}
}

// Key derives a cache key from the ask scope, question and history.
func (c *AskCache) Key(scope, scopeID, question string, history []model.HistoryTurn) string {
	if c == nil {
		return ""
	}

	h := sha256.New()
	h.Write([]byte(scope))
	h.Write([]byte{0})
	h.Write([]byte(scopeID))
	h.Write([]byte{0})
	h.Write([]byte(question))
	for _, turn := range history {
		h.Write([]byte{0})
		h.Write([]byte(turn.Role))
		h.Write([]byte{0})
		h.Write([]byte(turn.Content))
	}
	return c.prefix + hex.EncodeToString(h.Sum(nil))
}

// Get returns a cached answer, or nil on miss.
func (c *AskCache) Get(ctx context.Context, key string) *model.AskResult {
	if c == nil || c.client == nil {
		return nil
	}

	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Warnw("ask cache read failed", "error", err.Error())
		}
		return nil
	}

	var result model.AskResult
	if err := json.Unmarshal(raw, &result); err != nil {
		logger.Warnw("ask cache entry corrupt", "key", key, "error", err.Error())
		return nil
	}
	return &result
}

// Set stores an answer. Failures are logged, never surfaced.
func (c *AskCache) Set(ctx context.Context, key string, result *model.AskResult) {
	if c == nil || c.client == nil {
		return
	}

	raw, err := json.Marshal(result)
	if err != nil {
		logger.Warnw("ask cache encode failed", "error", err.Error())
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		logger.Warnw("ask cache write failed", "error", err.Error())
	}
}

// Clear removes all cached answers.
func (c *AskCache) Clear(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}

	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, c.prefix+"*", 100).Result()
		if err != nil {
			return fmt.Errorf("failed to scan ask cache: %w", err)
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("failed to delete ask cache keys: %w", err)
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}
