package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Riya-dudeja/spot-ghost-sub000/internal/config"
	"github.com/Riya-dudeja/spot-ghost-sub000/internal/types"

	"github.com/redis/go-redis/v9"
)

// cacheFormat is bumped when the cached envelope changes shape.
const cacheFormat = 1

// ResultCache caches link-only results in Redis. Link-only analysis is a
// pure function of the URL and the rule set, so the rule generation is part
// of every key.
type ResultCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
}

type cacheEntry struct {
	Format   int                   `json:"format"`
	CachedAt time.Time             `json:"cachedAt"`
	Result   *types.AnalysisResult `json:"result"`
}

// NewResultCache creates and verifies a Redis client connection.
func NewResultCache(ctx context.Context, cfg config.CacheConfig) (*ResultCache, error) {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("redis.ParseURL: %w", err)
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return newResultCache(rdb, cfg.TTL, cfg.Prefix), nil
}

func newResultCache(rdb *redis.Client, ttl time.Duration, prefix string) *ResultCache {
	return &ResultCache{rdb: rdb, ttl: ttl, prefix: prefix}
}

// Key derives the cache key for rawURL under a rule generation.
func (c *ResultCache) Key(generation uint64, rawURL string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(rawURL)))
	return fmt.Sprintf("%sv%d:g%d:%s", c.prefix, cacheFormat, generation, hex.EncodeToString(sum[:]))
}

// Get returns the cached result, or false on a miss.
func (c *ResultCache) Get(ctx context.Context, generation uint64, rawURL string) (*types.AnalysisResult, bool, error) {
	raw, err := c.rdb.Get(ctx, c.Key(generation, rawURL)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}

	result, err := decodeEntry(raw)
	if err != nil {
		// A stale or corrupt entry is a miss; the next Set overwrites it.
		return nil, false, nil
	}
	return result, true, nil
}

// Set stores result for the configured TTL.
func (c *ResultCache) Set(ctx context.Context, generation uint64, rawURL string, result *types.AnalysisResult, now time.Time) error {
	raw, err := encodeEntry(result, now)
	if err != nil {
		return err
	}
	if err := c.rdb.Set(ctx, c.Key(generation, rawURL), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (c *ResultCache) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *ResultCache) Close() error {
	return c.rdb.Close()
}

func encodeEntry(result *types.AnalysisResult, now time.Time) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("cannot cache a nil result")
	}
	raw, err := json.Marshal(cacheEntry{Format: cacheFormat, CachedAt: now.UTC(), Result: result})
	if err != nil {
		return nil, fmt.Errorf("marshal cache entry: %w", err)
	}
	return raw, nil
}

func decodeEntry(raw []byte) (*types.AnalysisResult, error) {
	var e cacheEntry
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, fmt.Errorf("unmarshal cache entry: %w", err)
	}
	if e.Format != cacheFormat || e.Result == nil {
		return nil, fmt.Errorf("unsupported cache entry format %d", e.Format)
	}
	return e.Result, nil
}
