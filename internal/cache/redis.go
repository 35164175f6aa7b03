package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"chemsolver/internal/entity"
)

// RedisConfig 是 Redis 連線設定
type RedisConfig struct {
	Addr     string // host:port
	Password string // 可省略
	DB       int
}

// RedisCache is a Redis-backed SolutionCache.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
	stats  struct {
		hits   atomic.Int64
		misses atomic.Int64
		sets   atomic.Int64
	}
}

// NewRedisCache 連線並 Ping Redis，失敗時回傳錯誤讓呼叫端改用 Noop
func NewRedisCache(ctx context.Context, cfg RedisConfig, ttl time.Duration, logger zerolog.Logger) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	logger.Info().
		Str("addr", cfg.Addr).
		Int("db", cfg.DB).
		Dur("ttl", ttl).
		Msg("connected to Redis solve cache")

	return newRedisCache(client, ttl, logger), nil
}

func newRedisCache(client *redis.Client, ttl time.Duration, logger zerolog.Logger) *RedisCache {
	return &RedisCache{client: client, ttl: ttl, logger: logger}
}

// Get 讀取快取；任何錯誤都當作 miss
func (c *RedisCache) Get(ctx context.Context, key string) (*entity.Solution, bool) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	val, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		c.stats.misses.Add(1)
		return nil, false
	}
	if err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("redis get failed")
		c.stats.misses.Add(1)
		return nil, false
	}

	var sol entity.Solution
	if err := json.Unmarshal(val, &sol); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("json unmarshal failed")
		c.stats.misses.Add(1)
		return nil, false
	}

	c.stats.hits.Add(1)
	return &sol, true
}

// Set 寫入快取 (TTL 由建構時決定)，失敗只記 log
func (c *RedisCache) Set(ctx context.Context, key string, sol *entity.Solution) {
	if sol == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	data, err := json.Marshal(sol)
	if err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("json marshal failed")
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("redis set failed")
		return
	}
	c.stats.sets.Add(1)
}

// Stats 回傳目前的統計
func (c *RedisCache) Stats() Stats {
	return Stats{
		Hits:   c.stats.hits.Load(),
		Misses: c.stats.misses.Load(),
		Sets:   c.stats.sets.Load(),
	}
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
