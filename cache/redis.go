package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/betterlearn/betterlearn-api/logger"
	"github.com/betterlearn/betterlearn-api/models"
)

const keyPrefix = "betterlearn:cards:"

type RedisCardCache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

var _ CardCache = (*RedisCardCache)(nil)

// NewRedisCardCache connects to addr and pings it before returning.
func NewRedisCardCache(log *logger.Logger, addr string, ttl time.Duration) (*RedisCardCache, error) {
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return NewRedisCardCacheFromClient(log, rdb, ttl), nil
}

func NewRedisCardCacheFromClient(log *logger.Logger, rdb *goredis.Client, ttl time.Duration) *RedisCardCache {
	return &RedisCardCache{
		log: log.With("service", "RedisCardCache"),
		rdb: rdb,
		ttl: ttl,
	}
}

func key(topicID uint) string {
	return fmt.Sprintf("%s%d", keyPrefix, topicID)
}

func (c *RedisCardCache) Get(ctx context.Context, topicID uint) ([]models.Flashcard, bool, error) {
	raw, err := c.rdb.Get(ctx, key(topicID)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var cards []models.Flashcard
	if err := json.Unmarshal(raw, &cards); err != nil {
		c.log.Warn("Dropping undecodable cache entry", "topic_id", topicID, "error", err)
		_ = c.rdb.Del(ctx, key(topicID)).Err()
		return nil, false, nil
	}
	return cards, true, nil
}

func (c *RedisCardCache) Set(ctx context.Context, topicID uint, cards []models.Flashcard) error {
	raw, err := json.Marshal(cards)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key(topicID), raw, c.ttl).Err()
}

func (c *RedisCardCache) Invalidate(ctx context.Context, topicID uint) error {
	return c.rdb.Del(ctx, key(topicID)).Err()
}

func (c *RedisCardCache) Close() error {
	return c.rdb.Close()
}
