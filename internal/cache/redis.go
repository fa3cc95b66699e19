package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/foodday/config"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client *redis.Client
	faqTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, faqTTL time.Duration) *RedisCache {
	return &RedisCache{
		client: redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		faqTTL: faqTTL,
	}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

// GetFAQs returns nil, nil on a cache miss.
func (c *RedisCache) GetFAQs(ctx context.Context) ([]json.RawMessage, error) {
	data, err := c.client.Get(ctx, faqsKey()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var faqs []json.RawMessage
	if err := json.Unmarshal(data, &faqs); err != nil {
		return nil, err
	}
	return faqs, nil
}

func (c *RedisCache) SetFAQs(ctx context.Context, faqs []json.RawMessage) error {
	payload, err := json.Marshal(faqs)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, faqsKey(), payload, c.faqTTL).Err()
}

// AcquireConfirmationLock returns false when a confirmation for orderID was
// already claimed within ttl.
func (c *RedisCache) AcquireConfirmationLock(ctx context.Context, orderID int64, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, confirmationKey(orderID), "sent", ttl).Result()
}

func (c *RedisCache) ReleaseConfirmationLock(ctx context.Context, orderID int64) error {
	return c.client.Del(ctx, confirmationKey(orderID)).Err()
}

func faqsKey() string {
	return "cache:faqs"
}

func confirmationKey(orderID int64) string {
	return fmt.Sprintf("lock:order:%d:confirmation", orderID)
}
