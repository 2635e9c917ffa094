package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/rhyrak/smart-timetable/internal/config"
	appErrors "github.com/rhyrak/smart-timetable/pkg/errors"
)

const keyPrefix = "timetable:run:"

// NewRedis returns a configured Redis client.
func NewRedis(cfg config.RedisConfig) (*redis.Client, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return client, nil
}

// ScheduleCache keeps exported CSV timetables keyed by run ID. A nil client
// turns every lookup into a miss and every write into a no-op.
type ScheduleCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewScheduleCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *ScheduleCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleCache{client: client, ttl: ttl, logger: logger}
}

// Get returns the cached CSV for id or ErrCacheMiss.
func (c *ScheduleCache) Get(ctx context.Context, id string) (string, error) {
	if c.client == nil {
		return "", appErrors.ErrCacheMiss
	}

	data, err := c.client.Get(ctx, keyPrefix+id).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", appErrors.ErrCacheMiss
		}
		return "", fmt.Errorf("redis get %s: %w", id, err)
	}
	return data, nil
}

func (c *ScheduleCache) Set(ctx context.Context, id string, data string) error {
	if c.client == nil {
		return nil
	}
	if err := c.client.Set(ctx, keyPrefix+id, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", id, err)
	}
	c.logger.Debug("cached schedule", zap.String("id", id), zap.Duration("ttl", c.ttl))
	return nil
}

func (c *ScheduleCache) Delete(ctx context.Context, id string) error {
	if c.client == nil {
		return nil
	}
	if err := c.client.Del(ctx, keyPrefix+id).Err(); err != nil {
		return fmt.Errorf("redis delete %s: %w", id, err)
	}
	return nil
}
