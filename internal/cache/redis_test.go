package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rhyrak/smart-timetable/internal/config"
	appErrors "github.com/rhyrak/smart-timetable/pkg/errors"
)

func TestScheduleCacheWithoutClient(t *testing.T) {
	c := NewScheduleCache(nil, time.Minute, nil)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "run-1", "Day,Time\n"))
	_, err := c.Get(ctx, "run-1")
	assert.ErrorIs(t, err, appErrors.ErrCacheMiss)
	assert.NoError(t, c.Delete(ctx, "run-1"))
}

func TestScheduleCacheUnreachableServer(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()
	c := NewScheduleCache(client, time.Minute, nil)
	ctx := context.Background()

	_, err := c.Get(ctx, "run-1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, appErrors.ErrCacheMiss)
	assert.Error(t, c.Set(ctx, "run-1", "x"))
	assert.Error(t, c.Delete(ctx, "run-1"))
}

func TestNewRedisFailsWithoutServer(t *testing.T) {
	_, err := NewRedis(config.RedisConfig{Host: "127.0.0.1", Port: 1})
	assert.Error(t, err)
}
