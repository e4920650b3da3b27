package cache_test

import (
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tagnote/internal/config"
	"tagnote/internal/web/adapters/cache"
	cachePorts "tagnote/internal/web/ports/cache"
	"tagnote/pkg/logger"
)

func mockRedisServer(t *testing.T) *miniredis.Miniredis {
	t.Helper()

	s, err := miniredis.Run()
	require.NoError(t, err)

	t.Cleanup(func() {
		s.Close()
	})

	return s
}

func redisConfigFor(t *testing.T, s *miniredis.Miniredis) *config.RedisConfig {
	t.Helper()

	host, portStr, _ := strings.Cut(s.Addr(), ":")
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	return &config.RedisConfig{
		Host:            host,
		Port:            port,
		ConnectTimeout:  5 * time.Second,
		ReadTimeout:     3 * time.Second,
		WriteTimeout:    3 * time.Second,
		PoolSize:        10,
		MinIdle:         2,
		IdleTimeout:     5 * time.Minute,
		MaxConnLifetime: time.Hour,
		DefaultTTL:      15 * time.Minute,
	}
}

func cacheTestContext(t *testing.T) context.Context {
	t.Helper()
	testLogger, err := logger.NewLogger(logger.Development, "debug")
	require.NoError(t, err)
	return logger.NewContext(context.Background(), testLogger)
}

func TestNewRedisCache(t *testing.T) {
	ctx := cacheTestContext(t)

	t.Run("Успешное подключение", func(t *testing.T) {
		s := mockRedisServer(t)

		redisCache, err := cache.NewRedisCache(ctx, redisConfigFor(t, s))

		require.NoError(t, err)
		require.NotNil(t, redisCache)

		_, ok := redisCache.(cachePorts.Cache)
		assert.True(t, ok)

		assert.NoError(t, redisCache.Close())
	})

	t.Run("Недоступный сервер дает ошибку", func(t *testing.T) {
		cfg := &config.RedisConfig{
			Host:           "localhost",
			Port:           1,
			ConnectTimeout: 100 * time.Millisecond,
			ReadTimeout:    100 * time.Millisecond,
			WriteTimeout:   100 * time.Millisecond,
		}

		redisCache, err := cache.NewRedisCache(ctx, cfg)

		assert.Nil(t, redisCache)
		assert.Error(t, err)
	})
}

func TestRedisCache_GetSetDelete(t *testing.T) {
	ctx := cacheTestContext(t)

	s := mockRedisServer(t)
	redisCache, err := cache.NewRedisCache(ctx, redisConfigFor(t, s))
	require.NoError(t, err)
	t.Cleanup(func() { _ = redisCache.Close() })

	t.Run("Значение сохраняется и читается", func(t *testing.T) {
		require.NoError(t, redisCache.Set(ctx, "profile:user-1", "alice", time.Minute))

		value, err := redisCache.Get(ctx, "profile:user-1")

		require.NoError(t, err)
		assert.Equal(t, "alice", value)
	})

	t.Run("Отсутствующий ключ дает пустую строку без ошибки", func(t *testing.T) {
		value, err := redisCache.Get(ctx, "profile:missing")

		require.NoError(t, err)
		assert.Empty(t, value)
	})

	t.Run("Нулевой TTL заменяется значением по умолчанию", func(t *testing.T) {
		require.NoError(t, redisCache.Set(ctx, "profile:user-2", "bob", 0))

		ttl := s.TTL("profile:user-2")
		assert.Equal(t, 15*time.Minute, ttl)
	})

	t.Run("Значение удаляется", func(t *testing.T) {
		require.NoError(t, redisCache.Set(ctx, "profile:user-3", "carol", time.Minute))
		require.NoError(t, redisCache.Delete(ctx, "profile:user-3"))

		value, err := redisCache.Get(ctx, "profile:user-3")

		require.NoError(t, err)
		assert.Empty(t, value)
	})

	t.Run("Истечение TTL удаляет значение", func(t *testing.T) {
		require.NoError(t, redisCache.Set(ctx, "profile:user-4", "dave", time.Second))

		s.FastForward(2 * time.Second)

		value, err := redisCache.Get(ctx, "profile:user-4")

		require.NoError(t, err)
		assert.Empty(t, value)
	})
}
