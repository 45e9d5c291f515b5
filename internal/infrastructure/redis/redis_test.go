package redis

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/Buffden/Event-Management-System-sub004/internal/config"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := NewClient(&config.RedisConfig{Host: mr.Host(), Port: mr.Port()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}
