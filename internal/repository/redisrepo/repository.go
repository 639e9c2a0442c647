package redisrepo

import (
	"context"
	"time"

	"github.com/ReportMitra/citizen-client/internal/session"
	"github.com/redis/go-redis/v9"
)

type Default interface {
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type RedisRepository struct {
	Default
	Session session.Store
}

func New(rdb *redis.Client, profile string) *RedisRepository {
	return &RedisRepository{
		Default: newDefaultRepo(rdb),
		Session: newSessionRepo(rdb, profile),
	}
}
