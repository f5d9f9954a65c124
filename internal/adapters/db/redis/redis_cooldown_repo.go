package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCooldownRepo rate-limits repeated actions per key with SET NX.
type RedisCooldownRepo struct {
	client *redis.Client
	prefix string
}

func NewRedisCooldownRepo(client *redis.Client, prefix string) *RedisCooldownRepo {
	return &RedisCooldownRepo{client: client, prefix: prefix}
}

func (r *RedisCooldownRepo) StartCooldown(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return r.client.SetNX(ctx, r.prefix+key, 1, ttl).Result()
}

func (r *RedisCooldownRepo) ClearCooldown(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.prefix+key).Err()
}
