package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const accessPrefix = "a:"

// RedisTokenRepo keeps the deny list of logged-out access tokens.
type RedisTokenRepo struct {
	client *redis.Client
}

func NewRedisTokenRepo(client *redis.Client) *RedisTokenRepo {
	return &RedisTokenRepo{
		client: client,
	}
}

func (r *RedisTokenRepo) RevokeAccess(ctx context.Context, jti string, exp time.Time) error {
	ttl := time.Until(exp)
	if ttl <= 0 {
		// already expired, the signature check rejects it anyway
		return nil
	}
	return r.client.Set(ctx, accessPrefix+jti, 1, ttl).Err()
}

func (r *RedisTokenRepo) IsAccessRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := r.client.Exists(ctx, accessPrefix+jti).Result()
	if err != nil {
		// treat as revoked, plus error upstream
		return true, err
	}
	return n > 0, nil
}
