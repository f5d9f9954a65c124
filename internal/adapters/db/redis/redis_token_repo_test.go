package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redisv9 "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *redisv9.Client) {
	mr := miniredis.RunT(t)
	t.Cleanup(mr.Close)

	client := redisv9.NewClient(&redisv9.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisTokenRepo_RevokeAccessAndIsAccessRevoked(t *testing.T) {
	mr, client := newClient(t)
	repo := NewRedisTokenRepo(client)
	ctx := context.Background()

	exp := time.Now().Add(30 * time.Second)
	require.NoError(t, repo.RevokeAccess(ctx, "access-jti", exp))

	revoked, err := repo.IsAccessRevoked(ctx, "access-jti")
	require.NoError(t, err)
	require.True(t, revoked, "access-token should be marked revoked")

	require.True(t, mr.Exists("a:access-jti"))
	require.Greater(t, mr.TTL("a:access-jti"), time.Duration(0))

	mr.FastForward(time.Minute)
	revoked, err = repo.IsAccessRevoked(ctx, "access-jti")
	require.NoError(t, err)
	require.False(t, revoked, "deny-list entry must expire with the token")
}

func TestRedisTokenRepo_KeyAbsent(t *testing.T) {
	_, client := newClient(t)
	repo := NewRedisTokenRepo(client)

	revoked, err := repo.IsAccessRevoked(context.Background(), "absent-jti")
	require.NoError(t, err)
	require.False(t, revoked, "absent key must be considered NOT revoked")
}

func TestRedisTokenRepo_AlreadyExpired(t *testing.T) {
	mr, client := newClient(t)
	repo := NewRedisTokenRepo(client)

	require.NoError(t, repo.RevokeAccess(context.Background(), "old", time.Now().Add(-time.Second)))
	require.False(t, mr.Exists("a:old"))
}

func TestRedisTokenRepo_ServerDown(t *testing.T) {
	mr, client := newClient(t)
	repo := NewRedisTokenRepo(client)
	mr.Close()

	revoked, err := repo.IsAccessRevoked(context.Background(), "jti")
	require.Error(t, err)
	require.True(t, revoked)
}

func TestRedisCooldownRepo(t *testing.T) {
	mr, client := newClient(t)
	repo := NewRedisCooldownRepo(client, "otp:cooldown:")
	ctx := context.Background()

	ok, err := repo.StartCooldown(ctx, "jane@example.com", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = repo.StartCooldown(ctx, "jane@example.com", time.Minute)
	require.NoError(t, err)
	require.False(t, ok, "second start within the window must be refused")

	require.NoError(t, repo.ClearCooldown(ctx, "jane@example.com"))
	ok, err = repo.StartCooldown(ctx, "jane@example.com", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	mr.FastForward(2 * time.Minute)
	require.False(t, mr.Exists("otp:cooldown:jane@example.com"))
}
