package security

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_Allow_UnderLimit(t *testing.T) {
	client, mock := redismock.NewClientMock()
	limiter := NewRateLimiter(client, 3, time.Minute)

	key := "ratelimit:purchase:user:u1"
	mock.ExpectIncr(key).SetVal(1)
	mock.ExpectExpire(key, time.Minute).SetVal(true)
	mock.ExpectIncr(key).SetVal(2)
	mock.ExpectIncr(key).SetVal(3)

	ctx := context.Background()
	assert.True(t, limiter.Allow(ctx, "user:u1"))
	assert.True(t, limiter.Allow(ctx, "user:u1"))
	assert.True(t, limiter.Allow(ctx, "user:u1"))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRateLimiter_Allow_OverLimit(t *testing.T) {
	client, mock := redismock.NewClientMock()
	limiter := NewRateLimiter(client, 3, time.Minute)

	key := "ratelimit:purchase:ip:10.0.0.1"
	mock.ExpectIncr(key).SetVal(4)

	assert.False(t, limiter.Allow(context.Background(), "ip:10.0.0.1"))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRateLimiter_Allow_ExpireOnlyOnFirstHit(t *testing.T) {
	client, mock := redismock.NewClientMock()
	limiter := NewRateLimiter(client, 10, time.Minute)

	key := "ratelimit:purchase:user:u2"
	mock.ExpectIncr(key).SetVal(5)

	assert.True(t, limiter.Allow(context.Background(), "user:u2"))

	// no Expire expected past the first increment
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRateLimiter_Allow_RedisDownFailsOpen(t *testing.T) {
	client, mock := redismock.NewClientMock()
	limiter := NewRateLimiter(client, 1, time.Minute)

	mock.ExpectIncr("ratelimit:purchase:user:u3").SetErr(errors.New("connection refused"))

	assert.True(t, limiter.Allow(context.Background(), "user:u3"))
}
