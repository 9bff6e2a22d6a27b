package ratelimit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemoryLimiter_BurstThenDeny(t *testing.T) {
	limiter := NewMemorySwipeLimiter(60, 3)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		retryAfter, allowed := limiter.AllowSwipe(ctx, "alice")
		assert.True(t, allowed, "запрос %d в пределах burst", i)
		assert.Equal(t, 0, retryAfter)
	}

	retryAfter, allowed := limiter.AllowSwipe(ctx, "alice")
	assert.False(t, allowed)
	assert.Greater(t, retryAfter, 0)
}

func TestMemoryLimiter_PerUserIsolation(t *testing.T) {
	limiter := NewMemorySwipeLimiter(60, 1)
	ctx := context.Background()

	_, allowed := limiter.AllowSwipe(ctx, "alice")
	assert.True(t, allowed)
	_, allowed = limiter.AllowSwipe(ctx, "alice")
	assert.False(t, allowed)

	// Лимит alice не задевает bob
	_, allowed = limiter.AllowSwipe(ctx, "bob")
	assert.True(t, allowed)
}
