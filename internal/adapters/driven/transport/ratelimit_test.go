package transport

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRateLimiter_DisabledForZero(t *testing.T) {
	assert.Nil(t, NewRateLimiter(0))
	assert.Nil(t, NewRateLimiter(-1))
}

func TestRateLimiter_Allow(t *testing.T) {
	limiter := NewRateLimiter(2)
	require.NotNil(t, limiter)

	assert.True(t, limiter.Allow())
	assert.True(t, limiter.Allow())
	assert.False(t, limiter.Allow(), "burst is exhausted")
}

func TestRateLimiter_RecordRateLimitError(t *testing.T) {
	limiter := NewRateLimiter(10)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return base }

	limiter.RecordRateLimitError(0)
	assert.Equal(t, base.Add(DefaultBackoff), limiter.retryAt)

	limiter.RecordRateLimitError(5)
	assert.Equal(t, base.Add(5*time.Second), limiter.retryAt)
	assert.False(t, limiter.Allow())
}

func TestRateLimiter_Wait_RespectsContext(t *testing.T) {
	limiter := NewRateLimiter(10)
	limiter.RecordRateLimitError(60)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	assert.ErrorIs(t, limiter.Wait(ctx), context.DeadlineExceeded)
}

func TestRateLimiter_Wait(t *testing.T) {
	limiter := NewRateLimiter(50)

	assert.NoError(t, limiter.Wait(context.Background()))
}
