package papersources

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helixir/paper-search-service/internal/domain"
)

func TestNewRateLimiter(t *testing.T) {
	t.Run("creates limiter with PubMed rate (3 req/sec)", func(t *testing.T) {
		rl := NewRateLimiter(3, 3)

		require.NotNil(t, rl)
		for i := 0; i < 3; i++ {
			assert.True(t, rl.Allow())
		}
		assert.False(t, rl.Allow())
	})

	t.Run("clamps burst to at least one", func(t *testing.T) {
		rl := NewRateLimiter(1, 0)
		assert.True(t, rl.Allow())
		assert.False(t, rl.Allow())
	})

	t.Run("creates limiter with fractional rate", func(t *testing.T) {
		rl := NewRateLimiter(0.5, 1)

		assert.True(t, rl.Allow())
		assert.False(t, rl.Allow())
		assert.Less(t, rl.Tokens(), 1.0)
	})
}

func TestRateLimiter_Wait(t *testing.T) {
	t.Run("waits for token after burst exhausted", func(t *testing.T) {
		rl := NewRateLimiter(10, 1)

		require.NoError(t, rl.Wait(context.Background()))

		start := time.Now()
		require.NoError(t, rl.Wait(context.Background()))

		assert.GreaterOrEqual(t, time.Since(start), 90*time.Millisecond)
	})

	t.Run("returns immediately with canceled context", func(t *testing.T) {
		rl := NewRateLimiter(1, 1)
		assert.True(t, rl.Allow())

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := rl.Wait(ctx)
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestRateLimits(t *testing.T) {
	limits := NewRateLimits(
		RateLimit{Kind: domain.KindArXiv, RatePerSecond: 3, Burst: 1},
		RateLimit{Kind: domain.KindCrossref, RatePerSecond: 0, Burst: 5},
	)

	require.NotNil(t, limits.For(domain.KindArXiv))
	assert.Nil(t, limits.For(domain.KindCrossref), "non-positive rate disables limiting")
	assert.Nil(t, limits.For(domain.KindCustom))

	var none *RateLimits
	assert.Nil(t, none.For(domain.KindArXiv))
}
