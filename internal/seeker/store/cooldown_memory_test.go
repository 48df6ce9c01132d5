package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryCooldown(t *testing.T) {
	ctx := context.Background()
	t0 := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	window := 30 * time.Second

	t.Run("a held key blocks the whole claim", func(t *testing.T) {
		c := NewInMemoryCooldown()
		_, ok, err := c.Acquire(ctx, []string{"phone:9876543210"}, t0, window)
		require.NoError(t, err)
		require.True(t, ok)

		held, ok, err := c.Acquire(ctx, []string{"email:a@example.com", "phone:9876543210"}, t0.Add(5*time.Second), window)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, t0, held)

		_, ok, err = c.Acquire(ctx, []string{"email:a@example.com"}, t0.Add(6*time.Second), window)
		require.NoError(t, err)
		assert.True(t, ok, "a refused claim writes nothing")
	})

	t.Run("entries expire at the end of the window", func(t *testing.T) {
		c := NewInMemoryCooldown()
		_, ok, err := c.Acquire(ctx, []string{"email:a@example.com"}, t0, window)
		require.NoError(t, err)
		require.True(t, ok)

		_, ok, err = c.Acquire(ctx, []string{"email:a@example.com"}, t0.Add(window), window)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("release only drops the matching claim", func(t *testing.T) {
		c := NewInMemoryCooldown()
		keys := []string{"email:a@example.com"}
		_, ok, err := c.Acquire(ctx, keys, t0, window)
		require.NoError(t, err)
		require.True(t, ok)

		require.NoError(t, c.Release(ctx, keys, t0.Add(time.Second)))
		_, ok, err = c.Acquire(ctx, keys, t0.Add(2*time.Second), window)
		require.NoError(t, err)
		assert.False(t, ok)

		require.NoError(t, c.Release(ctx, keys, t0))
		_, ok, err = c.Acquire(ctx, keys, t0.Add(2*time.Second), window)
		require.NoError(t, err)
		assert.True(t, ok)
	})
}
