package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/miniapp-server/internal/model"
)

func TestMemory_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	c := NewMemory()
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))

	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	now = now.Add(time.Minute)
	_, err = c.Get(ctx, "k")
	assert.ErrorIs(t, err, model.ErrCacheMiss)
}

func TestMemory_Delete(t *testing.T) {
	ctx := context.Background()
	c := NewMemory()

	require.NoError(t, c.Set(ctx, "a", []byte("1"), 0))
	require.NoError(t, c.Set(ctx, "b", []byte("2"), 0))
	require.NoError(t, c.Delete(ctx, "a", "missing"))

	_, err := c.Get(ctx, "a")
	assert.ErrorIs(t, err, model.ErrCacheMiss)
	_, err = c.Get(ctx, "b")
	assert.NoError(t, err)
}
