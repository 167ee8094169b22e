package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemory_SetGetDelete(t *testing.T) {
	c := NewInMemory[int64, string]()

	_, ok := c.Get(1)
	require.False(t, ok)

	c.Set(1, "a")
	c.Set(1, "b")
	v, ok := c.Get(1)
	require.True(t, ok)
	assert.Equal(t, "b", v)
	assert.Equal(t, 1, c.Len())

	c.Delete(1)
	_, ok = c.Get(1)
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestInMemory_EvictIdle(t *testing.T) {
	c := NewInMemory[string, int]()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.Set("old", 1)
	now = now.Add(2 * time.Hour)
	c.Set("fresh", 2)
	now = now.Add(30 * time.Minute)

	assert.Equal(t, 1, c.EvictIdle(time.Hour))

	_, ok := c.Get("old")
	assert.False(t, ok)
	v, ok := c.Get("fresh")
	require.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestInMemory_SetRefreshesIdleTime(t *testing.T) {
	c := NewInMemory[string, int]()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.Set("k", 1)
	now = now.Add(50 * time.Minute)
	c.Set("k", 2)
	now = now.Add(50 * time.Minute)

	assert.Equal(t, 0, c.EvictIdle(time.Hour))
	assert.Equal(t, 1, c.Len())
}
