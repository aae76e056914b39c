package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTTLCache_SetGet(t *testing.T) {
	c := NewTTLCache[string, int]()

	c.Set("a", 1, time.Minute)
	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestTTLCache_Expiry(t *testing.T) {
	c := NewTTLCache[string, string]()

	c.Set("k", "v", 10*time.Millisecond)
	time.Sleep(25 * time.Millisecond)

	_, ok := c.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestTTLCache_InvalidateAndClear(t *testing.T) {
	c := NewTTLCache[string, int]()

	c.Set("a", 1, time.Minute)
	c.Set("b", 2, time.Minute)

	c.Invalidate("a")
	_, ok := c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 1, c.Len())

	c.Clear()
	assert.Equal(t, 0, c.Len())
}

func TestTTLCache_ZeroTTLIgnored(t *testing.T) {
	c := NewTTLCache[string, int]()

	c.Set("a", 1, 0)
	_, ok := c.Get("a")
	assert.False(t, ok)
}

func TestTTLCache_BackgroundSweep(t *testing.T) {
	c := NewTTLCache[string, int](WithSweepInterval(10 * time.Millisecond))
	defer c.Close()

	c.Set("a", 1, 5*time.Millisecond)
	time.Sleep(40 * time.Millisecond)

	// Swept without any Get touching the key.
	assert.Equal(t, 0, c.Len())
}

func TestTTLCache_CloseStopsSweeper(t *testing.T) {
	c := NewTTLCache[string, int](WithSweepInterval(5 * time.Millisecond))

	// Close is on the interface so any holder can release the sweeper;
	// closing twice must be safe.
	c.Close()
	c.Close()

	// With the sweeper stopped only Get evicts.
	c.Set("a", 1, time.Minute)
	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)
}
