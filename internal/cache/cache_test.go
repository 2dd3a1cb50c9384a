package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "content:portal", Key(KeyContent, "portal"))
	assert.Equal(t, "launchurls:chat:alice", Key(KeyLaunchURLs, "chat", "alice"))
}

func TestMemoryCacheRoundTrip(t *testing.T) {
	c := newMemoryCache(time.Minute)

	type payload struct {
		Name  string
		Count int
	}
	require.NoError(t, c.Set("k", payload{Name: "a", Count: 3}, time.Minute))

	var got payload
	set, err := c.Get("k", &got)
	require.NoError(t, err)
	require.True(t, set)
	assert.Equal(t, payload{Name: "a", Count: 3}, got)
}

func TestMemoryCacheMiss(t *testing.T) {
	c := newMemoryCache(time.Minute)
	var got string
	set, err := c.Get("absent", &got)
	require.NoError(t, err)
	assert.False(t, set)
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := newMemoryCache(time.Minute)
	require.NoError(t, c.Set("k", "v", 10*time.Millisecond))

	time.Sleep(20 * time.Millisecond)
	var got string
	set, err := c.Get("k", &got)
	require.NoError(t, err)
	assert.False(t, set)
}
