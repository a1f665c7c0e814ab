package common

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheService_SetGetDelete(t *testing.T) {
	c := NewCacheService(time.Minute, time.Minute)

	_, found := c.Get("BOARD_x")
	assert.False(t, found)

	c.Set("BOARD_x", []byte(`[]`), time.Minute)
	got, found := c.Get("BOARD_x")
	require.True(t, found)
	assert.Equal(t, []byte(`[]`), got)

	c.Delete("BOARD_x")
	_, found = c.Get("BOARD_x")
	assert.False(t, found)
}

func TestCacheService_Expiry(t *testing.T) {
	c := NewCacheService(time.Minute, time.Minute)

	c.Set("short", []byte("v"), 10*time.Millisecond)
	assert.Eventually(t, func() bool {
		_, found := c.Get("short")
		return !found
	}, time.Second, 5*time.Millisecond)
}

func TestCacheService_GetOrSet(t *testing.T) {
	c := NewCacheService(time.Minute, time.Minute)
	calls := 0
	loader := func() ([]byte, error) {
		calls++
		return []byte("rows"), nil
	}

	v, err := c.GetOrSet("k", time.Minute, loader)
	require.NoError(t, err)
	assert.Equal(t, []byte("rows"), v)

	v, err = c.GetOrSet("k", time.Minute, loader)
	require.NoError(t, err)
	assert.Equal(t, []byte("rows"), v)
	assert.Equal(t, 1, calls)

	_, err = c.GetOrSet("bad", time.Minute, func() ([]byte, error) { return nil, errors.New("boom") })
	require.Error(t, err)
	_, found := c.Get("bad")
	assert.False(t, found, "failed loads are not cached")
}

func TestCacheService_Flush(t *testing.T) {
	c := NewCacheService(time.Minute, time.Minute)
	c.Set("a", []byte("1"), time.Minute)
	c.Set("b", []byte("2"), time.Minute)

	c.Flush()

	_, found := c.Get("a")
	assert.False(t, found)
	assert.NoError(t, c.Close())
}
