package cache_test

import (
	"errors"
	"testing"
	"time"

	"storefront/internal/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrSet_ComputesOnceWithinTTL(t *testing.T) {
	c := cache.New(time.Minute, time.Minute)
	calls := 0
	compute := func() ([]string, error) {
		calls++
		return []string{"a", "b"}, nil
	}

	first, err := cache.GetOrSet(c, "k", time.Minute, compute)
	require.NoError(t, err)
	second, err := cache.GetOrSet(c, "k", time.Minute, compute)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Equal(t, first, second)
}

func TestGetOrSet_RecomputesAfterExpiry(t *testing.T) {
	c := cache.New(time.Minute, time.Minute)
	n := 0
	compute := func() (int, error) {
		n++
		return n, nil
	}

	v, err := cache.GetOrSet(c, "k", 20*time.Millisecond, compute)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	time.Sleep(40 * time.Millisecond)

	v, err = cache.GetOrSet(c, "k", 20*time.Millisecond, compute)
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}

func TestGetOrSet_DoesNotCacheErrors(t *testing.T) {
	c := cache.New(time.Minute, time.Minute)
	boom := errors.New("boom")

	_, err := cache.GetOrSet(c, "k", time.Minute, func() (int, error) { return 0, boom })
	assert.ErrorIs(t, err, boom)

	_, found := c.Get("k")
	assert.False(t, found)

	v, err := cache.GetOrSet(c, "k", time.Minute, func() (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

func TestGetOrSet_CachesEmptyResults(t *testing.T) {
	c := cache.New(time.Minute, time.Minute)
	calls := 0
	compute := func() ([]int, error) {
		calls++
		return []int{}, nil
	}

	_, _ = cache.GetOrSet(c, "empty", time.Minute, compute)
	_, _ = cache.GetOrSet(c, "empty", time.Minute, compute)
	assert.Equal(t, 1, calls)
}

func TestGetOrSet_KeysAreIndependent(t *testing.T) {
	c := cache.New(time.Minute, time.Minute)

	a, _ := cache.GetOrSet(c, "user:a", time.Minute, func() (string, error) { return "A", nil })
	b, _ := cache.GetOrSet(c, "user:b", time.Minute, func() (string, error) { return "B", nil })
	assert.Equal(t, "A", a)
	assert.Equal(t, "B", b)

	c.Delete("user:a")
	_, found := c.Get("user:a")
	assert.False(t, found)
}
