package cache

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertAndRetrieve(t *testing.T) {
	c := NewCache(10)

	require.NoError(t, c.Insert("a", 1, 4))
	require.NoError(t, c.Insert("b", 2, 4))

	assert.Error(t, c.Insert("a", 3, 1))

	val, ok := c.Retrieve("a")
	require.True(t, ok)
	assert.Equal(t, 1, val)

	assert.Equal(t, 8, c.GetWeight())
	assert.Equal(t, 10, c.GetBudget())
}

func TestEviction(t *testing.T) {
	c := NewCache(10)

	for i := 0; i < 10; i++ {
		require.NoError(t, c.Insert(fmt.Sprintf("key%d", i), i, 1))
	}

	// Touch key0 so key1 becomes the eviction candidate
	_, ok := c.Retrieve("key0")
	require.True(t, ok)

	require.NoError(t, c.Insert("overflow", 99, 1))

	_, ok = c.Retrieve("key1")
	assert.False(t, ok)

	_, ok = c.Retrieve("key0")
	assert.True(t, ok)

	assert.Equal(t, 10, c.GetWeight())
}

func TestRemoveAndClear(t *testing.T) {
	c := NewCache(10)

	require.NoError(t, c.Insert("a", 1, 2))
	assert.True(t, c.Remove("a"))
	assert.False(t, c.Remove("a"))
	assert.Equal(t, 0, c.GetWeight())

	require.NoError(t, c.Insert("b", 2, 2))
	c.Clear()
	_, ok := c.Retrieve("b")
	assert.False(t, ok)
	assert.Equal(t, 0, c.GetWeight())
}
