package cache

import (
	"fmt"
	"testing"

	"orderdesk/internal/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearch_GetAdd(t *testing.T) {
	c, err := NewSearch[[]string]("test_get_add", 10)
	require.NoError(t, err)

	_, ok := c.Get("jane")
	assert.False(t, ok)

	c.Add(" Jane ", []string{"Jane Doe"})
	got, ok := c.Get("JANE")
	assert.True(t, ok)
	assert.Equal(t, []string{"Jane Doe"}, got)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.SearchCacheHits.WithLabelValues("test_get_add")))
}

func TestSearch_EvictsOldestInsertion(t *testing.T) {
	c, err := NewSearch[int]("test_evict", 3)
	require.NoError(t, err)

	c.Add("a", 1)
	c.Add("b", 2)
	c.Add("c", 3)

	// a lookup must not save "a" from eviction
	_, ok := c.Get("a")
	require.True(t, ok)

	c.Add("d", 4)
	assert.Equal(t, 3, c.Len())

	_, ok = c.Get("a")
	assert.False(t, ok)
	for _, k := range []string{"b", "c", "d"} {
		_, ok := c.Get(k)
		assert.True(t, ok, k)
	}
}

func TestSearch_ReAddKeepsInsertionOrder(t *testing.T) {
	c, err := NewSearch[int]("test_readd", 3)
	require.NoError(t, err)

	c.Add("a", 1)
	c.Add("b", 2)
	c.Add("c", 3)
	c.Add("A", 10)

	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 10, v)

	c.Add("d", 4)
	_, ok = c.Get("a")
	assert.False(t, ok, "a is still the oldest insertion")
	_, ok = c.Get("b")
	assert.True(t, ok)
}

func TestSearch_DefaultSize(t *testing.T) {
	c, err := NewSearch[int]("test_default", 0)
	require.NoError(t, err)

	for i := 0; i < DefaultSize+20; i++ {
		c.Add(fmt.Sprintf("term-%d", i), i)
	}
	assert.Equal(t, DefaultSize, c.Len())

	_, ok := c.Get("term-0")
	assert.False(t, ok)
	v, ok := c.Get(fmt.Sprintf("term-%d", DefaultSize+19))
	assert.True(t, ok)
	assert.Equal(t, DefaultSize+19, v)
}

func TestSearch_Purge(t *testing.T) {
	c, err := NewSearch[int]("test_purge", 5)
	require.NoError(t, err)

	c.Add("a", 1)
	c.Purge()
	assert.Equal(t, 0, c.Len())
}
