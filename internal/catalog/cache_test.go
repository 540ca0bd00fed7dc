package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_ServesCatalogAndInvalidates(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "data.csv", "year,value\n2000,1.0\n2001,2.0\n")

	cache := NewCache(NewBuilder(nil, nil), dir, nil, nil)
	defer cache.Close()

	first := cache.Catalog()
	require.NotNil(t, first)
	_, ok := first.Get(Key{Source: "data.csv", Column: "value"})
	assert.True(t, ok)

	if cache.watcher != nil {
		// With an active watcher and no directory changes, reads hit the
		// cached catalog.
		assert.Same(t, first, cache.Catalog())
	}

	cache.Invalidate()
	rebuilt := cache.Catalog()
	require.NotNil(t, rebuilt)
	assert.NotSame(t, first, rebuilt)
	_, ok = rebuilt.Get(Key{Source: "data.csv", Column: "value"})
	assert.True(t, ok)
}

func TestCache_MissingDirDegradesGracefully(t *testing.T) {
	cache := NewCache(NewBuilder(nil, nil), "/nonexistent/path/for/test", nil, nil)
	defer cache.Close()

	cat := cache.Catalog()
	require.NotNil(t, cat)
	assert.Equal(t, 0, cat.Len())
}
