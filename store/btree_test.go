package store

import (
	"testing"

	"github.com/iov-one/openpayroll/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memStoreConstructor() (CacheableKVStore, func()) {
	return MemStore(), func() {}
}

var suite = NewTestSuite(memStoreConstructor)

func TestBTreeCacheLayers(t *testing.T) { suite.CacheLayers(t) }
func TestBTreeIterators(t *testing.T)   { suite.Iterators(t) }

func TestDiscardDropsPendingWrites(t *testing.T) {
	base := MemStore()
	require.NoError(t, base.Set([]byte("treasury"), []byte("100")))

	cache := base.CacheWrap()
	require.NoError(t, cache.Set([]byte("treasury"), []byte("0")))
	require.NoError(t, cache.Set([]byte("alice"), []byte("100")))
	cache.Discard()
	require.NoError(t, cache.Write())

	val, err := base.Get([]byte("treasury"))
	require.NoError(t, err)
	assert.Equal(t, []byte("100"), val)
	has, err := base.Has([]byte("alice"))
	require.NoError(t, err)
	assert.False(t, has)
}

func TestSliceIterator(t *testing.T) {
	it := NewSliceIterator([]Model{Pair([]byte("a"), []byte("1")), Pair([]byte("b"), []byte("2"))})
	defer it.Release()

	k, v, err := it.Next()
	require.NoError(t, err)
	assert.Equal(t, "a", string(k))
	assert.Equal(t, "1", string(v))

	k, _, err = it.Next()
	require.NoError(t, err)
	assert.Equal(t, "b", string(k))

	_, _, err = it.Next()
	assert.True(t, errors.ErrIteratorDone.Is(err))
}
