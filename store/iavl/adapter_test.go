package iavl

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/iov-one/openpayroll/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeBase() (store.CacheableKVStore, func()) {
	commit, cleanup := makeCommitStore()
	return commit.Adapter(), cleanup
}

func makeCommitStore() (*CommitStore, func()) {
	tmpDir, err := ioutil.TempDir("", "iavl-adapter-")
	if err != nil {
		panic(err)
	}
	commit := NewCommitStore(tmpDir, "base")
	cleanup := func() {
		commit.Close()
		os.RemoveAll(tmpDir)
	}
	return commit, cleanup
}

var suite = store.NewTestSuite(makeBase)

func TestIavlCacheLayers(t *testing.T) { suite.CacheLayers(t) }
func TestIavlIterators(t *testing.T)   { suite.Iterators(t) }

func TestCommitAndReload(t *testing.T) {
	tmpDir, err := ioutil.TempDir("", "iavl-commit-")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	commit := NewCommitStore(tmpDir, "payroll")
	require.NoError(t, commit.LoadLatestVersion())

	cache := commit.CacheWrap()
	require.NoError(t, cache.Set([]byte("owner"), []byte("alice")))

	// nothing is visible before the commit
	val, err := commit.Get([]byte("owner"))
	require.NoError(t, err)
	assert.Nil(t, val)

	require.NoError(t, cache.Write())
	id, err := commit.Commit()
	require.NoError(t, err)
	assert.Equal(t, int64(1), id.Version)
	assert.NotEmpty(t, id.Hash)

	val, err = commit.Get([]byte("owner"))
	require.NoError(t, err)
	assert.Equal(t, []byte("alice"), val)
	commit.Close()

	reopened := NewCommitStore(tmpDir, "payroll")
	defer reopened.Close()
	require.NoError(t, reopened.LoadLatestVersion())
	latest, err := reopened.LatestVersion()
	require.NoError(t, err)
	assert.Equal(t, id, latest)

	val, err = reopened.Get([]byte("owner"))
	require.NoError(t, err)
	assert.Equal(t, []byte("alice"), val)
}

func TestMemCommitStoreVersions(t *testing.T) {
	commit := NewMemCommitStore()
	defer commit.Close()

	for i := 1; i <= 3; i++ {
		cache := commit.CacheWrap()
		require.NoError(t, cache.Set([]byte{byte(i)}, []byte("v")))
		require.NoError(t, cache.Write())
		id, err := commit.Commit()
		require.NoError(t, err)
		assert.Equal(t, int64(i), id.Version)
	}

	it, err := commit.Adapter().Iterator(nil, nil)
	require.NoError(t, err)
	defer it.Release()
	var n int
	for _, _, err := it.Next(); err == nil; _, _, err = it.Next() {
		n++
	}
	assert.Equal(t, 3, n)
}
