package store

import (
	"bytes"
	"crypto/rand"
	"sort"
	"testing"

	"github.com/iov-one/openpayroll/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSuite checks the KVStore and CacheWrap contract of a store
// implementation. Both the btree and the iavl stores run it.
type TestSuite struct {
	makeBase TestStoreConstructor
}

// TestStoreConstructor returns a fresh empty store and a function
// releasing it.
type TestStoreConstructor func() (base CacheableKVStore, cleanup func())

func NewTestSuite(constructor TestStoreConstructor) *TestSuite {
	return &TestSuite{makeBase: constructor}
}

// CacheLayers checks that a cache reads through to its base and that
// only Write makes its changes visible there.
func (s *TestSuite) CacheLayers(t *testing.T) {
	owner, alice, bob := []byte("conf:owner"), []byte("benef:alice"), []byte("benef:bob")

	cases := map[string]struct {
		base    []Op
		cache   []Op
		write   bool
		inCache []Model
		inBase  []Model
	}{
		"cache reads through to base": {
			base:    []Op{SetOp(owner, []byte("carol"))},
			inCache: []Model{Pair(owner, []byte("carol")), Pair(alice, nil)},
			inBase:  []Model{Pair(owner, []byte("carol")), Pair(alice, nil)},
		},
		"discard drops pending changes": {
			base:    []Op{SetOp(owner, []byte("carol"))},
			cache:   []Op{SetOp(alice, []byte("100")), DelOp(owner)},
			inCache: []Model{Pair(owner, nil), Pair(alice, []byte("100"))},
			inBase:  []Model{Pair(owner, []byte("carol")), Pair(alice, nil)},
		},
		"write applies overwrite, delete and insert": {
			base:    []Op{SetOp(owner, []byte("carol")), SetOp(alice, []byte("100"))},
			cache:   []Op{SetOp(alice, []byte("0")), DelOp(owner), SetOp(bob, []byte("50"))},
			write:   true,
			inCache: []Model{Pair(owner, nil), Pair(alice, []byte("0")), Pair(bob, []byte("50"))},
			inBase:  []Model{Pair(owner, nil), Pair(alice, []byte("0")), Pair(bob, []byte("50"))},
		},
		"deleting a missing key changes nothing": {
			base:    []Op{SetOp(alice, []byte("100"))},
			cache:   []Op{DelOp(bob)},
			write:   true,
			inCache: []Model{Pair(alice, []byte("100")), Pair(bob, nil)},
			inBase:  []Model{Pair(alice, []byte("100")), Pair(bob, nil)},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			base, cleanup := s.makeBase()
			defer cleanup()

			for _, op := range tc.base {
				require.NoError(t, op.Apply(base))
			}
			cache := base.CacheWrap()
			for _, op := range tc.cache {
				require.NoError(t, op.Apply(cache))
			}
			for _, m := range tc.inCache {
				s.AssertGetHas(t, cache, m.Key, m.Value, m.Value != nil)
			}

			if tc.write {
				require.NoError(t, cache.Write())
			} else {
				cache.Discard()
			}
			for _, m := range tc.inBase {
				s.AssertGetHas(t, base, m.Key, m.Value, m.Value != nil)
			}
		})
	}
}

// Iterators checks ranged iteration, forwards and backwards, over a
// cache merged with its base.
func (s *TestSuite) Iterators(t *testing.T) {
	parent := randModels(30, 8, 20)
	child := randModels(30, 8, 20)
	overwritten := Pair(parent[10].Key, []byte("overwritten"))

	cases := map[string]struct {
		base  []Op
		cache []Op
		want  []Model
	}{
		"empty": {},
		"cache only": {
			cache: makeSetOps(child...),
			want:  sortModels(child),
		},
		"base only": {
			base: makeSetOps(parent...),
			want: sortModels(parent),
		},
		"cache and base merged": {
			base:  makeSetOps(parent...),
			cache: makeSetOps(child...),
			want:  sortModels(concat(parent, child)),
		},
		"cache deletes and overwrites base": {
			base:  makeSetOps(parent...),
			cache: append(makeDelOps(parent[:10]...), SetOp(overwritten.Key, overwritten.Value)),
			want:  sortModels(concat([]Model{overwritten}, parent[11:])),
		},
		"deleted then set again in cache": {
			base:  makeSetOps(parent[:5]...),
			cache: append(makeDelOps(parent[:5]...), makeSetOps(parent[:2]...)...),
			want:  sortModels(parent[:2]),
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			base, cleanup := s.makeBase()
			defer cleanup()

			for _, op := range tc.base {
				require.NoError(t, op.Apply(base))
			}
			cache := base.CacheWrap()
			for _, op := range tc.cache {
				require.NoError(t, op.Apply(cache))
			}

			want := tc.want
			assertRange(t, cache, nil, nil, want)
			if len(want) < 4 {
				return
			}
			from, to := len(want)/4, 3*len(want)/4
			assertRange(t, cache, want[from].Key, nil, want[from:])
			assertRange(t, cache, nil, want[to].Key, want[:to])
			assertRange(t, cache, want[from].Key, want[to].Key, want[from:to])
			assertRange(t, cache, nil, want[0].Key, nil)
		})
	}
}

func (s *TestSuite) AssertGetHas(t testing.TB, kv ReadOnlyKVStore, key, val []byte, has bool) {
	t.Helper()
	got, err := kv.Get(key)
	require.NoError(t, err)
	assert.Equal(t, val, got)
	exists, err := kv.Has(key)
	require.NoError(t, err)
	assert.Equal(t, has, exists)
}

// assertRange iterates [start, end) both ways and expects exactly want.
func assertRange(t testing.TB, kv ReadOnlyKVStore, start, end []byte, want []Model) {
	t.Helper()
	it, err := kv.Iterator(start, end)
	require.NoError(t, err)
	assertIterates(t, it, want)

	it, err = kv.ReverseIterator(start, end)
	require.NoError(t, err)
	assertIterates(t, it, reverse(want))
}

func assertIterates(t testing.TB, it Iterator, want []Model) {
	t.Helper()
	defer it.Release()
	for i, m := range want {
		key, value, err := it.Next()
		require.NoError(t, err)
		require.Equalf(t, m.Key, key, "key #%d", i)
		assert.Equal(t, m.Value, value)
	}
	_, _, err := it.Next()
	assert.Truef(t, errors.ErrIteratorDone.Is(err), "want end of iteration, got %v", err)
}

func randModels(count, keySize, valueSize int) []Model {
	models := make([]Model, count)
	for i := range models {
		models[i] = Pair(randBytes(keySize), randBytes(valueSize))
	}
	return models
}

func randBytes(n int) []byte {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return b
}

func concat(a, b []Model) []Model {
	out := make([]Model, 0, len(a)+len(b))
	return append(append(out, a...), b...)
}

func reverse(models []Model) []Model {
	out := make([]Model, len(models))
	for i, m := range models {
		out[len(models)-1-i] = m
	}
	return out
}

func sortModels(models []Model) []Model {
	out := make([]Model, len(models))
	copy(out, models)
	sort.Slice(out, func(i, j int) bool {
		return bytes.Compare(out[i].Key, out[j].Key) < 0
	})
	return out
}

func makeSetOps(ms ...Model) []Op {
	ops := make([]Op, len(ms))
	for i, m := range ms {
		ops[i] = SetOp(m.Key, m.Value)
	}
	return ops
}

func makeDelOps(ms ...Model) []Op {
	ops := make([]Op, len(ms))
	for i, m := range ms {
		ops[i] = DelOp(m.Key)
	}
	return ops
}
