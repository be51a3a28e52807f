package store

import (
	"bytes"

	"github.com/google/btree"
	"github.com/iov-one/openpayroll/errors"
)

// ascendBtree collects all cached items within [start, end) in ascending
// order. Nil start or end means no limit.
func ascendBtree(bt *btree.BTree, start, end []byte) []item {
	var items []item
	collect := func(i btree.Item) bool {
		items = append(items, i.(item))
		return true
	}
	switch {
	case start == nil && end == nil:
		bt.Ascend(collect)
	case start == nil:
		bt.AscendLessThan(item{key: end}, collect)
	case end == nil:
		bt.AscendGreaterOrEqual(item{key: start}, collect)
	default:
		bt.AscendRange(item{key: start}, item{key: end}, collect)
	}
	return items
}

// descendBtree collects all cached items within [start, end) in descending
// order.
func descendBtree(bt *btree.BTree, start, end []byte) []item {
	var items []item
	collect := func(i btree.Item) bool {
		items = append(items, i.(item))
		return true
	}
	switch {
	case start == nil && end == nil:
		bt.Descend(collect)
	case start == nil:
		bt.DescendLessOrEqual(pivot(end), collect)
	case end == nil:
		bt.DescendGreaterThan(pivot(start), collect)
	default:
		bt.DescendRange(pivot(end), pivot(start), collect)
	}
	return items
}

// cacheIterator merges cached items with the iterator of the parent store.
// Cached values shadow parent values with the same key and cached deletes
// hide them.
type cacheIterator struct {
	items   []item
	idx     int
	reverse bool

	parent       Iterator
	parentKey    []byte
	parentValue  []byte
	parentIsDone bool
}

var _ Iterator = (*cacheIterator)(nil)

func newCacheIterator(items []item, parent Iterator, reverse bool) (*cacheIterator, error) {
	it := &cacheIterator{
		items:   items,
		reverse: reverse,
		parent:  parent,
	}
	if err := it.advanceParent(); err != nil {
		parent.Release()
		return nil, err
	}
	return it, nil
}

func (it *cacheIterator) advanceParent() error {
	if it.parentIsDone {
		return nil
	}
	key, value, err := it.parent.Next()
	if err != nil {
		if !errors.ErrIteratorDone.Is(err) {
			return err
		}
		it.parentIsDone = true
		it.parentKey, it.parentValue = nil, nil
		return nil
	}
	it.parentKey, it.parentValue = key, value
	return nil
}

// Next implements Iterator.
func (it *cacheIterator) Next() (key, value []byte, err error) {
	for {
		hasCached := it.idx < len(it.items)
		if !hasCached && it.parentIsDone {
			return nil, nil, errors.ErrIteratorDone
		}

		// cmp < 0 means the cached item goes first, cmp > 0 the parent
		// item and 0 that the cached item shadows the parent one.
		var cmp int
		switch {
		case !hasCached:
			cmp = 1
		case it.parentIsDone:
			cmp = -1
		default:
			cmp = bytes.Compare(it.items[it.idx].key, it.parentKey)
			if it.reverse {
				cmp = -cmp
			}
		}

		if cmp > 0 {
			key, value = it.parentKey, it.parentValue
			if err := it.advanceParent(); err != nil {
				return nil, nil, err
			}
			return key, value, nil
		}

		cached := it.items[it.idx]
		it.idx++
		if cmp == 0 {
			if err := it.advanceParent(); err != nil {
				return nil, nil, err
			}
		}
		if cached.deleted {
			continue
		}
		return cached.key, cached.value, nil
	}
}

// Release implements Iterator.
func (it *cacheIterator) Release() {
	it.parent.Release()
	it.items = nil
}
