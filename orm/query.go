package orm

import (
	ledger "github.com/iov-one/openpayroll"
	"github.com/iov-one/openpayroll/errors"
)

// prefixRange turns a prefix into a (start, end) range. The end is the
// smallest key that is greater than all keys with given prefix, or nil if
// there is no such key.
func prefixRange(prefix []byte) ([]byte, []byte) {
	if len(prefix) == 0 {
		return nil, nil
	}
	end := make([]byte, len(prefix))
	copy(end, prefix)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return prefix, end[:i+1]
		}
	}
	return prefix, nil
}

// queryPrefix returns all key value pairs stored with given prefix.
func queryPrefix(db ledger.ReadOnlyKVStore, prefix []byte) ([]ledger.Model, error) {
	start, end := prefixRange(prefix)
	it, err := db.Iterator(start, end)
	if err != nil {
		return nil, err
	}
	return consumeIterator(it)
}

// consumeIterator will read all remaining data into an
// array and release the iterator
func consumeIterator(it ledger.Iterator) ([]ledger.Model, error) {
	defer it.Release()

	var res []ledger.Model
	for {
		key, value, err := it.Next()
		if err != nil {
			if errors.ErrIteratorDone.Is(err) {
				return res, nil
			}
			return nil, err
		}
		res = append(res, ledger.Pair(key, value))
	}
}
