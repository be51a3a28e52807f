package orm

import (
	"reflect"

	"github.com/gogo/protobuf/proto"
	ledger "github.com/iov-one/openpayroll"
	"github.com/iov-one/openpayroll/errors"
)

// ModelIterator is a cursor over the entities of a single bucket.
type ModelIterator interface {
	// LoadNext loads the next entity into given destination and returns
	// its primary key. ErrIteratorDone is returned when there are no
	// more entities.
	LoadNext(dest Model) ([]byte, error)

	// Release releases the iterator.
	Release()
}

type modelIterator struct {
	it     ledger.Iterator
	prefix []byte
	model  reflect.Type
}

func (m *modelIterator) LoadNext(dest Model) ([]byte, error) {
	if reflect.TypeOf(dest) != m.model {
		return nil, errors.Wrapf(errors.ErrType, "cannot load %s into %T", m.model, dest)
	}
	key, value, err := m.it.Next()
	if err != nil {
		return nil, err
	}
	dest.Reset()
	if err := proto.Unmarshal(value, dest); err != nil {
		return nil, errors.Wrapf(errors.ErrModel, "cannot unmarshal %T: %s", dest, err)
	}
	return key[len(m.prefix):], nil
}

func (m *modelIterator) Release() {
	m.it.Release()
}
