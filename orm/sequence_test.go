package orm

import (
	"bytes"
	"testing"

	"github.com/iov-one/openpayroll/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequence(t *testing.T) {
	db := store.MemStore()

	// cases run in order, some continue a sequence used before
	cases := []struct {
		bucket     string
		name       string
		init       int64
		increments int64
	}{
		{"aaa", "id", 0, 22},
		{"aaa", "other", 0, 11},
		{"aaa", "id", 23, 18},
		{"bbb", "id", 0, 77},
		{"aaa", "other", 12, 248},
	}

	for _, tc := range cases {
		s := NewSequence(tc.bucket, tc.name)
		init, err := s.Latest(db)
		require.NoError(t, err)
		assert.Equal(t, tc.init, init)
		orig := EncodeSequence(init)

		var val int64
		for i := int64(0); i < tc.increments; i++ {
			val, err = s.NextInt(db)
			require.NoError(t, err)
		}
		assert.Equal(t, tc.init+tc.increments, val)

		// NextVal moves the sequence one further
		last, err := s.NextVal(db)
		require.NoError(t, err)
		assert.Equal(t, 1, bytes.Compare(last, orig))
	}
}

func TestValidateSequence(t *testing.T) {
	assert.NoError(t, ValidateSequence(EncodeSequence(5)))
	assert.Error(t, ValidateSequence(nil))
	assert.Error(t, ValidateSequence([]byte{1, 2}))
}
