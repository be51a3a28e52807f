package gconf

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/gogo/protobuf/proto"
	ledger "github.com/iov-one/openpayroll"
	"github.com/iov-one/openpayroll/errors"
	"github.com/iov-one/openpayroll/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type myConfig struct {
	Number int64  `protobuf:"varint,1,opt,name=number,proto3" json:"number,omitempty"`
	Text   string `protobuf:"bytes,2,opt,name=text,proto3" json:"text,omitempty"`
}

func (m *myConfig) Reset()         { *m = myConfig{} }
func (m *myConfig) String() string { return proto.CompactTextString(m) }
func (*myConfig) ProtoMessage()    {}

func (m *myConfig) Validate() error {
	if m.Number <= 0 {
		return errors.Wrap(errors.ErrInput, "number must be positive")
	}
	return nil
}

func TestSaveLoad(t *testing.T) {
	cases := map[string]struct {
		conf        *myConfig
		wantSaveErr *errors.Error
	}{
		"valid configuration": {
			conf: &myConfig{Number: 852151421, Text: "foobar"},
		},
		"invalid configuration cannot be saved": {
			conf:        &myConfig{Number: -1},
			wantSaveErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			err := Save(db, "mypkg", tc.conf)
			if tc.wantSaveErr != nil {
				require.True(t, tc.wantSaveErr.Is(err), "got %+v", err)
				assert.True(t, errors.ErrNotFound.Is(Load(db, "mypkg", &myConfig{})))
				return
			}
			require.NoError(t, err)

			var got myConfig
			require.NoError(t, Load(db, "mypkg", &got))
			assert.Equal(t, *tc.conf, got)
		})
	}
}

func TestLoadMissing(t *testing.T) {
	db := store.MemStore()
	err := Load(db, "nothing", &myConfig{})
	assert.True(t, errors.ErrNotFound.Is(err))
}

func TestInitConfig(t *testing.T) {
	genesis := []byte(`{"conf": {"mypkg": {"number": 7, "text": "hello"}}}`)
	var opts ledger.Options
	require.NoError(t, json.Unmarshal(genesis, &opts))

	db := store.MemStore()
	require.NoError(t, InitConfig(db, opts, "mypkg", &myConfig{}))

	var got myConfig
	require.NoError(t, Load(db, "mypkg", &got))
	assert.Equal(t, myConfig{Number: 7, Text: "hello"}, got)

	err := InitConfig(db, opts, "otherpkg", &myConfig{})
	assert.True(t, errors.ErrNotFound.Is(err))
}

func TestQueryHandler(t *testing.T) {
	db := store.MemStore()
	h := NewQueryHandler("mypkg")

	res, err := h.Query(context.Background(), db, ledger.KeyQueryMod, nil)
	require.NoError(t, err)
	assert.Empty(t, res)

	require.NoError(t, Save(db, "mypkg", &myConfig{Number: 3}))
	res, err = h.Query(context.Background(), db, ledger.KeyQueryMod, nil)
	require.NoError(t, err)
	require.Len(t, res, 1)

	var got myConfig
	require.NoError(t, proto.Unmarshal(res[0].Value, &got))
	assert.Equal(t, int64(3), got.Number)
}
