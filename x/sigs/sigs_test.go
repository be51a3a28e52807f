package sigs

import (
	"context"
	"testing"

	ledger "github.com/iov-one/openpayroll"
	"github.com/iov-one/openpayroll/errors"
	"github.com/iov-one/openpayroll/ledgertest"
	"github.com/iov-one/openpayroll/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// signedTx is a minimal SignedTx implementation used by the tests.
type signedTx struct {
	ledgertest.Tx
	payload []byte
	sigs    []*StdSignature
}

func (tx *signedTx) GetSignBytes() ([]byte, error)  { return tx.payload, nil }
func (tx *signedTx) GetSignatures() []*StdSignature { return tx.sigs }

func sign(t testing.TB, key ledgertest.Key, tx *signedTx, chainID string, seq int64) {
	t.Helper()
	sig, err := SignTx(key.Private, tx, chainID, seq)
	require.NoError(t, err)
	tx.sigs = append(tx.sigs, sig)
}

func TestSignatureConditionMatchesTestKeys(t *testing.T) {
	key := ledgertest.NewKey()
	assert.True(t, key.Condition().Equals(PubKeyCondition(key.Public)))
}

func TestVerifyTxSignatures(t *testing.T) {
	const chainID = "test-chain"
	alice := ledgertest.NewKey()
	bob := ledgertest.NewKey()

	cases := map[string]struct {
		build     func(t *testing.T) *signedTx
		chainID   string
		wantErr   *errors.Error
		wantCount int
	}{
		"no signatures": {
			build:   func(t *testing.T) *signedTx { return &signedTx{payload: []byte("x")} },
			chainID: chainID,
		},
		"single valid signature": {
			build: func(t *testing.T) *signedTx {
				tx := &signedTx{payload: []byte("payload")}
				sign(t, alice, tx, chainID, 0)
				return tx
			},
			chainID:   chainID,
			wantCount: 1,
		},
		"two signers": {
			build: func(t *testing.T) *signedTx {
				tx := &signedTx{payload: []byte("payload")}
				sign(t, alice, tx, chainID, 0)
				sign(t, bob, tx, chainID, 0)
				return tx
			},
			chainID:   chainID,
			wantCount: 2,
		},
		"signed for another chain": {
			build: func(t *testing.T) *signedTx {
				tx := &signedTx{payload: []byte("payload")}
				sign(t, alice, tx, "other-chain", 0)
				return tx
			},
			chainID: chainID,
			wantErr: errors.ErrUnauthorized,
		},
		"wrong sequence": {
			build: func(t *testing.T) *signedTx {
				tx := &signedTx{payload: []byte("payload")}
				sign(t, alice, tx, chainID, 7)
				return tx
			},
			chainID: chainID,
			wantErr: ErrInvalidSequence,
		},
		"tampered payload": {
			build: func(t *testing.T) *signedTx {
				tx := &signedTx{payload: []byte("payload")}
				sign(t, alice, tx, chainID, 0)
				tx.payload = []byte("other")
				return tx
			},
			chainID: chainID,
			wantErr: errors.ErrUnauthorized,
		},
		"truncated signature": {
			build: func(t *testing.T) *signedTx {
				tx := &signedTx{payload: []byte("payload")}
				sign(t, alice, tx, chainID, 0)
				tx.sigs[0].Signature = tx.sigs[0].Signature[:10]
				return tx
			},
			chainID: chainID,
			wantErr: errors.ErrUnauthorized,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			signers, err := VerifyTxSignatures(db, tc.build(t), tc.chainID)
			if tc.wantErr != nil {
				require.Error(t, err)
				assert.True(t, tc.wantErr.Is(err), "unexpected error: %+v", err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, signers, tc.wantCount)
		})
	}
}

func TestSequenceIsIncremented(t *testing.T) {
	const chainID = "test-chain"
	key := ledgertest.NewKey()
	db := store.MemStore()

	for seq := int64(0); seq < 3; seq++ {
		next, err := NextSequence(db, key.Public)
		require.NoError(t, err)
		require.Equal(t, seq, next)

		tx := &signedTx{payload: []byte("payload")}
		sign(t, key, tx, chainID, seq)
		_, err = VerifyTxSignatures(db, tx, chainID)
		require.NoError(t, err)
	}

	// Replaying an already used nonce must fail.
	tx := &signedTx{payload: []byte("payload")}
	sign(t, key, tx, chainID, 1)
	_, err := VerifyTxSignatures(db, tx, chainID)
	require.Error(t, err)
	assert.True(t, ErrInvalidSequence.Is(err))

	var user UserData
	require.NoError(t, NewBucket().One(db, key.Address(), &user))
	assert.Equal(t, int64(3), user.Sequence)
	assert.Equal(t, []byte(key.Public), user.Pubkey)
}

func TestCheckAndIncrementSequence(t *testing.T) {
	cases := map[string]struct {
		current  int64
		expected int64
		wantErr  *errors.Error
		wantNext int64
	}{
		"zero":           {current: 0, expected: 0, wantNext: 1},
		"mismatch":       {current: 4, expected: 3, wantErr: ErrInvalidSequence},
		"reached limits": {current: maxSequenceValue, expected: maxSequenceValue, wantErr: errors.ErrOverflow},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			u := UserData{Sequence: tc.current}
			err := u.CheckAndIncrementSequence(tc.expected)
			if tc.wantErr != nil {
				assert.True(t, tc.wantErr.Is(err), "unexpected error: %v", err)
				assert.Equal(t, tc.current, u.Sequence)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantNext, u.Sequence)
		})
	}
}

func TestBuildSignBytes(t *testing.T) {
	a, err := BuildSignBytes([]byte("payload"), "test-chain", 1)
	require.NoError(t, err)
	b, err := BuildSignBytes([]byte("payload"), "test-chain", 2)
	require.NoError(t, err)
	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)

	_, err = BuildSignBytes([]byte("payload"), "", 1)
	assert.True(t, errors.ErrInput.Is(err))
	_, err = BuildSignBytes([]byte("payload"), "test-chain", -1)
	assert.True(t, ErrInvalidSequence.Is(err))
}

func TestDecorator(t *testing.T) {
	const chainID = "deco-chain"
	key := ledgertest.NewKey()
	ctx := ledger.WithChainID(context.Background(), chainID)

	signed := &signedTx{payload: []byte("payload")}
	sign(t, key, signed, chainID, 0)
	unsigned := &signedTx{payload: []byte("payload")}

	cases := map[string]struct {
		decorator   Decorator
		tx          ledger.Tx
		wantErr     *errors.Error
		wantSigners []ledger.Condition
	}{
		"signed transaction": {
			decorator:   NewDecorator(),
			tx:          signed,
			wantSigners: []ledger.Condition{key.Condition()},
		},
		"missing signature": {
			decorator: NewDecorator(),
			tx:        unsigned,
			wantErr:   errors.ErrUnauthorized,
		},
		"missing signature allowed": {
			decorator: NewDecorator().AllowMissingSigs(),
			tx:        unsigned,
		},
		"not a signed transaction": {
			decorator: NewDecorator(),
			tx:        &ledgertest.Tx{},
			wantErr:   errors.ErrUnauthorized,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var got []ledger.Condition
			handler := &signersHandler{fn: func(ctx ledger.Context) {
				got = Authenticate{}.GetConditions(ctx)
			}}
			_, err := tc.decorator.Check(ctx, store.MemStore(), tc.tx, handler)
			if tc.wantErr != nil {
				require.Error(t, err)
				assert.True(t, tc.wantErr.Is(err), "unexpected error: %+v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantSigners, got)
			for _, s := range tc.wantSigners {
				assert.True(t, Authenticate{}.HasAddress(ctx2(t, tc.decorator, tc.tx, ctx), s.Address()))
			}
		})
	}
}

// ctx2 runs the deliver path and returns the context seen by the handler.
func ctx2(t *testing.T, d Decorator, tx ledger.Tx, ctx ledger.Context) ledger.Context {
	t.Helper()
	var seen ledger.Context
	h := &signersHandler{fn: func(c ledger.Context) { seen = c }}
	_, err := d.Deliver(ctx, store.MemStore(), tx, h)
	require.NoError(t, err)
	return seen
}

type signersHandler struct {
	fn func(ledger.Context)
}

func (h *signersHandler) Check(ctx ledger.Context, _ ledger.KVStore, _ ledger.Tx) (*ledger.CheckResult, error) {
	h.fn(ctx)
	return &ledger.CheckResult{}, nil
}

func (h *signersHandler) Deliver(ctx ledger.Context, _ ledger.KVStore, _ ledger.Tx) (*ledger.DeliverResult, error) {
	h.fn(ctx)
	return &ledger.DeliverResult{}, nil
}
