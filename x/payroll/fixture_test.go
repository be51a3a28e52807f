package payroll

import (
	"context"
	"encoding/json"
	"testing"

	ledger "github.com/iov-one/openpayroll"
	"github.com/iov-one/openpayroll/errors"
	"github.com/iov-one/openpayroll/ledgertest"
	"github.com/iov-one/openpayroll/store"
	"github.com/iov-one/openpayroll/x/cash"
	"github.com/stretchr/testify/require"
)

// fixture is a payroll initialized from genesis with a funded treasury.
type fixture struct {
	db    store.CacheableKVStore
	bank  cash.BaseController
	ctrl  *Controller
	owner ledger.Condition
}

func newFixture(t testing.TB, gen Genesis, height int64, treasury uint64) *fixture {
	t.Helper()
	f := &fixture{
		db:    store.MemStore(),
		bank:  cash.NewController(),
		owner: ledgertest.NewCondition(),
	}
	f.ctrl = NewController(f.bank)
	if gen.Owner == nil {
		gen.Owner = f.owner.Address()
	}
	require.NoError(t, initGenesis(f.db, gen, height))
	if treasury > 0 {
		require.NoError(t, f.bank.IssueCoins(f.db, TreasuryAddress(), treasury))
	}
	return f
}

func initGenesis(db ledger.KVStore, gen Genesis, height int64) error {
	raw, err := json.Marshal(gen)
	if err != nil {
		return err
	}
	ctx := ledger.WithHeight(context.Background(), height)
	return Initializer{}.FromGenesis(ctx, ledger.Options{optKey: raw}, db)
}

func weights(pairs ...uint64) []*WeightEntry {
	out := make([]*WeightEntry, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, &WeightEntry{MultiplierID: pairs[i], Weight: pairs[i+1]})
	}
	return out
}

// dump returns the whole content of the store.
func dump(t testing.TB, db ledger.ReadOnlyKVStore) []ledger.Model {
	t.Helper()
	it, err := db.Iterator(nil, nil)
	require.NoError(t, err)
	defer it.Release()

	var out []ledger.Model
	for {
		key, value, err := it.Next()
		if errors.ErrIteratorDone.Is(err) {
			return out
		}
		require.NoError(t, err)
		out = append(out, ledger.Pair(key, value))
	}
}

func (f *fixture) beneficiary(t testing.TB, addr ledger.Address) *Beneficiary {
	t.Helper()
	b, err := f.ctrl.Beneficiary(f.db, addr)
	require.NoError(t, err)
	return b
}

func (f *fixture) owed(t testing.TB, now int64, addr ledger.Address) uint64 {
	t.Helper()
	amount, err := f.ctrl.AmountToClaim(f.db, now, addr)
	require.NoError(t, err)
	return amount
}

// failingCash is a treasury that can never transfer.
type failingCash struct {
	balance uint64
}

func (c failingCash) Balance(ledger.ReadOnlyKVStore, ledger.Address) (uint64, error) {
	return c.balance, nil
}

func (failingCash) MoveCoins(ledger.KVStore, ledger.Address, ledger.Address, uint64) error {
	return errors.Wrap(errors.ErrDatabase, "transfer refused")
}
