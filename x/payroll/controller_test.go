package payroll

import (
	"testing"

	ledger "github.com/iov-one/openpayroll"
	"github.com/iov-one/openpayroll/errors"
	"github.com/iov-one/openpayroll/ledgertest"
	"github.com/iov-one/openpayroll/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClaimScenario(t *testing.T) {
	alice := ledgertest.RandomAddr(t)
	gen := Genesis{
		Periodicity:   2,
		BasePayment:   1000,
		Multipliers:   []string{"seniority", "bonus"},
		Beneficiaries: []GenesisBeneficiary{{Address: alice, Weights: weights(1, 100, 2, 20)}},
	}

	cases := map[string]struct {
		claim         uint64
		wantErr       *errors.Error
		wantRemaining uint64
		wantNext      uint64
	}{
		"claim everything": {
			claim:         1200,
			wantRemaining: 0,
			wantNext:      1200,
		},
		"partial claim is carried over": {
			claim:         1190,
			wantRemaining: 10,
			wantNext:      1210,
		},
		"zero claim only settles": {
			claim:         0,
			wantRemaining: 1200,
			wantNext:      2400,
		},
		"claim more than owed": {
			claim:   1201,
			wantErr: ErrClaimedAmountIsBiggerThanAvailable,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(t, gen, 1, 1e6)

			// Three blocks after genesis a single period elapsed.
			require.Equal(t, uint64(1200), f.owed(t, 4, alice))

			before := dump(t, f.db)
			remaining, err := f.ctrl.Claim(f.db, 4, alice, tc.claim)
			if tc.wantErr != nil {
				require.True(t, tc.wantErr.Is(err), "unexpected error: %+v", err)
				assert.Equal(t, before, dump(t, f.db), "failed claim modified the state")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantRemaining, remaining)

			b := f.beneficiary(t, alice)
			assert.Equal(t, tc.wantRemaining, b.UnclaimedPayments)
			assert.Equal(t, int64(3), b.LastUpdatedPeriodBlock)
			assert.Equal(t, tc.wantRemaining, f.owed(t, 4, alice))
			assert.Equal(t, tc.wantNext, f.owed(t, 6, alice))

			paid, err := f.bank.Balance(f.db, alice)
			require.NoError(t, err)
			assert.Equal(t, tc.claim, paid)
			treasury, err := f.bank.Balance(f.db, TreasuryAddress())
			require.NoError(t, err)
			assert.Equal(t, 1e6-tc.claim, treasury)
		})
	}
}

func TestClaimWithoutWeightsUsesUnitWeight(t *testing.T) {
	alice := ledgertest.RandomAddr(t)
	f := newFixture(t, Genesis{
		Periodicity:   10,
		BasePayment:   1000,
		Beneficiaries: []GenesisBeneficiary{{Address: alice}},
	}, 0, 1e6)

	// Weight sum of 1 pays one percent of the base payment.
	assert.Equal(t, uint64(0), f.owed(t, 9, alice))
	assert.Equal(t, uint64(10), f.owed(t, 10, alice))
	assert.Equal(t, uint64(30), f.owed(t, 35, alice))
}

func TestClaimFailures(t *testing.T) {
	alice := ledgertest.RandomAddr(t)
	gen := Genesis{
		Periodicity:   5,
		BasePayment:   1000,
		Multipliers:   []string{"base"},
		Beneficiaries: []GenesisBeneficiary{{Address: alice, Weights: weights(1, 100)}},
	}

	cases := map[string]struct {
		treasury uint64
		prepare  func(t *testing.T, f *fixture)
		cash     CashController
		addr     ledger.Address
		amount   uint64
		wantErr  *errors.Error
	}{
		"unknown beneficiary": {
			treasury: 1e6,
			addr:     ledgertest.RandomAddr(t),
			wantErr:  ErrAccountNotFound,
		},
		"paused": {
			treasury: 1e6,
			prepare: func(t *testing.T, f *fixture) {
				require.NoError(t, f.ctrl.Pause(f.db, 3))
			},
			addr:    alice,
			amount:  1000,
			wantErr: ErrContractIsPaused,
		},
		"treasury too poor": {
			treasury: 999,
			addr:     alice,
			amount:   1000,
			wantErr:  ErrNotEnoughBalanceInTreasury,
		},
		"transfer failure": {
			cash:    failingCash{balance: 1e6},
			addr:    alice,
			amount:  1000,
			wantErr: ErrTransferFailed,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(t, gen, 1, tc.treasury)
			if tc.prepare != nil {
				tc.prepare(t, f)
			}
			ctrl := f.ctrl
			if tc.cash != nil {
				ctrl = NewController(tc.cash)
			}

			before := dump(t, f.db)
			cache := f.db.CacheWrap()
			_, err := ctrl.Claim(cache, 6, tc.addr, tc.amount)
			require.True(t, tc.wantErr.Is(err), "unexpected error: %+v", err)
			cache.Discard()
			assert.Equal(t, before, dump(t, f.db))
		})
	}
}

func TestTransferFailureRollsBackEverything(t *testing.T) {
	alice := ledgertest.RandomAddr(t)
	f := newFixture(t, Genesis{
		Periodicity:   5,
		BasePayment:   1000,
		Beneficiaries: []GenesisBeneficiary{{Address: alice}},
	}, 1, 0)
	ctrl := NewController(failingCash{balance: 1e6})

	before := dump(t, f.db)
	cache := f.db.CacheWrap()
	_, err := ctrl.Claim(cache, 11, alice, 5)
	require.True(t, ErrTransferFailed.Is(err))

	// The beneficiary and the settlement were written before the transfer
	// failed, only discarding the cache restores the state.
	b, err := ctrl.Beneficiary(cache, alice)
	require.NoError(t, err)
	assert.Equal(t, int64(11), b.LastUpdatedPeriodBlock)

	cache.Discard()
	assert.Equal(t, before, dump(t, f.db))
	assert.Equal(t, int64(1), f.beneficiary(t, alice).LastUpdatedPeriodBlock)
}

func TestSettlementGuard(t *testing.T) {
	alice := ledgertest.RandomAddr(t)
	bob := ledgertest.RandomAddr(t)
	f := newFixture(t, Genesis{
		Periodicity: 2,
		BasePayment: 1000,
		Beneficiaries: []GenesisBeneficiary{
			{Address: alice},
			{Address: bob},
		},
	}, 1, 1e6)

	// Nothing could accrue during the genesis period.
	require.NoError(t, f.ctrl.EnsureSettled(f.db, 2))
	require.NoError(t, f.ctrl.UpdateBasePayment(f.db, 2, 2000))

	err := f.ctrl.UpdateBasePayment(f.db, 3, 3000)
	require.True(t, ErrNotAllClaimedInPeriod.Is(err), "unexpected error: %+v", err)

	_, err = f.ctrl.Claim(f.db, 3, alice, 0)
	require.NoError(t, err)
	unclaimed, err := f.ctrl.UnclaimedBeneficiaries(f.db, 3)
	require.NoError(t, err)
	assert.Equal(t, []ledger.Address{bob}, unclaimed)

	// Settling twice does not count as two beneficiaries.
	_, err = f.ctrl.Claim(f.db, 4, alice, 0)
	require.NoError(t, err)
	err = f.ctrl.UpdateBasePayment(f.db, 4, 3000)
	require.True(t, ErrNotAllClaimedInPeriod.Is(err), "unexpected error: %+v", err)

	_, err = f.ctrl.Claim(f.db, 4, bob, 0)
	require.NoError(t, err)
	require.NoError(t, f.ctrl.UpdateBasePayment(f.db, 4, 3000))
	require.NoError(t, f.ctrl.UpdatePeriodicity(f.db, 4, 4))

	conf, err := f.ctrl.Configuration(f.db)
	require.NoError(t, err)
	assert.Equal(t, uint64(3000), conf.BasePayment)
	assert.Equal(t, int64(4), conf.Periodicity)

	// A new period requires a new settlement.
	unclaimed, err = f.ctrl.UnclaimedBeneficiaries(f.db, 5)
	require.NoError(t, err)
	assert.Equal(t, []ledger.Address{alice, bob}, unclaimed)
	err = f.ctrl.UpdatePeriodicity(f.db, 5, 2)
	require.True(t, ErrNotAllClaimedInPeriod.Is(err), "unexpected error: %+v", err)

	assert.True(t, ErrInvalidParams.Is(f.ctrl.UpdateBasePayment(f.db, 5, 0)))
	assert.True(t, ErrInvalidParams.Is(f.ctrl.UpdatePeriodicity(f.db, 5, 0)))
}

func TestMultiplierLifecycle(t *testing.T) {
	alice := ledgertest.RandomAddr(t)
	f := newFixture(t, Genesis{
		Periodicity:   10,
		BasePayment:   1000,
		Multipliers:   []string{"seniority", "bonus"},
		Beneficiaries: []GenesisBeneficiary{{Address: alice, Weights: weights(1, 100, 2, 50)}},
	}, 1, 1e6)

	assert.True(t, ErrMultiplierNotFound.Is(f.ctrl.DeactivateMultiplier(f.db, 5, 99)))
	assert.True(t, ErrMultiplierNotFound.Is(f.ctrl.DeleteMultiplier(f.db, 5, 99)))
	assert.True(t, ErrMultiplierNotDeactivated.Is(f.ctrl.DeleteMultiplier(f.db, 5, 2)))

	require.NoError(t, f.ctrl.DeactivateMultiplier(f.db, 5, 2))
	m, err := f.ctrl.Multiplier(f.db, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(11), m.ValidUntilBlock)
	assert.True(t, ErrMultiplierAlreadyDeactivated.Is(f.ctrl.DeactivateMultiplier(f.db, 6, 2)))
	assert.True(t, ErrMultiplierNotExpired.Is(f.ctrl.DeleteMultiplier(f.db, 10, 2)))

	// A deactivated multiplier cannot be assigned anymore.
	err = f.ctrl.RegisterBeneficiary(f.db, 7, ledgertest.RandomAddr(t), weights(2, 10))
	assert.True(t, ErrMultiplierAlreadyDeactivated.Is(err))

	// Expired, but alice did not settle the period yet.
	err = f.ctrl.DeleteMultiplier(f.db, 11, 2)
	require.True(t, ErrNotAllClaimedInPeriod.Is(err), "unexpected error: %+v", err)

	// The expired weight no longer counts and is swept by the claim.
	assert.Equal(t, uint64(1000), f.owed(t, 11, alice))
	remaining, err := f.ctrl.Claim(f.db, 11, alice, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), remaining)
	assert.Equal(t, weights(1, 100), f.beneficiary(t, alice).Weights)

	require.NoError(t, f.ctrl.DeleteMultiplier(f.db, 11, 2))
	_, err = f.ctrl.Multiplier(f.db, 2)
	assert.True(t, ErrMultiplierNotFound.Is(err))

	all, err := f.ctrl.Multipliers(f.db)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "seniority", all[0].Name)
}

func TestAmountToClaimMatchesClaimAfterDeactivation(t *testing.T) {
	cases := map[string]struct {
		height   int64
		wantOwed uint64
	}{
		"deactivated, counts until 30": {
			height:   27,
			wantOwed: 2 * 1500,
		},
		"expired": {
			height:   35,
			wantOwed: 3 * 1000,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			alice := ledgertest.RandomAddr(t)
			f := newFixture(t, Genesis{
				Periodicity:   10,
				BasePayment:   1000,
				Multipliers:   []string{"seniority", "bonus"},
				Beneficiaries: []GenesisBeneficiary{{Address: alice, Weights: weights(1, 100, 2, 50)}},
			}, 0, 1e6)

			// alice last settled at genesis, two periods before
			require.NoError(t, f.ctrl.DeactivateMultiplier(f.db, 25, 2))
			assert.Equal(t, int64(0), f.beneficiary(t, alice).LastUpdatedPeriodBlock)

			owed, err := f.ctrl.AmountToClaim(f.db, tc.height, alice)
			require.NoError(t, err)
			assert.Equal(t, tc.wantOwed, owed)

			remaining, err := f.ctrl.Claim(f.db, tc.height, alice, owed)
			require.NoError(t, err)
			assert.Equal(t, uint64(0), remaining)
			paid, err := f.bank.Balance(f.db, alice)
			require.NoError(t, err)
			assert.Equal(t, owed, paid)
		})
	}
}

func TestAddMultiplier(t *testing.T) {
	f := newFixture(t, Genesis{Periodicity: 10, BasePayment: 100}, 0, 0)

	for i := 1; i <= MaxMultipliers; i++ {
		id, err := f.ctrl.AddMultiplier(f.db, "multiplier")
		require.NoError(t, err)
		require.Equal(t, uint64(i), id)
	}
	_, err := f.ctrl.AddMultiplier(f.db, "one too many")
	assert.True(t, ErrMaxMultipliersExceeded.Is(err))

	_, err = f.ctrl.AddMultiplier(f.db, "")
	assert.True(t, ErrInvalidParams.Is(err))
}

func TestRegisterBeneficiary(t *testing.T) {
	existing := ledgertest.RandomAddr(t)
	gen := Genesis{
		Periodicity:   10,
		BasePayment:   100,
		Multipliers:   []string{"a", "b"},
		Beneficiaries: []GenesisBeneficiary{{Address: existing}},
	}

	tooMany := make([]uint64, 0, 2*(MaxMultipliers+1))
	for i := 1; i <= MaxMultipliers+1; i++ {
		tooMany = append(tooMany, uint64(i), 1)
	}

	cases := map[string]struct {
		addr    ledger.Address
		weights []*WeightEntry
		wantErr *errors.Error
	}{
		"no weights":            {addr: ledgertest.RandomAddr(t)},
		"valid weights":         {addr: ledgertest.RandomAddr(t), weights: weights(2, 30, 1, 10)},
		"already registered":    {addr: existing, wantErr: ErrAccountAlreadyExists},
		"unknown multiplier":    {addr: ledgertest.RandomAddr(t), weights: weights(3, 10), wantErr: ErrMultiplierNotFound},
		"duplicated multiplier": {addr: ledgertest.RandomAddr(t), weights: weights(1, 10, 1, 20), wantErr: ErrDuplicatedMultipliers},
		"too many weights":      {addr: ledgertest.RandomAddr(t), weights: weights(tooMany...), wantErr: ErrInvalidMultipliersLength},
		"zero weight":           {addr: ledgertest.RandomAddr(t), weights: weights(1, 0), wantErr: ErrInvalidParams},
		"invalid address":       {addr: ledger.Address("short"), wantErr: ErrInvalidParams},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(t, gen, 0, 0)
			before := dump(t, f.db)

			err := f.ctrl.RegisterBeneficiary(f.db, 25, tc.addr, tc.weights)
			if tc.wantErr != nil {
				require.True(t, tc.wantErr.Is(err), "unexpected error: %+v", err)
				assert.Equal(t, before, dump(t, f.db))
				return
			}
			require.NoError(t, err)

			b := f.beneficiary(t, tc.addr)
			assert.Equal(t, int64(20), b.LastUpdatedPeriodBlock)
			assert.Equal(t, uint64(0), b.UnclaimedPayments)
			assert.Equal(t, sortWeights(tc.weights), b.Weights)

			all, err := f.ctrl.Beneficiaries(f.db)
			require.NoError(t, err)
			assert.Equal(t, []ledger.Address{existing, tc.addr}, all)
		})
	}
}

func TestMaxBeneficiaries(t *testing.T) {
	beneficiaries := make([]GenesisBeneficiary, MaxBeneficiaries+1)
	for i := range beneficiaries {
		beneficiaries[i] = GenesisBeneficiary{Address: ledgertest.RandomAddr(t)}
	}

	// Genesis accepts the 100th but not the 101st beneficiary.
	f := newFixture(t, Genesis{Periodicity: 10, BasePayment: 100, Beneficiaries: beneficiaries[:MaxBeneficiaries]}, 0, 0)
	err := initGenesis(store.MemStore(), Genesis{
		Owner:         f.owner.Address(),
		Periodicity:   10,
		BasePayment:   100,
		Beneficiaries: beneficiaries,
	}, 0)
	assert.True(t, ErrMaxBeneficiariesExceeded.Is(err), "unexpected error: %+v", err)

	// Registration accepts the 100th but not the 101st beneficiary.
	f = newFixture(t, Genesis{Periodicity: 10, BasePayment: 100, Beneficiaries: beneficiaries[:MaxBeneficiaries-1]}, 0, 0)
	require.NoError(t, f.ctrl.RegisterBeneficiary(f.db, 1, beneficiaries[MaxBeneficiaries-1].Address, nil))
	err = f.ctrl.RegisterBeneficiary(f.db, 1, beneficiaries[MaxBeneficiaries].Address, nil)
	assert.True(t, ErrMaxBeneficiariesExceeded.Is(err), "unexpected error: %+v", err)
}

func TestUpdateBeneficiaryPreservesOwed(t *testing.T) {
	alice := ledgertest.RandomAddr(t)
	f := newFixture(t, Genesis{
		Periodicity:   10,
		BasePayment:   1000,
		Multipliers:   []string{"a", "b"},
		Beneficiaries: []GenesisBeneficiary{{Address: alice, Weights: weights(1, 100)}},
	}, 1, 0)

	require.Equal(t, uint64(2000), f.owed(t, 25, alice))
	require.NoError(t, f.ctrl.UpdateBeneficiary(f.db, 25, alice, weights(1, 100, 2, 100)))

	b := f.beneficiary(t, alice)
	assert.Equal(t, uint64(2000), b.UnclaimedPayments)
	assert.Equal(t, int64(21), b.LastUpdatedPeriodBlock)
	assert.Equal(t, uint64(2000), f.owed(t, 30, alice))
	assert.Equal(t, uint64(4000), f.owed(t, 31, alice))

	err := f.ctrl.UpdateBeneficiary(f.db, 25, ledgertest.RandomAddr(t), nil)
	assert.True(t, ErrAccountNotFound.Is(err))
	err = f.ctrl.UpdateBeneficiary(f.db, 25, alice, weights(5, 1))
	assert.True(t, ErrMultiplierNotFound.Is(err))
}

func TestRemoveBeneficiaryKeepsOrder(t *testing.T) {
	addrs := []ledger.Address{
		ledgertest.RandomAddr(t),
		ledgertest.RandomAddr(t),
		ledgertest.RandomAddr(t),
		ledgertest.RandomAddr(t),
	}
	gen := Genesis{Periodicity: 10, BasePayment: 100}
	for _, a := range addrs {
		gen.Beneficiaries = append(gen.Beneficiaries, GenesisBeneficiary{Address: a})
	}
	f := newFixture(t, gen, 0, 0)

	require.NoError(t, f.ctrl.RemoveBeneficiary(f.db, addrs[1]))
	all, err := f.ctrl.Beneficiaries(f.db)
	require.NoError(t, err)
	assert.Equal(t, []ledger.Address{addrs[0], addrs[2], addrs[3]}, all)

	_, err = f.ctrl.Beneficiary(f.db, addrs[1])
	assert.True(t, ErrAccountNotFound.Is(err))
	assert.True(t, ErrAccountNotFound.Is(f.ctrl.RemoveBeneficiary(f.db, addrs[1])))

	// The address can be registered again, at the end of the index.
	require.NoError(t, f.ctrl.RegisterBeneficiary(f.db, 3, addrs[1], nil))
	all, err = f.ctrl.Beneficiaries(f.db)
	require.NoError(t, err)
	assert.Equal(t, []ledger.Address{addrs[0], addrs[2], addrs[3], addrs[1]}, all)
}

func TestPauseAndOwnership(t *testing.T) {
	f := newFixture(t, Genesis{Periodicity: 10, BasePayment: 100}, 0, 0)

	require.NoError(t, f.ctrl.Resume(f.db))
	require.NoError(t, f.ctrl.Pause(f.db, 4))
	require.NoError(t, f.ctrl.Pause(f.db, 8))
	conf, err := f.ctrl.Configuration(f.db)
	require.NoError(t, err)
	assert.Equal(t, int64(4), conf.PausedBlockAt)
	require.NoError(t, f.ctrl.Resume(f.db))
	require.NoError(t, f.ctrl.Resume(f.db))
	conf, err = f.ctrl.Configuration(f.db)
	require.NoError(t, err)
	assert.False(t, conf.IsPaused())

	nominee := ledgertest.RandomAddr(t)
	assert.True(t, ErrNotOwner.Is(f.ctrl.AcceptOwnership(f.db, nominee)))
	require.NoError(t, f.ctrl.TransferOwnership(f.db, nominee))
	conf, err = f.ctrl.Configuration(f.db)
	require.NoError(t, err)
	assert.Equal(t, f.owner.Address(), conf.Owner)

	assert.True(t, ErrNotOwner.Is(f.ctrl.AcceptOwnership(f.db, ledgertest.RandomAddr(t))))
	require.NoError(t, f.ctrl.AcceptOwnership(f.db, nominee))
	conf, err = f.ctrl.Configuration(f.db)
	require.NoError(t, err)
	assert.Equal(t, nominee, conf.Owner)
	assert.Empty(t, conf.PendingOwner)
}

func TestTotalDebts(t *testing.T) {
	alice := ledgertest.RandomAddr(t)
	bob := ledgertest.RandomAddr(t)
	f := newFixture(t, Genesis{
		Periodicity: 10,
		BasePayment: 1000,
		Multipliers: []string{"a"},
		Beneficiaries: []GenesisBeneficiary{
			{Address: alice, Weights: weights(1, 100)},
			{Address: bob, Weights: weights(1, 50)},
		},
	}, 0, 1e6)

	debts, err := f.ctrl.TotalDebts(f.db, 25)
	require.NoError(t, err)
	assert.Equal(t, uint64(2000+1000), debts)

	_, err = f.ctrl.Claim(f.db, 25, alice, 1500)
	require.NoError(t, err)
	debts, err = f.ctrl.TotalDebts(f.db, 25)
	require.NoError(t, err)
	assert.Equal(t, uint64(500+1000), debts)
}

func TestOwedOverflow(t *testing.T) {
	alice := ledgertest.RandomAddr(t)
	f := newFixture(t, Genesis{
		Periodicity:   1,
		BasePayment:   ^uint64(0),
		Multipliers:   []string{"a"},
		Beneficiaries: []GenesisBeneficiary{{Address: alice, Weights: weights(1, 1000)}},
	}, 0, 0)

	_, err := f.ctrl.AmountToClaim(f.db, 1, alice)
	assert.True(t, errors.ErrOverflow.Is(err), "unexpected error: %+v", err)
}
