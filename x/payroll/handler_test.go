package payroll

import (
	"context"
	"testing"

	"github.com/gogo/protobuf/proto"
	ledger "github.com/iov-one/openpayroll"
	"github.com/iov-one/openpayroll/errors"
	"github.com/iov-one/openpayroll/ledgertest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// routes is a minimal ledger.Registry.
type routes map[string]ledger.Handler

func (r routes) Handle(path string, h ledger.Handler) {
	r[path] = h
}

func TestHandlers(t *testing.T) {
	alice := ledgertest.RandomAddr(t)
	stranger := ledgertest.NewCondition()
	nominee := ledgertest.NewCondition()
	meta := &ledger.Metadata{Schema: 1}

	cases := map[string]struct {
		signer      func(f *fixture) ledger.Condition
		prepare     func(t *testing.T, f *fixture)
		msg         ledger.Msg
		wantErr     *errors.Error
		// Stateful failures are detected on delivery only.
		deliverOnly bool
		wantData    []byte
		postCheck   func(t *testing.T, f *fixture, res *ledger.DeliverResult)
	}{
		"owner adds a multiplier": {
			msg:      &AddMultiplierMsg{Metadata: meta, Name: "overtime"},
			wantData: ledgertest.SequenceID(2),
		},
		"stranger cannot add a multiplier": {
			signer:  func(*fixture) ledger.Condition { return stranger },
			msg:     &AddMultiplierMsg{Metadata: meta, Name: "overtime"},
			wantErr: ErrNotOwner,
		},
		"owner registers a beneficiary": {
			msg: &RegisterBeneficiaryMsg{Metadata: meta, Address: ledgertest.RandomAddr(t), Weights: weights(1, 10)},
			postCheck: func(t *testing.T, f *fixture, _ *ledger.DeliverResult) {
				all, err := f.ctrl.Beneficiaries(f.db)
				require.NoError(t, err)
				assert.Len(t, all, 2)
			},
		},
		"invalid message is rejected": {
			msg:     &RegisterBeneficiaryMsg{Metadata: meta, Address: ledgertest.RandomAddr(t), Weights: weights(1, 10, 1, 20)},
			wantErr: ErrDuplicatedMultipliers,
		},
		"missing metadata is rejected": {
			msg:     &PauseMsg{},
			wantErr: errors.ErrModel,
		},
		"base payment update waits for the settlement": {
			msg:         &UpdateBasePaymentMsg{Metadata: meta, BasePayment: 5},
			wantErr:     ErrNotAllClaimedInPeriod,
			deliverOnly: true,
		},
		"stranger cannot pause": {
			signer:  func(*fixture) ledger.Condition { return stranger },
			msg:     &PauseMsg{Metadata: meta},
			wantErr: ErrNotOwner,
		},
		"owner updates the base payment once everyone settled": {
			prepare: func(t *testing.T, f *fixture) {
				_, err := f.ctrl.Claim(f.db, 11, alice, 0)
				require.NoError(t, err)
			},
			msg: &UpdateBasePaymentMsg{Metadata: meta, BasePayment: 5},
			postCheck: func(t *testing.T, f *fixture, _ *ledger.DeliverResult) {
				conf, err := f.ctrl.Configuration(f.db)
				require.NoError(t, err)
				assert.Equal(t, uint64(5), conf.BasePayment)
			},
		},
		"anyone can claim for a beneficiary": {
			signer: func(*fixture) ledger.Condition { return stranger },
			msg:    &ClaimMsg{Metadata: meta, Address: alice, Amount: 400},
			postCheck: func(t *testing.T, f *fixture, res *ledger.DeliverResult) {
				var remaining AmountResponse
				require.NoError(t, proto.Unmarshal(res.Data, &remaining))
				assert.Equal(t, uint64(600), remaining.Amount)
				paid, err := f.bank.Balance(f.db, alice)
				require.NoError(t, err)
				assert.Equal(t, uint64(400), paid)
			},
		},
		"claim while paused": {
			prepare: func(t *testing.T, f *fixture) {
				require.NoError(t, f.ctrl.Pause(f.db, 2))
			},
			msg:     &ClaimMsg{Metadata: meta, Address: alice, Amount: 1},
			wantErr: ErrContractIsPaused,
		},
		"nominee accepts the ownership": {
			prepare: func(t *testing.T, f *fixture) {
				require.NoError(t, f.ctrl.TransferOwnership(f.db, nominee.Address()))
			},
			signer: func(*fixture) ledger.Condition { return nominee },
			msg:    &AcceptOwnershipMsg{Metadata: meta},
			postCheck: func(t *testing.T, f *fixture, _ *ledger.DeliverResult) {
				conf, err := f.ctrl.Configuration(f.db)
				require.NoError(t, err)
				assert.Equal(t, nominee.Address(), conf.Owner)
			},
		},
		"owner cannot accept for the nominee": {
			prepare: func(t *testing.T, f *fixture) {
				require.NoError(t, f.ctrl.TransferOwnership(f.db, nominee.Address()))
			},
			msg:     &AcceptOwnershipMsg{Metadata: meta},
			wantErr: ErrNotOwner,
		},
		"nobody can accept without a nomination": {
			signer:  func(*fixture) ledger.Condition { return nominee },
			msg:     &AcceptOwnershipMsg{Metadata: meta},
			wantErr: ErrNotOwner,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(t, Genesis{
				Periodicity:   10,
				BasePayment:   1000,
				Multipliers:   []string{"base"},
				Beneficiaries: []GenesisBeneficiary{{Address: alice, Weights: weights(1, 100)}},
			}, 1, 1e6)
			if tc.prepare != nil {
				tc.prepare(t, f)
			}
			signer := f.owner
			if tc.signer != nil {
				signer = tc.signer(f)
			}

			rt := routes{}
			RegisterRoutes(rt, &ledgertest.Auth{Signer: signer}, f.bank)
			h, ok := rt[tc.msg.Path()]
			require.True(t, ok, "no handler for %q", tc.msg.Path())

			ctx := ledger.WithHeight(context.Background(), 11)
			tx := &ledgertest.Tx{Msg: tc.msg}

			_, err := h.Check(ctx, f.db, tx)
			if tc.wantErr != nil && !tc.deliverOnly {
				require.True(t, tc.wantErr.Is(err), "unexpected check error: %+v", err)
			} else {
				require.NoError(t, err)
			}

			res, err := h.Deliver(ctx, f.db, tx)
			if tc.wantErr != nil {
				require.True(t, tc.wantErr.Is(err), "unexpected deliver error: %+v", err)
				return
			}
			require.NoError(t, err)
			if tc.wantData != nil {
				assert.Equal(t, tc.wantData, res.Data)
			}
			if tc.postCheck != nil {
				tc.postCheck(t, f, res)
			}
		})
	}
}

func TestDeliverRequiresHeight(t *testing.T) {
	f := newFixture(t, Genesis{Periodicity: 10, BasePayment: 1000}, 1, 0)
	rt := routes{}
	RegisterRoutes(rt, &ledgertest.Auth{Signer: f.owner}, f.bank)

	tx := &ledgertest.Tx{Msg: &PauseMsg{Metadata: &ledger.Metadata{Schema: 1}}}
	_, err := rt[pathPause].Deliver(context.Background(), f.db, tx)
	assert.True(t, errors.ErrHuman.Is(err))
}
