package payroll

import (
	"github.com/gogo/protobuf/proto"
	ledger "github.com/iov-one/openpayroll"
	"github.com/iov-one/openpayroll/errors"
	"github.com/iov-one/openpayroll/gconf"
)

// RegisterQuery exposes the payroll state and the derived values.
//
// The query context carries the last committed height. Derived values
// (amount, debts, unclaimed, period, next_period) are computed for the
// block after it, the earliest block a claim sent now can execute in.
func RegisterQuery(qr ledger.QueryRouter) {
	ctrl := NewController(nil)

	NewBeneficiaryBucket().Register("beneficiaries", qr)
	NewMultiplierBucket().Register("multipliers", qr)
	qr.Register("/payroll/config", gconf.NewQueryHandler(confPkg))

	qr.Register("/payroll/amount", queryHandler{
		key: []byte("amount"),
		run: func(db ledger.ReadOnlyKVStore, now int64, data []byte) (proto.Message, error) {
			amount, err := ctrl.AmountToClaim(db, now, data)
			if err != nil {
				return nil, err
			}
			return &AmountResponse{Amount: amount}, nil
		},
	})
	qr.Register("/payroll/debts", queryHandler{
		key: []byte("debts"),
		run: func(db ledger.ReadOnlyKVStore, now int64, _ []byte) (proto.Message, error) {
			amount, err := ctrl.TotalDebts(db, now)
			if err != nil {
				return nil, err
			}
			return &AmountResponse{Amount: amount}, nil
		},
	})
	qr.Register("/payroll/unclaimed", queryHandler{
		key: []byte("unclaimed"),
		run: func(db ledger.ReadOnlyKVStore, now int64, _ []byte) (proto.Message, error) {
			addrs, err := ctrl.UnclaimedBeneficiaries(db, now)
			if err != nil {
				return nil, err
			}
			res := &AddressesResponse{Addresses: make([][]byte, len(addrs))}
			for i, a := range addrs {
				res.Addresses[i] = a
			}
			return res, nil
		},
	})
	qr.Register("/payroll/period", queryHandler{
		key: []byte("period"),
		run: func(db ledger.ReadOnlyKVStore, now int64, _ []byte) (proto.Message, error) {
			h, err := ctrl.CurrentPeriodStart(db, now)
			if err != nil {
				return nil, err
			}
			return &HeightResponse{Height: h}, nil
		},
	})
	qr.Register("/payroll/next_period", queryHandler{
		key: []byte("next_period"),
		run: func(db ledger.ReadOnlyKVStore, now int64, _ []byte) (proto.Message, error) {
			h, err := ctrl.NextPeriodStart(db, now)
			if err != nil {
				return nil, err
			}
			return &HeightResponse{Height: h}, nil
		},
	})
}

// queryHandler returns a single encoded response computed from the
// current state.
type queryHandler struct {
	key []byte
	run func(db ledger.ReadOnlyKVStore, now int64, data []byte) (proto.Message, error)
}

var _ ledger.QueryHandler = queryHandler{}

func (h queryHandler) Query(ctx ledger.Context, db ledger.ReadOnlyKVStore, mod string, data []byte) ([]ledger.Model, error) {
	if mod != ledger.KeyQueryMod {
		return nil, errors.Wrapf(errors.ErrInput, "unknown mod: %s", mod)
	}
	committed, _ := ledger.GetHeight(ctx)
	res, err := h.run(db, committed+1, data)
	if err != nil {
		return nil, err
	}
	raw, err := proto.Marshal(res)
	if err != nil {
		return nil, errors.Wrap(errors.ErrModel, err.Error())
	}
	return []ledger.Model{ledger.Pair(h.key, raw)}, nil
}
