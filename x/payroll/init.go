package payroll

import (
	ledger "github.com/iov-one/openpayroll"
	"github.com/iov-one/openpayroll/errors"
	"github.com/iov-one/openpayroll/gconf"
)

const optKey = "payroll"

// Genesis is the payroll section of the genesis file.
type Genesis struct {
	Owner         ledger.Address       `json:"owner"`
	Periodicity   int64                `json:"periodicity"`
	BasePayment   uint64               `json:"base_payment"`
	Multipliers   []string             `json:"multipliers"`
	Beneficiaries []GenesisBeneficiary `json:"beneficiaries"`
}

// GenesisBeneficiary is a beneficiary registered at genesis. Multiplier
// ids are assigned in the order the multipliers are listed, starting
// with 1.
type GenesisBeneficiary struct {
	Address ledger.Address `json:"address"`
	Weights []*WeightEntry `json:"weights"`
}

// Initializer fulfils the Initializer interface to load data from
// the genesis file
type Initializer struct{}

var _ ledger.Initializer = Initializer{}

// FromGenesis configures the payroll. The genesis block height becomes
// the initial block all periods are aligned to.
func (Initializer) FromGenesis(ctx ledger.Context, opts ledger.Options, db ledger.KVStore) error {
	if _, ok := opts[optKey]; !ok {
		return nil
	}
	var gen Genesis
	if err := opts.ReadOptions(optKey, &gen); err != nil {
		return err
	}
	height, _ := ledger.GetHeight(ctx)

	conf := Configuration{
		Metadata:     &ledger.Metadata{Schema: 1},
		Owner:        gen.Owner,
		Periodicity:  gen.Periodicity,
		BasePayment:  gen.BasePayment,
		InitialBlock: height,
		Treasury:     TreasuryAddress(),
	}
	if err := gconf.Save(db, confPkg, &conf); err != nil {
		return errors.Wrap(err, "configuration")
	}

	if len(gen.Multipliers) > MaxMultipliers {
		return errors.Wrapf(ErrMaxMultipliersExceeded, "%d multipliers, max %d", len(gen.Multipliers), MaxMultipliers)
	}
	for n, b := range gen.Beneficiaries {
		for _, prev := range gen.Beneficiaries[:n] {
			if prev.Address.Equals(b.Address) {
				return errors.Wrapf(ErrDuplicatedBeneficiaries, "beneficiary #%d", n)
			}
		}
	}

	ctrl := NewController(nil)
	for n, name := range gen.Multipliers {
		if _, err := ctrl.AddMultiplier(db, name); err != nil {
			return errors.Wrapf(err, "multiplier #%d", n)
		}
	}
	for n, b := range gen.Beneficiaries {
		if err := ctrl.RegisterBeneficiary(db, height, b.Address, b.Weights); err != nil {
			return errors.Wrapf(err, "beneficiary #%d", n)
		}
	}
	return nil
}
