package payroll

import (
	"bytes"
	"sort"

	ledger "github.com/iov-one/openpayroll"
	"github.com/iov-one/openpayroll/errors"
	"github.com/iov-one/openpayroll/gconf"
	"github.com/iov-one/openpayroll/orm"
)

const (
	// MaxBeneficiaries is the upper bound of registered beneficiaries.
	MaxBeneficiaries = 100
	// MaxMultipliers is the upper bound of existing multipliers and of
	// the weights assigned to a single beneficiary.
	MaxMultipliers = 10

	maxMultiplierNameLength = 64

	confPkg = "payroll"
)

// singletonKey is the key of records that exist at most once.
var singletonKey = []byte("singleton")

// TreasuryAddress returns the address holding the payroll funds. Nobody
// holds a key for it, so only this extension can move the funds.
func TreasuryAddress() ledger.Address {
	return ledger.NewCondition("payroll", "treasury", []byte(confPkg)).Address()
}

// Validate ensures the configuration is consistent.
func (c *Configuration) Validate() error {
	if err := c.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if err := c.Owner.Validate(); err != nil {
		return errors.Wrap(ErrInvalidParams, "owner")
	}
	if len(c.PendingOwner) != 0 {
		if err := c.PendingOwner.Validate(); err != nil {
			return errors.Wrap(ErrInvalidParams, "pending owner")
		}
	}
	if err := c.Treasury.Validate(); err != nil {
		return errors.Wrap(ErrInvalidParams, "treasury")
	}
	if c.Periodicity <= 0 {
		return errors.Wrap(ErrInvalidParams, "periodicity must be positive")
	}
	if c.BasePayment == 0 {
		return errors.Wrap(ErrInvalidParams, "base payment must be positive")
	}
	if c.InitialBlock < 0 {
		return errors.Wrap(ErrInvalidParams, "negative initial block")
	}
	if c.PausedBlockAt < 0 {
		return errors.Wrap(ErrInvalidParams, "negative paused block")
	}
	return nil
}

// IsPaused returns true if claims are suspended.
func (c *Configuration) IsPaused() bool {
	return c.PausedBlockAt != 0
}

// LoadConfiguration returns the payroll configuration.
func LoadConfiguration(db gconf.ReadStore) (*Configuration, error) {
	var conf Configuration
	if err := gconf.Load(db, confPkg, &conf); err != nil {
		return nil, errors.Wrap(err, "payroll configuration")
	}
	return &conf, nil
}

// Validate ensures the beneficiary is consistent.
func (b *Beneficiary) Validate() error {
	if err := b.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if err := b.Address.Validate(); err != nil {
		return errors.Wrap(err, "address")
	}
	if b.LastUpdatedPeriodBlock < 0 {
		return errors.Wrap(errors.ErrModel, "negative last updated period block")
	}
	return validateWeights(b.Weights)
}

// validateWeights performs the stateless checks of a weight list.
func validateWeights(weights []*WeightEntry) error {
	if len(weights) > MaxMultipliers {
		return errors.Wrapf(ErrInvalidMultipliersLength, "%d weights, max %d", len(weights), MaxMultipliers)
	}
	seen := make(map[uint64]struct{}, len(weights))
	for i, w := range weights {
		if w == nil {
			return errors.Wrapf(ErrInvalidParams, "weight #%d missing", i)
		}
		if w.MultiplierID == 0 {
			return errors.Wrapf(ErrMultiplierNotFound, "weight #%d: zero multiplier id", i)
		}
		if w.Weight == 0 {
			return errors.Wrapf(ErrInvalidParams, "weight #%d: zero weight", i)
		}
		if _, ok := seen[w.MultiplierID]; ok {
			return errors.Wrapf(ErrDuplicatedMultipliers, "multiplier %d", w.MultiplierID)
		}
		seen[w.MultiplierID] = struct{}{}
	}
	return nil
}

// sortWeights returns a copy of the weights ordered by multiplier id.
func sortWeights(weights []*WeightEntry) []*WeightEntry {
	if len(weights) == 0 {
		return nil
	}
	out := make([]*WeightEntry, len(weights))
	for i, w := range weights {
		cpy := *w
		out[i] = &cpy
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MultiplierID < out[j].MultiplierID })
	return out
}

// Validate ensures the multiplier is consistent.
func (m *Multiplier) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if m.ID == 0 {
		return errors.Wrap(errors.ErrModel, "missing id")
	}
	if err := validateMultiplierName(m.Name); err != nil {
		return err
	}
	if m.ValidUntilBlock < 0 {
		return errors.Wrap(errors.ErrModel, "negative valid until block")
	}
	return nil
}

func validateMultiplierName(name string) error {
	if name == "" {
		return errors.Wrap(ErrInvalidParams, "empty multiplier name")
	}
	if len(name) > maxMultiplierNameLength {
		return errors.Wrap(ErrInvalidParams, "multiplier name too long")
	}
	return nil
}

// IsDeactivated returns true if the multiplier expiration was scheduled.
func (m *Multiplier) IsDeactivated() bool {
	return m.ValidUntilBlock != 0
}

// IsExpired returns true if the multiplier no longer counts at given
// block.
func (m *Multiplier) IsExpired(at int64) bool {
	return m.IsDeactivated() && m.ValidUntilBlock <= at
}

// Validate ensures the settlement tally is consistent.
func (c *ClaimsInPeriod) Validate() error {
	if err := c.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if c.Period < 0 {
		return errors.Wrap(errors.ErrModel, "negative period")
	}
	if c.TotalClaims != uint64(len(c.Settled)) {
		return errors.Wrap(errors.ErrModel, "total claims does not match settled beneficiaries")
	}
	return nil
}

// HasSettled returns true if given address settled the tracked period.
func (c *ClaimsInPeriod) HasSettled(addr ledger.Address) bool {
	return containsAddress(c.Settled, addr)
}

// Validate ensures the index is consistent.
func (i *BeneficiaryIndex) Validate() error {
	if err := i.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if len(i.Addresses) > MaxBeneficiaries {
		return errors.Wrap(ErrMaxBeneficiariesExceeded, "index")
	}
	for n, a := range i.Addresses {
		if err := ledger.Address(a).Validate(); err != nil {
			return errors.Wrapf(err, "address #%d", n)
		}
		if containsAddress(i.Addresses[:n], a) {
			return errors.Wrapf(ErrDuplicatedBeneficiaries, "address #%d", n)
		}
	}
	return nil
}

// position returns the index of given address or -1.
func (i *BeneficiaryIndex) position(addr ledger.Address) int {
	for n, a := range i.Addresses {
		if bytes.Equal(a, addr) {
			return n
		}
	}
	return -1
}

func containsAddress(list [][]byte, addr []byte) bool {
	for _, a := range list {
		if bytes.Equal(a, addr) {
			return true
		}
	}
	return false
}

// NewBeneficiaryBucket returns a bucket keeping beneficiaries by address.
func NewBeneficiaryBucket() orm.ModelBucket {
	return orm.NewModelBucket("benef", &Beneficiary{})
}

// NewMultiplierBucket returns a bucket keeping multipliers by their
// sequence encoded id, in creation order.
func NewMultiplierBucket() orm.ModelBucket {
	return orm.NewModelBucket("multip", &Multiplier{})
}

var multiplierSeq = orm.NewSequence("multip", "id")

func newIndexBucket() orm.ModelBucket {
	return orm.NewModelBucket("benefidx", &BeneficiaryIndex{})
}

func newClaimsBucket() orm.ModelBucket {
	return orm.NewModelBucket("claims", &ClaimsInPeriod{})
}

// multiplierKey returns the primary key of the multiplier with given id.
func multiplierKey(id uint64) []byte {
	return orm.EncodeSequence(int64(id))
}
