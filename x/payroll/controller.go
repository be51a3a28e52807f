package payroll

import (
	"github.com/holiman/uint256"
	ledger "github.com/iov-one/openpayroll"
	"github.com/iov-one/openpayroll/errors"
	"github.com/iov-one/openpayroll/gconf"
	"github.com/iov-one/openpayroll/orm"
)

// CashController is the transfer primitive payments are made with.
type CashController interface {
	Balance(ledger.ReadOnlyKVStore, ledger.Address) (uint64, error)
	MoveCoins(ledger.KVStore, ledger.Address, ledger.Address, uint64) error
}

// weightFilter selects the weights counted by owed.
type weightFilter int

const (
	// weightsAll counts every stored weight. Use it once expired weights
	// were swept out of the beneficiary.
	weightsAll weightFilter = iota
	// weightsActive skips weights of expired or missing multipliers.
	weightsActive
)

// Controller implements the payroll state transitions. Authorization is
// left to the handlers, every method assumes the caller is allowed to
// perform it. Methods validate everything before writing, but callers
// must still discard the store on error as a failed transfer happens
// after the beneficiary was updated.
type Controller struct {
	cash          CashController
	beneficiaries orm.ModelBucket
	multipliers   orm.ModelBucket
	index         orm.ModelBucket
	claims        orm.ModelBucket
}

// NewController returns a controller paying out with given cash
// controller.
func NewController(cash CashController) *Controller {
	return &Controller{
		cash:          cash,
		beneficiaries: NewBeneficiaryBucket(),
		multipliers:   NewMultiplierBucket(),
		index:         newIndexBucket(),
		claims:        newClaimsBucket(),
	}
}

// Configuration returns the current payroll configuration.
func (c *Controller) Configuration(db ledger.ReadOnlyKVStore) (*Configuration, error) {
	return LoadConfiguration(db)
}

// Beneficiary returns the beneficiary registered under given address.
func (c *Controller) Beneficiary(db ledger.ReadOnlyKVStore, addr ledger.Address) (*Beneficiary, error) {
	var b Beneficiary
	switch err := c.beneficiaries.One(db, addr, &b); {
	case err == nil:
		return &b, nil
	case errors.ErrNotFound.Is(err):
		return nil, errors.Wrapf(ErrAccountNotFound, "beneficiary %s", addr)
	default:
		return nil, err
	}
}

// Multiplier returns the multiplier with given id.
func (c *Controller) Multiplier(db ledger.ReadOnlyKVStore, id uint64) (*Multiplier, error) {
	var m Multiplier
	switch err := c.multipliers.One(db, multiplierKey(id), &m); {
	case err == nil:
		return &m, nil
	case errors.ErrNotFound.Is(err):
		return nil, errors.Wrapf(ErrMultiplierNotFound, "multiplier %d", id)
	default:
		return nil, err
	}
}

// Multipliers returns all multipliers in creation order.
func (c *Controller) Multipliers(db ledger.ReadOnlyKVStore) ([]*Multiplier, error) {
	it, err := c.multipliers.Iterate(db, nil)
	if err != nil {
		return nil, err
	}
	defer it.Release()

	var out []*Multiplier
	for {
		var m Multiplier
		switch _, err := it.LoadNext(&m); {
		case err == nil:
			out = append(out, &m)
		case errors.ErrIteratorDone.Is(err):
			return out, nil
		default:
			return nil, err
		}
	}
}

// Beneficiaries returns the addresses of all beneficiaries in the order
// they were registered.
func (c *Controller) Beneficiaries(db ledger.ReadOnlyKVStore) ([]ledger.Address, error) {
	idx, err := c.loadIndex(db)
	if err != nil {
		return nil, err
	}
	out := make([]ledger.Address, len(idx.Addresses))
	for i, a := range idx.Addresses {
		out[i] = a
	}
	return out, nil
}

// RegisterBeneficiary adds a new beneficiary. Accrual starts with the
// current period.
func (c *Controller) RegisterBeneficiary(db ledger.KVStore, now int64, addr ledger.Address, weights []*WeightEntry) error {
	conf, err := LoadConfiguration(db)
	if err != nil {
		return err
	}
	if err := addr.Validate(); err != nil {
		return errors.Wrap(ErrInvalidParams, "address")
	}
	if err := validateWeights(weights); err != nil {
		return err
	}
	switch err := c.beneficiaries.Has(db, addr); {
	case err == nil:
		return errors.Wrapf(ErrAccountAlreadyExists, "beneficiary %s", addr)
	case !errors.ErrNotFound.Is(err):
		return err
	}
	idx, err := c.loadIndex(db)
	if err != nil {
		return err
	}
	if len(idx.Addresses) >= MaxBeneficiaries {
		return errors.Wrapf(ErrMaxBeneficiariesExceeded, "max %d", MaxBeneficiaries)
	}
	if err := c.requireActiveMultipliers(db, weights); err != nil {
		return err
	}

	b := Beneficiary{
		Metadata:               &ledger.Metadata{Schema: 1},
		Address:                addr,
		Weights:                sortWeights(weights),
		UnclaimedPayments:      0,
		LastUpdatedPeriodBlock: PeriodStart(now, conf.InitialBlock, conf.Periodicity),
	}
	if _, err := c.beneficiaries.Put(db, addr, &b); err != nil {
		return errors.Wrap(err, "save beneficiary")
	}
	idx.Addresses = append(idx.Addresses, addr)
	if err := c.saveIndex(db, idx); err != nil {
		return err
	}
	promBeneficiaries.Set(float64(len(idx.Addresses)))
	return nil
}

// UpdateBeneficiary replaces the weights of a beneficiary. The amount
// owed until now is preserved as the unclaimed balance.
func (c *Controller) UpdateBeneficiary(db ledger.KVStore, now int64, addr ledger.Address, weights []*WeightEntry) error {
	conf, err := LoadConfiguration(db)
	if err != nil {
		return err
	}
	if err := validateWeights(weights); err != nil {
		return err
	}
	b, err := c.Beneficiary(db, addr)
	if err != nil {
		return err
	}
	if err := c.requireActiveMultipliers(db, weights); err != nil {
		return err
	}
	owed, err := c.owed(db, conf, b, now, weightsActive)
	if err != nil {
		return err
	}

	b.Weights = sortWeights(weights)
	b.UnclaimedPayments = owed
	b.LastUpdatedPeriodBlock = PeriodStart(now, conf.InitialBlock, conf.Periodicity)
	if _, err := c.beneficiaries.Put(db, addr, b); err != nil {
		return errors.Wrap(err, "save beneficiary")
	}
	return nil
}

// RemoveBeneficiary deletes a beneficiary. Any owed balance is lost.
func (c *Controller) RemoveBeneficiary(db ledger.KVStore, addr ledger.Address) error {
	if _, err := c.Beneficiary(db, addr); err != nil {
		return err
	}
	idx, err := c.loadIndex(db)
	if err != nil {
		return err
	}
	pos := idx.position(addr)
	if pos < 0 {
		return errors.Wrap(errors.ErrState, "beneficiary missing in the index")
	}

	if err := c.beneficiaries.Delete(db, addr); err != nil {
		return errors.Wrap(err, "delete beneficiary")
	}
	idx.Addresses = append(idx.Addresses[:pos], idx.Addresses[pos+1:]...)
	if err := c.saveIndex(db, idx); err != nil {
		return err
	}
	promBeneficiaries.Set(float64(len(idx.Addresses)))
	return nil
}

// AddMultiplier creates a new active multiplier and returns its id.
func (c *Controller) AddMultiplier(db ledger.KVStore, name string) (uint64, error) {
	if err := validateMultiplierName(name); err != nil {
		return 0, err
	}
	n, err := c.multipliers.Count(db)
	if err != nil {
		return 0, err
	}
	if n >= MaxMultipliers {
		return 0, errors.Wrapf(ErrMaxMultipliersExceeded, "max %d", MaxMultipliers)
	}
	next, err := multiplierSeq.NextInt(db)
	if err != nil {
		return 0, errors.Wrap(err, "multiplier id")
	}
	id := uint64(next)
	m := Multiplier{
		Metadata: &ledger.Metadata{Schema: 1},
		ID:       id,
		Name:     name,
	}
	if _, err := c.multipliers.Put(db, multiplierKey(id), &m); err != nil {
		return 0, errors.Wrap(err, "save multiplier")
	}
	return id, nil
}

// DeactivateMultiplier schedules the multiplier to expire at the start of
// the next period, so the current period is still paid in full.
func (c *Controller) DeactivateMultiplier(db ledger.KVStore, now int64, id uint64) error {
	conf, err := LoadConfiguration(db)
	if err != nil {
		return err
	}
	m, err := c.Multiplier(db, id)
	if err != nil {
		return err
	}
	if m.IsDeactivated() {
		return errors.Wrapf(ErrMultiplierAlreadyDeactivated, "valid until %d", m.ValidUntilBlock)
	}
	m.ValidUntilBlock = NextPeriodStart(now, conf.InitialBlock, conf.Periodicity)
	if _, err := c.multipliers.Put(db, multiplierKey(id), m); err != nil {
		return errors.Wrap(err, "save multiplier")
	}
	return nil
}

// DeleteMultiplier removes an expired multiplier. Beneficiaries keep
// their weight entries until the next claim sweeps them out.
func (c *Controller) DeleteMultiplier(db ledger.KVStore, now int64, id uint64) error {
	m, err := c.Multiplier(db, id)
	if err != nil {
		return err
	}
	if !m.IsDeactivated() {
		return errors.Wrapf(ErrMultiplierNotDeactivated, "multiplier %d", id)
	}
	if now < m.ValidUntilBlock {
		return errors.Wrapf(ErrMultiplierNotExpired, "valid until %d", m.ValidUntilBlock)
	}
	if err := c.EnsureSettled(db, now); err != nil {
		return err
	}
	if err := c.multipliers.Delete(db, multiplierKey(id)); err != nil {
		return errors.Wrap(err, "delete multiplier")
	}
	return nil
}

// UpdateBasePayment changes the payment of all following periods.
func (c *Controller) UpdateBasePayment(db ledger.KVStore, now int64, basePayment uint64) error {
	if basePayment == 0 {
		return errors.Wrap(ErrInvalidParams, "base payment must be positive")
	}
	return c.updateConfiguration(db, now, func(conf *Configuration) {
		conf.BasePayment = basePayment
	})
}

// UpdatePeriodicity changes the length of all following periods. Periods
// remain aligned to the initial block.
func (c *Controller) UpdatePeriodicity(db ledger.KVStore, now int64, periodicity int64) error {
	if periodicity <= 0 {
		return errors.Wrap(ErrInvalidParams, "periodicity must be positive")
	}
	return c.updateConfiguration(db, now, func(conf *Configuration) {
		conf.Periodicity = periodicity
	})
}

func (c *Controller) updateConfiguration(db ledger.KVStore, now int64, update func(*Configuration)) error {
	conf, err := LoadConfiguration(db)
	if err != nil {
		return err
	}
	if err := c.EnsureSettled(db, now); err != nil {
		return err
	}
	update(conf)
	return gconf.Save(db, confPkg, conf)
}

// Pause suspends claims. Pausing a paused payroll is a no-op.
func (c *Controller) Pause(db ledger.KVStore, now int64) error {
	conf, err := LoadConfiguration(db)
	if err != nil {
		return err
	}
	if conf.IsPaused() {
		return nil
	}
	// Zero is reserved for the active state.
	if now < 1 {
		now = 1
	}
	conf.PausedBlockAt = now
	return gconf.Save(db, confPkg, conf)
}

// Resume allows claims again. Resuming an active payroll is a no-op.
func (c *Controller) Resume(db ledger.KVStore) error {
	conf, err := LoadConfiguration(db)
	if err != nil {
		return err
	}
	if !conf.IsPaused() {
		return nil
	}
	conf.PausedBlockAt = 0
	return gconf.Save(db, confPkg, conf)
}

// TransferOwnership nominates a new owner. The owner does not change until
// the nominee accepts.
func (c *Controller) TransferOwnership(db ledger.KVStore, newOwner ledger.Address) error {
	if err := newOwner.Validate(); err != nil {
		return errors.Wrap(ErrInvalidParams, "new owner")
	}
	conf, err := LoadConfiguration(db)
	if err != nil {
		return err
	}
	conf.PendingOwner = newOwner
	return gconf.Save(db, confPkg, conf)
}

// AcceptOwnership makes the nominee the owner.
func (c *Controller) AcceptOwnership(db ledger.KVStore, nominee ledger.Address) error {
	conf, err := LoadConfiguration(db)
	if err != nil {
		return err
	}
	if len(conf.PendingOwner) == 0 || !conf.PendingOwner.Equals(nominee) {
		return errors.Wrap(ErrNotOwner, "not the nominee")
	}
	conf.Owner = conf.PendingOwner
	conf.PendingOwner = nil
	return gconf.Save(db, confPkg, conf)
}

// Claim pays given amount of the owed balance to the beneficiary and
// settles the current period for it. A zero amount only settles. The
// remaining owed balance is returned.
func (c *Controller) Claim(db ledger.KVStore, now int64, addr ledger.Address, amount uint64) (uint64, error) {
	conf, err := LoadConfiguration(db)
	if err != nil {
		return 0, err
	}
	if conf.IsPaused() {
		return 0, errors.Wrapf(ErrContractIsPaused, "since %d", conf.PausedBlockAt)
	}
	b, err := c.Beneficiary(db, addr)
	if err != nil {
		return 0, err
	}

	b.Weights, err = c.sweepExpired(db, b.Weights, now)
	if err != nil {
		return 0, err
	}
	total, err := c.owed(db, conf, b, now, weightsAll)
	if err != nil {
		return 0, err
	}
	if amount > total {
		return 0, errors.Wrapf(ErrClaimedAmountIsBiggerThanAvailable, "available %d", total)
	}
	balance, err := c.cash.Balance(db, conf.Treasury)
	if err != nil {
		return 0, errors.Wrap(err, "treasury balance")
	}
	if amount > balance {
		return 0, errors.Wrapf(ErrNotEnoughBalanceInTreasury, "treasury holds %d", balance)
	}

	period := PeriodStart(now, conf.InitialBlock, conf.Periodicity)
	if err := c.recordSettlement(db, period, addr); err != nil {
		return 0, err
	}
	b.UnclaimedPayments = total - amount
	b.LastUpdatedPeriodBlock = period
	if _, err := c.beneficiaries.Put(db, addr, b); err != nil {
		return 0, errors.Wrap(err, "save beneficiary")
	}

	if amount > 0 {
		if err := c.cash.MoveCoins(db, conf.Treasury, addr, amount); err != nil {
			return 0, errors.Wrap(ErrTransferFailed, err.Error())
		}
	}
	promClaims.Inc()
	promPaid.Add(float64(amount))
	return b.UnclaimedPayments, nil
}

// AmountToClaim returns the balance the beneficiary could claim now.
func (c *Controller) AmountToClaim(db ledger.ReadOnlyKVStore, now int64, addr ledger.Address) (uint64, error) {
	conf, err := LoadConfiguration(db)
	if err != nil {
		return 0, err
	}
	b, err := c.Beneficiary(db, addr)
	if err != nil {
		return 0, err
	}
	return c.owed(db, conf, b, now, weightsActive)
}

// TotalDebts returns the sum of balances owed to all beneficiaries.
func (c *Controller) TotalDebts(db ledger.ReadOnlyKVStore, now int64) (uint64, error) {
	conf, err := LoadConfiguration(db)
	if err != nil {
		return 0, err
	}
	idx, err := c.loadIndex(db)
	if err != nil {
		return 0, err
	}
	total := uint256.NewInt(0)
	for _, addr := range idx.Addresses {
		b, err := c.Beneficiary(db, addr)
		if err != nil {
			return 0, err
		}
		owed, err := c.owed(db, conf, b, now, weightsActive)
		if err != nil {
			return 0, err
		}
		total.Add(total, uint256.NewInt(owed))
	}
	if !total.IsUint64() {
		return 0, errors.Wrap(errors.ErrOverflow, "total debts")
	}
	return total.Uint64(), nil
}

// UnclaimedBeneficiaries returns, in registration order, the beneficiaries
// that did not settle the current period yet.
func (c *Controller) UnclaimedBeneficiaries(db ledger.ReadOnlyKVStore, now int64) ([]ledger.Address, error) {
	conf, err := LoadConfiguration(db)
	if err != nil {
		return nil, err
	}
	idx, err := c.loadIndex(db)
	if err != nil {
		return nil, err
	}
	claims, err := c.loadClaims(db)
	if err != nil {
		return nil, err
	}
	current := PeriodStart(now, conf.InitialBlock, conf.Periodicity)
	var out []ledger.Address
	for _, addr := range idx.Addresses {
		if claims.Period != current || !claims.HasSettled(addr) {
			out = append(out, addr)
		}
	}
	return out, nil
}

// CurrentPeriodStart returns the first block of the current period.
func (c *Controller) CurrentPeriodStart(db ledger.ReadOnlyKVStore, now int64) (int64, error) {
	conf, err := LoadConfiguration(db)
	if err != nil {
		return 0, err
	}
	return PeriodStart(now, conf.InitialBlock, conf.Periodicity), nil
}

// NextPeriodStart returns the first block of the next period.
func (c *Controller) NextPeriodStart(db ledger.ReadOnlyKVStore, now int64) (int64, error) {
	conf, err := LoadConfiguration(db)
	if err != nil {
		return 0, err
	}
	return NextPeriodStart(now, conf.InitialBlock, conf.Periodicity), nil
}

// EnsureSettled returns ErrNotAllClaimedInPeriod unless every registered
// beneficiary settled the current period. The genesis period is always
// settled as nothing could have accrued yet.
func (c *Controller) EnsureSettled(db ledger.ReadOnlyKVStore, now int64) error {
	conf, err := LoadConfiguration(db)
	if err != nil {
		return err
	}
	current := PeriodStart(now, conf.InitialBlock, conf.Periodicity)
	if current == 0 || current == conf.InitialBlock {
		return nil
	}
	idx, err := c.loadIndex(db)
	if err != nil {
		return err
	}
	if len(idx.Addresses) == 0 {
		return nil
	}
	claims, err := c.loadClaims(db)
	if err != nil {
		return err
	}
	if claims.Period != current {
		promGuardRejections.Inc()
		return errors.Wrapf(ErrNotAllClaimedInPeriod, "no claims in period %d", current)
	}
	for _, addr := range idx.Addresses {
		if !claims.HasSettled(addr) {
			promGuardRejections.Inc()
			return errors.Wrapf(ErrNotAllClaimedInPeriod, "%d of %d settled", claims.TotalClaims, len(idx.Addresses))
		}
	}
	return nil
}

// recordSettlement marks the beneficiary as settled in given period.
// Settling twice in the same period is counted once.
func (c *Controller) recordSettlement(db ledger.KVStore, period int64, addr ledger.Address) error {
	claims, err := c.loadClaims(db)
	if err != nil {
		return err
	}
	if claims.Period != period {
		claims.Period = period
		claims.TotalClaims = 0
		claims.Settled = nil
	}
	if claims.HasSettled(addr) {
		return nil
	}
	claims.Settled = append(claims.Settled, addr)
	claims.TotalClaims++
	if _, err := c.claims.Put(db, singletonKey, claims); err != nil {
		return errors.Wrap(err, "save claims")
	}
	promSettlements.Inc()
	return nil
}

// owed computes the balance owed to the beneficiary at given block.
//
//   per period = (sum of weights, or 1 without weights) * base payment / 100
//   owed       = per period * elapsed periods + unclaimed payments
func (c *Controller) owed(db ledger.ReadOnlyKVStore, conf *Configuration, b *Beneficiary, at int64, filter weightFilter) (uint64, error) {
	sum := uint256.NewInt(0)
	var counted int
	for _, w := range b.Weights {
		if filter == weightsActive {
			active, err := c.isActive(db, w.MultiplierID, at)
			if err != nil {
				return 0, err
			}
			if !active {
				continue
			}
		}
		sum.Add(sum, uint256.NewInt(w.Weight))
		counted++
	}
	if counted == 0 {
		sum.SetUint64(1)
	}

	total := uint256.NewInt(b.UnclaimedPayments)
	if elapsed := elapsedPeriods(b.LastUpdatedPeriodBlock, at, conf.Periodicity); elapsed > 0 {
		perPeriod := new(uint256.Int).Mul(sum, uint256.NewInt(conf.BasePayment))
		perPeriod.Div(perPeriod, uint256.NewInt(100))
		accrued := new(uint256.Int).Mul(perPeriod, uint256.NewInt(uint64(elapsed)))
		total.Add(total, accrued)
	}
	if !total.IsUint64() {
		return 0, errors.Wrapf(errors.ErrOverflow, "owed to %s", b.Address)
	}
	return total.Uint64(), nil
}

// sweepExpired returns the weights whose multipliers still count at
// given block.
func (c *Controller) sweepExpired(db ledger.ReadOnlyKVStore, weights []*WeightEntry, at int64) ([]*WeightEntry, error) {
	out := make([]*WeightEntry, 0, len(weights))
	for _, w := range weights {
		active, err := c.isActive(db, w.MultiplierID, at)
		if err != nil {
			return nil, err
		}
		if active {
			out = append(out, w)
		}
	}
	return out, nil
}

// isActive returns false if the multiplier expired at given block or
// does not exist anymore.
func (c *Controller) isActive(db ledger.ReadOnlyKVStore, id uint64, at int64) (bool, error) {
	m, err := c.Multiplier(db, id)
	switch {
	case err == nil:
		return !m.IsExpired(at), nil
	case ErrMultiplierNotFound.Is(err):
		return false, nil
	default:
		return false, err
	}
}

// requireActiveMultipliers ensures every weight references an existing
// multiplier that was not deactivated.
func (c *Controller) requireActiveMultipliers(db ledger.ReadOnlyKVStore, weights []*WeightEntry) error {
	for _, w := range weights {
		m, err := c.Multiplier(db, w.MultiplierID)
		if err != nil {
			return err
		}
		if m.IsDeactivated() {
			return errors.Wrapf(ErrMultiplierAlreadyDeactivated, "multiplier %d", w.MultiplierID)
		}
	}
	return nil
}

func (c *Controller) loadIndex(db ledger.ReadOnlyKVStore) (*BeneficiaryIndex, error) {
	var idx BeneficiaryIndex
	switch err := c.index.One(db, singletonKey, &idx); {
	case err == nil:
		return &idx, nil
	case errors.ErrNotFound.Is(err):
		return &BeneficiaryIndex{Metadata: &ledger.Metadata{Schema: 1}}, nil
	default:
		return nil, err
	}
}

func (c *Controller) saveIndex(db ledger.KVStore, idx *BeneficiaryIndex) error {
	if _, err := c.index.Put(db, singletonKey, idx); err != nil {
		return errors.Wrap(err, "save index")
	}
	return nil
}

func (c *Controller) loadClaims(db ledger.ReadOnlyKVStore) (*ClaimsInPeriod, error) {
	var claims ClaimsInPeriod
	switch err := c.claims.One(db, singletonKey, &claims); {
	case err == nil:
		return &claims, nil
	case errors.ErrNotFound.Is(err):
		return &ClaimsInPeriod{Metadata: &ledger.Metadata{Schema: 1}}, nil
	default:
		return nil, err
	}
}
