package cash

import (
	ledger "github.com/iov-one/openpayroll"
	"github.com/iov-one/openpayroll/errors"
	"github.com/iov-one/openpayroll/orm"
)

// Controller is the functionality needed by cash.Handler and other
// extensions that transfer tokens.
type Controller interface {
	Balance(ledger.ReadOnlyKVStore, ledger.Address) (uint64, error)
	MoveCoins(ledger.KVStore, ledger.Address, ledger.Address, uint64) error
	IssueCoins(ledger.KVStore, ledger.Address, uint64) error
}

// BaseController is a simple implementation of controller
// wallet must return something that supports AddCoins and Save
type BaseController struct {
	bucket orm.ModelBucket
}

var _ Controller = BaseController{}

// NewController returns a controller using the default wallet bucket.
func NewController() BaseController {
	return BaseController{bucket: NewBucket()}
}

// Balance returns the amount held by given address. An unknown address
// holds nothing.
func (c BaseController) Balance(db ledger.ReadOnlyKVStore, addr ledger.Address) (uint64, error) {
	w, err := c.load(db, addr)
	if err != nil {
		return 0, err
	}
	return w.Amount, nil
}

// MoveCoins moves the given amount from src to dest.
// If src doesn't exist, or doesn't have sufficient
// coins, it fails.
func (c BaseController) MoveCoins(db ledger.KVStore, src, dest ledger.Address, amount uint64) error {
	if amount == 0 {
		return errors.Wrap(errors.ErrAmount, "non-positive amount")
	}
	if err := src.Validate(); err != nil {
		return errors.Wrap(err, "source")
	}
	if err := dest.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}

	sender, err := c.load(db, src)
	if err != nil {
		return err
	}
	if sender.Amount < amount {
		return errors.Wrapf(errors.ErrInsufficientAmount, "have %d, need %d", sender.Amount, amount)
	}
	sender.Amount -= amount
	if _, err := c.bucket.Put(db, src, sender); err != nil {
		return errors.Wrap(err, "save sender")
	}

	// Loaded after the sender is saved so a transfer to self is a no-op.
	recipient, err := c.load(db, dest)
	if err != nil {
		return err
	}
	if recipient.Amount+amount < recipient.Amount {
		return errors.Wrap(errors.ErrOverflow, "recipient balance")
	}
	recipient.Amount += amount
	if _, err := c.bucket.Put(db, dest, recipient); err != nil {
		return errors.Wrap(err, "save recipient")
	}
	return nil
}

// IssueCoins attempts to add the given amount of coins to
// the destination address. Fails if it overflows the wallet.
func (c BaseController) IssueCoins(db ledger.KVStore, dest ledger.Address, amount uint64) error {
	if err := dest.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	w, err := c.load(db, dest)
	if err != nil {
		return err
	}
	if w.Amount+amount < w.Amount {
		return errors.Wrap(errors.ErrOverflow, "wallet balance")
	}
	w.Amount += amount
	_, err = c.bucket.Put(db, dest, w)
	return err
}

func (c BaseController) load(db ledger.ReadOnlyKVStore, addr ledger.Address) (*Wallet, error) {
	var w Wallet
	switch err := c.bucket.One(db, addr, &w); {
	case err == nil:
		return &w, nil
	case errors.ErrNotFound.Is(err):
		return &Wallet{Metadata: &ledger.Metadata{Schema: 1}}, nil
	default:
		return nil, err
	}
}
