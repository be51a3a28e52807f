package cash

import (
	"github.com/iov-one/openpayroll/errors"
	"github.com/iov-one/openpayroll/orm"
)

// BucketName is where we store the balances
const BucketName = "cash"

// Validate ensures the wallet is consistent.
func (w *Wallet) Validate() error {
	if err := w.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	return nil
}

// NewBucket returns a bucket keeping wallets by address.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket(BucketName, &Wallet{})
}
