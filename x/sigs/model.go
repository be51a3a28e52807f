package sigs

import (
	ledger "github.com/iov-one/openpayroll"
	"github.com/iov-one/openpayroll/errors"
	"github.com/iov-one/openpayroll/orm"
	"golang.org/x/crypto/ed25519"
)

// BucketName is where we store the accounts
const BucketName = "sigs"

// maxSequenceValue is limited by the clients that encode the nonce as a
// javascript number (2^53 - 1).
const maxSequenceValue = (1 << 53) - 1

// PubKeyCondition returns the condition fulfilled by a signature of given
// ed25519 public key.
func PubKeyCondition(pubkey []byte) ledger.Condition {
	return ledger.NewCondition("sigs", "ed25519", pubkey)
}

// Validate ensures the signer state is consistent.
func (u *UserData) Validate() error {
	if err := u.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if len(u.Pubkey) != ed25519.PublicKeySize {
		return errors.Wrap(errors.ErrModel, "invalid public key")
	}
	if u.Sequence < 0 {
		return errors.Wrap(ErrInvalidSequence, "negative")
	}
	return nil
}

// CheckAndIncrementSequence implements check and increment operation.
// If current sequence value is the same as given expected value then it is
// incremented. Otherwise an error is returned.
func (u *UserData) CheckAndIncrementSequence(expected int64) error {
	if u.Sequence != expected {
		return errors.Wrapf(ErrInvalidSequence, "mismatch expected %d, got %d", u.Sequence, expected)
	}
	next := u.Sequence + 1
	if next <= 0 || next > maxSequenceValue {
		return errors.Wrap(errors.ErrOverflow, "sequence out of range")
	}
	u.Sequence = next
	return nil
}

// Validate ensures the signature is well formed.
func (s *StdSignature) Validate() error {
	if s.Sequence < 0 {
		return errors.Wrap(ErrInvalidSequence, "negative")
	}
	if len(s.Pubkey) != ed25519.PublicKeySize {
		return errors.Wrap(errors.ErrUnauthorized, "invalid public key")
	}
	if len(s.Signature) != ed25519.SignatureSize {
		return errors.Wrap(errors.ErrUnauthorized, "invalid signature length")
	}
	return nil
}

// NewBucket returns the bucket keeping signer states, keyed by the address
// of the signer's public key condition.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket(BucketName, &UserData{})
}

// loadOrCreate returns the state of the signer using given public key. A
// fresh state is returned for unknown signers.
func loadOrCreate(db ledger.ReadOnlyKVStore, b orm.ModelBucket, pubkey []byte) (*UserData, error) {
	key := PubKeyCondition(pubkey).Address()
	var user UserData
	switch err := b.One(db, key, &user); {
	case err == nil:
		return &user, nil
	case errors.ErrNotFound.Is(err):
		return &UserData{
			Metadata: &ledger.Metadata{Schema: 1},
			Pubkey:   pubkey,
		}, nil
	default:
		return nil, err
	}
}

// NextSequence returns the sequence that the next signature of given
// public key must use.
func NextSequence(db ledger.ReadOnlyKVStore, pubkey []byte) (int64, error) {
	user, err := loadOrCreate(db, NewBucket(), pubkey)
	if err != nil {
		return 0, err
	}
	return user.Sequence, nil
}
