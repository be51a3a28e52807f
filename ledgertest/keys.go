package ledgertest

import (
	"crypto/rand"
	"encoding/binary"
	"testing"

	ledger "github.com/iov-one/openpayroll"
	"golang.org/x/crypto/ed25519"
)

// Key is an ed25519 key pair.
type Key struct {
	Public  ed25519.PublicKey
	Private ed25519.PrivateKey
}

// NewKey returns a freshly generated ed25519 key pair.
func NewKey() Key {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		panic(err)
	}
	return Key{Public: pub, Private: priv}
}

// Condition returns the signature condition fulfilled by this key.
func (k Key) Condition() ledger.Condition {
	return ledger.NewCondition("sigs", "ed25519", k.Public)
}

// Address returns the address of the key's signature condition.
func (k Key) Address() ledger.Address {
	return k.Condition().Address()
}

// NewCondition returns the condition of a freshly generated key.
func NewCondition() ledger.Condition {
	return NewKey().Condition()
}

// SequenceID returns an ID encoded as if it was generated by the
// orm.Sequence. Use it to reference entities created with a sequence.
func SequenceID(n uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, n)
	return b
}

// RandomAddr returns a valid address of a random condition.
func RandomAddr(t testing.TB) ledger.Address {
	t.Helper()
	addr := NewCondition().Address()
	if err := addr.Validate(); err != nil {
		t.Fatalf("invalid address: %s", err)
	}
	return addr
}
