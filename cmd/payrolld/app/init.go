package app

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"

	ledger "github.com/iov-one/openpayroll"
	"github.com/iov-one/openpayroll/errors"
	"github.com/iov-one/openpayroll/x/cash"
	"github.com/iov-one/openpayroll/x/payroll"
	"github.com/iov-one/openpayroll/x/sigs"
	"golang.org/x/crypto/ed25519"
)

// Default genesis values used for a development chain.
const (
	DefaultPeriodicity = 100
	DefaultBasePayment = 1000
	DefaultTreasury    = 1000000
)

// GenInitOptions will produce the app_state of a development chain. The
// owner address may be given as the first argument, in any format
// understood by ledger.ParseAddress. If not, a new key is
// generated and returned as hex encoded private key. The treasury is
// funded so that payments can be claimed right away.
func GenInitOptions(args []string) (json.RawMessage, string, error) {
	var (
		owner  ledger.Address
		secret string
	)
	if len(args) > 0 {
		addr, err := ledger.ParseAddress(args[0])
		if err == nil {
			err = addr.Validate()
		}
		if err != nil {
			return nil, "", errors.Wrap(err, "owner")
		}
		owner = addr
	} else {
		addr, priv, err := GenerateKey()
		if err != nil {
			return nil, "", err
		}
		owner = addr
		secret = hex.EncodeToString(priv)
	}

	opts := map[string]interface{}{
		"cash": []cash.GenesisAccount{
			{Address: payroll.TreasuryAddress(), Amount: DefaultTreasury},
		},
		"payroll": payroll.Genesis{
			Owner:       owner,
			Periodicity: DefaultPeriodicity,
			BasePayment: DefaultBasePayment,
		},
	}
	raw, err := json.MarshalIndent(opts, "", "  ")
	if err != nil {
		return nil, "", errors.Wrap(errors.ErrInput, err.Error())
	}
	return raw, secret, nil
}

// GenerateKey creates a new ed25519 key and returns the address that
// represents signatures made with it.
func GenerateKey() (ledger.Address, ed25519.PrivateKey, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrHuman, err.Error())
	}
	return sigs.PubKeyCondition(pub).Address(), priv, nil
}
