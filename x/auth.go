package x

import (
	ledger "github.com/iov-one/openpayroll"
)

// Authenticator tells which conditions signed the current transaction.
// Handlers receive one in their constructor.
type Authenticator interface {
	// GetConditions returns every condition the transaction fulfils.
	GetConditions(ledger.Context) []ledger.Condition
	// HasAddress reports whether any fulfilled condition has this address.
	HasAddress(ledger.Context, ledger.Address) bool
}

// MultiAuth merges the results of several authenticators.
type MultiAuth struct {
	impls []Authenticator
}

var _ Authenticator = MultiAuth{}

// ChainAuth returns an authenticator asking each of impls in turn.
func ChainAuth(impls ...Authenticator) MultiAuth {
	return MultiAuth{impls}
}

// GetConditions returns the conditions of all authenticators, in order.
func (m MultiAuth) GetConditions(ctx ledger.Context) []ledger.Condition {
	var conds []ledger.Condition
	for _, a := range m.impls {
		conds = append(conds, a.GetConditions(ctx)...)
	}
	return conds
}

// HasAddress is true when at least one authenticator knows addr.
func (m MultiAuth) HasAddress(ctx ledger.Context, addr ledger.Address) bool {
	for _, a := range m.impls {
		if a.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}

// MainSigner returns the address of the first fulfilled condition, or nil
// for an unsigned transaction.
func MainSigner(ctx ledger.Context, auth Authenticator) ledger.Address {
	conds := auth.GetConditions(ctx)
	if len(conds) == 0 {
		return nil
	}
	return conds[0].Address()
}
