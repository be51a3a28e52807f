package orm

import (
	ledger "github.com/iov-one/openpayroll"
)

// Model is implemented by any entity that can be stored using ModelBucket.
type Model = ledger.Persistent
