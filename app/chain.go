package app

import (
	"reflect"

	ledger "github.com/iov-one/openpayroll"
)

// Decorators is an ordered stack of decorators waiting for the handler
// they wrap. The first decorator runs first.
//
//	app.ChainDecorators(
//		app.NewRecovery(),
//		sigs.NewDecorator(),
//	).WithHandler(router)
type Decorators struct {
	chain []ledger.Decorator
}

// ChainDecorators starts a stack. Nil decorators are skipped.
func ChainDecorators(chain ...ledger.Decorator) Decorators {
	return Decorators{}.Chain(chain...)
}

// Chain returns a new stack with the decorators appended. The receiver is
// not modified.
func (d Decorators) Chain(chain ...ledger.Decorator) Decorators {
	stack := make([]ledger.Decorator, len(d.chain), len(d.chain)+len(chain))
	copy(stack, d.chain)
	for _, dec := range chain {
		if !isNilDecorator(dec) {
			stack = append(stack, dec)
		}
	}
	return Decorators{chain: stack}
}

// isNilDecorator also catches a nil pointer stored in the interface.
func isNilDecorator(d ledger.Decorator) bool {
	if d == nil {
		return true
	}
	v := reflect.ValueOf(d)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

// WithHandler closes the stack over h.
func (d Decorators) WithHandler(h ledger.Handler) ledger.Handler {
	for i := len(d.chain) - 1; i >= 0; i-- {
		h = step{d: d.chain[i], next: h}
	}
	return h
}

// step runs one decorator around the rest of the stack.
type step struct {
	d    ledger.Decorator
	next ledger.Handler
}

var _ ledger.Handler = step{}

func (s step) Check(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.CheckResult, error) {
	return s.d.Check(ctx, db, tx, s.next)
}

func (s step) Deliver(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.DeliverResult, error) {
	return s.d.Deliver(ctx, db, tx, s.next)
}
