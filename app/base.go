package app

import (
	ledger "github.com/iov-one/openpayroll"
	"github.com/iov-one/openpayroll/errors"
	abci "github.com/tendermint/tendermint/abci/types"
)

// BaseApp adds DeliverTx, CheckTx, and BeginBlock
// handlers to the storage and query functionality of StoreApp
type BaseApp struct {
	*StoreApp
	decoder ledger.TxDecoder
	handler ledger.Handler
}

var _ abci.Application = BaseApp{}

// NewBaseApp constructs a basic abci application
func NewBaseApp(
	store *StoreApp,
	decoder ledger.TxDecoder,
	handler ledger.Handler,
	debug bool,
) BaseApp {
	return BaseApp{
		StoreApp: store.WithDebug(debug),
		decoder:  decoder,
		handler:  handler,
	}
}

// DeliverTx - ABCI - dispatches to the handler
//
// Every transaction runs in its own cache. The changes are written to the
// block state only if the handler succeeds, so a failed transaction
// leaves no trace.
func (b BaseApp) DeliverTx(txBytes []byte) abci.ResponseDeliverTx {
	tx, err := b.loadTx(txBytes)
	if err != nil {
		return ledger.DeliverTxError(err, b.debug)
	}

	ctx := ledger.WithLogInfo(b.BlockContext(),
		"call", "deliver_tx",
		"path", ledger.GetPath(tx))

	res, err := b.deliver(ctx, tx)
	if err != nil {
		ledger.GetLogger(ctx).Debug("transaction rejected", "err", err)
	}
	return ledger.DeliverOrError(res, err, b.debug)
}

func (b BaseApp) deliver(ctx ledger.Context, tx ledger.Tx) (res *ledger.DeliverResult, err error) {
	defer errors.Recover(&err)

	cache := b.DeliverStore().CacheWrap()
	defer cache.Discard()

	res, err = b.handler.Deliver(ctx, cache, tx)
	if err != nil {
		return nil, err
	}
	if err := cache.Write(); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return res, nil
}

// CheckTx - ABCI - dispatches to the handler
func (b BaseApp) CheckTx(txBytes []byte) abci.ResponseCheckTx {
	tx, err := b.loadTx(txBytes)
	if err != nil {
		return ledger.CheckTxError(err, b.debug)
	}

	ctx := ledger.WithLogInfo(b.BlockContext(),
		"call", "check_tx",
		"path", ledger.GetPath(tx))

	res, err := b.check(ctx, tx)
	return ledger.CheckOrError(res, err, b.debug)
}

func (b BaseApp) check(ctx ledger.Context, tx ledger.Tx) (res *ledger.CheckResult, err error) {
	defer errors.Recover(&err)

	cache := b.CheckStore().CacheWrap()
	defer cache.Discard()

	res, err = b.handler.Check(ctx, cache, tx)
	if err != nil {
		return nil, err
	}
	if err := cache.Write(); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return res, nil
}

// loadTx calls the decoder, and capture any panics
func (b BaseApp) loadTx(txBytes []byte) (tx ledger.Tx, err error) {
	defer errors.Recover(&err)
	tx, err = b.decoder(txBytes)
	return
}
