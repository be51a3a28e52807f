/*
Package app links together all the various components
to construct the payroll ledger application.
*/
package app

import (
	"context"
	"path/filepath"
	"strings"

	ledger "github.com/iov-one/openpayroll"
	"github.com/iov-one/openpayroll/app"
	"github.com/iov-one/openpayroll/errors"
	"github.com/iov-one/openpayroll/store/iavl"
	"github.com/iov-one/openpayroll/x"
	"github.com/iov-one/openpayroll/x/cash"
	"github.com/iov-one/openpayroll/x/payroll"
	"github.com/iov-one/openpayroll/x/sigs"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// Authenticator returns the typical authentication,
// just using public key signatures
func Authenticator() x.Authenticator {
	return x.ChainAuth(sigs.Authenticate{})
}

// Chain returns a chain of decorators, to handle authentication
// and recovery
func Chain() app.Decorators {
	return app.ChainDecorators(
		app.NewRecovery(),
		sigs.NewDecorator(),
	)
}

// Router returns a default router, dispatching to the cash and payroll
// handlers
func Router(authFn x.Authenticator) *app.Router {
	r := app.NewRouter()
	bank := cash.NewController()
	cash.RegisterRoutes(r, authFn, bank)
	payroll.RegisterRoutes(r, authFn, bank)
	return r
}

// QueryRouter returns a default query router,
// allowing access to "/auth", "/wallets" and all payroll queries
func QueryRouter() ledger.QueryRouter {
	r := ledger.NewQueryRouter()
	r.RegisterAll(
		sigs.RegisterQuery,
		cash.RegisterQuery,
		payroll.RegisterQuery,
	)
	return r
}

// Initializers returns all extensions that read the genesis file.
func Initializers() ledger.Initializer {
	return ledger.ChainInitializers{
		cash.Initializer{},
		payroll.Initializer{},
	}
}

// Stack wires up a standard router with a standard decorator
// chain. This can be passed into BaseApp.
func Stack() ledger.Handler {
	authFn := Authenticator()
	return Chain().WithHandler(Router(authFn))
}

// Application constructs a basic ABCI application with
// the given arguments. If you are not sure what to use
// for the Handler, just use Stack().
func Application(name string, h ledger.Handler, tx ledger.TxDecoder, dbPath string, debug bool) (app.BaseApp, error) {
	kv, err := CommitKVStore(dbPath)
	if err != nil {
		return app.BaseApp{}, err
	}
	store := app.NewStoreApp(name, kv, QueryRouter(), context.Background())
	return app.NewBaseApp(store, tx, h, debug), nil
}

// CommitKVStore returns an initialized KVStore that persists
// the data to the named path.
func CommitKVStore(dbPath string) (ledger.CommitKVStore, error) {
	// memory backed case, just for testing
	if dbPath == "" {
		return iavl.NewMemCommitStore(), nil
	}

	path, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "invalid database name: %s", dbPath)
	}

	// Some external calls accidentally add a ".db", which is now removed
	path = strings.TrimSuffix(path, filepath.Ext(path))

	dir := filepath.Dir(path)
	name := filepath.Base(path)
	return iavl.NewCommitStore(dir, name), nil
}

// GenerateApp creates the application with the database stored under
// given home directory. An empty home keeps all data in memory.
func GenerateApp(home string, logger log.Logger, debug bool) (abci.Application, error) {
	var dbPath string
	if home != "" {
		dbPath = filepath.Join(home, "payroll.db")
	}

	application, err := Application("payroll", Stack(), TxDecoder, dbPath, debug)
	if err != nil {
		return nil, err
	}
	application.WithInit(Initializers())
	application.WithLogger(logger)
	return application, nil
}
