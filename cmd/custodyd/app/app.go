/*
Package app links together all the various components
to construct the custodyd app.
*/
package app

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/app"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/gconf"
	"github.com/iov-one/custody/store/iavl"
	"github.com/iov-one/custody/x"
	"github.com/iov-one/custody/x/cash"
	"github.com/iov-one/custody/x/escrow"
	"github.com/iov-one/custody/x/sigs"
	"github.com/iov-one/custody/x/utils"
	"github.com/prometheus/client_golang/prometheus"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// Name is returned by the abci Info call.
const Name = "custody"

// Authenticator returns the typical authentication,
// just using public key signatures
func Authenticator() x.Authenticator {
	return sigs.Authenticate{}
}

// CashControl returns a controller for cash functions
func CashControl() cash.Controller {
	return cash.NewController(cash.NewBucket())
}

// Chain returns a chain of decorators, to handle authentication,
// logging, metrics and recovery. Metrics are optional.
func Chain(metrics *utils.Metrics) app.Decorators {
	var m custody.Decorator
	if metrics != nil {
		m = *metrics
	}
	return app.ChainDecorators(
		utils.NewLogging(),
		m,
		utils.NewRecovery(),
		utils.NewActionTagger(),
		// on CheckTx, bad tx don't affect state
		utils.NewSavepoint().OnCheck(),
		sigs.NewDecorator(),
		// on DeliverTx, bad tx will increment nonce
		// even if the message fails
		utils.NewSavepoint().OnDeliver(),
	)
}

// Router returns a router dispatching to cash and escrow handlers.
func Router(authFn x.Authenticator) *app.Router {
	r := app.NewRouter()
	cash.RegisterRoutes(r, authFn, CashControl())
	escrow.RegisterRoutes(r, authFn, CashControl())
	return r
}

// QueryRouter returns a default query router,
// allowing access to "/wallets", "/escrows", "/auth", "/gconf" and "/"
func QueryRouter() custody.QueryRouter {
	r := custody.NewQueryRouter()
	r.RegisterAll(
		custody.RegisterQuery,
		cash.RegisterQuery,
		escrow.RegisterQuery,
		sigs.RegisterQuery,
		gconf.RegisterQuery,
	)
	return r
}

// Stack wires up a standard router with a standard decorator
// chain. This can be passed into BaseApp.
func Stack(metrics *utils.Metrics) custody.Handler {
	authFn := Authenticator()
	return Chain(metrics).WithHandler(Router(authFn))
}

// Initializers returns all the extensions loading state from the genesis.
func Initializers() custody.Initializer {
	return custody.ChainInitializers(
		cash.Initializer{},
		escrow.Initializer{},
	)
}

// Application constructs a basic ABCI application with
// the given arguments.
func Application(name string, h custody.Handler, tx custody.TxDecoder, kv custody.CommitKVStore, debug bool) app.BaseApp {
	store := app.NewStoreApp(name, kv, QueryRouter(), context.Background())
	store.WithInit(Initializers())
	return app.NewBaseApp(store, tx, h, debug)
}

// CommitKVStore returns an initialized KVStore that persists
// the data to the named path. An empty path gives an in memory store.
func CommitKVStore(dbPath string) (iavl.CommitStore, error) {
	if dbPath == "" {
		return iavl.NewMemCommitStore(), nil
	}

	path, err := filepath.Abs(dbPath)
	if err != nil {
		return iavl.CommitStore{}, errors.Wrapf(errors.ErrInput, "invalid database path %q", dbPath)
	}

	// Some external calls accidentally add a ".db", which is now removed
	path = strings.TrimSuffix(path, filepath.Ext(path))

	dir := filepath.Dir(path)
	name := filepath.Base(path)
	return iavl.NewCommitStore(dir, name)
}

// Options configure the application created by GenerateApp.
type Options struct {
	// Home is the directory holding the database. Empty means in memory.
	Home   string
	Logger log.Logger
	Debug  bool
	// Registerer collects the transaction metrics if set.
	Registerer prometheus.Registerer
}

// GenerateApp creates the application for the start command. The returned
// function closes the database.
func GenerateApp(opts Options) (abci.Application, func(), error) {
	var dbPath string
	if opts.Home != "" {
		dbPath = filepath.Join(opts.Home, "custody.db")
	}
	kv, err := CommitKVStore(dbPath)
	if err != nil {
		return nil, nil, err
	}

	var metrics *utils.Metrics
	if opts.Registerer != nil {
		m, err := utils.NewMetrics(opts.Registerer)
		if err != nil {
			kv.Close()
			return nil, nil, err
		}
		metrics = &m
	}

	application := Application(Name, Stack(metrics), TxDecoder, kv, opts.Debug)
	if opts.Logger != nil {
		application.WithLogger(opts.Logger)
	}
	return application, kv.Close, nil
}
