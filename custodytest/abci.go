package custodytest

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/app"
	"github.com/iov-one/custody/errors"
	abci "github.com/tendermint/tendermint/abci/types"
)

// Tester is implemented by both *testing.T and *testing.B. Use it instead of
// the pointer type to allow notation to accept both objects.
type Tester interface {
	Helper()
	Errorf(string, ...interface{})
	Fatalf(string, ...interface{})
	Logf(string, ...interface{})
}

// Runner provides a translation layer between an ABCI interface and a
// custody application. It takes care of serializing messages and creating
// blocks.
type Runner struct {
	chainID string
	height  int64
	now     time.Time
	t       Tester
	app     abci.Application
	*app.ABCIStore
}

// NewRunner creates a Runner instance that can be used to process deliver
// and check transaction requests. Reads go through the ABCI query interface
// and see the last committed state.
func NewRunner(t Tester, application abci.Application, chainID string) *Runner {
	return &Runner{
		chainID:   chainID,
		now:       time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC),
		t:         t,
		app:       application,
		ABCIStore: app.NewABCIStore(application),
	}
}

// App is the minimal interface the Runner exposes to code executed within a
// block.
type App interface {
	DeliverTx(custody.Tx) error
	CheckTx(custody.Tx) error
	custody.ReadOnlyKVStore
}

var _ App = (*Runner)(nil)

// ChainID returns the chain id the runner creates blocks for.
func (r *Runner) ChainID() string {
	return r.chainID
}

// Height returns the height of the last block.
func (r *Runner) Height() int64 {
	return r.height
}

// InitChain serialize to JSON given genesis and loads it. Loading a genesis is
// causing a block creation.
func (r *Runner) InitChain(genesis interface{}) {
	r.t.Helper()
	raw, err := json.MarshalIndent(genesis, "", "  ")
	if err != nil {
		r.t.Fatalf("cannot JSON serialize genesis: %s", err)
	}

	changed := r.InBlock(func(App) error {
		r.app.InitChain(abci.RequestInitChain{
			Time:          r.now,
			ChainId:       r.chainID,
			AppStateBytes: raw,
		})
		return nil
	})
	if !changed {
		r.t.Fatalf("genesis did not change the state")
	}
}

// CheckTx translates given transaction into ABCI interface and executes.
func (r *Runner) CheckTx(tx custody.Tx) error {
	raw, err := tx.Marshal()
	if err != nil {
		return errors.Wrap(err, "cannot marshal transaction")
	}
	_, err = custody.ParseCheckOrError(r.app.CheckTx(raw))
	return err
}

// DeliverTx translates given transaction into ABCI interface and executes.
func (r *Runner) DeliverTx(tx custody.Tx) error {
	raw, err := tx.Marshal()
	if err != nil {
		return errors.Wrap(err, "cannot marshal transaction")
	}
	_, err = custody.ParseDeliverOrError(r.app.DeliverTx(raw))
	return err
}

// InBlock begins a block and runs given function. All transactions executed
// within given function are part of newly created block. Upon success the
// block is finished and changes committed. Every block is one minute after
// the previous one.
//
// InBlock returns true if the application state was modified. Any failure
// is ending the test instantly.
func (r *Runner) InBlock(executeTx func(App) error) bool {
	r.t.Helper()

	r.height++
	r.now = r.now.Add(time.Minute)

	initialHash := r.app.Info(abci.RequestInfo{}).LastBlockAppHash

	r.app.BeginBlock(abci.RequestBeginBlock{
		Header: abci.Header{
			ChainID: r.chainID,
			Height:  r.height,
			Time:    r.now,
		},
	})

	if err := executeTx(r); err != nil {
		r.t.Fatalf("operation failed with %+v", err)
	}

	r.app.EndBlock(abci.RequestEndBlock{Height: r.height})

	finalHash := r.app.Commit().Data
	return !bytes.Equal(initialHash, finalHash)
}
