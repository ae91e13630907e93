package client

import (
	"sync"
	"time"

	abci "github.com/tendermint/tendermint/abci/types"
	cmn "github.com/tendermint/tendermint/libs/common"
	rpcclient "github.com/tendermint/tendermint/rpc/client"
	ctypes "github.com/tendermint/tendermint/rpc/core/types"
	tmtypes "github.com/tendermint/tendermint/types"
)

// Conn is the part of the tendermint rpc client used to talk to a node.
type Conn interface {
	ABCIQuery(path string, data cmn.HexBytes) (*ctypes.ResultABCIQuery, error)
	BroadcastTxCommit(tx tmtypes.Tx) (*ctypes.ResultBroadcastTxCommit, error)
}

var _ Conn = (*rpcclient.HTTP)(nil)

// NewHTTPConnection takes a URL and sends all requests to the remote node
func NewHTTPConnection(remote string) Conn {
	return rpcclient.NewHTTP(remote, "/websocket")
}

// LocalConn talks to an in-process application, useful for tests. Every
// broadcast transaction that passes the check is committed in its own block.
type LocalConn struct {
	mu      sync.Mutex
	app     abci.Application
	chainID string
	height  int64
}

var _ Conn = (*LocalConn)(nil)

// NewLocalConnection wraps an application that was already initialized with
// a genesis.
func NewLocalConnection(app abci.Application, chainID string) *LocalConn {
	return &LocalConn{
		app:     app,
		chainID: chainID,
		height:  app.Info(abci.RequestInfo{}).LastBlockHeight,
	}
}

// ABCIQuery runs the query against the last committed state.
func (c *LocalConn) ABCIQuery(path string, data cmn.HexBytes) (*ctypes.ResultABCIQuery, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	res := c.app.Query(abci.RequestQuery{Path: path, Data: data})
	return &ctypes.ResultABCIQuery{Response: res}, nil
}

// BroadcastTxCommit checks the transaction and, if it is valid, delivers it
// in a new block.
func (c *LocalConn) BroadcastTxCommit(tx tmtypes.Tx) (*ctypes.ResultBroadcastTxCommit, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	res := &ctypes.ResultBroadcastTxCommit{
		CheckTx: c.app.CheckTx(tx),
		Hash:    tx.Hash(),
	}
	if res.CheckTx.IsErr() {
		return res, nil
	}

	c.height++
	c.app.BeginBlock(abci.RequestBeginBlock{
		Header: abci.Header{
			ChainID: c.chainID,
			Height:  c.height,
			Time:    time.Now().UTC(),
		},
	})
	res.DeliverTx = c.app.DeliverTx(tx)
	c.app.EndBlock(abci.RequestEndBlock{Height: c.height})
	c.app.Commit()
	res.Height = c.height
	return res, nil
}
