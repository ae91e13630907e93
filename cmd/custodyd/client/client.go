/*
Package client provides access to a custodyd node. It builds and signs
transactions, submits them and reads the committed state.
*/
package client

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/app"
	custodyd "github.com/iov-one/custody/cmd/custodyd/app"
	"github.com/iov-one/custody/crypto"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/gconf"
	"github.com/iov-one/custody/x/cash"
	"github.com/iov-one/custody/x/escrow"
	"github.com/iov-one/custody/x/sigs"
	abci "github.com/tendermint/tendermint/abci/types"
)

// Client is a tendermint connection wrapped to provide simple access to
// escrows and wallets of a single chain.
type Client struct {
	conn    Conn
	chainID string
	records escrow.RecordStore
	bank    cash.Controller
}

// NewClient wraps a Client around an existing connection. Transactions are
// signed for given chain.
func NewClient(conn Conn, chainID string) *Client {
	bank := custodyd.CashControl()
	return &Client{
		conn:    conn,
		chainID: chainID,
		records: escrow.NewRecordStore(bank),
		bank:    bank,
	}
}

// ChainID returns the chain the transactions are signed for.
func (c *Client) ChainID() string {
	return c.chainID
}

// Query is meant to mirror the abci query interface exactly, so we can wrap
// it with app.ABCIStore.
func (c *Client) Query(q abci.RequestQuery) abci.ResponseQuery {
	res, err := c.conn.ABCIQuery(q.Path, q.Data)
	// network error reported as special error code
	if err != nil {
		code, log := errors.ABCIInfo(errors.Wrap(errors.ErrNetwork, err.Error()), false)
		return abci.ResponseQuery{Code: code, Log: log}
	}
	return res.Response
}

// read runs fn over the committed state. The store panics on failed queries,
// the panic is turned back into the error.
func (c *Client) read(fn func(db custody.ReadOnlyKVStore) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = e
			} else {
				err = errors.Wrapf(errors.ErrPanic, "%v", r)
			}
		}
	}()
	return fn(app.NewABCIStore(c))
}

// Balance returns the native coins held by given address.
func (c *Client) Balance(addr custody.Address) (uint64, error) {
	var balance uint64
	err := c.read(func(db custody.ReadOnlyKVStore) error {
		var err error
		balance, err = c.bank.Balance(db, addr)
		return err
	})
	return balance, err
}

// Sequence returns the sequence the next signature of given identity must
// carry.
func (c *Client) Sequence(signer custody.Identity) (int64, error) {
	var seq int64
	err := c.read(func(db custody.ReadOnlyKVStore) error {
		var err error
		seq, err = sigs.NextNonce(db, signer)
		return err
	})
	return seq, err
}

// Configuration returns the escrow configuration of the chain.
func (c *Client) Configuration() (*escrow.Configuration, error) {
	var conf escrow.Configuration
	err := c.read(func(db custody.ReadOnlyKVStore) error {
		return gconf.Load(db, escrow.BucketName, &conf)
	})
	if err != nil {
		return nil, errors.Wrap(err, "escrow configuration")
	}
	return &conf, nil
}

// Derive returns the address and bump of the escrow with given derivation
// input. The escrow does not have to exist.
func (c *Client) Derive(sender, recipient custody.Identity, escrowID uint64) (custody.Address, uint8, error) {
	conf, err := c.Configuration()
	if err != nil {
		return nil, 0, err
	}
	return escrow.DeriveAddress(conf.Owner, sender, recipient, escrowID)
}

// Escrow returns the open escrow stored under given address.
func (c *Client) Escrow(addr custody.Address) (*escrow.Escrow, error) {
	var e *escrow.Escrow
	err := c.read(func(db custody.ReadOnlyKVStore) error {
		var err error
		e, err = c.records.Fetch(db, addr)
		return err
	})
	return e, err
}

// EscrowsBySender returns all open escrows funded by given identity.
func (c *Client) EscrowsBySender(sender custody.Identity) ([]*escrow.Escrow, error) {
	var list []*escrow.Escrow
	err := c.read(func(db custody.ReadOnlyKVStore) error {
		var err error
		list, err = c.records.BySender(db, sender)
		return err
	})
	return list, err
}

// EscrowsByRecipient returns all open escrows payable to given identity.
func (c *Client) EscrowsByRecipient(recipient custody.Identity) ([]*escrow.Escrow, error) {
	var list []*escrow.Escrow
	err := c.read(func(db custody.ReadOnlyKVStore) error {
		var err error
		list, err = c.records.ByRecipient(db, recipient)
		return err
	})
	return list, err
}

// Open locks amount from the signer's wallet in a new escrow payable to
// recipient. It returns the escrow address.
func (c *Client) Open(signer crypto.Signer, recipient custody.Identity, amount, escrowID uint64) (custody.Address, error) {
	res, err := c.submit(signer, &escrow.OpenMsg{
		Metadata:  &custody.Metadata{Schema: 1},
		Recipient: recipient,
		Amount:    amount,
		EscrowID:  escrowID,
	})
	if err != nil {
		return nil, err
	}
	return custody.Address(res.Data), nil
}

// Accept pays out the escrow funded by sender to the signer.
func (c *Client) Accept(signer crypto.Signer, sender custody.Identity, escrowID uint64) error {
	target, err := c.target(sender, signer.PublicKey(), escrowID)
	if err != nil {
		return err
	}
	_, err = c.submit(signer, &escrow.AcceptMsg{
		Metadata: &custody.Metadata{Schema: 1},
		Target:   target,
	})
	return err
}

// Cancel returns the escrow payable to recipient back to the signer.
func (c *Client) Cancel(signer crypto.Signer, recipient custody.Identity, escrowID uint64) error {
	target, err := c.target(signer.PublicKey(), recipient, escrowID)
	if err != nil {
		return err
	}
	_, err = c.submit(signer, &escrow.CancelMsg{
		Metadata: &custody.Metadata{Schema: 1},
		Target:   target,
	})
	return err
}

// target includes the bump so that the node verifies the derived address.
func (c *Client) target(sender, recipient custody.Identity, escrowID uint64) (escrow.Target, error) {
	_, bump, err := c.Derive(sender, recipient, escrowID)
	if err != nil {
		return escrow.Target{}, err
	}
	return escrow.Target{
		Sender:    sender,
		Recipient: recipient,
		EscrowID:  escrowID,
		Bump:      uint32(bump),
		HasBump:   true,
	}, nil
}

// Send moves coins from the signer's wallet.
func (c *Client) Send(signer crypto.Signer, dest custody.Address, amount uint64, memo string) error {
	_, err := c.submit(signer, &cash.SendMsg{
		Metadata:    &custody.Metadata{Schema: 1},
		Source:      signer.PublicKey().Address(),
		Destination: dest,
		Amount:      amount,
		Memo:        memo,
	})
	return err
}

// Issue creates new coins. The signer must be the configured minter.
func (c *Client) Issue(signer crypto.Signer, dest custody.Address, amount uint64) error {
	_, err := c.submit(signer, &cash.IssueMsg{
		Metadata:    &custody.Metadata{Schema: 1},
		Destination: dest,
		Amount:      amount,
	})
	return err
}

// submit signs msg with the next sequence of the signer and waits until it
// is committed.
func (c *Client) submit(signer crypto.Signer, msg custody.Msg) (*custody.DeliverResult, error) {
	if err := msg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid message")
	}
	tx, err := custodyd.NewTx(msg)
	if err != nil {
		return nil, err
	}
	seq, err := c.Sequence(signer.PublicKey())
	if err != nil {
		return nil, errors.Wrap(err, "sequence")
	}
	sig, err := sigs.SignTx(signer, tx, c.chainID, seq)
	if err != nil {
		return nil, errors.Wrap(err, "sign")
	}
	tx.Signatures = []*sigs.StdSignature{sig}

	raw, err := tx.Marshal()
	if err != nil {
		return nil, errors.Wrap(err, "marshal")
	}
	res, err := c.conn.BroadcastTxCommit(raw)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNetwork, "broadcast: %s", err)
	}
	// a checktx error is handled like any other error, the tx did not make
	// it into a block
	if _, err := custody.ParseCheckOrError(res.CheckTx); err != nil {
		return nil, err
	}
	return custody.ParseDeliverOrError(res.DeliverTx)
}
