package app_test

import (
	"testing"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/app"
	custodyd "github.com/iov-one/custody/cmd/custodyd/app"
	"github.com/iov-one/custody/crypto"
	"github.com/iov-one/custody/custodytest"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/store/iavl"
	"github.com/iov-one/custody/x/cash"
	"github.com/iov-one/custody/x/escrow"
	"github.com/iov-one/custody/x/sigs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	abci "github.com/tendermint/tendermint/abci/types"
)

const (
	chainID = "custody-test"
	deposit = 2000
)

type network struct {
	runner    *custodytest.Runner
	app       abci.Application
	owner     custody.Identity
	sender    *crypto.PrivateKey
	recipient *crypto.PrivateKey
}

func newNetwork(t *testing.T, kv custody.CommitKVStore, senderBalance uint64) *network {
	t.Helper()
	n := &network{
		owner:     custodytest.NewIdentity(),
		sender:    custodytest.NewKey(),
		recipient: custodytest.NewKey(),
	}
	state, err := custodyd.GenesisOptions{
		Owner:         n.owner,
		RecordDeposit: deposit,
		Accounts: []cash.GenesisAccount{
			{Address: n.sender.PublicKey().Address(), Balance: senderBalance},
		},
	}.AppState()
	require.NoError(t, err)

	n.app = custodyd.Application("custody-test", custodyd.Stack(nil), custodyd.TxDecoder, kv, true)
	n.runner = custodytest.NewRunner(t, n.app, chainID)
	n.runner.InitChain(state)
	return n
}

// signedTx wraps msg in a transaction signed by all keys, using the next
// committed sequence of each signer.
func signedTx(t testing.TB, db custody.ReadOnlyKVStore, msg custody.Msg, keys ...*crypto.PrivateKey) *custodyd.Tx {
	t.Helper()
	tx, err := custodyd.NewTx(msg)
	require.NoError(t, err)
	for _, k := range keys {
		seq, err := sigs.NextNonce(db, k.PublicKey())
		require.NoError(t, err)
		sig, err := sigs.SignTx(k, tx, chainID, seq)
		require.NoError(t, err)
		tx.Signatures = append(tx.Signatures, sig)
	}
	return tx
}

// deliver runs tx in its own block and returns the deliver error.
func (n *network) deliver(t testing.TB, msg custody.Msg, keys ...*crypto.PrivateKey) error {
	t.Helper()
	var res error
	n.runner.InBlock(func(a custodytest.App) error {
		res = a.DeliverTx(signedTx(t, a, msg, keys...))
		return nil
	})
	return res
}

func (n *network) balance(t testing.TB, addr custody.Address) uint64 {
	t.Helper()
	amount, err := custodyd.CashControl().Balance(n.runner, addr)
	require.NoError(t, err)
	return amount
}

func (n *network) target(escrowID uint64) escrow.Target {
	return escrow.Target{
		Sender:    n.sender.PublicKey(),
		Recipient: n.recipient.PublicKey(),
		EscrowID:  escrowID,
	}
}

func TestEscrowSettlement(t *testing.T) {
	const amount = 1000000000

	kv, cleanup := custodytest.CommitKVStore(t)
	defer cleanup()
	n := newNetwork(t, kv, 5*amount)

	sender := n.sender.PublicKey()
	recipient := n.recipient.PublicKey()
	addr, bump, err := escrow.DeriveAddress(n.owner, sender, recipient, 1)
	require.NoError(t, err)

	open := &escrow.OpenMsg{
		Metadata:  &custody.Metadata{Schema: 1},
		Recipient: recipient,
		Amount:    amount,
		EscrowID:  1,
	}
	require.NoError(t, n.deliver(t, open, n.sender))

	assert.Equal(t, uint64(4*amount-deposit), n.balance(t, sender.Address()))
	assert.Equal(t, uint64(amount+deposit), n.balance(t, addr))

	store := escrow.NewRecordStore(custodyd.CashControl())
	e, err := store.Fetch(n.runner, addr)
	require.NoError(t, err)
	assert.Equal(t, sender, e.Sender)
	assert.Equal(t, recipient, e.Recipient)
	assert.Equal(t, uint64(amount), e.Amount)
	assert.Equal(t, bump, e.Bump)
	// First block is the genesis, the open happened one minute later.
	assert.Equal(t, int64(1546300920), int64(e.CreatedAt))

	// The same derivation input cannot be opened twice.
	err = n.deliver(t, open, n.sender)
	assert.True(t, escrow.ErrAlreadyInUse.Is(err), "%+v", err)

	// Only the recipient may accept.
	accept := &escrow.AcceptMsg{Metadata: &custody.Metadata{Schema: 1}, Target: n.target(1)}
	err = n.deliver(t, accept, n.sender)
	assert.True(t, escrow.ErrUnauthorizedRecipient.Is(err), "%+v", err)

	require.NoError(t, n.deliver(t, accept, n.recipient))
	assert.Equal(t, uint64(amount), n.balance(t, recipient.Address()))
	assert.Equal(t, uint64(4*amount), n.balance(t, sender.Address()))
	assert.Equal(t, uint64(0), n.balance(t, addr))

	_, err = store.Fetch(n.runner, addr)
	assert.True(t, escrow.ErrNotFound.Is(err), "%+v", err)

	// A closed escrow cannot be settled again in either direction.
	err = n.deliver(t, accept, n.recipient)
	assert.True(t, escrow.ErrNotFound.Is(err), "%+v", err)
	cancel := &escrow.CancelMsg{Metadata: &custody.Metadata{Schema: 1}, Target: n.target(1)}
	err = n.deliver(t, cancel, n.sender)
	assert.True(t, escrow.ErrNotFound.Is(err), "%+v", err)
}

func TestEscrowCancelRefundsSender(t *testing.T) {
	const amount = 5000

	n := newNetwork(t, iavl.NewMemCommitStore(), amount+deposit)
	sender := n.sender.PublicKey()

	open := &escrow.OpenMsg{
		Metadata:  &custody.Metadata{Schema: 1},
		Recipient: n.recipient.PublicKey(),
		Amount:    amount,
		EscrowID:  7,
	}
	require.NoError(t, n.deliver(t, open, n.sender))
	assert.Equal(t, uint64(0), n.balance(t, sender.Address()))

	cancel := &escrow.CancelMsg{Metadata: &custody.Metadata{Schema: 1}, Target: n.target(7)}
	err := n.deliver(t, cancel, n.recipient)
	assert.True(t, escrow.ErrUnauthorizedSender.Is(err), "%+v", err)

	require.NoError(t, n.deliver(t, cancel, n.sender))
	assert.Equal(t, uint64(amount+deposit), n.balance(t, sender.Address()))
	assert.Equal(t, uint64(0), n.balance(t, n.recipient.PublicKey().Address()))
}

func TestEscrowQueries(t *testing.T) {
	n := newNetwork(t, iavl.NewMemCommitStore(), 1000000)
	sender := n.sender.PublicKey()

	for id := uint64(1); id <= 3; id++ {
		open := &escrow.OpenMsg{
			Metadata:  &custody.Metadata{Schema: 1},
			Recipient: n.recipient.PublicKey(),
			Amount:    100 * id,
			EscrowID:  id,
		}
		require.NoError(t, n.deliver(t, open, n.sender))
	}

	addr, _, err := escrow.DeriveAddress(n.owner, sender, n.recipient.PublicKey(), 2)
	require.NoError(t, err)

	res := n.app.Query(abci.RequestQuery{Path: "/escrows", Data: addr})
	require.Equal(t, uint32(0), res.Code, res.Log)
	var e escrow.Escrow
	require.NoError(t, app.UnmarshalOneResult(res.Value, &e))
	assert.Equal(t, uint64(200), e.Amount)
	assert.Equal(t, uint64(2), e.EscrowID)

	res = n.app.Query(abci.RequestQuery{Path: "/escrows/sender", Data: sender})
	require.Equal(t, uint32(0), res.Code, res.Log)
	var set app.ResultSet
	require.NoError(t, set.Unmarshal(res.Value))
	assert.Len(t, set.Results, 3)

	res = n.app.Query(abci.RequestQuery{Path: "/escrows/recipient", Data: sender})
	require.Equal(t, uint32(0), res.Code, res.Log)
	set = app.ResultSet{}
	require.NoError(t, set.Unmarshal(res.Value))
	assert.Empty(t, set.Results)
}

func TestNeverOpenedEscrow(t *testing.T) {
	n := newNetwork(t, iavl.NewMemCommitStore(), 1000)

	accept := &escrow.AcceptMsg{Metadata: &custody.Metadata{Schema: 1}, Target: n.target(999)}
	err := n.deliver(t, accept, n.recipient)
	assert.True(t, escrow.ErrNotFound.Is(err), "%+v", err)
}

func TestZeroAmountIsRejected(t *testing.T) {
	n := newNetwork(t, iavl.NewMemCommitStore(), 1000)

	open := &escrow.OpenMsg{
		Metadata:  &custody.Metadata{Schema: 1},
		Recipient: n.recipient.PublicKey(),
		EscrowID:  1,
	}
	err := n.runner.CheckTx(signedTx(t, n.runner, open, n.sender))
	assert.True(t, escrow.ErrInvalidAmount.Is(err), "%+v", err)
	assert.Equal(t, uint64(1000), n.balance(t, n.sender.PublicKey().Address()))
}

func TestFailedTxKeepsOnlyNonce(t *testing.T) {
	n := newNetwork(t, iavl.NewMemCommitStore(), 1000)
	sender := n.sender.PublicKey()

	// Not enough funds for amount plus deposit.
	open := &escrow.OpenMsg{
		Metadata:  &custody.Metadata{Schema: 1},
		Recipient: n.recipient.PublicKey(),
		Amount:    1000,
		EscrowID:  1,
	}
	err := n.deliver(t, open, n.sender)
	assert.True(t, errors.ErrInsufficientAmount.Is(err), "%+v", err)

	assert.Equal(t, uint64(1000), n.balance(t, sender.Address()))
	addr, _, err := escrow.DeriveAddress(n.owner, sender, n.recipient.PublicKey(), 1)
	require.NoError(t, err)
	assert.False(t, n.runner.Has(escrow.NewBucket().DBKey(addr)))

	// The signature was consumed even though the message failed.
	seq, err := sigs.NextNonce(n.runner, sender)
	require.NoError(t, err)
	assert.Equal(t, int64(1), seq)
}

func TestReplayedSignature(t *testing.T) {
	n := newNetwork(t, iavl.NewMemCommitStore(), 1000)

	send := &cash.SendMsg{
		Metadata:    &custody.Metadata{Schema: 1},
		Source:      n.sender.PublicKey().Address(),
		Destination: n.recipient.PublicKey().Address(),
		Amount:      100,
	}
	tx := signedTx(t, n.runner, send, n.sender)
	n.runner.InBlock(func(a custodytest.App) error {
		return a.DeliverTx(tx)
	})

	var err error
	n.runner.InBlock(func(a custodytest.App) error {
		err = a.DeliverTx(tx)
		return nil
	})
	assert.True(t, sigs.ErrInvalidSequence.Is(err), "%+v", err)
	assert.Equal(t, uint64(100), n.balance(t, n.recipient.PublicKey().Address()))
}

func TestStatePersistsAcrossRestart(t *testing.T) {
	const amount = 700

	kv, cleanup := custodytest.CommitKVStore(t)
	defer cleanup()
	n := newNetwork(t, kv, amount+deposit)

	open := &escrow.OpenMsg{
		Metadata:  &custody.Metadata{Schema: 1},
		Recipient: n.recipient.PublicKey(),
		Amount:    amount,
		EscrowID:  3,
	}
	require.NoError(t, n.deliver(t, open, n.sender))
	info := n.app.Info(abci.RequestInfo{})

	// A new application on the same store sees the committed state.
	restarted := custodyd.Application("custody-test", custodyd.Stack(nil), custodyd.TxDecoder, kv, true)
	assert.Equal(t, info, restarted.Info(abci.RequestInfo{}))
	assert.Equal(t, chainID, restarted.GetChainID())

	addr, _, err := escrow.DeriveAddress(n.owner, n.sender.PublicKey(), n.recipient.PublicKey(), 3)
	require.NoError(t, err)
	e, err := escrow.NewRecordStore(custodyd.CashControl()).Fetch(app.NewABCIStore(restarted), addr)
	require.NoError(t, err)
	assert.Equal(t, uint64(amount), e.Amount)
}
