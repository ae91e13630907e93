package app

import (
	"bytes"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/commands"
	"github.com/iov-one/custody/crypto"
	"github.com/iov-one/custody/x/cash"
	"github.com/iov-one/custody/x/escrow"
	"github.com/iov-one/custody/x/sigs"
)

// examplesChainID is the chain the example transactions are signed for.
const examplesChainID = "test-123"

// Examples generates some example structs to dump out with testgen. Keys are
// derived from fixed seeds so the output does not change between runs.
func Examples() []commands.Example {
	sender := mustKey(1)
	recipient := mustKey(2)
	owner := mustKey(3).PublicKey()

	addr, bump, err := escrow.DeriveAddress(owner, sender.PublicKey(), recipient.PublicKey(), 1)
	if err != nil {
		panic(err)
	}
	record := &escrow.Escrow{
		Sender:    sender.PublicKey(),
		Recipient: recipient.PublicKey(),
		Amount:    1000000000,
		EscrowID:  1,
		CreatedAt: 1546300920,
		Bump:      bump,
	}

	meta := &custody.Metadata{Schema: 1}
	open := &escrow.OpenMsg{
		Metadata:  meta,
		Recipient: recipient.PublicKey(),
		Amount:    record.Amount,
		EscrowID:  record.EscrowID,
	}
	target := escrow.Target{
		Sender:    record.Sender,
		Recipient: record.Recipient,
		EscrowID:  record.EscrowID,
		Bump:      uint32(bump),
		HasBump:   true,
	}
	accept := &escrow.AcceptMsg{Metadata: meta, Target: target}
	cancel := &escrow.CancelMsg{Metadata: meta, Target: target}
	send := &cash.SendMsg{
		Metadata:    meta,
		Source:      sender.PublicKey().Address(),
		Destination: addr,
		Amount:      250,
		Memo:        "Test payment",
	}

	return []commands.Example{
		{Filename: "escrow", Obj: record},
		{Filename: "wallet", Obj: &cash.Wallet{Balance: 50000}},
		{Filename: "user", Obj: &sigs.UserData{Metadata: meta, Pubkey: sender.PublicKey(), Sequence: 17}},
		{Filename: "open_msg", Obj: open},
		{Filename: "accept_msg", Obj: accept},
		{Filename: "cancel_msg", Obj: cancel},
		{Filename: "send_msg", Obj: send},
		{Filename: "open_tx", Obj: signedExample(open, sender, 17)},
		{Filename: "accept_tx", Obj: signedExample(accept, recipient, 0)},
	}
}

func signedExample(msg custody.Msg, key *crypto.PrivateKey, seq int64) *Tx {
	tx, err := NewTx(msg)
	if err != nil {
		panic(err)
	}
	sig, err := sigs.SignTx(key, tx, examplesChainID, seq)
	if err != nil {
		panic(err)
	}
	tx.Signatures = []*sigs.StdSignature{sig}
	return tx
}

func mustKey(seed byte) *crypto.PrivateKey {
	key, err := crypto.PrivKeyEd25519FromSeed(bytes.Repeat([]byte{seed}, 32))
	if err != nil {
		panic(err)
	}
	return key
}
