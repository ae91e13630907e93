package app

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/codec"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/x/cash"
	"github.com/iov-one/custody/x/escrow"
	"github.com/iov-one/custody/x/sigs"
)

// Tx carries exactly one message together with the signatures authorizing
// it.
type Tx struct {
	Signatures []*sigs.StdSignature `protobuf:"bytes,1,rep,name=signatures" json:"signatures,omitempty"`

	SendMsg   *cash.SendMsg     `protobuf:"bytes,2,opt,name=send_msg,json=sendMsg" json:"send_msg,omitempty"`
	IssueMsg  *cash.IssueMsg    `protobuf:"bytes,3,opt,name=issue_msg,json=issueMsg" json:"issue_msg,omitempty"`
	OpenMsg   *escrow.OpenMsg   `protobuf:"bytes,4,opt,name=open_msg,json=openMsg" json:"open_msg,omitempty"`
	AcceptMsg *escrow.AcceptMsg `protobuf:"bytes,5,opt,name=accept_msg,json=acceptMsg" json:"accept_msg,omitempty"`
	CancelMsg *escrow.CancelMsg `protobuf:"bytes,6,opt,name=cancel_msg,json=cancelMsg" json:"cancel_msg,omitempty"`
}

var _ custody.Tx = (*Tx)(nil)
var _ sigs.SignedTx = (*Tx)(nil)

// TxDecoder creates a Tx and unmarshals bytes into it
func TxDecoder(bz []byte) (custody.Tx, error) {
	tx := new(Tx)
	if err := tx.Unmarshal(bz); err != nil {
		return nil, err
	}
	return tx, nil
}

// NewTx returns a transaction carrying given message.
func NewTx(msg custody.Msg) (*Tx, error) {
	var tx Tx
	switch m := msg.(type) {
	case *cash.SendMsg:
		tx.SendMsg = m
	case *cash.IssueMsg:
		tx.IssueMsg = m
	case *escrow.OpenMsg:
		tx.OpenMsg = m
	case *escrow.AcceptMsg:
		tx.AcceptMsg = m
	case *escrow.CancelMsg:
		tx.CancelMsg = m
	default:
		return nil, errors.Wrapf(errors.ErrType, "unsupported message %T", msg)
	}
	return &tx, nil
}

// GetMsg returns the single message of this transaction.
func (tx *Tx) GetMsg() (custody.Msg, error) {
	var msgs []custody.Msg
	if tx.SendMsg != nil {
		msgs = append(msgs, tx.SendMsg)
	}
	if tx.IssueMsg != nil {
		msgs = append(msgs, tx.IssueMsg)
	}
	if tx.OpenMsg != nil {
		msgs = append(msgs, tx.OpenMsg)
	}
	if tx.AcceptMsg != nil {
		msgs = append(msgs, tx.AcceptMsg)
	}
	if tx.CancelMsg != nil {
		msgs = append(msgs, tx.CancelMsg)
	}
	switch len(msgs) {
	case 0:
		return nil, errors.Wrap(errors.ErrInput, "no message")
	case 1:
		return msgs[0], nil
	default:
		return nil, errors.Wrapf(errors.ErrInput, "%d messages, only one allowed", len(msgs))
	}
}

// GetSignatures returns all signatures of this transaction.
func (tx *Tx) GetSignatures() []*sigs.StdSignature {
	return tx.Signatures
}

// GetSignBytes returns the bytes to sign, the transaction without the
// signatures.
func (tx *Tx) GetSignBytes() ([]byte, error) {
	cpy := *tx
	cpy.Signatures = nil
	return cpy.Marshal()
}

func (tx *Tx) Marshal() ([]byte, error) {
	return codec.Marshal((*txMsg)(tx))
}

func (tx *Tx) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, (*txMsg)(tx))
}

type txMsg Tx

func (m *txMsg) Reset()         { *m = txMsg{} }
func (m *txMsg) String() string { return proto.CompactTextString(m) }
func (*txMsg) ProtoMessage()    {}
