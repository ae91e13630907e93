package cash

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/codec"
	"github.com/iov-one/custody/errors"
)

const maxMemoSize int = 128

// SendMsg moves Amount from the Source wallet to the Destination wallet.
// It must be signed by the owner of the Source address.
type SendMsg struct {
	Metadata    *custody.Metadata `protobuf:"bytes,1,opt,name=metadata" json:"metadata,omitempty"`
	Source      custody.Address   `protobuf:"bytes,2,opt,name=source,proto3" json:"source,omitempty"`
	Destination custody.Address   `protobuf:"bytes,3,opt,name=destination,proto3" json:"destination,omitempty"`
	Amount      uint64            `protobuf:"varint,4,opt,name=amount,proto3" json:"amount,omitempty"`
	Memo        string            `protobuf:"bytes,5,opt,name=memo,proto3" json:"memo,omitempty"`
}

var _ custody.Msg = (*SendMsg)(nil)

// Path returns the routing path for this message
func (SendMsg) Path() string {
	return "cash/send"
}

// Validate makes sure that this is sensible
func (m *SendMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	if m.Amount == 0 {
		errs = errors.AppendField(errs, "Amount", errors.ErrAmount)
	}
	errs = errors.AppendField(errs, "Source", m.Source.Validate())
	errs = errors.AppendField(errs, "Destination", m.Destination.Validate())
	if len(m.Memo) > maxMemoSize {
		errs = errors.AppendField(errs, "Memo", errors.ErrInput)
	}
	return errs
}

func (m *SendMsg) Marshal() ([]byte, error) {
	return codec.Marshal((*sendMsg)(m))
}

func (m *SendMsg) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, (*sendMsg)(m))
}

// IssueMsg creates Amount new coins in the Destination wallet. It must be
// signed by the configured minter.
type IssueMsg struct {
	Metadata    *custody.Metadata `protobuf:"bytes,1,opt,name=metadata" json:"metadata,omitempty"`
	Destination custody.Address   `protobuf:"bytes,2,opt,name=destination,proto3" json:"destination,omitempty"`
	Amount      uint64            `protobuf:"varint,3,opt,name=amount,proto3" json:"amount,omitempty"`
}

var _ custody.Msg = (*IssueMsg)(nil)

// Path returns the routing path for this message
func (IssueMsg) Path() string {
	return "cash/issue"
}

// Validate makes sure that this is sensible
func (m *IssueMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	if m.Amount == 0 {
		errs = errors.AppendField(errs, "Amount", errors.ErrAmount)
	}
	errs = errors.AppendField(errs, "Destination", m.Destination.Validate())
	return errs
}

func (m *IssueMsg) Marshal() ([]byte, error) {
	return codec.Marshal((*issueMsg)(m))
}

func (m *IssueMsg) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, (*issueMsg)(m))
}

type sendMsg SendMsg

func (m *sendMsg) Reset()         { *m = sendMsg{} }
func (m *sendMsg) String() string { return proto.CompactTextString(m) }
func (*sendMsg) ProtoMessage()    {}

type issueMsg IssueMsg

func (m *issueMsg) Reset()         { *m = issueMsg{} }
func (m *issueMsg) String() string { return proto.CompactTextString(m) }
func (*issueMsg) ProtoMessage()    {}
