package escrow

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/codec"
	"github.com/iov-one/custody/errors"
)

const (
	pathOpenMsg   = "escrow/open"
	pathAcceptMsg = "escrow/accept"
	pathCancelMsg = "escrow/cancel"

	maxBump = 255
)

// OpenMsg locks Amount for the Recipient. The sender is the main signer of
// the transaction.
type OpenMsg struct {
	Metadata  *custody.Metadata `protobuf:"bytes,1,opt,name=metadata" json:"metadata,omitempty"`
	Recipient custody.Identity  `protobuf:"bytes,2,opt,name=recipient,proto3" json:"recipient,omitempty"`
	Amount    uint64            `protobuf:"varint,3,opt,name=amount,proto3" json:"amount,omitempty"`
	EscrowID  uint64            `protobuf:"varint,4,opt,name=escrow_id,json=escrowId,proto3" json:"escrow_id,omitempty"`
}

var _ custody.Msg = (*OpenMsg)(nil)

// Path returns the routing path for this message
func (OpenMsg) Path() string {
	return pathOpenMsg
}

// Validate makes sure that this is sensible
func (m *OpenMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "Recipient", m.Recipient.Validate())
	if m.Amount == 0 {
		errs = errors.AppendField(errs, "Amount", ErrInvalidAmount)
	}
	return errs
}

func (m *OpenMsg) Marshal() ([]byte, error) {
	return codec.Marshal((*openMsg)(m))
}

func (m *OpenMsg) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, (*openMsg)(m))
}

type openMsg OpenMsg

func (m *openMsg) Reset()         { *m = openMsg{} }
func (m *openMsg) String() string { return proto.CompactTextString(m) }
func (*openMsg) ProtoMessage()    {}

// Target identifies an existing escrow by the derivation input. Bump is
// optional, when given it must match the escrow address.
type Target struct {
	Sender    custody.Identity `protobuf:"bytes,1,opt,name=sender,proto3" json:"sender,omitempty"`
	Recipient custody.Identity `protobuf:"bytes,2,opt,name=recipient,proto3" json:"recipient,omitempty"`
	EscrowID  uint64           `protobuf:"varint,3,opt,name=escrow_id,json=escrowId,proto3" json:"escrow_id,omitempty"`
	Bump      uint32           `protobuf:"varint,4,opt,name=bump,proto3" json:"bump,omitempty"`
	HasBump   bool             `protobuf:"varint,5,opt,name=has_bump,json=hasBump,proto3" json:"has_bump,omitempty"`
}

// BumpSupplied returns true if the bump must be verified.
func (t Target) BumpSupplied() bool {
	return t.HasBump || t.Bump != 0
}

func (t Target) validate(errs error) error {
	errs = errors.AppendField(errs, "Sender", t.Sender.Validate())
	errs = errors.AppendField(errs, "Recipient", t.Recipient.Validate())
	if t.Bump > maxBump {
		errs = errors.AppendField(errs, "Bump", errors.Wrapf(errors.ErrInput, "greater than %d", maxBump))
	}
	return errs
}

// AcceptMsg pays the escrow to its recipient. Must be signed by the
// recipient.
type AcceptMsg struct {
	Metadata *custody.Metadata `protobuf:"bytes,1,opt,name=metadata" json:"metadata,omitempty"`
	Target   `protobuf:"bytes,2,opt,name=target" json:"target"`
}

var _ custody.Msg = (*AcceptMsg)(nil)

// Path returns the routing path for this message
func (AcceptMsg) Path() string {
	return pathAcceptMsg
}

// Validate makes sure that this is sensible
func (m *AcceptMsg) Validate() error {
	errs := errors.AppendField(nil, "Metadata", m.Metadata.Validate())
	return m.Target.validate(errs)
}

func (m *AcceptMsg) Marshal() ([]byte, error) {
	return codec.Marshal((*acceptMsg)(m))
}

func (m *AcceptMsg) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, (*acceptMsg)(m))
}

type acceptMsg AcceptMsg

func (m *acceptMsg) Reset()         { *m = acceptMsg{} }
func (m *acceptMsg) String() string { return proto.CompactTextString(m) }
func (*acceptMsg) ProtoMessage()    {}

// CancelMsg returns the escrow to its sender. Must be signed by the sender.
type CancelMsg struct {
	Metadata *custody.Metadata `protobuf:"bytes,1,opt,name=metadata" json:"metadata,omitempty"`
	Target   `protobuf:"bytes,2,opt,name=target" json:"target"`
}

var _ custody.Msg = (*CancelMsg)(nil)

// Path returns the routing path for this message
func (CancelMsg) Path() string {
	return pathCancelMsg
}

// Validate makes sure that this is sensible
func (m *CancelMsg) Validate() error {
	errs := errors.AppendField(nil, "Metadata", m.Metadata.Validate())
	return m.Target.validate(errs)
}

func (m *CancelMsg) Marshal() ([]byte, error) {
	return codec.Marshal((*cancelMsg)(m))
}

func (m *CancelMsg) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, (*cancelMsg)(m))
}

type cancelMsg CancelMsg

func (m *cancelMsg) Reset()         { *m = cancelMsg{} }
func (m *cancelMsg) String() string { return proto.CompactTextString(m) }
func (*cancelMsg) ProtoMessage()    {}
