package sigs

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/codec"
	"github.com/iov-one/custody/errors"
)

// SignedTx represents a transaction that contains signatures,
// which can be verified by the sigs.Decorator
type SignedTx interface {
	// GetSignBytes returns the canonical byte representation of the Msg.
	// Helpful to store original, unparsed bytes here, just in case.
	GetSignBytes() ([]byte, error)

	// GetSignatures returns the signature of signers who signed the Msg.
	GetSignatures() []*StdSignature
}

// StdSignature is an ed25519 signature together with the sequence it was
// created for.
type StdSignature struct {
	Pubkey    custody.Identity `protobuf:"bytes,1,opt,name=pubkey,proto3" json:"pubkey,omitempty"`
	Signature []byte           `protobuf:"bytes,2,opt,name=signature,proto3" json:"signature,omitempty"`
	Sequence  int64            `protobuf:"varint,3,opt,name=sequence,proto3" json:"sequence,omitempty"`
}

// Validate ensures the StdSignature meets basic standards
func (s *StdSignature) Validate() error {
	if s.Sequence < 0 {
		return errors.Wrap(ErrInvalidSequence, "negative")
	}
	if s.Pubkey == nil {
		return errors.Wrap(errors.ErrUnauthorized, "missing public key")
	}
	if err := s.Pubkey.Validate(); err != nil {
		return errors.Wrap(errors.ErrUnauthorized, "invalid public key")
	}
	if s.Signature == nil {
		return errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	return nil
}

func (s *StdSignature) Marshal() ([]byte, error) {
	return codec.Marshal((*stdSignatureMsg)(s))
}

func (s *StdSignature) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, (*stdSignatureMsg)(s))
}

type stdSignatureMsg StdSignature

func (m *stdSignatureMsg) Reset()         { *m = stdSignatureMsg{} }
func (m *stdSignatureMsg) String() string { return proto.CompactTextString(m) }
func (*stdSignatureMsg) ProtoMessage()    {}
