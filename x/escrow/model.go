package escrow

import (
	"encoding/binary"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/orm"
)

const (
	// BucketName is where we store the escrows
	BucketName = "escrow"

	// RecordSize is the size of a serialized escrow.
	RecordSize = 2*custody.IdentityLength + 8 + 8 + 8 + 1
)

// Escrow is the record of locked funds between a sender and a recipient.
// It is immutable, created when opened and deleted when accepted or
// cancelled.
type Escrow struct {
	Sender    custody.Identity `json:"sender"`
	Recipient custody.Identity `json:"recipient"`
	Amount    uint64           `json:"amount"`
	EscrowID  uint64           `json:"escrow_id"`
	CreatedAt custody.UnixTime `json:"created_at"`
	Bump      uint8            `json:"bump"`
}

var _ orm.Model = (*Escrow)(nil)

// Validate ensures the escrow is funded and both parties are known.
func (e *Escrow) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Sender", e.Sender.Validate())
	errs = errors.AppendField(errs, "Recipient", e.Recipient.Validate())
	if e.Amount == 0 {
		errs = errors.AppendField(errs, "Amount", ErrInvalidAmount)
	}
	return errs
}

// Marshal encodes the escrow using a fixed layout with little endian
// integers
//   sender(32) | recipient(32) | amount(u64) | escrow_id(u64) | created_at(i64) | bump(u8)
func (e *Escrow) Marshal() ([]byte, error) {
	if len(e.Sender) != custody.IdentityLength || len(e.Recipient) != custody.IdentityLength {
		return nil, errors.Wrap(errors.ErrModel, "sender and recipient are required")
	}
	raw := make([]byte, RecordSize)
	n := copy(raw, e.Sender)
	n += copy(raw[n:], e.Recipient)
	binary.LittleEndian.PutUint64(raw[n:], e.Amount)
	n += 8
	binary.LittleEndian.PutUint64(raw[n:], e.EscrowID)
	n += 8
	binary.LittleEndian.PutUint64(raw[n:], uint64(e.CreatedAt))
	n += 8
	raw[n] = e.Bump
	return raw, nil
}

// Unmarshal decodes the fixed layout. Any other size is rejected.
func (e *Escrow) Unmarshal(raw []byte) error {
	if len(raw) != RecordSize {
		return errors.Wrapf(errors.ErrModel, "escrow must be %d bytes, got %d", RecordSize, len(raw))
	}
	const idl = custody.IdentityLength
	*e = Escrow{
		Sender:    append(custody.Identity(nil), raw[:idl]...),
		Recipient: append(custody.Identity(nil), raw[idl:2*idl]...),
		Amount:    binary.LittleEndian.Uint64(raw[2*idl:]),
		EscrowID:  binary.LittleEndian.Uint64(raw[2*idl+8:]),
		CreatedAt: custody.UnixTime(binary.LittleEndian.Uint64(raw[2*idl+16:])),
		Bump:      raw[2*idl+24],
	}
	return nil
}

// NewBucket returns a bucket storing escrows under their derived address,
// indexed by sender and recipient.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket(BucketName, &Escrow{},
		orm.WithIndex("sender", senderIndex),
		orm.WithIndex("recipient", recipientIndex),
	)
}

func senderIndex(m orm.Model) ([]byte, error) {
	e, ok := m.(*Escrow)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "%T", m)
	}
	return e.Sender, nil
}

func recipientIndex(m orm.Model) ([]byte, error) {
	e, ok := m.(*Escrow)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "%T", m)
	}
	return e.Recipient, nil
}
