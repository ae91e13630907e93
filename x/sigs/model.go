package sigs

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/codec"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/orm"
)

// BucketName is where we store the accounts
const BucketName = "sigs"

// maxSequenceValue is limited by the client. The greatest supported
// nonce value at client side is
//   Number.MAX_SAFE_INTEGER = 9007199254740991 = 2^53 - 1
const maxSequenceValue = (1 << 53) - 1

// UserData holds the replay protection state of a single signer.
type UserData struct {
	Metadata *custody.Metadata `protobuf:"bytes,1,opt,name=metadata" json:"metadata,omitempty"`
	Pubkey   custody.Identity  `protobuf:"bytes,2,opt,name=pubkey,proto3" json:"pubkey,omitempty"`
	Sequence int64             `protobuf:"varint,3,opt,name=sequence,proto3" json:"sequence,omitempty"`
}

var _ orm.Model = (*UserData)(nil)

func (u *UserData) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", u.Metadata.Validate())
	errs = errors.AppendField(errs, "Pubkey", u.Pubkey.Validate())
	if u.Sequence < 0 {
		errs = errors.AppendField(errs, "Sequence", ErrInvalidSequence)
	}
	return errs
}

// CheckAndIncrementSequence implements check and increment operation.
// If current sequence value is the same as given expected value then it is
// incremented. Otherwise an error is returned.
// Before incrementing the sequence, this function is testing for a value
// overflow.
func (u *UserData) CheckAndIncrementSequence(expected int64) error {
	if u.Sequence != expected {
		return errors.Wrapf(ErrInvalidSequence, "mismatch expected %d, got %d", u.Sequence, expected)
	}
	next := u.Sequence + 1
	if next <= 0 || next > maxSequenceValue {
		return errors.Wrap(errors.ErrOverflow, "sequence out of range")
	}
	u.Sequence = next
	return nil
}

func (u *UserData) Marshal() ([]byte, error) {
	return codec.Marshal((*userDataMsg)(u))
}

func (u *UserData) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, (*userDataMsg)(u))
}

type userDataMsg UserData

func (m *userDataMsg) Reset()         { *m = userDataMsg{} }
func (m *userDataMsg) String() string { return proto.CompactTextString(m) }
func (*userDataMsg) ProtoMessage()    {}

// NewUser returns a fresh account for the given key.
func NewUser(pubkey custody.Identity) *UserData {
	return &UserData{
		Metadata: &custody.Metadata{Schema: 1},
		Pubkey:   pubkey,
	}
}

// Bucket extends orm.ModelBucket with GetOrCreate
type Bucket struct {
	orm.ModelBucket
}

// NewBucket creates the proper bucket for this extension
func NewBucket() Bucket {
	return Bucket{
		ModelBucket: orm.NewModelBucket(BucketName, &UserData{}),
	}
}

// GetOrCreate initializes a UserData if none exist for that key
func (b Bucket) GetOrCreate(db custody.ReadOnlyKVStore, pubkey custody.Identity) (*UserData, error) {
	var u UserData
	switch err := b.One(db, pubkey.Address(), &u); {
	case err == nil:
		return &u, nil
	case errors.ErrNotFound.Is(err):
		return NewUser(pubkey), nil
	default:
		return nil, err
	}
}

// Save stores the user under the address of its key.
func (b Bucket) Save(db custody.KVStore, u *UserData) error {
	return b.Put(db, u.Pubkey.Address(), u)
}

// NextNonce returns the next numeric nonce value that should be used during a
// transaction signing. If the signer never signed, nonce counting starts
// with zero.
func NextNonce(db custody.ReadOnlyKVStore, signer custody.Identity) (int64, error) {
	u, err := NewBucket().GetOrCreate(db, signer)
	if err != nil {
		return 0, errors.Wrap(err, "bucket get")
	}
	return u.Sequence, nil
}
