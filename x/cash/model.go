package cash

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/custody/codec"
	"github.com/iov-one/custody/orm"
)

// BucketName is where we store the balances
const BucketName = "cash"

// Wallet holds the native asset balance of a single address.
type Wallet struct {
	Balance uint64 `protobuf:"varint,1,opt,name=balance,proto3" json:"balance,omitempty"`
}

var _ orm.Model = (*Wallet)(nil)

type walletMsg Wallet

func (m *walletMsg) Reset()         { *m = walletMsg{} }
func (m *walletMsg) String() string { return proto.CompactTextString(m) }
func (*walletMsg) ProtoMessage()    {}

// Validate is a noop, any balance is valid.
func (w *Wallet) Validate() error {
	return nil
}

func (w *Wallet) Marshal() ([]byte, error) {
	return codec.Marshal((*walletMsg)(w))
}

func (w *Wallet) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, (*walletMsg)(w))
}

// NewBucket returns a bucket storing wallets under their address.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket(BucketName, &Wallet{})
}
