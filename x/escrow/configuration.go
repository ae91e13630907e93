package escrow

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/codec"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/gconf"
)

// Configuration is the escrow extension configuration singleton.
type Configuration struct {
	// Owner is mixed into every escrow address derivation. Changing it
	// makes all existing escrows unreachable.
	Owner custody.Identity `protobuf:"bytes,1,opt,name=owner,proto3" json:"owner"`
	// RecordDeposit is charged to the sender on top of the escrowed amount
	// and returned to the sender when the escrow is closed.
	RecordDeposit uint64 `protobuf:"varint,2,opt,name=record_deposit,json=recordDeposit,proto3" json:"record_deposit"`
}

var _ gconf.Configuration = (*Configuration)(nil)

func (c *Configuration) Validate() error {
	if err := c.Owner.Validate(); err != nil {
		return errors.Field("Owner", err, "invalid owner")
	}
	return nil
}

func (c *Configuration) Marshal() ([]byte, error) {
	return codec.Marshal((*configurationMsg)(c))
}

func (c *Configuration) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, (*configurationMsg)(c))
}

type configurationMsg Configuration

func (m *configurationMsg) Reset()         { *m = configurationMsg{} }
func (m *configurationMsg) String() string { return proto.CompactTextString(m) }
func (*configurationMsg) ProtoMessage()    {}

func loadConf(db gconf.ReadStore) (*Configuration, error) {
	var conf Configuration
	if err := gconf.Load(db, BucketName, &conf); err != nil {
		return nil, errors.Wrap(err, "load configuration")
	}
	return &conf, nil
}
