package cash

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/codec"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/gconf"
)

// Configuration is the cash extension configuration singleton.
type Configuration struct {
	// Minter is allowed to issue new coins. When not set, no coins can be
	// issued after genesis.
	Minter custody.Identity `protobuf:"bytes,1,opt,name=minter,proto3" json:"minter"`
}

var _ gconf.Configuration = (*Configuration)(nil)

type configurationMsg Configuration

func (m *configurationMsg) Reset()         { *m = configurationMsg{} }
func (m *configurationMsg) String() string { return proto.CompactTextString(m) }
func (*configurationMsg) ProtoMessage()    {}

func (c *Configuration) Validate() error {
	// minter is optional
	if len(c.Minter) != 0 {
		if err := c.Minter.Validate(); err != nil {
			return errors.Field("Minter", err, "invalid minter")
		}
	}
	return nil
}

func (c *Configuration) Marshal() ([]byte, error) {
	return codec.Marshal((*configurationMsg)(c))
}

func (c *Configuration) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, (*configurationMsg)(c))
}

// loadConf returns the stored configuration, or an empty one if the
// extension was never configured.
func loadConf(db gconf.ReadStore) (Configuration, error) {
	var conf Configuration
	err := gconf.Load(db, BucketName, &conf)
	if err != nil && !errors.ErrNotFound.Is(err) {
		return conf, errors.Wrap(err, "load configuration")
	}
	return conf, nil
}
