package custody

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/custody/codec"
	"github.com/iov-one/custody/errors"
)

// Metadata is carried by every message and model to declare the schema version
// of the format it was created with.
type Metadata struct {
	Schema uint32 `protobuf:"varint,1,opt,name=schema,proto3" json:"schema,omitempty"`
}

type metadataMsg Metadata

func (m *metadataMsg) Reset()         { *m = metadataMsg{} }
func (m *metadataMsg) String() string { return proto.CompactTextString(m) }
func (*metadataMsg) ProtoMessage()    {}

// Marshal encodes the metadata as protobuf.
func (m *Metadata) Marshal() ([]byte, error) {
	return codec.Marshal((*metadataMsg)(m))
}

// Unmarshal decodes the protobuf representation.
func (m *Metadata) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, (*metadataMsg)(m))
}

// Validate returns an error if the metadata is missing or declares an
// unsupported schema.
func (m *Metadata) Validate() error {
	if m == nil {
		return errors.Wrap(errors.ErrMsg, "missing metadata")
	}
	if m.Schema != 1 {
		return errors.Wrapf(errors.ErrMsg, "unsupported schema %d", m.Schema)
	}
	return nil
}
