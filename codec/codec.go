package codec

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/custody/errors"
)

// Marshal returns the protobuf encoding of m.
func Marshal(m proto.Message) ([]byte, error) {
	bz, err := proto.Marshal(m)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrModel, "marshal %T: %s", m, err)
	}
	return bz, nil
}

// Unmarshal resets m and decodes raw into it. Unknown fields are dropped.
func Unmarshal(raw []byte, m proto.Message) error {
	if err := proto.Unmarshal(raw, m); err != nil {
		return errors.Wrapf(errors.ErrModel, "unmarshal %T: %s", m, err)
	}
	return nil
}
