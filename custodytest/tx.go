package custodytest

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

// Tx represents a custody transaction holding a single message.
type Tx struct {
	Msg custody.Msg
	Err error
}

var _ custody.Tx = (*Tx)(nil)

func (tx *Tx) GetMsg() (custody.Msg, error) {
	if tx.Err != nil {
		return nil, tx.Err
	}
	return tx.Msg, nil
}

func (tx *Tx) Marshal() ([]byte, error) {
	if tx.Msg == nil {
		return nil, errors.Wrap(errors.ErrEmpty, "message")
	}
	return tx.Msg.Marshal()
}

func (tx *Tx) Unmarshal([]byte) error {
	return errors.Wrap(errors.ErrHuman, "mock transaction cannot be unmarshalled")
}

// Msg is a mock message with a configurable path.
type Msg struct {
	RoutePath   string
	Serialized  []byte
	ValidateErr error
}

var _ custody.Msg = (*Msg)(nil)

func (m *Msg) Path() string {
	return m.RoutePath
}

func (m *Msg) Validate() error {
	return m.ValidateErr
}

func (m *Msg) Marshal() ([]byte, error) {
	return m.Serialized, nil
}

func (m *Msg) Unmarshal(raw []byte) error {
	m.Serialized = raw
	return nil
}
