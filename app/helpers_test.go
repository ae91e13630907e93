package app

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/codec"
	"github.com/iov-one/custody/errors"
)

// testMsg is stored under its key by testHandler.
type testMsg struct {
	Route string `protobuf:"bytes,1,opt,name=route,proto3"`
	Key   []byte `protobuf:"bytes,2,opt,name=key,proto3"`
	Value []byte `protobuf:"bytes,3,opt,name=value,proto3"`
}

var _ custody.Msg = (*testMsg)(nil)

func (m *testMsg) Path() string    { return m.Route }
func (m *testMsg) Validate() error { return nil }

func (m *testMsg) Marshal() ([]byte, error) {
	return codec.Marshal((*testMsgProto)(m))
}

func (m *testMsg) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, (*testMsgProto)(m))
}

type testMsgProto testMsg

func (m *testMsgProto) Reset()         { *m = testMsgProto{} }
func (m *testMsgProto) String() string { return proto.CompactTextString(m) }
func (*testMsgProto) ProtoMessage()    {}

// testTx carries a single testMsg.
type testTx struct {
	msg testMsg
}

var _ custody.Tx = (*testTx)(nil)

func (tx *testTx) GetMsg() (custody.Msg, error) { return &tx.msg, nil }
func (tx *testTx) Marshal() ([]byte, error)     { return tx.msg.Marshal() }
func (tx *testTx) Unmarshal(raw []byte) error   { return tx.msg.Unmarshal(raw) }

func decodeTestTx(raw []byte) (custody.Tx, error) {
	var tx testTx
	if err := tx.Unmarshal(raw); err != nil {
		return nil, err
	}
	return &tx, nil
}

// writeHandler writes the message value under its key. An empty value
// fails after writing.
type writeHandler struct {
	calls int
}

func (h *writeHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	h.calls++
	return &custody.CheckResult{GasAllocated: 1}, nil
}

func (h *writeHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	h.calls++
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	m := msg.(*testMsg)
	db.Set(m.Key, m.Value)
	if len(m.Value) == 0 {
		return nil, errors.Wrap(errors.ErrEmpty, "value")
	}
	return &custody.DeliverResult{Data: m.Key}, nil
}

// countingDecorator counts calls and passes them on.
type countingDecorator struct {
	calls int
}

func (d *countingDecorator) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx, next custody.Checker) (*custody.CheckResult, error) {
	d.calls++
	return next.Check(ctx, db, tx)
}

func (d *countingDecorator) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx, next custody.Deliverer) (*custody.DeliverResult, error) {
	d.calls++
	return next.Deliver(ctx, db, tx)
}
