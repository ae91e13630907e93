/*
Package codec encodes the models, messages and transactions of this module
using gogo protobuf.

Types declare their fields with protobuf struct tags, the same way protoc
generated code does, and are encoded by the gogo table marshaler. Field
numbers are part of the wire format and must never be reused.

A type that implements its own Marshal method is marshalled by calling that
method, also when it is the message being encoded. Each type therefore
encodes through a method free twin declared next to it

	type walletMsg Wallet

	func (m *walletMsg) Reset()         { *m = walletMsg{} }
	func (m *walletMsg) String() string { return proto.CompactTextString(m) }
	func (*walletMsg) ProtoMessage()    {}

	func (w *Wallet) Marshal() ([]byte, error) {
		return codec.Marshal((*walletMsg)(w))
	}

Nested messages do not need a twin.
*/
package codec
