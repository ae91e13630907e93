package custodytest

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/crypto"
)

// NewKey returns a new random private key.
func NewKey() *crypto.PrivateKey {
	return crypto.GenPrivKeyEd25519()
}

// NewIdentity returns the identity of a new random key.
func NewIdentity() custody.Identity {
	return NewKey().PublicKey()
}

// SequenceID returns an 8 byte big endian encoded value.
func SequenceID(n uint64) []byte {
	b := make([]byte, 8)
	for i := 7; i >= 0; i-- {
		b[i] = byte(n)
		n >>= 8
	}
	return b
}
