package crypto

import (
	"encoding/json"

	"github.com/btcsuite/btcutil/base58"
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"golang.org/x/crypto/ed25519"
)

// Signer is the functionality we use from a private key
// No serializing to support hardware devices as well.
type Signer interface {
	Sign(message []byte) ([]byte, error)
	PublicKey() custody.Identity
}

// PrivateKey is an ed25519 private key.
type PrivateKey struct {
	key ed25519.PrivateKey
}

var _ Signer = (*PrivateKey)(nil)

// GenPrivKeyEd25519 returns a random new private key
func GenPrivKeyEd25519() *PrivateKey {
	_, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		panic(err)
	}
	return &PrivateKey{key: priv}
}

// PrivKeyEd25519FromSeed will deterministically generate a private key from
// a given seed. Use if you have a strong source of external randomness,
// or for deterministic keys in test cases.
func PrivKeyEd25519FromSeed(seed []byte) (*PrivateKey, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, errors.Wrapf(ErrKey, "seed must be %d bytes", ed25519.SeedSize)
	}
	return &PrivateKey{key: ed25519.NewKeyFromSeed(seed)}, nil
}

// Sign returns a matching signature for this private key
func (p *PrivateKey) Sign(message []byte) ([]byte, error) {
	return ed25519.Sign(p.key, message), nil
}

// PublicKey returns the identity controlled by this key.
func (p *PrivateKey) PublicKey() custody.Identity {
	pub := p.key.Public().(ed25519.PublicKey)
	return custody.Identity(pub)
}

// Seed returns the seed this key can be recreated from.
func (p *PrivateKey) Seed() []byte {
	return p.key.Seed()
}

// MarshalJSON encodes the seed in base58.
func (p *PrivateKey) MarshalJSON() ([]byte, error) {
	return json.Marshal(base58.Encode(p.Seed()))
}

// UnmarshalJSON decodes a base58 encoded seed.
func (p *PrivateKey) UnmarshalJSON(raw []byte) error {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return errors.Wrap(ErrKey, "seed must be a string")
	}
	key, err := PrivKeyEd25519FromSeed(base58.Decode(s))
	if err != nil {
		return err
	}
	*p = *key
	return nil
}

// Verify verifies the signature was created with this message and identity.
func Verify(id custody.Identity, message, sig []byte) bool {
	if len(id) != ed25519.PublicKeySize || len(sig) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(id), message, sig)
}
