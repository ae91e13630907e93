package custody

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/btcsuite/btcutil/base58"
	"github.com/btcsuite/btcutil/bech32"
	"github.com/iov-one/custody/errors"
)

const (
	// IdentityLength is the size of an ed25519 public key.
	IdentityLength = 32

	// AddressLength is the size of every account address. An identity's own
	// account uses the identity bytes as the address, derived accounts use
	// a digest of the same size.
	AddressLength = 32

	// Bech32Prefix is the human readable part of bech32 encoded addresses.
	Bech32Prefix = "custody"
)

// Identity is the public key of a participant. Whoever can produce a
// signature for an identity controls it.
type Identity []byte

// Equals checks if two identities are the same.
func (i Identity) Equals(o Identity) bool {
	return bytes.Equal(i, o)
}

// Validate returns an error if the identity is not of the valid size.
func (i Identity) Validate() error {
	if len(i) == 0 {
		return errors.ErrEmpty
	}
	if len(i) != IdentityLength {
		return errors.Wrapf(errors.ErrInput, "identity must be %d bytes, got %d", IdentityLength, len(i))
	}
	return nil
}

// Address returns the address of the account owned by this identity.
func (i Identity) Address() Address {
	return Address(i)
}

// String returns the base58 representation.
func (i Identity) String() string {
	if len(i) == 0 {
		return "(nil)"
	}
	return base58.Encode(i)
}

// MarshalJSON provides a base58 representation for JSON.
func (i Identity) MarshalJSON() ([]byte, error) {
	return json.Marshal(base58.Encode(i))
}

// UnmarshalJSON parses JSON in base58 representation. An empty string is
// a nil identity.
func (i *Identity) UnmarshalJSON(raw []byte) error {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return errors.Wrap(errors.ErrInput, "identity must be a string")
	}
	if s == "" {
		*i = nil
		return nil
	}
	id, err := ParseIdentity(s)
	if err != nil {
		return err
	}
	*i = id
	return nil
}

// ParseIdentity decodes a base58 encoded identity.
func ParseIdentity(s string) (Identity, error) {
	raw := base58.Decode(s)
	if len(raw) == 0 {
		return nil, errors.Wrapf(errors.ErrInput, "invalid base58 identity %q", s)
	}
	id := Identity(raw)
	if err := id.Validate(); err != nil {
		return nil, err
	}
	return id, nil
}

// Address identifies an account that can hold a balance.
type Address []byte

// Equals checks if two addresses are the same.
func (a Address) Equals(b Address) bool {
	return bytes.Equal(a, b)
}

// Validate returns an error if the address is not of the valid size.
func (a Address) Validate() error {
	if len(a) == 0 {
		return errors.ErrEmpty
	}
	if len(a) != AddressLength {
		return errors.Wrapf(errors.ErrInput, "address must be %d bytes, got %d", AddressLength, len(a))
	}
	return nil
}

// String returns the base58 representation.
func (a Address) String() string {
	if len(a) == 0 {
		return "(nil)"
	}
	return base58.Encode(a)
}

// Bech32 returns the bech32 representation using the custody prefix.
func (a Address) Bech32() (string, error) {
	conv, err := bech32.ConvertBits(a, 8, 5, true)
	if err != nil {
		return "", errors.Wrap(errors.ErrInput, err.Error())
	}
	s, err := bech32.Encode(Bech32Prefix, conv)
	if err != nil {
		return "", errors.Wrap(errors.ErrInput, err.Error())
	}
	return s, nil
}

// MarshalJSON provides a base58 representation for JSON.
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(base58.Encode(a))
}

// UnmarshalJSON accepts both the base58 and the bech32 representation.
func (a *Address) UnmarshalJSON(raw []byte) error {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return errors.Wrap(errors.ErrInput, "address must be a string")
	}
	if s == "" {
		*a = nil
		return nil
	}
	addr, err := ParseAddress(s)
	if err != nil {
		return err
	}
	*a = addr
	return nil
}

// ParseAddress decodes an address given either in base58 or in bech32 with
// the custody prefix.
func ParseAddress(s string) (Address, error) {
	var raw []byte
	if strings.HasPrefix(strings.ToLower(s), Bech32Prefix+"1") {
		hrp, data, err := bech32.Decode(s)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrInput, "invalid bech32 address: %s", err)
		}
		if hrp != Bech32Prefix {
			return nil, errors.Wrapf(errors.ErrInput, "unexpected prefix %q", hrp)
		}
		raw, err = bech32.ConvertBits(data, 5, 8, false)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrInput, "invalid bech32 address: %s", err)
		}
	} else {
		raw = base58.Decode(s)
	}
	if len(raw) == 0 {
		return nil, errors.Wrapf(errors.ErrInput, "cannot decode address %q", s)
	}
	addr := Address(raw)
	if err := addr.Validate(); err != nil {
		return nil, err
	}
	return addr, nil
}
