package escrow

import (
	"encoding/binary"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/crypto"
	"github.com/iov-one/custody/errors"
)

var seedPrefix = []byte("escrow")

// Seeds returns the derivation seeds of the escrow between sender and
// recipient with given id.
func Seeds(sender, recipient custody.Identity, escrowID uint64) [][]byte {
	id := make([]byte, 8)
	binary.LittleEndian.PutUint64(id, escrowID)
	return [][]byte{seedPrefix, sender, recipient, id}
}

// DeriveAddress returns the escrow address together with the bump that
// produced it. The same input always gives the same result.
func DeriveAddress(owner, sender, recipient custody.Identity, escrowID uint64) (custody.Address, uint8, error) {
	if err := validateParties(sender, recipient); err != nil {
		return nil, 0, err
	}
	addr, bump, err := crypto.FindDerivedAddress(Seeds(sender, recipient, escrowID), owner)
	switch {
	case crypto.ErrExhausted.Is(err):
		return nil, 0, errors.Wrapf(ErrDerivationExhausted, "escrow id %d", escrowID)
	case err != nil:
		return nil, 0, err
	}
	return addr, bump, nil
}

// VerifyAddress recomputes the escrow address using the given bump and
// fails with ErrInvalidBump unless it is the canonical one.
func VerifyAddress(owner, sender, recipient custody.Identity, escrowID uint64, bump uint8) (custody.Address, error) {
	addr, canonical, err := DeriveAddress(owner, sender, recipient, escrowID)
	if err != nil {
		return nil, err
	}
	if bump != canonical {
		return nil, errors.Wrapf(ErrInvalidBump, "got %d, expected %d", bump, canonical)
	}
	got, err := crypto.CreateDerivedAddress(Seeds(sender, recipient, escrowID), bump, owner)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidBump, err.Error())
	}
	if !got.Equals(addr) {
		return nil, errors.Wrap(ErrInvalidBump, "address mismatch")
	}
	return addr, nil
}

func validateParties(sender, recipient custody.Identity) error {
	var errs error
	errs = errors.AppendField(errs, "Sender", sender.Validate())
	errs = errors.AppendField(errs, "Recipient", recipient.Validate())
	return errs
}
