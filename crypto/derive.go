package crypto

import (
	"crypto/sha256"

	"filippo.io/edwards25519"
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

const (
	// MaxSeeds is the maximum number of seeds, including the bump.
	MaxSeeds = 16

	// MaxSeedLength is the maximum size of a single seed.
	MaxSeedLength = 32

	derivedAddressMarker = "ProgramDerivedAddress"
)

// CreateDerivedAddress computes the address for the seeds, the bump and the
// owner
//   sha256(seeds... | bump | owner | "ProgramDerivedAddress")
// ErrInvalidSeeds is returned if the result is a valid ed25519 point, which
// happens for about half of the bump values.
func CreateDerivedAddress(seeds [][]byte, bump uint8, owner custody.Identity) (custody.Address, error) {
	if err := validateSeeds(seeds, owner); err != nil {
		return nil, err
	}
	sum := candidate(seeds, bump, owner)
	if isOnCurve(sum) {
		return nil, errors.Wrapf(ErrInvalidSeeds, "bump %d gives an address on the curve", bump)
	}
	return custody.Address(sum), nil
}

// FindDerivedAddress searches bump values from 255 down to 0 and returns the
// first address that is not on the ed25519 curve, together with the bump
// that produced it.
func FindDerivedAddress(seeds [][]byte, owner custody.Identity) (custody.Address, uint8, error) {
	if err := validateSeeds(seeds, owner); err != nil {
		return nil, 0, err
	}
	for bump := 255; bump >= 0; bump-- {
		sum := candidate(seeds, uint8(bump), owner)
		if !isOnCurve(sum) {
			return custody.Address(sum), uint8(bump), nil
		}
	}
	return nil, 0, errors.Wrap(ErrExhausted, "no bump gives an address off the curve")
}

func validateSeeds(seeds [][]byte, owner custody.Identity) error {
	if len(seeds)+1 > MaxSeeds {
		return errors.Wrapf(ErrInvalidSeeds, "at most %d seeds allowed", MaxSeeds-1)
	}
	for i, s := range seeds {
		if len(s) > MaxSeedLength {
			return errors.Wrapf(ErrInvalidSeeds, "seed %d longer than %d bytes", i, MaxSeedLength)
		}
	}
	if err := owner.Validate(); err != nil {
		return errors.Field("Owner", err, "invalid owner")
	}
	return nil
}

func candidate(seeds [][]byte, bump uint8, owner custody.Identity) []byte {
	h := sha256.New()
	for _, s := range seeds {
		h.Write(s)
	}
	h.Write([]byte{bump})
	h.Write(owner)
	h.Write([]byte(derivedAddressMarker))
	return h.Sum(nil)
}

// isOnCurve returns true if given bytes are the encoding of a point on the
// ed25519 curve.
func isOnCurve(b []byte) bool {
	_, err := new(edwards25519.Point).SetBytes(b)
	return err == nil
}
