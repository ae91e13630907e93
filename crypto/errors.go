package crypto

import "github.com/iov-one/custody/errors"

var (
	// ErrInvalidSeeds is returned when a derived address cannot be created
	// from the given seeds and bump.
	ErrInvalidSeeds = errors.Register(200, "invalid seeds")

	// ErrExhausted is returned when no bump value produces a valid derived
	// address.
	ErrExhausted = errors.Register(201, "derivation exhausted")

	// ErrKey is returned for malformed keys.
	ErrKey = errors.Register(202, "invalid key")
)
