package sigs

import "github.com/iov-one/custody/errors"

var (
	// ErrInvalidSequence is returned when a signature does not carry the
	// next sequence of the signer.
	ErrInvalidSequence = errors.Register(120, "invalid sequence number")
)
