package escrow

import "github.com/iov-one/custody/errors"

// escrow takes 1000-1009
var (
	// ErrInvalidAmount is returned when an escrow is opened without funds.
	ErrInvalidAmount = errors.Register(1000, "invalid amount")

	// ErrAlreadyInUse is returned when the derived address already holds
	// an escrow.
	ErrAlreadyInUse = errors.Register(1001, "address already in use")

	// ErrUnauthorizedRecipient is returned when an escrow is accepted by
	// anyone but its recipient.
	ErrUnauthorizedRecipient = errors.Register(1002, "unauthorized recipient")

	// ErrUnauthorizedSender is returned when an escrow is cancelled by
	// anyone but its sender.
	ErrUnauthorizedSender = errors.Register(1003, "unauthorized sender")

	// ErrNotFound is returned when there is no escrow at given address.
	ErrNotFound = errors.Register(1004, "escrow not found")

	// ErrDerivationExhausted is returned when no bump value produces a
	// valid escrow address. Use another escrow id.
	ErrDerivationExhausted = errors.Register(1005, "derivation exhausted")

	// ErrInvalidBump is returned when the supplied bump does not match the
	// escrow address.
	ErrInvalidBump = errors.Register(1006, "invalid bump")
)
