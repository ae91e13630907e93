package escrow

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/x"
)

// Role is the party of an escrow allowed to execute an operation.
type Role int

const (
	RoleSender Role = iota
	RoleRecipient
)

func (r Role) String() string {
	switch r {
	case RoleSender:
		return "sender"
	case RoleRecipient:
		return "recipient"
	default:
		return "unknown"
	}
}

// RequireRole returns an error unless the party of the escrow playing given
// role signed the transaction. It does not access the store.
func RequireRole(ctx custody.Context, auth x.Authenticator, e *Escrow, role Role) error {
	switch role {
	case RoleSender:
		if !auth.HasIdentity(ctx, e.Sender) {
			return errors.Wrap(ErrUnauthorizedSender, "sender signature missing")
		}
	case RoleRecipient:
		if !auth.HasIdentity(ctx, e.Recipient) {
			return errors.Wrap(ErrUnauthorizedRecipient, "recipient signature missing")
		}
	default:
		return errors.Wrapf(errors.ErrInput, "unknown role %d", role)
	}
	return nil
}
