package escrow

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/x"
)

// Controller executes the escrow state transitions. An escrow is either open
// (a record exists) or closed (no record). Open creates it, Accept and Cancel
// close it. The controller itself holds no state.
type Controller struct {
	auth  x.Authenticator
	store RecordStore
}

// NewController returns a controller authorizing parties with auth.
func NewController(auth x.Authenticator, store RecordStore) Controller {
	return Controller{auth: auth, store: store}
}

// Open locks amount from the sender wallet at the escrow address derived for
// (sender, recipient, escrowID). The sender must sign the transaction.
func (c Controller) Open(ctx custody.Context, db custody.KVStore, sender, recipient custody.Identity, amount, escrowID uint64) (custody.Address, *Escrow, error) {
	if amount == 0 {
		return nil, nil, errors.Wrap(ErrInvalidAmount, "amount must be positive")
	}
	if !c.auth.HasIdentity(ctx, sender) {
		return nil, nil, errors.Wrap(ErrUnauthorizedSender, "sender signature missing")
	}
	now, ok := custody.BlockTime(ctx)
	if !ok {
		return nil, nil, errors.Wrap(errors.ErrHuman, "block time not present in context")
	}
	conf, err := loadConf(db)
	if err != nil {
		return nil, nil, err
	}
	addr, bump, err := DeriveAddress(conf.Owner, sender, recipient, escrowID)
	if err != nil {
		return nil, nil, errors.Wrap(err, "derive address")
	}
	e := &Escrow{
		Sender:    sender,
		Recipient: recipient,
		Amount:    amount,
		EscrowID:  escrowID,
		CreatedAt: custody.AsUnixTime(now),
		Bump:      bump,
	}
	if err := c.store.Create(db, addr, e, sender.Address()); err != nil {
		return nil, nil, err
	}
	custody.GetLogger(ctx).Info("escrow opened",
		"address", addr.String(),
		"escrow_id", escrowID,
		"amount", amount)
	return addr, e, nil
}

// Accept pays the escrowed amount to the recipient and closes the escrow.
// Only the recipient can accept.
func (c Controller) Accept(ctx custody.Context, db custody.KVStore, addr custody.Address) (uint64, error) {
	return c.close(ctx, db, addr, RoleRecipient)
}

// Cancel returns the escrowed amount to the sender and closes the escrow.
// Only the sender can cancel.
func (c Controller) Cancel(ctx custody.Context, db custody.KVStore, addr custody.Address) (uint64, error) {
	return c.close(ctx, db, addr, RoleSender)
}

// close pays the escrow to the party playing role, which must also be the
// signer.
func (c Controller) close(ctx custody.Context, db custody.KVStore, addr custody.Address, role Role) (uint64, error) {
	e, err := c.store.Fetch(db, addr)
	if err != nil {
		return 0, err
	}
	if err := RequireRole(ctx, c.auth, e, role); err != nil {
		return 0, err
	}
	beneficiary := e.Sender
	if role == RoleRecipient {
		beneficiary = e.Recipient
	}
	paid, err := c.store.CloseAndPay(db, addr, beneficiary.Address())
	if err != nil {
		return 0, err
	}
	custody.GetLogger(ctx).Info("escrow closed",
		"address", addr.String(),
		"by", role.String(),
		"amount", paid)
	return paid, nil
}
