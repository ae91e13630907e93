package cash

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/x"
)

const (
	sendTxCost  int64 = 100
	issueTxCost int64 = 100
)

// RegisterRoutes will instantiate and register
// all handlers in this package
func RegisterRoutes(r custody.Registry, auth x.Authenticator, control Controller) {
	r.Handle(SendMsg{}.Path(), NewSendHandler(auth, control))
	r.Handle(IssueMsg{}.Path(), NewIssueHandler(auth, control))
}

// RegisterQuery will register this bucket as "/wallets"
func RegisterQuery(qr custody.QueryRouter) {
	NewBucket().Register("wallets", qr)
}

// SendHandler will handle sending coins
type SendHandler struct {
	auth    x.Authenticator
	control Controller
}

var _ custody.Handler = SendHandler{}

// NewSendHandler creates a handler for SendMsg
func NewSendHandler(auth x.Authenticator, control Controller) SendHandler {
	return SendHandler{
		auth:    auth,
		control: control,
	}
}

// Check just verifies it is properly formed and returns
// the cost of executing it
func (h SendHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &custody.CheckResult{GasAllocated: sendTxCost}, nil
}

// Deliver moves the tokens from source to receiver if
// all preconditions are met
func (h SendHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := h.control.MoveCoins(db, msg.Source, msg.Destination, msg.Amount); err != nil {
		return nil, err
	}
	return &custody.DeliverResult{}, nil
}

func (h SendHandler) validate(ctx custody.Context, tx custody.Tx) (*SendMsg, error) {
	var msg SendMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	// Make sure we have permission from the source. Derived addresses
	// have no key and can never send.
	if !hasAddress(ctx, h.auth, msg.Source) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "account owner signature missing")
	}
	return &msg, nil
}

// IssueHandler creates new coins. Only the configured minter can issue.
type IssueHandler struct {
	auth    x.Authenticator
	control Controller
}

var _ custody.Handler = IssueHandler{}

// NewIssueHandler creates a handler for IssueMsg
func NewIssueHandler(auth x.Authenticator, control Controller) IssueHandler {
	return IssueHandler{
		auth:    auth,
		control: control,
	}
}

func (h IssueHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &custody.CheckResult{GasAllocated: issueTxCost}, nil
}

func (h IssueHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.control.IssueCoins(db, msg.Destination, msg.Amount); err != nil {
		return nil, err
	}
	return &custody.DeliverResult{}, nil
}

func (h IssueHandler) validate(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*IssueMsg, error) {
	var msg IssueMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	conf, err := loadConf(db)
	if err != nil {
		return nil, err
	}
	if len(conf.Minter) == 0 {
		return nil, errors.Wrap(errors.ErrUnauthorized, "no minter configured")
	}
	if !h.auth.HasIdentity(ctx, conf.Minter) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "minter signature missing")
	}
	return &msg, nil
}

// hasAddress returns true if any signer owns the wallet at given address.
func hasAddress(ctx custody.Context, auth x.Authenticator, addr custody.Address) bool {
	for _, a := range x.GetAddresses(ctx, auth) {
		if a.Equals(addr) {
			return true
		}
	}
	return false
}
