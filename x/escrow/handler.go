package escrow

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/x"
	"github.com/iov-one/custody/x/cash"
	"github.com/tendermint/tendermint/libs/common"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	openEscrowCost   int64 = 300
	acceptEscrowCost int64 = 100
	cancelEscrowCost int64 = 100
)

var (
	tagAction  = []byte("escrow.action")
	tagAddress = []byte("escrow.address")
)

// RegisterRoutes will instantiate and register
// all handlers in this package
func RegisterRoutes(r custody.Registry, auth x.Authenticator, bank cash.Controller) {
	control := NewController(auth, NewRecordStore(bank))
	r.Handle(pathOpenMsg, OpenHandler{auth: auth, control: control})
	r.Handle(pathAcceptMsg, AcceptHandler{auth: auth, control: control})
	r.Handle(pathCancelMsg, CancelHandler{auth: auth, control: control})
}

// RegisterQuery will register this bucket as "/escrows" with the "sender" and
// "recipient" indexes
func RegisterQuery(qr custody.QueryRouter) {
	NewBucket().Register("escrows", qr)
}

// OpenHandler creates and funds an escrow.
type OpenHandler struct {
	auth    x.Authenticator
	control Controller
}

var _ custody.Handler = OpenHandler{}

// Check runs the whole operation on a throw away cache so that
// underfunded or duplicated escrows never reach the block.
func (h OpenHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	err := dryRun(ctx, db, func(ctx custody.Context, db custody.KVStore) error {
		_, err := h.deliver(ctx, db, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &custody.CheckResult{GasAllocated: openEscrowCost}, nil
}

// Deliver moves the funds from the sender wallet to the escrow address.
func (h OpenHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	addr, err := h.deliver(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	return result("open", addr), nil
}

func (h OpenHandler) deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (custody.Address, error) {
	var msg OpenMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	sender := x.MainSigner(ctx, h.auth)
	if sender == nil {
		return nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
	}
	addr, _, err := h.control.Open(ctx, db, sender, msg.Recipient, msg.Amount, msg.EscrowID)
	return addr, err
}

// AcceptHandler pays the escrow to the recipient.
type AcceptHandler struct {
	auth    x.Authenticator
	control Controller
}

var _ custody.Handler = AcceptHandler{}

func (h AcceptHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	err := dryRun(ctx, db, func(ctx custody.Context, db custody.KVStore) error {
		_, err := h.deliver(ctx, db, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &custody.CheckResult{GasAllocated: acceptEscrowCost}, nil
}

func (h AcceptHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	addr, err := h.deliver(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	return result("accept", addr), nil
}

func (h AcceptHandler) deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (custody.Address, error) {
	var msg AcceptMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	addr, err := h.control.resolve(db, msg.Target)
	if err != nil {
		return nil, err
	}
	if _, err := h.control.Accept(ctx, db, addr); err != nil {
		return nil, err
	}
	return addr, nil
}

// CancelHandler returns the escrow to the sender.
type CancelHandler struct {
	auth    x.Authenticator
	control Controller
}

var _ custody.Handler = CancelHandler{}

func (h CancelHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	err := dryRun(ctx, db, func(ctx custody.Context, db custody.KVStore) error {
		_, err := h.deliver(ctx, db, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &custody.CheckResult{GasAllocated: cancelEscrowCost}, nil
}

func (h CancelHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	addr, err := h.deliver(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	return result("cancel", addr), nil
}

func (h CancelHandler) deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (custody.Address, error) {
	var msg CancelMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	addr, err := h.control.resolve(db, msg.Target)
	if err != nil {
		return nil, err
	}
	if _, err := h.control.Cancel(ctx, db, addr); err != nil {
		return nil, err
	}
	return addr, nil
}

// resolve returns the address of the targeted escrow. A supplied bump is
// checked only once the escrow is known to exist, so a never opened target
// is always ErrNotFound.
func (c Controller) resolve(db custody.ReadOnlyKVStore, t Target) (custody.Address, error) {
	conf, err := loadConf(db)
	if err != nil {
		return nil, err
	}
	addr, _, err := DeriveAddress(conf.Owner, t.Sender, t.Recipient, t.EscrowID)
	if err != nil || !t.BumpSupplied() {
		return addr, err
	}
	e, err := c.store.Fetch(db, addr)
	if err != nil {
		return nil, err
	}
	if _, err := VerifyAddress(conf.Owner, t.Sender, t.Recipient, t.EscrowID, uint8(t.Bump)); err != nil {
		return nil, err
	}
	if uint32(e.Bump) != t.Bump {
		return nil, errors.Wrapf(ErrInvalidBump, "escrow was created with bump %d", e.Bump)
	}
	return addr, nil
}

// dryRun executes fn on a cache of db that is always discarded. Stores that
// cannot be cached are passed as they are. Logging is muted for fn.
func dryRun(ctx custody.Context, db custody.KVStore, fn func(custody.Context, custody.KVStore) error) error {
	ctx = custody.WithLogger(ctx, log.NewNopLogger())
	cdb, ok := db.(custody.CacheableKVStore)
	if !ok {
		return fn(ctx, db)
	}
	cache := cdb.CacheWrap()
	defer cache.Discard()
	return fn(ctx, cache)
}

func result(action string, addr custody.Address) *custody.DeliverResult {
	return &custody.DeliverResult{
		Data: addr,
		Tags: []common.KVPair{
			{Key: tagAction, Value: []byte(action)},
			{Key: tagAddress, Value: []byte(addr.String())},
		},
	}
}
