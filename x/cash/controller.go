package cash

import (
	"math"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/orm"
)

// CoinMover is an interface for moving coins between accounts.
type CoinMover interface {
	// MoveCoins is a safe way to transfer coins from one account to
	// another. It returns an error if the source account does not hold
	// enough funds.
	MoveCoins(db custody.KVStore, src, dest custody.Address, amount uint64) error
}

// Balancer reads the balance of an account.
type Balancer interface {
	// Balance returns the amount held by given address. An address
	// without a wallet holds zero.
	Balance(db custody.ReadOnlyKVStore, addr custody.Address) (uint64, error)
}

// Controller is the functionality needed by cash.Handler and by other
// extensions that custody funds.
type Controller interface {
	CoinMover
	Balancer

	// IssueCoins adds the given amount to the destination wallet.
	IssueCoins(db custody.KVStore, dest custody.Address, amount uint64) error
}

// BaseController is a simple implementation of controller.
type BaseController struct {
	bucket orm.ModelBucket
}

var _ Controller = BaseController{}

// NewController returns a basic controller implementation.
func NewController(bucket orm.ModelBucket) BaseController {
	return BaseController{bucket: bucket}
}

// Balance returns the amount held by given address.
func (c BaseController) Balance(db custody.ReadOnlyKVStore, addr custody.Address) (uint64, error) {
	w, err := c.load(db, addr)
	if err != nil {
		return 0, err
	}
	return w.Balance, nil
}

// MoveCoins moves the given amount from src to dest.
// If src doesn't exist, or doesn't have sufficient
// coins, it fails.
func (c BaseController) MoveCoins(db custody.KVStore, src, dest custody.Address, amount uint64) error {
	if amount == 0 {
		return errors.Wrap(errors.ErrAmount, "non-positive amount")
	}
	if err := src.Validate(); err != nil {
		return errors.Wrap(err, "src")
	}
	if err := dest.Validate(); err != nil {
		return errors.Wrap(err, "dest")
	}

	sender, err := c.load(db, src)
	if err != nil {
		return err
	}
	if sender.Balance < amount {
		return errors.Wrapf(errors.ErrInsufficientAmount, "%s holds %d, need %d", src, sender.Balance, amount)
	}
	sender.Balance -= amount
	if err := c.save(db, src, sender); err != nil {
		return err
	}

	// Load the recipient only after the sender is saved, so that moving
	// coins to self is a noop.
	recipient, err := c.load(db, dest)
	if err != nil {
		return err
	}
	if recipient.Balance > math.MaxUint64-amount {
		return errors.Wrap(errors.ErrOverflow, "recipient balance")
	}
	recipient.Balance += amount
	return c.save(db, dest, recipient)
}

// IssueCoins attempts to add the given amount of coins to
// the destination address. Fails if it overflows the wallet.
func (c BaseController) IssueCoins(db custody.KVStore, dest custody.Address, amount uint64) error {
	if amount == 0 {
		return errors.Wrap(errors.ErrAmount, "non-positive amount")
	}
	if err := dest.Validate(); err != nil {
		return errors.Wrap(err, "dest")
	}
	w, err := c.load(db, dest)
	if err != nil {
		return err
	}
	if w.Balance > math.MaxUint64-amount {
		return errors.Wrap(errors.ErrOverflow, "wallet balance")
	}
	w.Balance += amount
	return c.save(db, dest, w)
}

func (c BaseController) load(db custody.ReadOnlyKVStore, addr custody.Address) (*Wallet, error) {
	var w Wallet
	switch err := c.bucket.One(db, addr, &w); {
	case err == nil:
		return &w, nil
	case errors.ErrNotFound.Is(err):
		return &Wallet{}, nil
	default:
		return nil, errors.Wrap(err, "cannot load wallet")
	}
}

// save writes the wallet, removing it once it is empty.
func (c BaseController) save(db custody.KVStore, addr custody.Address, w *Wallet) error {
	if w.Balance == 0 {
		if !c.bucket.Has(db, addr) {
			return nil
		}
		return c.bucket.Delete(db, addr)
	}
	return c.bucket.Put(db, addr, w)
}
