package escrow

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/orm"
	"github.com/iov-one/custody/x/cash"
)

// RecordStore keeps escrow records together with the funds they lock. Every
// record lives under its derived address and that address wallet holds the
// escrowed amount plus the record deposit.
type RecordStore struct {
	bucket orm.ModelBucket
	bank   cash.Controller
}

// NewRecordStore returns a store moving funds with given bank.
func NewRecordStore(bank cash.Controller) RecordStore {
	return RecordStore{
		bucket: NewBucket(),
		bank:   bank,
	}
}

// Create funds the address and writes the record. The funder pays the
// escrowed amount and the configured record deposit.
//
// ErrAlreadyInUse is returned if the address already holds a record. Funds
// sent to the address before the escrow exists are kept there and returned
// to the sender on close. Nothing is written when an error is returned.
func (s RecordStore) Create(db custody.KVStore, addr custody.Address, e *Escrow, funder custody.Address) error {
	if e.Amount == 0 {
		return errors.Wrap(ErrInvalidAmount, "amount must be positive")
	}
	if err := e.Validate(); err != nil {
		return errors.Wrap(err, "invalid escrow")
	}
	if s.bucket.Has(db, addr) {
		return errors.Wrapf(ErrAlreadyInUse, "escrow %s", addr)
	}
	conf, err := loadConf(db)
	if err != nil {
		return err
	}
	total := e.Amount + conf.RecordDeposit
	if total < e.Amount {
		return errors.Wrap(errors.ErrOverflow, "amount with deposit")
	}
	if err := s.bank.MoveCoins(db, funder, addr, total); err != nil {
		return errors.Wrap(err, "fund escrow")
	}
	if err := s.bucket.Create(db, addr, e); err != nil {
		return errors.Wrap(err, "save escrow")
	}
	return nil
}

// Fetch returns the escrow stored under given address. ErrNotFound is
// returned if there is none or the stored record cannot be decoded.
func (s RecordStore) Fetch(db custody.ReadOnlyKVStore, addr custody.Address) (*Escrow, error) {
	var e Escrow
	switch err := s.bucket.One(db, addr, &e); {
	case errors.ErrNotFound.Is(err):
		return nil, errors.Wrapf(ErrNotFound, "escrow %s", addr)
	case err != nil:
		return nil, errors.Wrapf(ErrNotFound, "escrow %s: %s", addr, err)
	}
	return &e, nil
}

// CloseAndPay pays the escrowed amount to the beneficiary, returns whatever
// else the address holds to the escrow sender and deletes the record. The
// amount paid to the beneficiary is returned.
func (s RecordStore) CloseAndPay(db custody.KVStore, addr, beneficiary custody.Address) (uint64, error) {
	e, err := s.Fetch(db, addr)
	if err != nil {
		return 0, err
	}
	balance, err := s.bank.Balance(db, addr)
	if err != nil {
		return 0, errors.Wrap(err, "balance")
	}
	if balance < e.Amount {
		return 0, errors.Wrapf(errors.ErrState, "escrow %s holds %d, expected at least %d", addr, balance, e.Amount)
	}
	if err := s.bank.MoveCoins(db, addr, beneficiary, e.Amount); err != nil {
		return 0, errors.Wrap(err, "pay beneficiary")
	}
	if rest := balance - e.Amount; rest > 0 {
		if err := s.bank.MoveCoins(db, addr, e.Sender.Address(), rest); err != nil {
			return 0, errors.Wrap(err, "refund deposit")
		}
	}
	if err := s.bucket.Delete(db, addr); err != nil {
		return 0, errors.Wrap(err, "delete escrow")
	}
	return e.Amount, nil
}

// BySender returns all open escrows funded by given identity.
func (s RecordStore) BySender(db custody.ReadOnlyKVStore, sender custody.Identity) ([]*Escrow, error) {
	return s.byIndex(db, "sender", sender)
}

// ByRecipient returns all open escrows payable to given identity.
func (s RecordStore) ByRecipient(db custody.ReadOnlyKVStore, recipient custody.Identity) ([]*Escrow, error) {
	return s.byIndex(db, "recipient", recipient)
}

func (s RecordStore) byIndex(db custody.ReadOnlyKVStore, index string, value []byte) ([]*Escrow, error) {
	keys, err := s.bucket.ByIndex(db, index, value)
	if err != nil {
		return nil, err
	}
	res := make([]*Escrow, 0, len(keys))
	for _, k := range keys {
		e, err := s.Fetch(db, k)
		if err != nil {
			return nil, err
		}
		res = append(res, e)
	}
	return res, nil
}
