package app

import (
	"encoding/json"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/x/cash"
	"github.com/iov-one/custody/x/escrow"
)

// GenesisOptions describe the initial state of a new chain.
type GenesisOptions struct {
	// Minter can issue new coins, optional.
	Minter custody.Identity
	// Owner is mixed into all escrow addresses.
	Owner custody.Identity
	// RecordDeposit is charged on top of each escrow and refunded on close.
	RecordDeposit uint64
	Accounts      []cash.GenesisAccount
}

// AppState returns the app_state JSON document of the genesis file.
func (o GenesisOptions) AppState() (json.RawMessage, error) {
	escrowConf := escrow.Configuration{
		Owner:         o.Owner,
		RecordDeposit: o.RecordDeposit,
	}
	if err := escrowConf.Validate(); err != nil {
		return nil, errors.Wrap(err, "escrow configuration")
	}
	cashConf := cash.Configuration{Minter: o.Minter}
	if err := cashConf.Validate(); err != nil {
		return nil, errors.Wrap(err, "cash configuration")
	}
	for i, a := range o.Accounts {
		if err := a.Address.Validate(); err != nil {
			return nil, errors.Wrapf(err, "account %d", i)
		}
	}

	type dict map[string]interface{}
	accounts := o.Accounts
	if accounts == nil {
		accounts = []cash.GenesisAccount{}
	}
	raw, err := json.MarshalIndent(dict{
		"cash": accounts,
		"gconf": dict{
			"cash":   cashConf,
			"escrow": escrowConf,
		},
	}, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return raw, nil
}
