package cash

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/gconf"
)

const optKey = "cash"

// GenesisAccount is used to parse the json from genesis file.
// Address is base58 or bech32 encoded.
type GenesisAccount struct {
	Address custody.Address `json:"address"`
	Balance uint64          `json:"balance"`
}

// Initializer fulfils the Initializer interface to load data from
// the genesis file
type Initializer struct{}

var _ custody.Initializer = Initializer{}

// FromGenesis will parse initial account info from genesis
// and save it to the database. The configuration is optional.
func (Initializer) FromGenesis(opts custody.Options, db custody.KVStore) error {
	var accts []GenesisAccount
	if err := opts.ReadOptions(optKey, &accts); err != nil {
		return err
	}
	control := NewController(NewBucket())
	for i, acct := range accts {
		if err := acct.Address.Validate(); err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
		if acct.Balance == 0 {
			continue
		}
		if err := control.IssueCoins(db, acct.Address, acct.Balance); err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
	}

	var conf Configuration
	if err := gconf.InitConfig(db, opts, BucketName, &conf); err != nil && !errors.ErrNotFound.Is(err) {
		return errors.Wrap(err, "init config")
	}
	return nil
}
