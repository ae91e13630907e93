package escrow

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/gconf"
)

// Initializer fulfils the Initializer interface to load data from
// the genesis file
type Initializer struct{}

var _ custody.Initializer = Initializer{}

// FromGenesis stores the escrow configuration. The configuration is
// required, escrow addresses cannot be derived without the owner.
func (Initializer) FromGenesis(opts custody.Options, db custody.KVStore) error {
	var conf Configuration
	if err := gconf.InitConfig(db, opts, BucketName, &conf); err != nil {
		return errors.Wrap(err, "init config")
	}
	return nil
}
