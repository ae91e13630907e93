package escrow

import (
	"context"
	"testing"
	"time"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/custodytest"
	"github.com/iov-one/custody/gconf"
	"github.com/iov-one/custody/store"
	"github.com/iov-one/custody/x/cash"
	"github.com/stretchr/testify/require"
)

var (
	testOwner = custodytest.NewIdentity()
	blockTime = time.Date(2019, 4, 1, 12, 0, 0, 0, time.UTC)
)

// fixture holds a store configured for escrows with funded parties.
type fixture struct {
	db        custody.CacheableKVStore
	bank      cash.BaseController
	store     RecordStore
	auth      *custodytest.CtxAuth
	sender    custody.Identity
	recipient custody.Identity
}

func newFixture(t testing.TB, deposit uint64, senderFunds uint64) *fixture {
	t.Helper()
	db := store.MemStore()
	require.NoError(t, gconf.Save(db, BucketName, &Configuration{Owner: testOwner, RecordDeposit: deposit}))
	bank := cash.NewController(cash.NewBucket())
	f := &fixture{
		db:        db,
		bank:      bank,
		store:     NewRecordStore(bank),
		auth:      &custodytest.CtxAuth{Key: "escrow"},
		sender:    custodytest.NewIdentity(),
		recipient: custodytest.NewIdentity(),
	}
	if senderFunds > 0 {
		require.NoError(t, bank.IssueCoins(db, f.sender.Address(), senderFunds))
	}
	return f
}

// ctx returns a context with block time, signed by given identities.
func (f *fixture) ctx(signers ...custody.Identity) custody.Context {
	ctx := custody.WithBlockTime(context.Background(), blockTime)
	return f.auth.SetSigners(ctx, signers...)
}

func (f *fixture) controller() Controller {
	return NewController(f.auth, f.store)
}

func (f *fixture) balance(t testing.TB, addr custody.Address) uint64 {
	t.Helper()
	b, err := f.bank.Balance(f.db, addr)
	require.NoError(t, err)
	return b
}
