package cash

import (
	"context"
	"testing"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/custodytest"
	"github.com/iov-one/custody/custodytest/assert"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/gconf"
	"github.com/iov-one/custody/store"
)

func TestSendHandler(t *testing.T) {
	alice := custodytest.NewIdentity()
	bob := custodytest.NewIdentity()

	cases := map[string]struct {
		signers        []custody.Identity
		initBalance    uint64
		msg            custody.Msg
		wantCheckErr   *errors.Error
		wantDeliverErr *errors.Error
		wantAlice      uint64
		wantBob        uint64
	}{
		"wrong message type": {
			msg:            &IssueMsg{Metadata: &custody.Metadata{Schema: 1}, Destination: bob.Address(), Amount: 1},
			wantCheckErr:   errors.ErrType,
			wantDeliverErr: errors.ErrType,
		},
		"missing amount": {
			signers:        []custody.Identity{alice},
			msg:            &SendMsg{Metadata: &custody.Metadata{Schema: 1}, Source: alice.Address(), Destination: bob.Address()},
			wantCheckErr:   errors.ErrAmount,
			wantDeliverErr: errors.ErrAmount,
		},
		"not signed by the source": {
			signers:        []custody.Identity{bob},
			initBalance:    100,
			msg:            &SendMsg{Metadata: &custody.Metadata{Schema: 1}, Source: alice.Address(), Destination: bob.Address(), Amount: 10},
			wantCheckErr:   errors.ErrUnauthorized,
			wantDeliverErr: errors.ErrUnauthorized,
			wantAlice:      100,
		},
		"sender too poor": {
			signers:        []custody.Identity{alice},
			initBalance:    5,
			msg:            &SendMsg{Metadata: &custody.Metadata{Schema: 1}, Source: alice.Address(), Destination: bob.Address(), Amount: 10},
			wantDeliverErr: errors.ErrInsufficientAmount,
			wantAlice:      5,
		},
		"sender got cash": {
			signers:     []custody.Identity{alice},
			initBalance: 100,
			msg:         &SendMsg{Metadata: &custody.Metadata{Schema: 1}, Source: alice.Address(), Destination: bob.Address(), Amount: 10},
			wantAlice:   90,
			wantBob:     10,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			controller := NewController(NewBucket())
			h := NewSendHandler(&custodytest.Auth{Signers: tc.signers}, controller)

			db := store.MemStore()
			if tc.initBalance > 0 {
				assert.Nil(t, controller.IssueCoins(db, alice.Address(), tc.initBalance))
			}

			tx := &custodytest.Tx{Msg: tc.msg}
			ctx := context.Background()
			cache := db.CacheWrap()
			_, err := h.Check(ctx, cache, tx)
			assert.IsErr(t, tc.wantCheckErr, err)
			cache.Discard()

			_, err = h.Deliver(ctx, db, tx)
			assert.IsErr(t, tc.wantDeliverErr, err)

			a, err := controller.Balance(db, alice.Address())
			assert.Nil(t, err)
			assert.Equal(t, tc.wantAlice, a)
			b, err := controller.Balance(db, bob.Address())
			assert.Nil(t, err)
			assert.Equal(t, tc.wantBob, b)
		})
	}
}

func TestIssueHandler(t *testing.T) {
	minter := custodytest.NewIdentity()
	dest := custodytest.NewIdentity().Address()
	msg := &IssueMsg{Metadata: &custody.Metadata{Schema: 1}, Destination: dest, Amount: 42}

	cases := map[string]struct {
		conf    *Configuration
		signers []custody.Identity
		wantErr *errors.Error
		want    uint64
	}{
		"not configured": {
			signers: []custody.Identity{minter},
			wantErr: errors.ErrUnauthorized,
		},
		"configured without minter": {
			conf:    &Configuration{},
			signers: []custody.Identity{minter},
			wantErr: errors.ErrUnauthorized,
		},
		"not signed by the minter": {
			conf:    &Configuration{Minter: minter},
			signers: []custody.Identity{custodytest.NewIdentity()},
			wantErr: errors.ErrUnauthorized,
		},
		"minter issues": {
			conf:    &Configuration{Minter: minter},
			signers: []custody.Identity{minter},
			want:    42,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			if tc.conf != nil {
				assert.Nil(t, gconf.Save(db, BucketName, tc.conf))
			}
			controller := NewController(NewBucket())
			h := NewIssueHandler(&custodytest.Auth{Signers: tc.signers}, controller)

			tx := &custodytest.Tx{Msg: msg}
			_, err := h.Check(context.Background(), db, tx)
			assert.IsErr(t, tc.wantErr, err)
			_, err = h.Deliver(context.Background(), db, tx)
			assert.IsErr(t, tc.wantErr, err)

			b, err := controller.Balance(db, dest)
			assert.Nil(t, err)
			assert.Equal(t, tc.want, b)
		})
	}
}

func TestRegisterQuery(t *testing.T) {
	db := store.MemStore()
	addr := custodytest.NewIdentity().Address()
	controller := NewController(NewBucket())
	assert.Nil(t, controller.IssueCoins(db, addr, 7))

	qr := custody.NewQueryRouter()
	RegisterQuery(qr)
	res, err := qr.Handler("/wallets").Query(db, custody.KeyQueryMod, addr)
	assert.Nil(t, err)
	assert.Equal(t, 1, len(res))

	var w Wallet
	assert.Nil(t, w.Unmarshal(res[0].Value))
	assert.Equal(t, uint64(7), w.Balance)
}
