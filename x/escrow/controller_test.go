package escrow

import (
	"context"
	"testing"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/custodytest"
	"github.com/iov-one/custody/custodytest/assert"
	"github.com/iov-one/custody/errors"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/stretchr/testify/require"
)

func TestEscrowLifecycle(t *testing.T) {
	const amount = 1000000000

	f := newFixture(t, 0, 5*amount)
	c := f.controller()
	s, r := f.sender, f.recipient

	addr, e, err := c.Open(f.ctx(s), f.db, s, r, amount, 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(amount), f.balance(t, addr))
	assert.Equal(t, uint64(4*amount), f.balance(t, s.Address()))
	assert.Equal(t, custody.AsUnixTime(blockTime), e.CreatedAt)

	stored, err := f.store.Fetch(f.db, addr)
	require.NoError(t, err)
	assert.Equal(t, e, stored)

	paid, err := c.Accept(f.ctx(r), f.db, addr)
	require.NoError(t, err)
	assert.Equal(t, uint64(amount), paid)
	assert.Equal(t, uint64(amount), f.balance(t, r.Address()))
	assert.Equal(t, uint64(0), f.balance(t, addr))

	_, err = f.store.Fetch(f.db, addr)
	assert.IsErr(t, ErrNotFound, err)
	_, err = c.Accept(f.ctx(r), f.db, addr)
	assert.IsErr(t, ErrNotFound, err)
	_, err = c.Cancel(f.ctx(s), f.db, addr)
	assert.IsErr(t, ErrNotFound, err)
}

func TestEscrowNeverOpened(t *testing.T) {
	f := newFixture(t, 0, 100)
	c := f.controller()
	addr, _, err := DeriveAddress(testOwner, f.sender, f.recipient, 999)
	require.NoError(t, err)

	_, err = c.Accept(f.ctx(f.recipient), f.db, addr)
	assert.IsErr(t, ErrNotFound, err)
	_, err = c.Cancel(f.ctx(f.sender), f.db, addr)
	assert.IsErr(t, ErrNotFound, err)
}

func TestEscrowController(t *testing.T) {
	Convey("Given a funded sender", t, func() {
		f := newFixture(t, 10, 1000)
		c := f.controller()
		s, r := f.sender, f.recipient
		stranger := custodytest.NewIdentity()

		Convey("Opening without an amount fails", func() {
			_, _, err := c.Open(f.ctx(s), f.db, s, r, 0, 1)
			So(ErrInvalidAmount.Is(err), ShouldBeTrue)
			So(f.balance(t, s.Address()), ShouldEqual, 1000)
		})

		Convey("Opening needs the sender signature", func() {
			_, _, err := c.Open(f.ctx(stranger), f.db, s, r, 10, 1)
			So(ErrUnauthorizedSender.Is(err), ShouldBeTrue)
		})

		Convey("Opening needs the block time", func() {
			ctx := f.auth.SetSigners(context.Background(), s)
			_, _, err := c.Open(ctx, f.db, s, r, 10, 1)
			So(errors.ErrHuman.Is(err), ShouldBeTrue)
		})

		Convey("Opening more than owned fails", func() {
			cache := f.db.CacheWrap()
			_, _, err := c.Open(f.ctx(s), cache, s, r, 995, 1)
			cache.Discard()
			So(errors.ErrInsufficientAmount.Is(err), ShouldBeTrue)
		})

		Convey("Coins sent to the address before opening do not block it", func() {
			addr, _, err := DeriveAddress(testOwner, s, r, 7)
			So(err, ShouldBeNil)
			So(f.bank.IssueCoins(f.db, stranger.Address(), 1), ShouldBeNil)
			So(f.bank.MoveCoins(f.db, stranger.Address(), addr, 1), ShouldBeNil)

			opened, _, err := c.Open(f.ctx(s), f.db, s, r, 100, 7)
			So(err, ShouldBeNil)
			So(opened.Equals(addr), ShouldBeTrue)
			So(f.balance(t, addr), ShouldEqual, 111)

			paid, err := c.Cancel(f.ctx(s), f.db, addr)
			So(err, ShouldBeNil)
			So(paid, ShouldEqual, 100)
			So(f.balance(t, addr), ShouldEqual, 0)
			So(f.balance(t, s.Address()), ShouldEqual, 1001)
		})

		Convey("When an escrow is opened", func() {
			addr, _, err := c.Open(f.ctx(s), f.db, s, r, 100, 1)
			So(err, ShouldBeNil)
			So(f.balance(t, addr), ShouldEqual, 110)
			So(f.balance(t, s.Address()), ShouldEqual, 890)

			Convey("The same triple cannot be opened again", func() {
				_, _, err := c.Open(f.ctx(s), f.db, s, r, 100, 1)
				So(ErrAlreadyInUse.Is(err), ShouldBeTrue)
				So(f.balance(t, addr), ShouldEqual, 110)
			})

			Convey("Another escrow id gives another escrow", func() {
				other, _, err := c.Open(f.ctx(s), f.db, s, r, 100, 2)
				So(err, ShouldBeNil)
				So(other.Equals(addr), ShouldBeFalse)
			})

			Convey("Only the recipient can accept", func() {
				for _, signer := range []custody.Identity{s, stranger} {
					_, err := c.Accept(f.ctx(signer), f.db, addr)
					So(ErrUnauthorizedRecipient.Is(err), ShouldBeTrue)
				}
				e, err := f.store.Fetch(f.db, addr)
				So(err, ShouldBeNil)
				So(e.Amount, ShouldEqual, 100)
				So(f.balance(t, addr), ShouldEqual, 110)
			})

			Convey("Only the sender can cancel", func() {
				for _, signer := range []custody.Identity{r, stranger} {
					_, err := c.Cancel(f.ctx(signer), f.db, addr)
					So(ErrUnauthorizedSender.Is(err), ShouldBeTrue)
				}
				So(f.balance(t, addr), ShouldEqual, 110)
			})

			Convey("Accepting pays the recipient and refunds the deposit", func() {
				paid, err := c.Accept(f.ctx(r), f.db, addr)
				So(err, ShouldBeNil)
				So(paid, ShouldEqual, 100)
				So(f.balance(t, r.Address()), ShouldEqual, 100)
				So(f.balance(t, s.Address()), ShouldEqual, 900)

				_, err = c.Cancel(f.ctx(s), f.db, addr)
				So(ErrNotFound.Is(err), ShouldBeTrue)
			})

			Convey("Cancelling returns everything to the sender", func() {
				paid, err := c.Cancel(f.ctx(s), f.db, addr)
				So(err, ShouldBeNil)
				So(paid, ShouldEqual, 100)
				So(f.balance(t, s.Address()), ShouldEqual, 1000)
				So(f.balance(t, r.Address()), ShouldEqual, 0)

				_, err = c.Accept(f.ctx(r), f.db, addr)
				So(ErrNotFound.Is(err), ShouldBeTrue)

				Convey("And the triple can be opened again", func() {
					again, _, err := c.Open(f.ctx(s), f.db, s, r, 50, 1)
					So(err, ShouldBeNil)
					So(again.Equals(addr), ShouldBeTrue)
				})
			})
		})
	})
}

func TestRequireRole(t *testing.T) {
	s := custodytest.NewIdentity()
	r := custodytest.NewIdentity()
	e := &Escrow{Sender: s, Recipient: r, Amount: 1}

	cases := map[string]struct {
		signers []custody.Identity
		role    Role
		wantErr *errors.Error
	}{
		"sender signed": {
			signers: []custody.Identity{s},
			role:    RoleSender,
		},
		"sender among many signers": {
			signers: []custody.Identity{custodytest.NewIdentity(), s},
			role:    RoleSender,
		},
		"recipient is not the sender": {
			signers: []custody.Identity{r},
			role:    RoleSender,
			wantErr: ErrUnauthorizedSender,
		},
		"recipient signed": {
			signers: []custody.Identity{r},
			role:    RoleRecipient,
		},
		"sender is not the recipient": {
			signers: []custody.Identity{s},
			role:    RoleRecipient,
			wantErr: ErrUnauthorizedRecipient,
		},
		"nobody signed": {
			role:    RoleRecipient,
			wantErr: ErrUnauthorizedRecipient,
		},
		"unknown role": {
			signers: []custody.Identity{s, r},
			role:    Role(42),
			wantErr: errors.ErrInput,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			auth := &custodytest.Auth{Signers: tc.signers}
			err := RequireRole(context.Background(), auth, e, tc.role)
			assert.IsErr(t, tc.wantErr, err)
		})
	}
}
