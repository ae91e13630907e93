package x

import (
	"context"
	"testing"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/custodytest"
	"github.com/iov-one/custody/custodytest/assert"
)

func TestAuth(t *testing.T) {
	a := custodytest.NewIdentity()
	b := custodytest.NewIdentity()
	c := custodytest.NewIdentity()

	ctx1 := &custodytest.CtxAuth{Key: "foo"}
	ctx2 := &custodytest.CtxAuth{Key: "bar"}

	cases := map[string]struct {
		ctx          custody.Context
		auth         Authenticator
		mainSigner   custody.Identity
		wantInCtx    custody.Identity
		wantNotInCtx custody.Identity
		wantAll      []custody.Identity
	}{
		"empty context": {
			ctx:          context.Background(),
			auth:         &custodytest.Auth{},
			wantNotInCtx: b,
		},
		"signer a": {
			ctx:          context.Background(),
			auth:         &custodytest.Auth{Signer: a},
			mainSigner:   a,
			wantInCtx:    a,
			wantNotInCtx: b,
			wantAll:      []custody.Identity{a},
		},
		"signer b": {
			ctx: context.Background(),
			auth: ChainAuth(
				&custodytest.Auth{Signer: b},
				&custodytest.Auth{Signer: a}),
			mainSigner:   b,
			wantInCtx:    b,
			wantNotInCtx: c,
			wantAll:      []custody.Identity{b, a},
		},
		"chained duplicates are reported once": {
			ctx: context.Background(),
			auth: ChainAuth(
				&custodytest.Auth{Signers: []custody.Identity{a, b}},
				&custodytest.Auth{Signer: a}),
			mainSigner:   a,
			wantInCtx:    b,
			wantNotInCtx: c,
			wantAll:      []custody.Identity{a, b},
		},
		"ctxAuth checks what is set by same key": {
			ctx:          ctx1.SetSigners(context.Background(), a, b),
			auth:         ctx1,
			mainSigner:   a,
			wantInCtx:    b,
			wantNotInCtx: c,
			wantAll:      []custody.Identity{a, b},
		},
		"ctxAuth with different key sees nothing": {
			ctx:          ctx1.SetSigners(context.Background(), a, b),
			auth:         ctx2,
			wantNotInCtx: a,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.Equal(t, tc.mainSigner, MainSigner(tc.ctx, tc.auth))
			if tc.wantInCtx != nil && !tc.auth.HasIdentity(tc.ctx, tc.wantInCtx) {
				t.Fatal("identity that was expected in context not found")
			}
			if tc.wantNotInCtx != nil && tc.auth.HasIdentity(tc.ctx, tc.wantNotInCtx) {
				t.Fatal("identity that was expected not to be in context found")
			}

			all := tc.auth.GetSigners(tc.ctx)
			assert.Equal(t, tc.wantAll, all)
			assert.Equal(t, len(all), len(GetAddresses(tc.ctx, tc.auth)))

			if !HasAllSigners(tc.ctx, tc.auth, all) {
				t.Fatal("has all signers check failed")
			}
			if HasAllSigners(tc.ctx, tc.auth, append(all, tc.wantNotInCtx)) {
				t.Fatal("has all signers succeeded after adding non existing identity")
			}
			if len(all) > 0 {
				if !HasNSigners(tc.ctx, tc.auth, all, len(all)-1) {
					t.Fatal("want signers check of a subset to succeed")
				}
				if HasNSigners(tc.ctx, tc.auth, all, len(all)+1) {
					t.Fatal("want signers check of a superset to fail")
				}
			}
		})
	}
}
