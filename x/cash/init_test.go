package cash

import (
	"fmt"
	"testing"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/custodytest"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/gconf"
	"github.com/iov-one/custody/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitState(t *testing.T) {
	addr := custodytest.NewIdentity().Address()
	minter := custodytest.NewIdentity()

	accounts := fmt.Sprintf(`[{"address": %q, "balance": 1000}]`, addr.String())
	bech, err := addr.Bech32()
	require.NoError(t, err)
	bechAccounts := fmt.Sprintf(`[{"address": %q, "balance": 5}]`, bech)

	cases := map[string]struct {
		opts    custody.Options
		wantErr *errors.Error
		balance uint64
		minter  custody.Identity
	}{
		"no prob if no data": {
			opts: custody.Options{},
		},
		"unrelated key": {
			opts: custody.Options{"foo": []byte(`"bar"`)},
		},
		"bad format": {
			opts:    custody.Options{"cash": []byte(`{"address": 1}`)},
			wantErr: errors.ErrInput,
		},
		"bad address": {
			opts:    custody.Options{"cash": []byte(`[{"address": "123", "balance": 1}]`)},
			wantErr: errors.ErrInput,
		},
		"missing address": {
			opts:    custody.Options{"cash": []byte(`[{"balance": 1}]`)},
			wantErr: errors.ErrEmpty,
		},
		"real account": {
			opts:    custody.Options{"cash": []byte(accounts)},
			balance: 1000,
		},
		"bech32 account": {
			opts:    custody.Options{"cash": []byte(bechAccounts)},
			balance: 5,
		},
		"with minter": {
			opts: custody.Options{
				"cash":  []byte(accounts),
				"gconf": []byte(fmt.Sprintf(`{"cash": {"minter": %q}}`, minter.String())),
			},
			balance: 1000,
			minter:  minter,
		},
		"invalid minter": {
			opts: custody.Options{
				"gconf": []byte(`{"cash": {"minter": "3yZe7d"}}`),
			},
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			kv := store.MemStore()
			err := Initializer{}.FromGenesis(tc.opts, kv)
			if !tc.wantErr.Is(err) {
				t.Fatalf("want %v error, got %+v", tc.wantErr, err)
			}
			if tc.wantErr != nil {
				return
			}

			b, err := NewController(NewBucket()).Balance(kv, addr)
			require.NoError(t, err)
			assert.Equal(t, tc.balance, b)

			var conf Configuration
			err = gconf.Load(kv, BucketName, &conf)
			if tc.minter == nil {
				assert.True(t, errors.ErrNotFound.Is(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.minter, conf.Minter)
		})
	}
}
