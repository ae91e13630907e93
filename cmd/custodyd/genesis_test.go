package main

import (
	"testing"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/custodytest"
	"github.com/iov-one/custody/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/log"
)

func TestParseAccount(t *testing.T) {
	addr := custodytest.NewIdentity().Address()

	cases := map[string]struct {
		raw         string
		wantBalance uint64
		wantErr     *errors.Error
	}{
		"valid":          {raw: addr.String() + "=1200", wantBalance: 1200},
		"missing amount": {raw: addr.String(), wantErr: errors.ErrInput},
		"bad amount":     {raw: addr.String() + "=-5", wantErr: errors.ErrAmount},
		"bad address":    {raw: "0OIl=5", wantErr: errors.ErrInput},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			acct, err := parseAccount(tc.raw)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.wantErr == nil {
				assert.Equal(t, addr, acct.Address)
				assert.Equal(t, tc.wantBalance, acct.Balance)
			}
		})
	}
}

func TestGenesisOptions(t *testing.T) {
	owner := custodytest.NewIdentity()
	g := genesisFlags{
		logger:   log.NewNopLogger(),
		owner:    owner.String(),
		deposit:  10,
		accounts: []string{custodytest.NewIdentity().Address().String() + "=99"},
	}
	opts, err := g.options()
	require.NoError(t, err)
	assert.Equal(t, owner, opts.Owner)
	assert.Nil(t, opts.Minter)
	assert.Equal(t, uint64(10), opts.RecordDeposit)
	require.Len(t, opts.Accounts, 1)
	assert.Equal(t, uint64(99), opts.Accounts[0].Balance)

	g.owner = ""
	opts, err = g.options()
	require.NoError(t, err)
	assert.Len(t, opts.Owner, custody.IdentityLength)
}
