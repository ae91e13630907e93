package main

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/iov-one/custody"
	custodyd "github.com/iov-one/custody/cmd/custodyd/app"
	"github.com/iov-one/custody/crypto"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/x/cash"
	"github.com/spf13/cobra"
	"github.com/tendermint/tendermint/libs/log"
)

// genesisFlags collects the app_state options of the init command.
type genesisFlags struct {
	logger   log.Logger
	minter   string
	owner    string
	deposit  uint64
	accounts []string
}

func (g *genesisFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&g.minter, "minter", "", "base58 identity allowed to issue coins")
	cmd.Flags().StringVar(&g.owner, "owner", "", "base58 identity mixed into escrow addresses, random if not set")
	cmd.Flags().Uint64Var(&g.deposit, "deposit", 0, "record deposit charged on top of each escrow")
	cmd.Flags().StringArrayVar(&g.accounts, "account", nil, "initial balance as address=amount, can be repeated")
}

func (g *genesisFlags) appState() (json.RawMessage, error) {
	opts, err := g.options()
	if err != nil {
		return nil, err
	}
	return opts.AppState()
}

func (g *genesisFlags) options() (custodyd.GenesisOptions, error) {
	opts := custodyd.GenesisOptions{RecordDeposit: g.deposit}

	if g.minter != "" {
		minter, err := custody.ParseIdentity(g.minter)
		if err != nil {
			return opts, errors.Wrap(err, "minter")
		}
		opts.Minter = minter
	}

	if g.owner == "" {
		opts.Owner = crypto.GenPrivKeyEd25519().PublicKey()
		g.logger.Info("Generated escrow owner", "owner", opts.Owner.String())
	} else {
		owner, err := custody.ParseIdentity(g.owner)
		if err != nil {
			return opts, errors.Wrap(err, "owner")
		}
		opts.Owner = owner
	}

	for _, a := range g.accounts {
		acct, err := parseAccount(a)
		if err != nil {
			return opts, err
		}
		opts.Accounts = append(opts.Accounts, acct)
	}
	return opts, nil
}

// parseAccount reads an address=amount pair.
func parseAccount(s string) (cash.GenesisAccount, error) {
	parts := strings.SplitN(s, "=", 2)
	if len(parts) != 2 {
		return cash.GenesisAccount{}, errors.Wrapf(errors.ErrInput, "account %q, want address=amount", s)
	}
	addr, err := custody.ParseAddress(parts[0])
	if err != nil {
		return cash.GenesisAccount{}, errors.Wrapf(err, "account %q", s)
	}
	balance, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil {
		return cash.GenesisAccount{}, errors.Wrapf(errors.ErrAmount, "account %q: %s", s, err)
	}
	return cash.GenesisAccount{Address: addr, Balance: balance}, nil
}
