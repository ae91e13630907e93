package server

import (
	"encoding/json"
	"io/ioutil"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/store"
	"github.com/spf13/cobra"
)

// ValidateCmd returns a command that loads the app_state of each given
// genesis file, defaulting to the one in the home directory.
func ValidateCmd(ini custody.Initializer, home *string) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [genesis.json...]",
		Short: "Check that the genesis app_state can be loaded",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{GenesisPath(*home)}
			}
			return ValidateGenesis(ini, args)
		},
	}
}

// ValidateGenesis runs the initializer over the app_state of every file.
// The state is discarded.
func ValidateGenesis(ini custody.Initializer, genesisPaths []string) error {
	for _, path := range genesisPaths {
		if err := validateGenesis(ini, path); err != nil {
			return errors.Wrap(err, path)
		}
	}
	return nil
}

func validateGenesis(ini custody.Initializer, genesisPath string) error {
	b, err := ioutil.ReadFile(genesisPath)
	if err != nil {
		return errors.Wrap(errors.ErrInput, "cannot read genesis file")
	}

	var genesis struct {
		State custody.Options `json:"app_state"`
	}
	if err := json.Unmarshal(b, &genesis); err != nil {
		return errors.Wrap(errors.ErrInput, "cannot JSON deserialize genesis")
	}

	// Use in memory store because we want to discard the result.
	db := store.MemStore()

	if err := ini.FromGenesis(genesis.State, db); err != nil {
		return errors.Wrap(err, "cannot initialize from genesis")
	}
	return nil
}
