package server

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/iov-one/custody/errors"
	"github.com/spf13/cobra"
	"github.com/tendermint/tendermint/libs/log"
)

const appStateKey = "app_state"

// GenOptions generates the app_state of the genesis file. It is called after
// the command flags are parsed, so it can read them.
type GenOptions func() (json.RawMessage, error)

// InitCmd returns a command that writes the application options into the
// genesis file created by tendermint init. Options already present are
// replaced.
func InitCmd(gen GenOptions, logger log.Logger, home *string) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize app options in genesis file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			options, err := gen()
			if err != nil {
				return errors.Wrap(err, "generate options")
			}
			genFile := GenesisPath(*home)
			if err := addGenesisOptions(genFile, options); err != nil {
				return err
			}
			logger.Info("App state written", "path", genFile)
			return nil
		},
	}
}

// GenesisPath returns the location of the genesis file in given home
// directory.
func GenesisPath(home string) string {
	return filepath.Join(home, "config", "genesis.json")
}

// genesisDoc involves some tendermint-specific structures we don't
// want to parse, so we just grab it into a raw object format,
// so we can add one line.
type genesisDoc map[string]json.RawMessage

func addGenesisOptions(filename string, options json.RawMessage) error {
	bz, err := ioutil.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Wrapf(errors.ErrNotFound, "no genesis file at %s, run tendermint init first", filename)
		}
		return errors.Wrap(errors.ErrInput, err.Error())
	}

	var doc genesisDoc
	if err := json.Unmarshal(bz, &doc); err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot parse %s: %s", filename, err)
	}

	doc[appStateKey] = options
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	return ioutil.WriteFile(filename, out, 0600)
}
