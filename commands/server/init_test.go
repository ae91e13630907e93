package server

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/log"
)

const tendermintGenesis = `{
  "genesis_time": "2019-05-01T10:00:00.000000Z",
  "chain_id": "test-chain-LgVOZ0",
  "validators": [{"power": "10", "name": ""}],
  "app_hash": ""
}`

// setupHome creates a home directory with a genesis file as written by
// tendermint init.
func setupHome(t *testing.T) (string, func()) {
	t.Helper()
	home, err := ioutil.TempDir("", "custody-server")
	require.NoError(t, err)
	require.NoError(t, os.Mkdir(filepath.Join(home, "config"), 0755))
	require.NoError(t, ioutil.WriteFile(GenesisPath(home), []byte(tendermintGenesis), 0600))
	return home, func() { os.RemoveAll(home) }
}

func TestInit(t *testing.T) {
	home, cleanup := setupHome(t)
	defer cleanup()

	gen := func() (json.RawMessage, error) {
		return json.RawMessage(`{"escrow": {"deposit": 1}}`), nil
	}
	cmd := InitCmd(gen, log.NewNopLogger(), &home)
	require.NoError(t, cmd.RunE(cmd, nil))

	var doc genesisDoc
	bz, err := ioutil.ReadFile(GenesisPath(home))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(bz, &doc))
	// keep old values, and add our values
	assert.EqualValues(t, []byte(`"test-chain-LgVOZ0"`), doc["chain_id"])
	assert.NotEmpty(t, doc["validators"])
	assert.JSONEq(t, `{"escrow": {"deposit": 1}}`, string(doc[appStateKey]))
}

func TestInitWithoutGenesis(t *testing.T) {
	home, err := ioutil.TempDir("", "custody-server")
	require.NoError(t, err)
	defer os.RemoveAll(home)

	gen := func() (json.RawMessage, error) { return json.RawMessage(`{}`), nil }
	cmd := InitCmd(gen, log.NewNopLogger(), &home)
	err = cmd.RunE(cmd, nil)
	assert.True(t, errors.ErrNotFound.Is(err), "%+v", err)
}

func TestValidateGenesis(t *testing.T) {
	home, cleanup := setupHome(t)
	defer cleanup()
	path := GenesisPath(home)

	ini := &recordingInitializer{}
	require.NoError(t, addGenesisOptions(path, json.RawMessage(`{"a": 1}`)))
	require.NoError(t, ValidateGenesis(ini, []string{path}))
	assert.JSONEq(t, `1`, string(ini.opts["a"]))

	failing := &recordingInitializer{err: errors.ErrState}
	err := ValidateGenesis(failing, []string{path})
	assert.True(t, errors.ErrState.Is(err), "%+v", err)

	err = ValidateGenesis(ini, []string{filepath.Join(home, "missing.json")})
	assert.True(t, errors.ErrInput.Is(err), "%+v", err)
}

type recordingInitializer struct {
	opts custody.Options
	err  error
}

func (r *recordingInitializer) FromGenesis(opts custody.Options, db custody.KVStore) error {
	r.opts = opts
	return r.err
}
