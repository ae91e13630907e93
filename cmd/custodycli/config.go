package main

import (
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/iov-one/custody/crypto"
	"github.com/iov-one/custody/errors"
	yaml "gopkg.in/yaml.v2"
)

// Config is read from the YAML file, flags override it.
type Config struct {
	Node    string `yaml:"node"`
	ChainID string `yaml:"chain_id"`
	// Key is the path of the private key file.
	Key string `yaml:"key"`
}

func defaultConfigPath() string {
	return filepath.Join(os.ExpandEnv("$HOME"), ".custodycli", "config.yaml")
}

func defaultConfig() Config {
	return Config{
		Node:    "http://localhost:26657",
		ChainID: "",
		Key:     filepath.Join(os.ExpandEnv("$HOME"), ".custodycli", "key.json"),
	}
}

// loadConfig reads the file at path over the defaults. A missing file is not
// an error.
func loadConfig(path string) (Config, error) {
	conf := defaultConfig()
	raw, err := ioutil.ReadFile(path)
	if os.IsNotExist(err) {
		return conf, nil
	}
	if err != nil {
		return conf, errors.Wrapf(errors.ErrInput, "cannot read config: %s", err)
	}
	if err := yaml.Unmarshal(raw, &conf); err != nil {
		return conf, errors.Wrapf(errors.ErrInput, "cannot parse %s: %s", path, err)
	}
	return conf, nil
}

func saveConfig(path string, conf Config) error {
	raw, err := yaml.Marshal(conf)
	if err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	return ioutil.WriteFile(path, raw, 0600)
}

// loadKey reads a private key stored by keygen.
func loadKey(path string) (*crypto.PrivateKey, error) {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "cannot read key %s, run keygen first", path)
	}
	var key crypto.PrivateKey
	if err := key.UnmarshalJSON(raw); err != nil {
		return nil, errors.Wrapf(err, "key %s", path)
	}
	return &key, nil
}

// saveKey writes a new key, refusing to overwrite an existing one.
func saveKey(path string, key *crypto.PrivateKey) error {
	if _, err := os.Stat(path); err == nil {
		return errors.Wrapf(errors.ErrDuplicate, "key %s already exists", path)
	}
	raw, err := key.MarshalJSON()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	return ioutil.WriteFile(path, raw, 0600)
}
