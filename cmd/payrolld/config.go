package main

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/iov-one/openpayroll/errors"
	"github.com/joho/godotenv"
)

const (
	configFile = "config.toml"
	envPrefix  = "PAYROLLD_"
)

// Config holds the node settings. Values are read from config.toml in the
// home directory, then overwritten by PAYROLLD_* environment variables,
// then by command line flags.
type Config struct {
	Bind        string `toml:"bind"`
	LogLevel    string `toml:"log_level"`
	Debug       bool   `toml:"debug"`
	MetricsAddr string `toml:"metrics_addr"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		Bind:        "tcp://localhost:26658",
		LogLevel:    "info",
		MetricsAddr: "",
	}
}

// loadEnvFiles reads .env.local and .env into the process environment.
// Variables that are already set are not overwritten, so .env.local wins
// over .env. Missing files are ignored.
func loadEnvFiles(dir string) {
	_ = godotenv.Load(filepath.Join(dir, ".env.local"))
	_ = godotenv.Load(filepath.Join(dir, ".env"))
}

// LoadConfig returns the configuration stored in given home directory with
// the environment overrides applied.
func LoadConfig(home string) (Config, error) {
	conf := DefaultConfig()

	path := filepath.Join(home, configFile)
	switch _, err := os.Stat(path); {
	case err == nil:
		if _, err := toml.DecodeFile(path, &conf); err != nil {
			return conf, errors.Wrapf(errors.ErrInput, "config %s: %s", path, err)
		}
	case os.IsNotExist(err):
		// defaults only
	default:
		return conf, errors.Wrap(errors.ErrInput, err.Error())
	}

	if err := conf.applyEnv(os.LookupEnv); err != nil {
		return conf, err
	}
	return conf, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(envPrefix + "BIND"); ok {
		c.Bind = v
	}
	if v, ok := lookup(envPrefix + "LOG_LEVEL"); ok {
		c.LogLevel = v
	}
	if v, ok := lookup(envPrefix + "METRICS_ADDR"); ok {
		c.MetricsAddr = v
	}
	if v, ok := lookup(envPrefix + "DEBUG"); ok {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return errors.Wrapf(errors.ErrInput, "%sDEBUG: %s", envPrefix, err)
		}
		c.Debug = debug
	}
	return nil
}

// SaveConfig writes the configuration to the home directory unless a
// configuration file already exists there.
func SaveConfig(home string, conf Config) error {
	path := filepath.Join(home, configFile)
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if err := os.MkdirAll(home, 0700); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(conf); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	return nil
}
