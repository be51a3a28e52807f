package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io/ioutil"
	"path/filepath"

	"github.com/iov-one/openpayroll/cmd/payrolld/app"
	"github.com/iov-one/openpayroll/errors"
	"github.com/tendermint/tendermint/libs/log"
)

// InitCmd writes the payroll app_state into an existing tendermint genesis
// file and stores the default node configuration in the home directory.
//
// The owner address can be given as the only argument. Without it a new
// key is generated and its secret printed.
func InitCmd(logger log.Logger, home string, args []string) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	genesis := fs.String("genesis", filepath.Join(home, "config", "genesis.json"), "tendermint genesis file to update")
	if err := fs.Parse(args); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}

	options, secret, err := app.GenInitOptions(fs.Args())
	if err != nil {
		return err
	}
	if err := addGenesisOptions(*genesis, options); err != nil {
		return err
	}
	logger.Info("Genesis app_state written", "path", *genesis)

	if err := SaveConfig(home, DefaultConfig()); err != nil {
		return err
	}
	if secret != "" {
		fmt.Printf("Owner private key (keep it safe): %s\n", secret)
	}
	return nil
}

// genesisDoc involves some tendermint-specific structures we don't
// want to parse, so we just grab it into a raw object format,
// so we can add one line.
type genesisDoc map[string]json.RawMessage

func addGenesisOptions(filename string, options json.RawMessage) error {
	bz, err := ioutil.ReadFile(filename)
	if err != nil {
		return errors.Wrapf(errors.ErrNotFound, "genesis file, run tendermint init first: %s", err)
	}

	var doc genesisDoc
	if err := json.Unmarshal(bz, &doc); err != nil {
		return errors.Wrapf(errors.ErrInput, "genesis file: %s", err)
	}

	doc["app_state"] = options
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	if err := ioutil.WriteFile(filename, out, 0600); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	return nil
}
