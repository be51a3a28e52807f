package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	ledger "github.com/iov-one/openpayroll"
	"github.com/iov-one/openpayroll/errors"
	"github.com/tendermint/tendermint/libs/log"
)

var (
	flagHome     = "home"
	flagLogLevel = "log_level"
	varHome      *string
	varLogLevel  *string
)

func init() {
	defaultHome := filepath.Join(os.ExpandEnv("$HOME"), ".payrolld")
	if v, ok := os.LookupEnv(envPrefix + "HOME"); ok {
		defaultHome = v
	}
	varHome = flag.String(flagHome, defaultHome, "directory to store files under")
	varLogLevel = flag.String(flagLogLevel, "", "log level: debug, info, error or none (overrides the configuration)")

	flag.CommandLine.Usage = helpMessage
}

func helpMessage() {
	fmt.Println("payrolld")
	fmt.Println("        Recurring payroll ledger node")
	fmt.Println("")
	fmt.Println("help    Print this message")
	fmt.Println("init    Initialize app options in genesis file")
	fmt.Println("start   Run the abci server")
	fmt.Println("version Print the app version")
	fmt.Println("")
	flag.PrintDefaults()
}

func newLogger(level string) (log.Logger, error) {
	logger := log.NewTMLogger(log.NewSyncWriter(os.Stdout)).
		With("module", "payroll")
	opt, err := log.AllowLevel(level)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "log level: %s", err)
	}
	return log.NewFilter(logger, opt), nil
}

func main() {
	flag.Parse()
	if flag.NArg() == 0 {
		fmt.Println("Missing command:")
		helpMessage()
		os.Exit(1)
	}

	if err := run(flag.Arg(0), flag.Args()[1:]); err != nil {
		fmt.Printf("Error: %+v\n\n", err)
		helpMessage()
		os.Exit(1)
	}
}

func run(cmd string, args []string) error {
	loadEnvFiles(*varHome)
	conf, err := LoadConfig(*varHome)
	if err != nil {
		return err
	}
	if *varLogLevel != "" {
		conf.LogLevel = *varLogLevel
	}
	logger, err := newLogger(conf.LogLevel)
	if err != nil {
		return err
	}

	switch cmd {
	case "help":
		helpMessage()
		return nil
	case "init":
		return InitCmd(logger, *varHome, args)
	case "start":
		return StartCmd(conf, logger, *varHome, args)
	case "version":
		fmt.Println(ledger.Version())
		return nil
	default:
		return errors.Wrapf(errors.ErrInput, "unknown command: %s", cmd)
	}
}
