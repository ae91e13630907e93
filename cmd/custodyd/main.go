package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/iov-one/custody"
	custodyd "github.com/iov-one/custody/cmd/custodyd/app"
	"github.com/iov-one/custody/commands"
	"github.com/iov-one/custody/commands/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %+v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		home     string
		logLevel string
	)
	// The logger is configured once the flags are parsed.
	logger := &lazyLogger{Logger: log.NewNopLogger()}

	root := &cobra.Command{
		Use:          "custodyd",
		Short:        "Two party escrow node",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := newLogger(logLevel)
			if err != nil {
				return err
			}
			logger.Logger = l
			return nil
		},
	}
	defaultHome := filepath.Join(os.ExpandEnv("$HOME"), ".custody")
	root.PersistentFlags().StringVar(&home, "home", defaultHome, "directory to store files under")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, error or none")

	genesis := genesisFlags{logger: logger}
	initCmd := server.InitCmd(genesis.appState, logger, &home)
	genesis.register(initCmd)

	root.AddCommand(
		initCmd,
		server.StartCmd(generateApp, logger, &home),
		server.ValidateCmd(custodyd.Initializers(), &home),
		commands.TestGenCmd(custodyd.Examples),
		&cobra.Command{
			Use:   "version",
			Short: "Print the app version",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Println(custody.Version())
			},
		},
	)
	return root
}

func generateApp(home string, logger log.Logger, debug bool, reg prometheus.Registerer) (abci.Application, func(), error) {
	return custodyd.GenerateApp(custodyd.Options{
		Home:       home,
		Logger:     logger.With("module", "custody"),
		Debug:      debug,
		Registerer: reg,
	})
}

func newLogger(level string) (log.Logger, error) {
	logger := log.NewTMLogger(log.NewSyncWriter(os.Stdout))
	opt, err := log.AllowLevel(level)
	if err != nil {
		return nil, err
	}
	return log.NewFilter(logger, opt), nil
}

// lazyLogger lets commands be created before the log level flag is parsed.
// Commands call With only when they run.
type lazyLogger struct {
	log.Logger
}
