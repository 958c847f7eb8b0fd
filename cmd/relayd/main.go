package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/iov-one/relay"
	relayd "github.com/iov-one/relay/cmd/relayd/app"
	"github.com/iov-one/relay/commands/server"
	"github.com/iov-one/relay/crypto"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	flagLogLevel = "log_level"
	configName   = "relayd"
	envPrefix    = "RELAYD"
)

// levelLogger forwards to the logger configured once flags and the
// configuration file are read.
type levelLogger struct {
	log.Logger
}

func main() {
	base := log.NewTMLogger(log.NewSyncWriter(os.Stdout)).With("module", "relayd")
	logger := &levelLogger{Logger: base}

	root := &cobra.Command{
		Use:          "relayd",
		Short:        "Threshold signature relay daemon",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(); err != nil {
				return err
			}
			opt, err := log.AllowLevel(viper.GetString(flagLogLevel))
			if err != nil {
				return err
			}
			logger.Logger = log.NewFilter(base, opt)
			return nil
		},
	}
	defaultHome := filepath.Join(os.ExpandEnv("$HOME"), ".relayd")
	root.PersistentFlags().String(server.FlagHome, defaultHome, "directory to store files under")
	root.PersistentFlags().String(flagLogLevel, "info", "log level: debug, info, error or none")
	if err := viper.BindPFlags(root.PersistentFlags()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	root.AddCommand(
		server.InitCmd(relayd.GenInitOptions, logger),
		server.StartCmd(generateApp, logger),
		server.ValidateCmd(relayd.Initializer()),
		versionCmd(),
		addressCmd(),
	)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads RELAYD_* environment variables and the optional
// relayd.toml in the home directory.
func loadConfig() error {
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	viper.SetConfigName(configName)
	viper.AddConfigPath(viper.GetString(server.FlagHome))
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
	}
	return nil
}

func generateApp(logger log.Logger, debug bool) (server.Application, error) {
	return relayd.GenerateApp(logger, debug)
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the app version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(relay.Version())
		},
	}
}

func addressCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "address [hex|bech32]",
		Short: "Show an address in hex and bech32 form, or generate a new key",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var addr relay.Address
			if len(args) == 0 {
				key := crypto.GenPrivKey()
				fmt.Printf("private key: %s\n", key.Hex())
				addr = key.Address()
			} else {
				a, err := relay.ParseAddress(args[0])
				if err != nil {
					return err
				}
				addr = a
			}
			b32, err := relay.Bech32Address(addr)
			if err != nil {
				return err
			}
			fmt.Printf("hex:    %s\nbech32: %s\n", addr.Hex(), b32)
			return nil
		},
	}
}
