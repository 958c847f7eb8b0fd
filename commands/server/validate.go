package server

import (
	"github.com/iov-one/relay"
	"github.com/iov-one/relay/app"
	"github.com/iov-one/relay/errors"
	"github.com/iov-one/relay/store"
	"github.com/spf13/cobra"
)

// ValidateGenesis loads every genesis file into a scratch store through
// ini and reports the first failure.
func ValidateGenesis(ini relay.Initializer, genesisPaths []string) error {
	for _, path := range genesisPaths {
		if err := validateGenesis(ini, path); err != nil {
			return errors.Wrap(err, path)
		}
	}
	return nil
}

func validateGenesis(ini relay.Initializer, genesisPath string) error {
	gen, err := app.LoadGenesis(genesisPath)
	if err != nil {
		return err
	}

	// Use in memory store because we want to discard the result.
	db := store.MemStore()
	if err := ini.FromGenesis(gen.AppState, db); err != nil {
		return errors.Wrap(err, "cannot initialize from genesis")
	}
	return nil
}

// ValidateCmd checks genesis files without starting the daemon.
func ValidateCmd(ini relay.Initializer) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <genesis.json>...",
		Short: "Check that genesis files can be loaded",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ValidateGenesis(ini, args)
		},
	}
}
