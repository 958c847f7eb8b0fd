package server

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/iov-one/relay/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	FlagHome    = "home"
	flagChainID = "chain_id"

	// GenesisFile is the name of the genesis file in the home directory.
	GenesisFile = "genesis.json"
)

// GenOptions can parse command-line and flag to
// generate default app_state for the genesis file.
// This is application-specific
type GenOptions func(args []string) (json.RawMessage, error)

// InitCmd will initialize the genesis file in the home directory with
// the app_state produced by gen. An existing genesis file keeps its chain
// id and gets its app_state replaced.
func InitCmd(gen GenOptions, logger log.Logger) *cobra.Command {
	c := initCmd{
		gen:    gen,
		logger: logger,
	}
	cmd := &cobra.Command{
		Use:   "init [args...]",
		Short: "Initialize the genesis file",
		RunE:  c.run,
	}
	cmd.Flags().Uint64(flagChainID, 1, "chain id signed by relayers and wallet owners")
	return cmd
}

type initCmd struct {
	gen    GenOptions
	logger log.Logger
}

func (c initCmd) run(cmd *cobra.Command, args []string) error {
	if cmd != nil {
		if err := viper.BindPFlags(cmd.Flags()); err != nil {
			return err
		}
	}
	home := viper.GetString(FlagHome)
	if err := os.MkdirAll(home, 0700); err != nil {
		return errors.Wrap(errors.ErrHuman, err.Error())
	}
	genFile := filepath.Join(home, GenesisFile)

	if !fileExists(genFile) {
		chainID := viper.GetUint64(flagChainID)
		if chainID == 0 {
			return errors.Wrap(errors.ErrEmpty, "chain id")
		}
		doc := GenesisDoc{}
		raw, err := json.Marshal(chainID)
		if err != nil {
			return err
		}
		doc["chain_id"] = raw
		if err := doc.save(genFile); err != nil {
			return err
		}
		c.logger.Info("Generated genesis file", "path", genFile, "chain_id", chainID)
	} else {
		c.logger.Info("Found genesis file", "path", genFile)
	}

	if c.gen == nil {
		return nil
	}
	options, err := c.gen(args)
	if err != nil {
		return err
	}
	return addGenesisOptions(genFile, options)
}

func fileExists(filePath string) bool {
	_, err := os.Stat(filePath)
	return !os.IsNotExist(err)
}

// GenesisDoc is the genesis file in a raw object format, so that fields
// we do not own survive an update.
type GenesisDoc map[string]json.RawMessage

func (doc GenesisDoc) save(filename string) error {
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return ioutil.WriteFile(filename, out, 0600)
}

func addGenesisOptions(filename string, options json.RawMessage) error {
	bz, err := ioutil.ReadFile(filename)
	if err != nil {
		return err
	}

	var doc GenesisDoc
	if err := json.Unmarshal(bz, &doc); err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot parse %s: %s", filename, err)
	}
	doc["app_state"] = options
	return doc.save(filename)
}
