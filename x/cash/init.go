package cash

import (
	"math/big"

	"github.com/iov-one/relay"
	"github.com/iov-one/relay/errors"
	"github.com/iov-one/relay/gconf"
)

const optKey = "cash"

// GenesisAccount is used to parse the json from genesis file.
// Address is hex encoded, amount is a json number.
type GenesisAccount struct {
	Address relay.Address `json:"address"`
	Amount  *big.Int      `json:"amount"`
}

// Initializer fulfils the Initializer interface to load data from
// the genesis file
type Initializer struct{}

var _ relay.Initializer = Initializer{}

// FromGenesis will parse initial account info and the fee configuration
// from genesis and save it to the database
func (Initializer) FromGenesis(opts relay.Options, kv relay.KVStore) error {
	var conf Configuration
	if err := gconf.InitConfig(kv, opts, confPkg, &conf); err != nil {
		return errors.Wrap(err, "init config")
	}

	accts := []GenesisAccount{}
	if err := opts.ReadOptions(optKey, &accts); err != nil {
		return err
	}
	ctrl := NewController()
	for i, acct := range accts {
		if relay.IsZeroAddress(acct.Address) {
			return errors.Wrapf(errors.ErrEmpty, "account %d: address", i)
		}
		if err := ctrl.IssueCoins(kv, acct.Address, acct.Amount); err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
	}
	return nil
}
