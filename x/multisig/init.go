package multisig

import (
	"encoding/json"

	"github.com/iov-one/relay"
	"github.com/iov-one/relay/errors"
	"github.com/iov-one/relay/gconf"
)

// MarshalJSON renders the variant by name.
func (v Variant) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.String())
}

// UnmarshalJSON accepts the variant name.
func (v *Variant) UnmarshalJSON(raw []byte) error {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	parsed, err := ParseVariant(s)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// GenesisWallet is a wallet created at a fixed address by genesis.
type GenesisWallet struct {
	Address   relay.Address   `json:"address"`
	Variant   Variant         `json:"variant"`
	Owners    []relay.Address `json:"owners"`
	Threshold uint8           `json:"threshold"`
	Manager   relay.Address   `json:"manager"`
}

// Initializer fulfils the Initializer interface to load data from the
// genesis file
type Initializer struct{}

var _ relay.Initializer = Initializer{}

// FromGenesis stores the configuration and the genesis wallets. Wallets
// with a manager and no owners are stored inactive.
func (Initializer) FromGenesis(opts relay.Options, kv relay.KVStore) error {
	var conf Configuration
	if err := gconf.InitConfig(kv, opts, confPkg, &conf); err != nil {
		return errors.Wrap(err, "init config")
	}

	var wallets []GenesisWallet
	if err := opts.ReadOptions("multisig", &wallets); err != nil {
		return err
	}
	bucket := NewWalletBucket()
	for i, g := range wallets {
		if relay.IsZeroAddress(g.Address) {
			return errors.Wrapf(errors.ErrEmpty, "wallet %d: address", i)
		}
		if err := g.Variant.Validate(); err != nil {
			return errors.Wrapf(err, "wallet %d", i)
		}
		w := &Wallet{
			Variant:   g.Variant,
			Owners:    g.Owners,
			Threshold: g.Threshold,
			Manager:   g.Manager,
			State:     Active,
			Nonce:     g.Variant.Policy().NonceStart,
		}
		if g.Variant.Policy().Managed && len(g.Owners) == 0 {
			w.State = Inactive
		}
		if err := bucket.Has(kv, g.Address.Bytes()); err == nil {
			return errors.Wrapf(errors.ErrDuplicate, "wallet %d: %s", i, g.Address.Hex())
		}
		if err := bucket.Save(kv, g.Address, w); err != nil {
			return errors.Wrapf(err, "wallet %d", i)
		}
	}
	return nil
}
