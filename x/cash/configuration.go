package cash

import (
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/iov-one/relay"
	"github.com/iov-one/relay/errors"
	"github.com/iov-one/relay/gconf"
)

const confPkg = "cash"

// Configuration of the fee collection. It is a gconf singleton initialized
// from genesis.
type Configuration struct {
	// Owner may update the configuration. Optional; without an owner the
	// configuration is immutable.
	Owner relay.Address `json:"owner"`
	// Collector receives all gas fees.
	Collector relay.Address `json:"collector"`
	// MinGasPrice is the lowest gas price a relayer may offer.
	MinGasPrice *big.Int `json:"min_gas_price"`
}

var _ gconf.OwnedConfig = (*Configuration)(nil)

func (c *Configuration) Marshal() ([]byte, error) {
	return rlp.EncodeToBytes(c)
}

func (c *Configuration) Unmarshal(raw []byte) error {
	return rlp.DecodeBytes(raw, c)
}

func (c *Configuration) GetOwner() relay.Address {
	return c.Owner
}

func (c *Configuration) Validate() error {
	if relay.IsZeroAddress(c.Collector) {
		return errors.Wrap(errors.ErrState, "collector address missing")
	}
	if c.MinGasPrice != nil {
		if err := relay.ValidateAmount(c.MinGasPrice); err != nil {
			return errors.Wrap(err, "minimal gas price")
		}
	}
	return nil
}

func loadConf(db gconf.ReadStore) (*Configuration, error) {
	var conf Configuration
	if err := gconf.Load(db, confPkg, &conf); err != nil {
		return nil, errors.Wrap(err, "load configuration")
	}
	return &conf, nil
}
