package multisig

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/iov-one/relay"
	"github.com/iov-one/relay/errors"
	"github.com/iov-one/relay/gconf"
)

const confPkg = "multisig"

// Configuration of the wallet extension, a gconf singleton.
type Configuration struct {
	Owner relay.Address `json:"owner"`
	// SettlementGas is charged on top of the metered gas of an execution
	// that refunds the relayer. It covers the cost of the refund itself.
	SettlementGas uint64 `json:"settlement_gas"`
	// MaxOwners limits the owners of new wallets. Zero means MaxOwners.
	MaxOwners uint8 `json:"max_owners"`
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
	if c.MaxOwners > MaxOwners {
		return errors.Field("MaxOwners", errors.ErrInput, "at most %d", MaxOwners)
	}
	return nil
}

func (c *Configuration) maxOwners() int {
	if c.MaxOwners == 0 {
		return MaxOwners
	}
	return int(c.MaxOwners)
}

func loadConf(db gconf.ReadStore) (*Configuration, error) {
	var conf Configuration
	if err := gconf.Load(db, confPkg, &conf); err != nil {
		return nil, errors.Wrap(err, "load configuration")
	}
	return &conf, nil
}
