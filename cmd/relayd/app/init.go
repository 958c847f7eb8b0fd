package relayd

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/iov-one/relay"
	"github.com/iov-one/relay/crypto"
	"github.com/iov-one/relay/x/cash"
	"github.com/iov-one/relay/x/multisig"
)

// DefaultSettlementGas is the settlement gas of generated genesis files.
const DefaultSettlementGas = 30000

// GenInitOptions will produce some basic options for one rich
// account, to use for dev mode
//
// The first argument is the hex or bech32 address of the account. If
// omitted, a key is generated and printed out. The account also collects
// the gas fees.
func GenInitOptions(args []string) (json.RawMessage, error) {
	var addr relay.Address
	if len(args) > 0 {
		a, err := relay.ParseAddress(args[0])
		if err != nil {
			return nil, err
		}
		addr = a
	} else {
		// if no address provided, auto-generate one
		// and print out the private key
		key := crypto.GenPrivKey()
		addr = key.Address()
		fmt.Println(key.Hex())
	}

	opts := map[string]interface{}{
		"cash": []cash.GenesisAccount{
			{Address: addr, Amount: new(big.Int).Exp(big.NewInt(10), big.NewInt(24), nil)},
		},
		"conf": map[string]interface{}{
			"cash": cash.Configuration{
				Collector:   addr,
				MinGasPrice: big.NewInt(1),
			},
			"multisig": multisig.Configuration{
				SettlementGas: DefaultSettlementGas,
			},
		},
		"multisig": []multisig.GenesisWallet{},
	}
	return json.MarshalIndent(opts, "", "  ")
}
