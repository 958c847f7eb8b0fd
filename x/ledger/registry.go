package ledger

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/iov-one/relay"
	"github.com/iov-one/relay/errors"
	"github.com/iov-one/relay/gas"
	"github.com/iov-one/relay/orm"
)

// RegistryAddress is where the relay daemon deploys the Registry program.
var RegistryAddress = relay.BytesToAddress([]byte("registry"))

// RegistryABI describes the calls understood by the Registry program.
const RegistryABI = `[
	{"type": "function", "name": "register", "stateMutability": "payable",
	 "inputs": [{"name": "value", "type": "uint256"}], "outputs": []},
	{"type": "function", "name": "fail", "stateMutability": "nonpayable",
	 "inputs": [], "outputs": []},
	{"type": "function", "name": "registry", "stateMutability": "view",
	 "inputs": [{"name": "who", "type": "address"}],
	 "outputs": [{"name": "", "type": "uint256"}]}
]`

var registryABI = mustParseABI(RegistryABI)

func mustParseABI(def string) abi.ABI {
	a, err := abi.JSON(strings.NewReader(def))
	if err != nil {
		panic(err)
	}
	return a
}

// Registry stores one value per caller. Its fail method always fails and
// is used to test how failed calls are handled.
type Registry struct {
	bucket orm.ModelBucket
}

var _ Program = (*Registry)(nil)

// NewRegistry returns the program. All instances share one store bucket, so
// deploy it at a single address.
func NewRegistry() *Registry {
	return &Registry{bucket: orm.NewModelBucket("registry")}
}

// RegistryEntry is the value registered by a single caller.
type RegistryEntry struct {
	Value *big.Int
}

var _ orm.Model = (*RegistryEntry)(nil)

func (e *RegistryEntry) Marshal() ([]byte, error) {
	return rlp.EncodeToBytes(e)
}

func (e *RegistryEntry) Unmarshal(raw []byte) error {
	return rlp.DecodeBytes(raw, e)
}

func (e *RegistryEntry) Validate() error {
	return relay.ValidateAmount(e.Value)
}

// PackRegistryCall returns call data for the given Registry method.
func PackRegistryCall(method string, args ...interface{}) ([]byte, error) {
	data, err := registryABI.Pack(method, args...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return data, nil
}

// Call implements Program.
func (r *Registry) Call(ctx relay.Context, db relay.KVStore, self, caller relay.Address, value *big.Int, data []byte) ([]byte, error) {
	if len(data) < 4 {
		return nil, errors.Wrap(errors.ErrInput, "missing method selector")
	}
	method, err := registryABI.MethodById(data[:4])
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	args, err := method.Inputs.Unpack(data[4:])
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "%s arguments: %s", method.Name, err)
	}
	meter := gas.GetMeter(ctx)

	switch method.Name {
	case "register":
		if err := meter.Consume(gas.STORE, "register"); err != nil {
			return nil, err
		}
		v, ok := args[0].(*big.Int)
		if !ok {
			return nil, errors.Wrapf(errors.ErrType, "register argument %T", args[0])
		}
		return nil, r.bucket.Put(db, caller.Bytes(), &RegistryEntry{Value: v})
	case "fail":
		return nil, errors.Wrap(errors.ErrState, "fail called")
	case "registry":
		if err := meter.Consume(gas.LOAD, "registry"); err != nil {
			return nil, err
		}
		who, ok := args[0].(relay.Address)
		if !ok {
			return nil, errors.Wrapf(errors.ErrType, "registry argument %T", args[0])
		}
		v, err := r.Value(db, who)
		if err != nil {
			return nil, err
		}
		return method.Outputs.Pack(v)
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown method %q", method.Name)
	}
}

// Value returns what addr registered, zero if nothing.
func (r *Registry) Value(db relay.ReadOnlyKVStore, addr relay.Address) (*big.Int, error) {
	var e RegistryEntry
	switch err := r.bucket.One(db, addr.Bytes(), &e); {
	case errors.ErrNotFound.Is(err):
		return new(big.Int), nil
	case err != nil:
		return nil, err
	}
	return e.Value, nil
}
