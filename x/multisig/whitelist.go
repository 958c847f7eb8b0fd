package multisig

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/iov-one/relay"
	"github.com/iov-one/relay/errors"
	"github.com/iov-one/relay/orm"
)

// WalletABI describes the self-calls a wallet understands.
const WalletABI = `[
	{"type": "function", "name": "setWhitelisted", "stateMutability": "nonpayable",
	 "inputs": [{"name": "addr", "type": "address"}, {"name": "allowed", "type": "bool"}],
	 "outputs": []}
]`

var walletABI = func() abi.ABI {
	a, err := abi.JSON(strings.NewReader(WalletABI))
	if err != nil {
		panic(err)
	}
	return a
}()

// Permit marks a destination as explicitly permitted.
type Permit struct {
	Allowed bool
}

var _ orm.Model = (*Permit)(nil)

func (p *Permit) Marshal() ([]byte, error) {
	return rlp.EncodeToBytes(p)
}

func (p *Permit) Unmarshal(raw []byte) error {
	return rlp.DecodeBytes(raw, p)
}

func (p *Permit) Validate() error {
	return nil
}

// Whitelist keeps the destinations each wallet may call.
type Whitelist struct {
	bucket orm.ModelBucket
}

// NewWhitelist returns the whitelist gate.
func NewWhitelist() Whitelist {
	return Whitelist{bucket: orm.NewModelBucket("whitelist")}
}

// IsPermitted returns true if dest is an owner, the wallet itself or was
// explicitly permitted.
func (wl Whitelist) IsPermitted(db relay.ReadOnlyKVStore, addr relay.Address, w *Wallet, dest relay.Address) (bool, error) {
	if dest == addr || w.IsOwner(dest) {
		return true, nil
	}
	switch err := wl.bucket.Has(db, pairKey(addr, dest)); {
	case err == nil:
		return true, nil
	case errors.ErrNotFound.Is(err):
		return false, nil
	default:
		return false, err
	}
}

// SetPermitted admits or removes dest. It must only be reached through an
// authorized self-call of the wallet.
func (wl Whitelist) SetPermitted(db relay.KVStore, addr, dest relay.Address, allowed bool) error {
	key := pairKey(addr, dest)
	if allowed {
		return wl.bucket.Put(db, key, &Permit{Allowed: true})
	}
	if err := wl.bucket.Delete(db, key); err != nil && !errors.ErrNotFound.Is(err) {
		return err
	}
	return nil
}

// PackSetWhitelisted returns the self-call data that admits or removes
// dest.
func PackSetWhitelisted(dest relay.Address, allowed bool) ([]byte, error) {
	data, err := walletABI.Pack("setWhitelisted", dest, allowed)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return data, nil
}

// decodeSetWhitelisted decodes self-call data. An error is returned for
// anything but a well formed setWhitelisted call.
func decodeSetWhitelisted(data []byte) (relay.Address, bool, error) {
	method := walletABI.Methods["setWhitelisted"]
	if len(data) < 4 || string(data[:4]) != string(method.ID) {
		return relay.Address{}, false, errors.Wrap(errors.ErrInput, "unknown self-call")
	}
	args, err := method.Inputs.Unpack(data[4:])
	if err != nil {
		return relay.Address{}, false, errors.Wrap(errors.ErrInput, err.Error())
	}
	dest, ok1 := args[0].(relay.Address)
	allowed, ok2 := args[1].(bool)
	if !ok1 || !ok2 {
		return relay.Address{}, false, errors.Wrap(errors.ErrType, "setWhitelisted arguments")
	}
	return dest, allowed, nil
}
