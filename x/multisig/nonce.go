package multisig

import (
	"math"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/iov-one/relay"
	"github.com/iov-one/relay/crypto"
	"github.com/iov-one/relay/errors"
	"github.com/iov-one/relay/orm"
)

// Counter is a per relayer nonce counter.
type Counter struct {
	Value uint64
}

var _ orm.Model = (*Counter)(nil)

func (c *Counter) Marshal() ([]byte, error) {
	return rlp.EncodeToBytes(c)
}

func (c *Counter) Unmarshal(raw []byte) error {
	return rlp.DecodeBytes(raw, c)
}

func (c *Counter) Validate() error {
	return nil
}

// Nonces issues and validates the replay protection value of wallets.
//
// A global nonce is the wallet counter itself. A per relayer nonce is
// keccak256(wallet || relayer) with the low 64 bits replaced by the counter
// of that relayer, so that nonces of different relayers never collide.
type Nonces struct {
	counters orm.ModelBucket
}

// NewNonces returns the nonce manager.
func NewNonces() Nonces {
	return Nonces{counters: orm.NewModelBucket("nonces")}
}

// Current returns the nonce the next payload for the wallet must carry
// when submitted by relayer.
func (n Nonces) Current(db relay.ReadOnlyKVStore, addr relay.Address, w *Wallet, relayer relay.Address) (*big.Int, error) {
	if w.Variant.Policy().NonceScope == NonceGlobal {
		return new(big.Int).SetUint64(w.Nonce), nil
	}
	c, err := n.counter(db, addr, relayer)
	if err != nil {
		return nil, err
	}
	return relayerNonce(addr, relayer, c.Value), nil
}

// Consume accepts claimed if it is the current nonce and advances the
// counter by one. A global counter is advanced on w, which the caller must
// save.
func (n Nonces) Consume(db relay.KVStore, addr relay.Address, w *Wallet, relayer relay.Address, claimed *big.Int) error {
	current, err := n.Current(db, addr, w, relayer)
	if err != nil {
		return err
	}
	if claimed == nil || claimed.Cmp(current) != 0 {
		return errors.Wrapf(errors.ErrReplay, "nonce %s, want %s", claimed, current)
	}

	if w.Variant.Policy().NonceScope == NonceGlobal {
		if w.Nonce == math.MaxUint64 {
			return errors.Wrap(errors.ErrOverflow, "nonce")
		}
		w.Nonce++
		return nil
	}

	c, err := n.counter(db, addr, relayer)
	if err != nil {
		return err
	}
	if c.Value == math.MaxUint64 {
		return errors.Wrap(errors.ErrOverflow, "nonce")
	}
	c.Value++
	return n.counters.Put(db, pairKey(addr, relayer), c)
}

func (n Nonces) counter(db relay.ReadOnlyKVStore, addr, relayer relay.Address) (*Counter, error) {
	var c Counter
	switch err := n.counters.One(db, pairKey(addr, relayer), &c); {
	case errors.ErrNotFound.Is(err):
		return &Counter{}, nil
	case err != nil:
		return nil, err
	}
	return &c, nil
}

// relayerNonce derives the full nonce of a relayer from its counter.
func relayerNonce(wallet, relayer relay.Address, counter uint64) *big.Int {
	h := crypto.Keccak256(wallet.Bytes(), relayer.Bytes())
	for i := 0; i < 8; i++ {
		h[31-i] = byte(counter >> (8 * i))
	}
	return new(big.Int).SetBytes(h)
}
