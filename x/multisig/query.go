package multisig

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/iov-one/relay"
	"github.com/iov-one/relay/errors"
)

// RegisterQuery registers the wallet queries. Query data starts with the 20
// byte wallet address, followed by a second address for queries about a
// relation. Numbers and booleans are returned as 32 byte big endian words.
//
//	/wallets           wallet            RLP encoded Wallet
//	/wallets/nonce     wallet[|relayer]  nonce the next payload must carry
//	/wallets/owner     wallet|addr       1 if addr is an owner
//	/wallets/threshold wallet            signatures required
//	/wallets/permitted wallet|addr       1 if addr passes the whitelist gate
func RegisterQuery(qr relay.QueryRouter) {
	q := walletQueries{wallets: NewWalletBucket(), nonces: NewNonces(), whitelist: NewWhitelist()}
	qr.Register("/wallets", relay.QueryHandlerFunc(q.wallet))
	qr.Register("/wallets/nonce", relay.QueryHandlerFunc(q.nonce))
	qr.Register("/wallets/owner", relay.QueryHandlerFunc(q.owner))
	qr.Register("/wallets/threshold", relay.QueryHandlerFunc(q.threshold))
	qr.Register("/wallets/permitted", relay.QueryHandlerFunc(q.permitted))
}

type walletQueries struct {
	wallets   WalletBucket
	nonces    Nonces
	whitelist Whitelist
}

// load splits query data into the wallet address and an optional second
// address.
func (q walletQueries) load(db relay.ReadOnlyKVStore, data []byte, withOther bool) (relay.Address, *Wallet, relay.Address, error) {
	var other relay.Address
	switch {
	case len(data) == 2*relay.AddressLength:
		other = relay.BytesToAddress(data[relay.AddressLength:])
	case len(data) == relay.AddressLength && !withOther:
	default:
		return relay.Address{}, nil, other, errors.Wrapf(errors.ErrInput, "invalid query data length %d", len(data))
	}
	addr := relay.BytesToAddress(data[:relay.AddressLength])
	w, err := q.wallets.GetWallet(db, addr)
	if err != nil {
		return addr, nil, other, err
	}
	return addr, w, other, nil
}

func (q walletQueries) wallet(db relay.ReadOnlyKVStore, data []byte) ([]relay.Model, error) {
	if len(data) != relay.AddressLength {
		return nil, errors.Wrap(errors.ErrInput, "wallet address required")
	}
	_, w, _, err := q.load(db, data, false)
	if err != nil {
		return nil, err
	}
	raw, err := w.Marshal()
	if err != nil {
		return nil, err
	}
	return []relay.Model{relay.Pair(data, raw)}, nil
}

func (q walletQueries) nonce(db relay.ReadOnlyKVStore, data []byte) ([]relay.Model, error) {
	addr, w, relayer, err := q.load(db, data, false)
	if err != nil {
		return nil, err
	}
	if w.Variant.Policy().NonceScope == NoncePerRelayer && len(data) != 2*relay.AddressLength {
		return nil, errors.Wrap(errors.ErrInput, "relayer address required")
	}
	n, err := q.nonces.Current(db, addr, w, relayer)
	if err != nil {
		return nil, err
	}
	return []relay.Model{relay.Pair(data, word(n))}, nil
}

func (q walletQueries) owner(db relay.ReadOnlyKVStore, data []byte) ([]relay.Model, error) {
	_, w, other, err := q.load(db, data, true)
	if err != nil {
		return nil, err
	}
	return []relay.Model{relay.Pair(data, boolWord(w.IsOwner(other)))}, nil
}

func (q walletQueries) threshold(db relay.ReadOnlyKVStore, data []byte) ([]relay.Model, error) {
	if len(data) != relay.AddressLength {
		return nil, errors.Wrap(errors.ErrInput, "wallet address required")
	}
	_, w, _, err := q.load(db, data, false)
	if err != nil {
		return nil, err
	}
	return []relay.Model{relay.Pair(data, word(big.NewInt(int64(w.Threshold))))}, nil
}

func (q walletQueries) permitted(db relay.ReadOnlyKVStore, data []byte) ([]relay.Model, error) {
	addr, w, other, err := q.load(db, data, true)
	if err != nil {
		return nil, err
	}
	// Without the whitelist policy every destination passes the gate.
	ok := true
	if w.Variant.Policy().Whitelist {
		if ok, err = q.whitelist.IsPermitted(db, addr, w, other); err != nil {
			return nil, err
		}
	}
	return []relay.Model{relay.Pair(data, boolWord(ok))}, nil
}

func word(n *big.Int) []byte {
	return common.BigToHash(n).Bytes()
}

func boolWord(b bool) []byte {
	if b {
		return word(big.NewInt(1))
	}
	return word(new(big.Int))
}
