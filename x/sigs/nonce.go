package sigs

import (
	"github.com/iov-one/relay"
	"github.com/iov-one/relay/errors"
)

// NextNonce returns the sequence value that must be used when signing the
// next envelope of given relayer.
// If not yet present, sequence counting starts with zero.
func NextNonce(db relay.ReadOnlyKVStore, relayer relay.Address) (uint64, error) {
	u, err := NewBucket().GetOrCreate(db, relayer)
	if err != nil {
		return 0, errors.Wrap(err, "bucket get")
	}
	return u.Sequence, nil
}

// RegisterQuery will register the relayer sequences as "/sigs/nonce".
// Query data is the 20 byte relayer address, result value is the RLP
// encoded UserData.
func RegisterQuery(qr relay.QueryRouter) {
	qr.Register("/sigs/nonce", relay.QueryHandlerFunc(func(db relay.ReadOnlyKVStore, data []byte) ([]relay.Model, error) {
		if len(data) != relay.AddressLength {
			return nil, errors.Wrapf(errors.ErrInput, "address must be %d bytes", relay.AddressLength)
		}
		u, err := NewBucket().GetOrCreate(db, relay.BytesToAddress(data))
		if err != nil {
			return nil, err
		}
		raw, err := u.Marshal()
		if err != nil {
			return nil, err
		}
		return []relay.Model{relay.Pair(data, raw)}, nil
	}))
}
