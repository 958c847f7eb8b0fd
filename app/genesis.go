package app

import (
	"encoding/binary"
	"encoding/json"
	"io/ioutil"

	"github.com/iov-one/relay"
	"github.com/iov-one/relay/errors"
)

// Genesis file format. AppState is passed to the initializers of all
// extensions.
type Genesis struct {
	ChainID  uint64        `json:"chain_id"`
	AppState relay.Options `json:"app_state"`
}

// LoadGenesis reads and parses a genesis file.
func LoadGenesis(filePath string) (*Genesis, error) {
	raw, err := ioutil.ReadFile(filePath)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	var gen Genesis
	if err := json.Unmarshal(raw, &gen); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "cannot parse genesis file: %s", err)
	}
	if gen.ChainID == 0 {
		return nil, errors.Wrap(errors.ErrEmpty, "chain_id")
	}
	return &gen, nil
}

//------- storing chainID ---------

const chainIDKey = "_relay:chainID"

// loadChainID returns the chain id stored if any
func loadChainID(kv relay.ReadOnlyKVStore) (uint64, error) {
	v, err := kv.Get([]byte(chainIDKey))
	if err != nil {
		return 0, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if len(v) != 8 {
		return 0, nil
	}
	return binary.BigEndian.Uint64(v), nil
}

// saveChainID stores a chain id in the kv store.
// Returns error if already set, or invalid.
func saveChainID(kv relay.KVStore, chainID uint64) error {
	if chainID == 0 {
		return errors.Wrap(errors.ErrInput, "chain id must not be zero")
	}
	k := []byte(chainIDKey)
	if ok, err := kv.Has(k); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	} else if ok {
		return errors.Wrap(errors.ErrState, "chain id already set")
	}
	var v [8]byte
	binary.BigEndian.PutUint64(v[:], chainID)
	return kv.Set(k, v[:])
}
