package relay

import (
	"strings"

	"github.com/btcsuite/btcutil/bech32"
	"github.com/ethereum/go-ethereum/common"
	"github.com/iov-one/relay/errors"
)

// AddressLength is the length of all addresses.
const AddressLength = common.AddressLength

// Address identifies an account: an owner, a relayer, a wallet or a
// program. Addresses of externally owned accounts are derived from secp256k1
// public keys.
type Address = common.Address

// AddressHRP is the human readable part used when rendering addresses in
// bech32 format.
var AddressHRP = "relay"

// ParseAddress accepts either a 0x prefixed hex or a bech32 representation.
func ParseAddress(s string) (Address, error) {
	if strings.HasPrefix(s, AddressHRP+"1") {
		return parseBech32(s)
	}
	if !common.IsHexAddress(s) {
		return Address{}, errors.Wrapf(errors.ErrInput, "invalid address %q", s)
	}
	return common.HexToAddress(s), nil
}

func parseBech32(s string) (Address, error) {
	hrp, data, err := bech32.Decode(s)
	if err != nil {
		return Address{}, errors.Wrapf(errors.ErrInput, "bech32: %s", err)
	}
	if hrp != AddressHRP {
		return Address{}, errors.Wrapf(errors.ErrInput, "unexpected prefix %q", hrp)
	}
	// bech32 carries 5 bit groups
	raw, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return Address{}, errors.Wrapf(errors.ErrInput, "bech32: %s", err)
	}
	if len(raw) != AddressLength {
		return Address{}, errors.Wrapf(errors.ErrInput, "invalid address length %d", len(raw))
	}
	return common.BytesToAddress(raw), nil
}

// Bech32Address returns the bech32 representation of the address.
func Bech32Address(a Address) (string, error) {
	data, err := bech32.ConvertBits(a.Bytes(), 8, 5, true)
	if err != nil {
		return "", errors.Wrap(err, "convert bits")
	}
	s, err := bech32.Encode(AddressHRP, data)
	if err != nil {
		return "", errors.Wrap(err, "bech32 encode")
	}
	return s, nil
}

// BytesToAddress returns the address with value b. If b is larger than
// AddressLength, b will be cropped from the left.
func BytesToAddress(b []byte) Address {
	return common.BytesToAddress(b)
}

// IsZeroAddress returns true if the address was never set.
func IsZeroAddress(a Address) bool {
	return a == (Address{})
}
