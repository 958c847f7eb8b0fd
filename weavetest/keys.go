package weavetest

import (
	"bytes"
	"sort"
	"testing"

	"github.com/iov-one/relay"
	"github.com/iov-one/relay/crypto"
)

// NewKey returns a fresh secp256k1 key.
func NewKey() *crypto.PrivateKey {
	return crypto.GenPrivKey()
}

// SortedKeys returns n fresh keys ordered by ascending address.
func SortedKeys(n int) []*crypto.PrivateKey {
	keys := make([]*crypto.PrivateKey, n)
	for i := range keys {
		keys[i] = crypto.GenPrivKey()
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i].Address(), keys[j].Address()
		return bytes.Compare(a[:], b[:]) < 0
	})
	return keys
}

// Addresses returns the addresses of the keys, in the same order.
func Addresses(keys []*crypto.PrivateKey) []relay.Address {
	addrs := make([]relay.Address, len(keys))
	for i, k := range keys {
		addrs[i] = k.Address()
	}
	return addrs
}

// RandomAddr returns the address of a fresh key.
func RandomAddr(t testing.TB) relay.Address {
	t.Helper()
	return crypto.GenPrivKey().Address()
}
