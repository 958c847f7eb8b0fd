package crypto

import (
	"golang.org/x/crypto/sha3"
)

// HashLength is the length of a keccak-256 digest.
const HashLength = 32

// Keccak256 returns the legacy keccak-256 digest of the concatenated data.
func Keccak256(data ...[]byte) []byte {
	h := sha3.NewLegacyKeccak256()
	for _, b := range data {
		_, _ = h.Write(b)
	}
	return h.Sum(nil)
}
