package sigs

import (
	"math/big"

	"github.com/iov-one/relay"
	"github.com/iov-one/relay/crypto"
)

// SignedTx represents a request envelope signed by its relayer, which can
// be verified by the sigs.Decorator
type SignedTx interface {
	relay.Tx

	// GetSignBytes returns the canonical byte representation of the
	// envelope content that is covered by the signature, excluding the
	// signature itself.
	GetSignBytes() ([]byte, error)

	// GetSignature returns the relayer signature.
	GetSignature() *crypto.Signature

	// GetSequence returns the relayer sequence the envelope was signed
	// with.
	GetSequence() uint64

	// GetGasPrice returns the price per gas unit the relayer pays.
	GetGasPrice() *big.Int
}
