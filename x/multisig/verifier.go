package multisig

import (
	"github.com/iov-one/relay"
	"github.com/iov-one/relay/crypto"
	"github.com/iov-one/relay/errors"
)

// VerifySignatures checks that sigs authorize hash for a wallet with given
// owners and threshold.
//
// Exactly threshold signatures are required. Every recovered signer must be
// an owner and signers must be strictly ascending by address, which also
// rules out a signer being counted twice.
func VerifySignatures(owners []relay.Address, threshold uint8, hash []byte, sigs []crypto.Signature) error {
	if len(sigs) != int(threshold) {
		return errors.Wrapf(errors.ErrUnauthorized, "%d signatures, want %d", len(sigs), threshold)
	}

	isOwner := make(map[relay.Address]struct{}, len(owners))
	for _, o := range owners {
		isOwner[o] = struct{}{}
	}

	var last relay.Address
	for i, sig := range sigs {
		signer, err := crypto.RecoverSigner(hash, sig)
		if err != nil {
			return errors.Wrapf(err, "signature %d", i)
		}
		if _, ok := isOwner[signer]; !ok {
			return errors.Wrapf(errors.ErrUnauthorized, "signature %d: %s is not an owner", i, signer.Hex())
		}
		if i > 0 && !addressLess(last, signer) {
			return errors.Wrapf(errors.ErrUnauthorized, "signature %d: signers not in ascending order", i)
		}
		last = signer
	}
	return nil
}
