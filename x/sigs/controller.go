package sigs

import (
	"encoding/binary"

	"github.com/iov-one/relay"
	"github.com/iov-one/relay/crypto"
	"github.com/iov-one/relay/errors"
)

// SignCodeV1 is the current way to prefix the bytes we use to build
// a signature
var SignCodeV1 = []byte{0, 0xCA, 0xFE, 0}

// VerifyTxSignature checks the relayer signature on the envelope and
// increments the relayer sequence.
//
// returns the relayer address, or an error if the signature is invalid
// or the sequence does not match
func VerifyTxSignature(db relay.KVStore, tx SignedTx, chainID uint64) (relay.Address, error) {
	sig := tx.GetSignature()
	if sig == nil {
		return relay.Address{}, errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	bz, err := tx.GetSignBytes()
	if err != nil {
		return relay.Address{}, err
	}

	hash := SignHash(bz, chainID, tx.GetSequence())
	signer, err := crypto.RecoverSigner(hash, *sig)
	if err != nil {
		return relay.Address{}, err
	}

	bucket := NewBucket()
	user, err := bucket.GetOrCreate(db, signer)
	if err != nil {
		return relay.Address{}, err
	}
	if err := user.CheckAndIncrementSequence(tx.GetSequence()); err != nil {
		return relay.Address{}, err
	}
	if err := bucket.Save(db, signer, user); err != nil {
		return relay.Address{}, errors.Wrap(err, "save sequence")
	}
	return signer, nil
}

/*
BuildSignBytes combines all info on the envelope before signing

We use the following format:

version | chainID          | sequence          | signBytes
4bytes  | uint64 bigendian | uint64 bigendian  | serialized envelope

This is then hashed with keccak-256 before fed into
the secp256k1 signing/recovery step
*/
func BuildSignBytes(signBytes []byte, chainID uint64, seq uint64) []byte {
	output := make([]byte, 0, len(SignCodeV1)+8+8+len(signBytes))
	output = append(output, SignCodeV1...)
	output = binary.BigEndian.AppendUint64(output, chainID)
	output = binary.BigEndian.AppendUint64(output, seq)
	return append(output, signBytes...)
}

// SignHash returns the hash the relayer signs.
func SignHash(signBytes []byte, chainID uint64, seq uint64) []byte {
	return crypto.Keccak256(BuildSignBytes(signBytes, chainID, seq))
}

// SignTx creates a signature for the given envelope.
func SignTx(signer crypto.Signer, tx SignedTx, chainID uint64, seq uint64) (*crypto.Signature, error) {
	bz, err := tx.GetSignBytes()
	if err != nil {
		return nil, err
	}
	sig, err := signer.Sign(SignHash(bz, chainID, seq))
	if err != nil {
		return nil, err
	}
	return &sig, nil
}
