package crypto

import (
	"crypto/ecdsa"
	"encoding/hex"
	"math/big"
	"strings"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/iov-one/relay"
	"github.com/iov-one/relay/errors"
)

// SignatureLength is the length of the [R || S || V] encoding.
const SignatureLength = 65

// Signer is the functionality we use from a private key.
// No serializing to support hardware devices as well.
type Signer interface {
	// Sign returns a recoverable signature of a 32 bytes hash.
	Sign(hash []byte) (Signature, error)
	Address() relay.Address
}

// Signature is a recoverable secp256k1 signature. V is the recovery id
// offset by 27 as produced by Ethereum tooling; 0 and 1 are accepted as
// well when recovering.
type Signature struct {
	V uint8
	R [32]byte
	S [32]byte
}

// Bytes returns the [R || S || V] encoding with V normalized to 0 or 1.
func (s Signature) Bytes() []byte {
	raw := make([]byte, SignatureLength)
	copy(raw[:32], s.R[:])
	copy(raw[32:64], s.S[:])
	raw[64] = s.recoveryID()
	return raw
}

func (s Signature) recoveryID() byte {
	if s.V >= 27 {
		return s.V - 27
	}
	return s.V
}

// SignatureFromBytes parses the [R || S || V] encoding.
func SignatureFromBytes(raw []byte) (Signature, error) {
	if len(raw) != SignatureLength {
		return Signature{}, errors.Wrapf(errors.ErrInput, "signature must be %d bytes, got %d", SignatureLength, len(raw))
	}
	var sig Signature
	copy(sig.R[:], raw[:32])
	copy(sig.S[:], raw[32:64])
	sig.V = raw[64]
	if sig.V < 27 {
		sig.V += 27
	}
	return sig, nil
}

// RecoverSigner returns the address of the key that produced the signature
// over the hash. Any malformed or unrecoverable signature is reported as
// ErrUnauthorized.
func RecoverSigner(hash []byte, sig Signature) (relay.Address, error) {
	if len(hash) != HashLength {
		return relay.Address{}, errors.Wrapf(errors.ErrUnauthorized, "hash must be %d bytes", HashLength)
	}
	if sig.V != 27 && sig.V != 28 && sig.V != 0 && sig.V != 1 {
		return relay.Address{}, errors.Wrapf(errors.ErrUnauthorized, "invalid recovery id %d", sig.V)
	}
	r := new(big.Int).SetBytes(sig.R[:])
	s := new(big.Int).SetBytes(sig.S[:])
	if !ethcrypto.ValidateSignatureValues(sig.recoveryID(), r, s, false) {
		return relay.Address{}, errors.Wrap(errors.ErrUnauthorized, "signature values out of range")
	}
	pub, err := ethcrypto.SigToPub(hash, sig.Bytes())
	if err != nil {
		return relay.Address{}, errors.Wrap(errors.ErrUnauthorized, err.Error())
	}
	return ethcrypto.PubkeyToAddress(*pub), nil
}

// PrivateKey is a secp256k1 private key.
type PrivateKey struct {
	key *ecdsa.PrivateKey
}

var _ Signer = (*PrivateKey)(nil)

// GenPrivKey returns a random new private key.
func GenPrivKey() *PrivateKey {
	k, err := ethcrypto.GenerateKey()
	if err != nil {
		panic(err)
	}
	return &PrivateKey{key: k}
}

// PrivKeyFromHex loads a private key from its hex representation, with or
// without the 0x prefix.
func PrivKeyFromHex(s string) (*PrivateKey, error) {
	raw, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, "private key is not hex")
	}
	k, err := ethcrypto.ToECDSA(raw)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return &PrivateKey{key: k}, nil
}

// Sign returns a matching signature for this private key. V is set to 27
// or 28.
func (p *PrivateKey) Sign(hash []byte) (Signature, error) {
	if p == nil || p.key == nil {
		return Signature{}, errors.Wrap(errors.ErrHuman, "empty private key")
	}
	raw, err := ethcrypto.Sign(hash, p.key)
	if err != nil {
		return Signature{}, errors.Wrap(errors.ErrInput, err.Error())
	}
	return SignatureFromBytes(raw)
}

// Address returns the address derived from the public key.
func (p *PrivateKey) Address() relay.Address {
	return ethcrypto.PubkeyToAddress(p.key.PublicKey)
}

// Hex returns the 0x prefixed hex representation of the key.
func (p *PrivateKey) Hex() string {
	return "0x" + hex.EncodeToString(ethcrypto.FromECDSA(p.key))
}

// CreateAddress derives the address of an account created by creator when
// its creation counter was at nonce.
func CreateAddress(creator relay.Address, nonce uint64) relay.Address {
	return ethcrypto.CreateAddress(creator, nonce)
}
