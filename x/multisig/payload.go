package multisig

import (
	"bytes"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/iov-one/relay"
	"github.com/iov-one/relay/crypto"
	"github.com/iov-one/relay/errors"
)

// Payload is what the owners sign: the fields of an EIP-155 legacy
// transaction, encoded as
//
//	rlp([nonce, gasPrice, gasLimit, to, value, data, chainId, 0, 0])
//
// The same decoded structure is both verified and executed.
type Payload struct {
	Nonce    *big.Int
	GasPrice *big.Int
	GasLimit uint64
	To       relay.Address
	Value    *big.Int
	Data     []byte
	ChainID  *big.Int
	R        uint
	S        uint
}

// NewPayload returns a payload for the given chain.
func NewPayload(chainID uint64, nonce *big.Int, to relay.Address, value *big.Int, gasLimit uint64, gasPrice *big.Int, data []byte) *Payload {
	return &Payload{
		Nonce:    nonce,
		GasPrice: gasPrice,
		GasLimit: gasLimit,
		To:       to,
		Value:    value,
		Data:     data,
		ChainID:  new(big.Int).SetUint64(chainID),
	}
}

// Encode returns the canonical RLP encoding of the payload.
func (p *Payload) Encode() ([]byte, error) {
	return rlp.EncodeToBytes(p)
}

// Hash returns keccak256 of the payload encoding. This is what every owner
// signs.
func (p *Payload) Hash() ([]byte, error) {
	raw, err := p.Encode()
	if err != nil {
		return nil, err
	}
	return crypto.Keccak256(raw), nil
}

// Validate checks the payload is complete and targets given chain.
func (p *Payload) Validate(chainID uint64) error {
	if err := relay.ValidateAmount(p.Nonce); err != nil {
		return errors.Field("Nonce", err, "")
	}
	if err := relay.ValidateAmount(p.GasPrice); err != nil {
		return errors.Field("GasPrice", err, "")
	}
	if err := relay.ValidateAmount(p.Value); err != nil {
		return errors.Field("Value", err, "")
	}
	if p.ChainID == nil || !p.ChainID.IsUint64() || p.ChainID.Uint64() != chainID {
		return errors.Field("ChainID", errors.ErrInput, "payload is not for chain %d", chainID)
	}
	if p.R != 0 || p.S != 0 {
		return errors.Field("R", errors.ErrInput, "signature fields must be zero")
	}
	return nil
}

// DecodePayload parses raw payload bytes. Only canonical encodings are
// accepted: re-encoding the result must give back the same bytes, so that
// the signed bytes and the executed parameters cannot diverge.
func DecodePayload(raw []byte) (*Payload, error) {
	var p Payload
	if err := rlp.DecodeBytes(raw, &p); err != nil {
		return nil, errors.Wrapf(errors.ErrUnauthorized, "malformed payload: %s", err)
	}
	enc, err := p.Encode()
	if err != nil {
		return nil, errors.Wrapf(errors.ErrUnauthorized, "malformed payload: %s", err)
	}
	if !bytes.Equal(enc, raw) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "payload encoding is not canonical")
	}
	return &p, nil
}
