package relayd

import (
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/iov-one/relay"
	"github.com/iov-one/relay/crypto"
	"github.com/iov-one/relay/errors"
	"github.com/iov-one/relay/x/cash"
	"github.com/iov-one/relay/x/multisig"
	"github.com/iov-one/relay/x/sigs"
)

// Tx is the request envelope submitted by relayers. It is RLP encoded on
// the wire. Msg holds the encoding of the message registered for Path.
type Tx struct {
	Path      string
	Msg       []byte
	Sequence  uint64
	GasPrice  *big.Int
	GasLimit  uint64
	Signature *crypto.Signature `rlp:"nil"`

	msg relay.Msg
}

// make sure tx fulfills all interfaces
var _ relay.Tx = (*Tx)(nil)
var _ cash.GasTx = (*Tx)(nil)
var _ sigs.SignedTx = (*Tx)(nil)

// msgFactories creates an empty message for every path the daemon routes.
var msgFactories = newMsgFactories(
	func() relay.Msg { return &cash.SendMsg{} },
	func() relay.Msg { return &cash.UpdateConfigurationMsg{} },
	func() relay.Msg { return &sigs.BumpSequenceMsg{} },
	func() relay.Msg { return &multisig.CreateWalletMsg{} },
	func() relay.Msg { return &multisig.DeployWalletMsg{} },
	func() relay.Msg { return &multisig.ActivateMsg{} },
	func() relay.Msg { return &multisig.ExecuteMsg{} },
	func() relay.Msg { return &multisig.UpdateConfigurationMsg{} },
)

func newMsgFactories(fns ...func() relay.Msg) map[string]func() relay.Msg {
	m := make(map[string]func() relay.Msg, len(fns))
	for _, fn := range fns {
		m[fn().Path()] = fn
	}
	return m
}

// NewTx wraps msg into an unsigned envelope.
func NewTx(msg relay.Msg, seq uint64, gasPrice *big.Int, gasLimit uint64) (*Tx, error) {
	raw, err := msg.Marshal()
	if err != nil {
		return nil, errors.Wrap(err, "marshal msg")
	}
	return &Tx{
		Path:     msg.Path(),
		Msg:      raw,
		Sequence: seq,
		GasPrice: gasPrice,
		GasLimit: gasLimit,
		msg:      msg,
	}, nil
}

// TxDecoder creates a Tx and unmarshals bytes into it
func TxDecoder(bz []byte) (relay.Tx, error) {
	tx := new(Tx)
	if err := tx.Unmarshal(bz); err != nil {
		return nil, err
	}
	return tx, nil
}

func (tx *Tx) Marshal() ([]byte, error) {
	return rlp.EncodeToBytes(tx)
}

// Unmarshal decodes the envelope and the message it carries. Unknown paths
// are rejected here so they never reach the decorators.
func (tx *Tx) Unmarshal(raw []byte) error {
	var t Tx
	if err := rlp.DecodeBytes(raw, &t); err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot decode envelope: %s", err)
	}
	msg, err := t.decodeMsg()
	if err != nil {
		return err
	}
	t.msg = msg
	*tx = t
	return nil
}

func (tx *Tx) decodeMsg() (relay.Msg, error) {
	fn, ok := msgFactories[tx.Path]
	if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "no message registered for path %q", tx.Path)
	}
	msg := fn()
	if err := msg.Unmarshal(tx.Msg); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "cannot decode %s message: %s", tx.Path, err)
	}
	return msg, nil
}

// GetMsg returns the message carried by the envelope.
func (tx *Tx) GetMsg() (relay.Msg, error) {
	if tx.msg == nil {
		msg, err := tx.decodeMsg()
		if err != nil {
			return nil, err
		}
		tx.msg = msg
	}
	return tx.msg, nil
}

// GetSignBytes returns the bytes to sign...
func (tx *Tx) GetSignBytes() ([]byte, error) {
	// temporarily unset the signature, as the sign bytes
	// should only come from the data itself
	sig := tx.Signature
	tx.Signature = nil

	bz, err := tx.Marshal()

	tx.Signature = sig
	return bz, err
}

func (tx *Tx) GetSignature() *crypto.Signature {
	return tx.Signature
}

func (tx *Tx) GetSequence() uint64 {
	return tx.Sequence
}

func (tx *Tx) GetGasPrice() *big.Int {
	return tx.GasPrice
}

func (tx *Tx) GetGasLimit() uint64 {
	return tx.GasLimit
}

// Sign signs the envelope with the relayer key for the given chain.
func (tx *Tx) Sign(signer crypto.Signer, chainID uint64) error {
	sig, err := sigs.SignTx(signer, tx, chainID, tx.Sequence)
	if err != nil {
		return errors.Wrap(err, "sign envelope")
	}
	tx.Signature = sig
	return nil
}
