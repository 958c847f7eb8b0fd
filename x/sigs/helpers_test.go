package sigs

import (
	"math/big"

	"github.com/iov-one/relay"
	"github.com/iov-one/relay/crypto"
	"github.com/iov-one/relay/weavetest"
)

// stdTx is a minimal SignedTx signing over the message bytes.
type stdTx struct {
	weavetest.Tx
	Signature *crypto.Signature
	Sequence  uint64
	GasPrice  *big.Int
}

var _ SignedTx = (*stdTx)(nil)

func (tx *stdTx) GetSignBytes() ([]byte, error) {
	return tx.Msg.Marshal()
}

func (tx *stdTx) GetSignature() *crypto.Signature {
	return tx.Signature
}

func (tx *stdTx) GetSequence() uint64 {
	return tx.Sequence
}

func (tx *stdTx) GetGasPrice() *big.Int {
	return tx.GasPrice
}

func newTx(msg relay.Msg, price int64) *stdTx {
	return &stdTx{
		Tx:       weavetest.Tx{Msg: msg},
		GasPrice: big.NewInt(price),
	}
}

func sign(signer crypto.Signer, tx *stdTx, chainID, seq uint64) *stdTx {
	sig, err := SignTx(signer, tx, chainID, seq)
	if err != nil {
		panic(err)
	}
	tx.Signature = sig
	tx.Sequence = seq
	return tx
}
