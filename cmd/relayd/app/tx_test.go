package relayd

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/iov-one/relay/errors"
	"github.com/iov-one/relay/store"
	"github.com/iov-one/relay/weavetest"
	"github.com/iov-one/relay/weavetest/assert"
	"github.com/iov-one/relay/x/multisig"
	"github.com/iov-one/relay/x/sigs"
)

func TestTxDecoder(t *testing.T) {
	msg := &multisig.DeployWalletMsg{Variant: multisig.VariantManagedWhitelisted}
	tx, err := NewTx(msg, 3, big.NewInt(2), 5000)
	assert.Nil(t, err)
	raw, err := tx.Marshal()
	assert.Nil(t, err)

	decoded, err := TxDecoder(raw)
	assert.Nil(t, err)
	got, err := decoded.GetMsg()
	assert.Nil(t, err)
	assert.Equal(t, msg, got)
	assert.Equal(t, uint64(5000), decoded.(*Tx).GetGasLimit())

	unknown, err := rlp.EncodeToBytes(&Tx{Path: "nope/nothing", GasPrice: big.NewInt(1)})
	assert.Nil(t, err)
	badMsg, err := rlp.EncodeToBytes(&Tx{Path: msg.Path(), Msg: []byte{0xff, 0x01}, GasPrice: big.NewInt(1)})
	assert.Nil(t, err)

	cases := map[string]struct {
		raw     []byte
		wantErr *errors.Error
	}{
		"empty":          {raw: nil, wantErr: errors.ErrInput},
		"not rlp":        {raw: []byte("envelope"), wantErr: errors.ErrInput},
		"trailing bytes": {raw: append(append([]byte{}, raw...), 0x80), wantErr: errors.ErrInput},
		"unknown path":   {raw: unknown, wantErr: errors.ErrNotFound},
		"malformed msg":  {raw: badMsg, wantErr: errors.ErrInput},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			_, err := TxDecoder(tc.raw)
			assert.IsErr(t, tc.wantErr, err)
		})
	}
}

func TestSignBytesExcludeSignature(t *testing.T) {
	key := weavetest.NewKey()
	tx, err := NewTx(&multisig.DeployWalletMsg{Variant: multisig.VariantManaged}, 0, big.NewInt(1), 1000)
	assert.Nil(t, err)
	before, err := tx.GetSignBytes()
	assert.Nil(t, err)

	assert.Nil(t, tx.Sign(key, 7))
	after, err := tx.GetSignBytes()
	assert.Nil(t, err)
	if !bytes.Equal(before, after) {
		t.Fatal("sign bytes depend on the signature")
	}
	if tx.GetSignature() == nil {
		t.Fatal("signature not set")
	}

	db := store.MemStore()
	signer, err := sigs.VerifyTxSignature(db, tx, 7)
	assert.Nil(t, err)
	assert.Equal(t, key.Address(), signer)

	// The sequence was consumed and the signature is bound to the chain.
	_, err = sigs.VerifyTxSignature(db, tx, 7)
	assert.IsErr(t, errors.ErrReplay, err)
	if other, err := sigs.VerifyTxSignature(store.MemStore(), tx, 8); err == nil && other == key.Address() {
		t.Fatal("signature accepted on another chain")
	}
}
