package cash

import (
	"math/big"
	"testing"

	"github.com/iov-one/relay"
	"github.com/iov-one/relay/weavetest/assert"
)

func assertBalance(t testing.TB, ctrl Controller, db relay.ReadOnlyKVStore, addr relay.Address, want int64) {
	t.Helper()
	got, err := ctrl.Balance(db, addr)
	assert.Nil(t, err)
	if got.Cmp(big.NewInt(want)) != 0 {
		t.Fatalf("balance of %s: want %d, got %s", addr.Hex(), want, got)
	}
}
