package utils

import (
	"context"
	"testing"

	"github.com/iov-one/relay"
	"github.com/iov-one/relay/errors"
	"github.com/iov-one/relay/metrics"
	"github.com/iov-one/relay/store"
	"github.com/iov-one/relay/weavetest"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecovery(t *testing.T) {
	var h panicHandler
	ctx := context.Background()
	db := store.MemStore()
	tx := &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "/wallets/execute"}}

	assert.Panics(t, func() { _, _ = h.Deliver(ctx, db, tx) })

	before := testutil.ToFloat64(metrics.Panics)
	_, err := NewRecovery().Deliver(ctx, db, tx, h)
	require.Error(t, err)
	assert.True(t, errors.ErrPanic.Is(err))
	assert.Contains(t, err.Error(), "wallet state corrupted")
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.Panics))

	// A nil request must not panic a second time while being logged.
	_, err = NewRecovery().Deliver(ctx, db, nil, h)
	assert.True(t, errors.ErrPanic.Is(err))
}

func TestRecoveryPassesThrough(t *testing.T) {
	ctx := context.Background()
	db := store.MemStore()
	before := testutil.ToFloat64(metrics.Panics)

	h := &weavetest.Handler{DeliverErr: errors.ErrUnauthorized}
	_, err := NewRecovery().Deliver(ctx, db, &weavetest.Tx{}, h)
	assert.True(t, errors.ErrUnauthorized.Is(err))
	assert.Equal(t, before, testutil.ToFloat64(metrics.Panics))
}

type panicHandler struct{}

var _ relay.Handler = panicHandler{}

func (panicHandler) Deliver(relay.Context, relay.KVStore, relay.Tx) (*relay.DeliverResult, error) {
	panic("wallet state corrupted")
}
