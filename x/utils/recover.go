package utils

import (
	"github.com/iov-one/relay"
	"github.com/iov-one/relay/errors"
	"github.com/iov-one/relay/metrics"
)

// Recovery converts a panic anywhere below it in the chain into an
// ErrPanic error, so a broken handler fails one request instead of the
// daemon.
type Recovery struct{}

var _ relay.Decorator = Recovery{}

func NewRecovery() Recovery {
	return Recovery{}
}

func (Recovery) Deliver(ctx relay.Context, db relay.KVStore, tx relay.Tx, next relay.Handler) (res *relay.DeliverResult, err error) {
	defer func() {
		if err != nil && errors.ErrPanic.Is(err) {
			metrics.Panics.Inc()
			relay.GetLogger(ctx).Error("Recovered panic", "path", relay.GetPath(tx), "err", err)
		}
	}()
	defer errors.Recover(&err)
	return next.Deliver(ctx, db, tx)
}
