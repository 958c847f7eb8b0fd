package utils

import (
	"time"

	"github.com/iov-one/relay"
	"github.com/iov-one/relay/errors"
)

// Logging writes one log line per delivered request: info on success,
// error on failure.
type Logging struct{}

var _ relay.Decorator = Logging{}

func NewLogging() Logging {
	return Logging{}
}

func (Logging) Deliver(ctx relay.Context, db relay.KVStore, tx relay.Tx, next relay.Handler) (*relay.DeliverResult, error) {
	started := time.Now()
	res, err := next.Deliver(ctx, db, tx)

	logger := relay.GetLogger(ctx).With(
		"path", relay.GetPath(tx),
		"took_us", time.Since(started).Microseconds(),
	)
	if caller, ok := relay.GetCaller(ctx); ok {
		logger = logger.With("caller", caller.Hex())
	}
	if err != nil {
		logger.Error("Request failed", "code", errors.Code(err), "err", err)
		return res, err
	}
	logger.Info("Request delivered", "gas", res.GasUsed, "log", res.Log)
	return res, nil
}
