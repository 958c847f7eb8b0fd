package utils

import (
	"github.com/iov-one/relay"
	"github.com/iov-one/relay/errors"
)

// Savepoint will isolate all data inside of the call,
// and commit/rollback to savepoint based on if error
type Savepoint struct{}

var _ relay.Decorator = Savepoint{}

// NewSavepoint creates a Savepoint decorator.
func NewSavepoint() Savepoint {
	return Savepoint{}
}

// Deliver runs the rest of the stack in a cache wrap that is written only
// if no error was returned.
func (s Savepoint) Deliver(ctx relay.Context, store relay.KVStore, tx relay.Tx, next relay.Handler) (*relay.DeliverResult, error) {
	cstore, ok := store.(relay.CacheableKVStore)
	if !ok {
		return next.Deliver(ctx, store, tx)
	}

	cache := cstore.CacheWrap()
	res, err := next.Deliver(ctx, cache, tx)
	if err != nil {
		cache.Discard()
		return nil, err
	}
	if err := cache.Write(); err != nil {
		return nil, errors.Wrap(err, "writing savepoint")
	}
	return res, nil
}
