/*
Package app glues the extensions into a request processor: a router
dispatching messages by path, a decorator chain and a store
application that serializes all state access.
*/
package app

import (
	"strconv"

	"github.com/iov-one/relay"
	"github.com/iov-one/relay/errors"
	"github.com/iov-one/relay/metrics"
)

// BaseApp adds request processing to the storage and query functionality
// of StoreApp.
type BaseApp struct {
	*StoreApp
	decoder relay.TxDecoder
	handler relay.Handler
}

// NewBaseApp constructs a basic application
func NewBaseApp(store *StoreApp, decoder relay.TxDecoder, handler relay.Handler) BaseApp {
	return BaseApp{
		StoreApp: store,
		decoder:  decoder,
		handler:  handler,
	}
}

// DeliverTx decodes the request and dispatches it to the handler. The
// request runs in a cache wrap of the store that is written only if the
// handler succeeded.
func (b BaseApp) DeliverTx(txBytes []byte) TxResponse {
	tx, err := b.loadTx(txBytes)
	if err != nil {
		metrics.Requests.WithLabelValues("", strconv.Itoa(int(errors.Code(err)))).Inc()
		return DeliverTxError(err, b.debug)
	}
	path := relay.GetPath(tx)

	b.mu.Lock()
	defer b.mu.Unlock()

	res, err := b.deliver(path, tx)
	metrics.Requests.WithLabelValues(path, strconv.Itoa(int(errors.Code(err)))).Inc()
	if err != nil {
		return DeliverTxError(err, b.debug)
	}
	metrics.RequestGas.Observe(float64(res.GasUsed))
	return TxResponse{
		Data:    res.Data,
		Log:     res.Log,
		GasUsed: res.GasUsed,
	}
}

func (b BaseApp) deliver(path string, tx relay.Tx) (*relay.DeliverResult, error) {
	if b.chainID == 0 {
		return nil, errors.Wrap(errors.ErrState, "chain not initialized")
	}
	ctx := relay.WithLogInfo(b.baseContext,
		"call", "deliver_tx",
		"path", path)

	cache := b.store.CacheWrap()
	res, err := b.handler.Deliver(ctx, cache, tx)
	if err != nil {
		cache.Discard()
		return nil, err
	}
	if err := cache.Write(); err != nil {
		return nil, errors.Wrap(err, "write request state")
	}
	return res, nil
}

// loadTx calls the decoder, and capture any panics
func (b BaseApp) loadTx(txBytes []byte) (tx relay.Tx, err error) {
	defer errors.Recover(&err)
	tx, err = b.decoder(txBytes)
	return
}
