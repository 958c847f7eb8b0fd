package weavetest

import "github.com/iov-one/relay"

// Decorator is a mock implementation of the relay.Decorator interface.
//
// Set DeliverErr to force error response. If the error attribute is not set
// then wrapped handler method is called and its result returned.
// Each method call is counted. Regardless of the method call result the
// counter is incremented.
type Decorator struct {
	deliverCall int
	// DeliverErr if set is returned by the Deliver method before calling
	// the wrapped handler.
	DeliverErr error
}

var _ relay.Decorator = (*Decorator)(nil)

func (d *Decorator) Deliver(ctx relay.Context, db relay.KVStore, tx relay.Tx, next relay.Handler) (*relay.DeliverResult, error) {
	d.deliverCall++

	if d.DeliverErr != nil {
		return nil, d.DeliverErr
	}
	return next.Deliver(ctx, db, tx)
}

func (d *Decorator) CallCount() int {
	return d.deliverCall
}

// Decorate returns a handler that calls the decorator with h as the next
// handler.
func Decorate(h relay.Handler, d relay.Decorator) relay.Handler {
	return &decoratedHandler{hn: h, dc: d}
}

type decoratedHandler struct {
	hn relay.Handler
	dc relay.Decorator
}

var _ relay.Handler = (*decoratedHandler)(nil)

func (d *decoratedHandler) Deliver(ctx relay.Context, db relay.KVStore, tx relay.Tx) (*relay.DeliverResult, error) {
	return d.dc.Deliver(ctx, db, tx, d.hn)
}
