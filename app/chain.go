package app

import (
	"reflect"

	"github.com/iov-one/relay"
)

// Decorators is an ordered list of decorators waiting for the handler
// they wrap. The first decorator sees a request first.
//
//	app.ChainDecorators(
//		utils.NewRecovery(),
//		utils.NewLogging(),
//		sigs.NewDecorator(),
//		cash.NewFeeDecorator(ctrl),
//		utils.NewSavepoint(),
//	).WithHandler(router)
type Decorators struct {
	chain []relay.Decorator
}

// ChainDecorators starts a chain. Nil decorators are skipped, so optional
// stages can be passed unconditionally.
func ChainDecorators(ds ...relay.Decorator) Decorators {
	return Decorators{}.Chain(ds...)
}

// Chain returns a new chain with ds appended. The receiver is not
// modified.
func (d Decorators) Chain(ds ...relay.Decorator) Decorators {
	chain := make([]relay.Decorator, 0, len(d.chain)+len(ds))
	chain = append(chain, d.chain...)
	for _, dec := range ds {
		if !isNilDecorator(dec) {
			chain = append(chain, dec)
		}
	}
	return Decorators{chain: chain}
}

func isNilDecorator(d relay.Decorator) bool {
	if d == nil {
		return true
	}
	v := reflect.ValueOf(d)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

// WithHandler closes the chain over h and returns the resulting handler.
func (d Decorators) WithHandler(h relay.Handler) relay.Handler {
	for i := len(d.chain) - 1; i >= 0; i-- {
		h = link{dec: d.chain[i], next: h}
	}
	return h
}

// link runs one decorator around the rest of the chain.
type link struct {
	dec  relay.Decorator
	next relay.Handler
}

var _ relay.Handler = link{}

func (l link) Deliver(ctx relay.Context, db relay.KVStore, tx relay.Tx) (*relay.DeliverResult, error) {
	return l.dec.Deliver(ctx, db, tx, l.next)
}
