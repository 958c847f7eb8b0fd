/*

FeeDecorator charges the relayer for the gas its request consumes.

The business logic is:
1. If the gas price is below the configured minimum, or the relayer cannot
   cover gas limit times gas price, reject the request with an error.
2. Attach a gas meter limited to the gas limit to the context, charge the
   intrinsic cost and run the request in a cache wrap.
3. If processing results in an error, discard all changes. Nothing is charged
   for a rejected request.
4. On success move consumed gas times gas price from the relayer to the
   collector and commit everything together.

The collector address and the minimal gas price are configured via the gconf
package.

*/

package cash

import (
	"github.com/iov-one/relay"
	"github.com/iov-one/relay/errors"
	"github.com/iov-one/relay/gas"
)

// GasTx is implemented by requests that announce a gas budget.
type GasTx interface {
	relay.Tx
	GetGasLimit() uint64
}

type FeeDecorator struct {
	ctrl Controller
}

var _ relay.Decorator = FeeDecorator{}

// NewFeeDecorator returns a FeeDecorator paying fees with the given
// controller.
func NewFeeDecorator(ctrl Controller) FeeDecorator {
	return FeeDecorator{ctrl: ctrl}
}

// Deliver verifies the gas budget, meters the request and charges the fee.
func (d FeeDecorator) Deliver(ctx relay.Context, store relay.KVStore, tx relay.Tx, next relay.Handler) (*relay.DeliverResult, error) {
	payer, ok := relay.GetCaller(ctx)
	if !ok {
		return nil, errors.Wrap(errors.ErrUnauthorized, "fee payer unknown")
	}
	conf, err := loadConf(store)
	if err != nil {
		return nil, err
	}
	price := relay.GetGasPrice(ctx)
	if conf.MinGasPrice != nil && price.Cmp(conf.MinGasPrice) < 0 {
		return nil, errors.Wrapf(errors.ErrAmount, "gas price %s below minimum %s", price, conf.MinGasPrice)
	}

	meter, err := d.prepareMeter(tx)
	if err != nil {
		return nil, err
	}
	maxFee, err := relay.GasCost(meter.Limit(), price)
	if err != nil {
		return nil, errors.Wrap(err, "gas limit cost")
	}
	balance, err := d.ctrl.Balance(store, payer)
	if err != nil {
		return nil, errors.Wrap(err, "fee payer balance")
	}
	if balance.Cmp(maxFee) < 0 {
		return nil, errors.Wrapf(errors.ErrInsufficientAmount, "cannot cover gas limit cost %s", maxFee)
	}

	cstore, ok := store.(relay.CacheableKVStore)
	if !ok {
		return nil, errors.Wrap(errors.ErrHuman, "need cachable kvstore")
	}
	cache := cstore.CacheWrap()

	res, err := next.Deliver(gas.WithMeter(ctx, meter), cache, tx)
	if err != nil {
		cache.Discard()
		return nil, err
	}

	fee, err := relay.GasCost(meter.Consumed(), price)
	if err != nil {
		cache.Discard()
		return nil, errors.Wrap(err, "fee")
	}
	if fee.Sign() > 0 {
		if err := d.ctrl.MoveCoins(cache, payer, conf.Collector, fee); err != nil {
			cache.Discard()
			return nil, errors.Wrap(err, "cannot charge fee")
		}
	}
	// If we cannot write the cache, nothing got committed and the whole
	// delivery failed.
	if err := cache.Write(); err != nil {
		return nil, errors.Wrap(err, "write")
	}
	res.GasUsed = meter.Consumed()
	return res, nil
}

// prepareMeter creates a meter bounded by the announced gas limit and
// charges the intrinsic cost of the request.
func (d FeeDecorator) prepareMeter(tx relay.Tx) (*gas.Meter, error) {
	gtx, ok := tx.(GasTx)
	if !ok {
		return nil, errors.Wrap(errors.ErrInput, "request carries no gas limit")
	}
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "cannot get message")
	}
	raw, err := msg.Marshal()
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	meter := gas.NewMeter(gtx.GetGasLimit())
	if err := meter.Consume(gas.IntrinsicGas(raw), "intrinsic"); err != nil {
		return nil, err
	}
	return meter, nil
}
