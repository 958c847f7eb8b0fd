package sigs

import (
	"github.com/iov-one/relay"
	"github.com/iov-one/relay/errors"
)

// Decorator authenticates the relayer of every envelope. On success the
// relayer becomes the caller in the context and its sequence is consumed.
type Decorator struct {
	allowMissingSigs bool
}

var _ relay.Decorator = Decorator{}

// NewDecorator rejects unsigned envelopes.
func NewDecorator() Decorator {
	return Decorator{}
}

// AllowMissingSigs lets unsigned envelopes through with no caller set.
// Handlers that need a caller then fail with ErrUnauthorized.
func (d Decorator) AllowMissingSigs() Decorator {
	d.allowMissingSigs = true
	return d
}

// Deliver verifies the signature before calling down the stack.
func (d Decorator) Deliver(ctx relay.Context, store relay.KVStore, tx relay.Tx, next relay.Handler) (*relay.DeliverResult, error) {
	stx, ok := tx.(SignedTx)
	if !ok || stx.GetSignature() == nil {
		if d.allowMissingSigs {
			return next.Deliver(ctx, store, tx)
		}
		return nil, errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}

	price := stx.GetGasPrice()
	if err := relay.ValidateAmount(price); err != nil {
		return nil, errors.Wrap(err, "gas price")
	}

	chainID := relay.GetChainID(ctx)
	signer, err := VerifyTxSignature(store, stx, chainID)
	if err != nil {
		return nil, errors.Wrap(err, "cannot verify signature")
	}

	ctx = relay.WithCaller(ctx, signer)
	ctx = relay.WithGasPrice(ctx, price)
	ctx = relay.WithLogInfo(ctx, "relayer", signer.Hex())
	return next.Deliver(ctx, store, tx)
}
