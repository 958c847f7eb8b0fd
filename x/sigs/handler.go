package sigs

import (
	"github.com/iov-one/relay"
	"github.com/iov-one/relay/errors"
	"github.com/iov-one/relay/gas"
)

func RegisterRoutes(r relay.Registry) {
	r.Handle(pathBumpSequenceMsg, &bumpSequenceHandler{b: NewBucket()})
}

type bumpSequenceHandler struct {
	b Bucket
}

func (h *bumpSequenceHandler) Deliver(ctx relay.Context, db relay.KVStore, tx relay.Tx) (*relay.DeliverResult, error) {
	var msg BumpSequenceMsg
	if err := relay.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}

	signer, ok := relay.GetCaller(ctx)
	if !ok {
		return nil, errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	user, err := h.b.GetOrCreate(db, signer)
	if err != nil {
		return nil, errors.Wrap(err, "bucket")
	}
	if err := gas.GetMeter(ctx).Consume(gas.UPDATE, "bump sequence"); err != nil {
		return nil, err
	}

	// Each request processing bumps the sequence by one. Increment
	// must represent the total increment value.
	incr := uint64(msg.Increment) - 1
	if incr == 0 {
		// Zero increment requires no modification.
		return &relay.DeliverResult{}, nil
	}
	if user.Sequence+incr > maxSequenceValue {
		return nil, errors.Wrap(errors.ErrOverflow, "user sequence")
	}
	user.Sequence += incr
	if err := h.b.Save(db, signer, user); err != nil {
		return nil, errors.Wrap(err, "save user")
	}
	return &relay.DeliverResult{}, nil
}
