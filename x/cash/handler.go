package cash

import (
	"github.com/iov-one/relay"
	"github.com/iov-one/relay/errors"
	"github.com/iov-one/relay/gas"
	"github.com/iov-one/relay/gconf"
)

// RegisterRoutes will instantiate and register
// all handlers in this package
func RegisterRoutes(r relay.Registry, control Controller) {
	r.Handle(SendMsg{}.Path(), NewSendHandler(control))
	r.Handle(UpdateConfigurationMsg{}.Path(), NewConfigHandler())
}

// RegisterQuery will register balances as "/balances". Query data is the
// 20 byte address.
func RegisterQuery(qr relay.QueryRouter) {
	bucket := NewBucket()
	qr.Register("/balances", relay.QueryHandlerFunc(func(db relay.ReadOnlyKVStore, data []byte) ([]relay.Model, error) {
		if len(data) != relay.AddressLength {
			return nil, errors.Wrapf(errors.ErrInput, "address must be %d bytes", relay.AddressLength)
		}
		b, err := loadBalance(db, bucket, relay.BytesToAddress(data))
		if err != nil {
			return nil, err
		}
		raw, err := b.Marshal()
		if err != nil {
			return nil, err
		}
		return []relay.Model{relay.Pair(data, raw)}, nil
	}))
}

// SendHandler will handle sending coins
type SendHandler struct {
	control Controller
}

var _ relay.Handler = SendHandler{}

// NewSendHandler creates a handler for SendMsg
func NewSendHandler(control Controller) SendHandler {
	return SendHandler{control: control}
}

// Deliver moves the tokens from source to receiver if
// all preconditions are met
func (h SendHandler) Deliver(ctx relay.Context, store relay.KVStore, tx relay.Tx) (*relay.DeliverResult, error) {
	var msg SendMsg
	if err := relay.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}

	// Make sure we have permission from the source.
	if caller, ok := relay.GetCaller(ctx); !ok || caller != msg.Src {
		return nil, errors.Wrap(errors.ErrUnauthorized, "account owner did not submit the request")
	}
	if err := gas.GetMeter(ctx).Consume(gas.TRANSFER, "send"); err != nil {
		return nil, err
	}
	if err := h.control.MoveCoins(store, msg.Src, msg.Dest, msg.Amount); err != nil {
		return nil, err
	}
	return &relay.DeliverResult{}, nil
}

// NewConfigHandler returns a handler that applies UpdateConfigurationMsg.
func NewConfigHandler() relay.Handler {
	var conf Configuration
	return gconf.NewUpdateConfigurationHandler(confPkg, &conf)
}
