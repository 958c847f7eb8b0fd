package weavetest

import "github.com/iov-one/relay"

// Handler is a mock implementation of the relay.Handler interface. Each call
// is counted. Set DeliverErr to force an error response.
type Handler struct {
	deliverCall   int
	DeliverResult relay.DeliverResult
	DeliverErr    error

	// If set, the handler writes this key/value pair to the store before
	// returning.
	WriteKey   []byte
	WriteValue []byte
}

var _ relay.Handler = (*Handler)(nil)

func (h *Handler) Deliver(ctx relay.Context, db relay.KVStore, tx relay.Tx) (*relay.DeliverResult, error) {
	h.deliverCall++
	if h.WriteKey != nil {
		if err := db.Set(h.WriteKey, h.WriteValue); err != nil {
			return nil, err
		}
	}
	if h.DeliverErr != nil {
		return nil, h.DeliverErr
	}
	res := h.DeliverResult
	return &res, nil
}

func (h *Handler) CallCount() int {
	return h.deliverCall
}
