package gas

import (
	"context"
	"math"

	"github.com/iov-one/relay/errors"
)

// Meter counts the gas consumed while processing a request. A meter is not
// safe for concurrent use; a request is processed by a single goroutine.
type Meter struct {
	limit    uint64
	consumed uint64
}

// NewMeter returns a meter that allows consuming up to limit gas.
func NewMeter(limit uint64) *Meter {
	return &Meter{limit: limit}
}

// NewInfiniteMeter returns a meter without a limit. It is used for
// processing that is not paid for, like genesis.
func NewInfiniteMeter() *Meter {
	return &Meter{limit: math.MaxUint64}
}

// Consume charges amount of gas. Once the limit is reached, all gas is
// consumed and ErrOutOfGas is returned.
func (m *Meter) Consume(amount uint64, descriptor string) error {
	if have := m.limit - m.consumed; amount > have {
		m.consumed = m.limit
		return errors.Wrapf(errors.ErrOutOfGas, "%s: need %d, have %d", descriptor, amount, have)
	}
	m.consumed += amount
	return nil
}

// Consumed returns the gas consumed so far.
func (m *Meter) Consumed() uint64 {
	return m.consumed
}

// Limit returns the maximum gas this meter allows.
func (m *Meter) Limit() uint64 {
	return m.limit
}

// Remaining returns the gas that can still be consumed.
func (m *Meter) Remaining() uint64 {
	return m.limit - m.consumed
}

type contextKey int

const contextKeyMeter contextKey = 0

// WithMeter attaches the meter to the context.
func WithMeter(ctx context.Context, m *Meter) context.Context {
	return context.WithValue(ctx, contextKeyMeter, m)
}

// GetMeter returns the meter attached to the context. When no meter was
// set, an infinite meter is returned so that code running outside of a paid
// request (genesis, tests) does not need special handling.
func GetMeter(ctx context.Context) *Meter {
	if m, ok := ctx.Value(contextKeyMeter).(*Meter); ok {
		return m
	}
	return NewInfiniteMeter()
}
