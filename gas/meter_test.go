package gas

import (
	"context"
	"testing"

	"github.com/iov-one/relay/errors"
	"github.com/iov-one/relay/weavetest/assert"
)

func TestMeter(t *testing.T) {
	m := NewMeter(10000)
	assert.Nil(t, m.Consume(ECRECOVER, "ecrecover"))
	assert.Nil(t, m.Consume(ECRECOVER, "ecrecover"))
	assert.Equal(t, uint64(6000), m.Consumed())
	assert.Equal(t, uint64(4000), m.Remaining())

	err := m.Consume(STORE, "store")
	assert.IsErr(t, errors.ErrOutOfGas, err)
	// Running out of gas burns everything.
	assert.Equal(t, uint64(10000), m.Consumed())
	assert.Equal(t, uint64(0), m.Remaining())
}

func TestSizeGas(t *testing.T) {
	cases := map[string]struct {
		size int
		want uint64
	}{
		"empty":         {size: 0, want: 0},
		"partial word":  {size: 3, want: TXDATA},
		"exact words":   {size: 16, want: 2 * TXDATA},
		"one byte over": {size: 17, want: 3 * TXDATA},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.Equal(t, tc.want, SizeGas(TXDATA, tc.size))
		})
	}
}

func TestMeterInContext(t *testing.T) {
	ctx := context.Background()
	if GetMeter(ctx).Limit() == 0 {
		t.Fatal("default meter must not block")
	}
	m := NewMeter(5)
	ctx = WithMeter(ctx, m)
	if GetMeter(ctx) != m {
		t.Fatal("meter not found in context")
	}
}
