package ledger

import (
	"math/big"

	"github.com/iov-one/relay"
	"github.com/iov-one/relay/errors"
	"github.com/iov-one/relay/gas"
	"github.com/iov-one/relay/x/cash"
)

// Program is code deployed at an address. Program state must be kept in
// the given store, gas must be charged from the meter in the context.
type Program interface {
	// Call executes data sent by caller with value already transferred to
	// self. Any error fails the call and reverts its state changes.
	Call(ctx relay.Context, db relay.KVStore, self, caller relay.Address, value *big.Int, data []byte) ([]byte, error)
}

// Controller implements the ledger on top of the cash balances.
type Controller struct {
	cash     cash.Controller
	programs map[relay.Address]Program
}

// NewController returns a ledger without any programs.
func NewController(c cash.Controller) *Controller {
	return &Controller{
		cash:     c,
		programs: make(map[relay.Address]Program),
	}
}

// Register deploys the program at given address.
// panics if the address already holds a program
func (c *Controller) Register(addr relay.Address, p Program) {
	if _, ok := c.programs[addr]; ok {
		panic("program already registered at " + addr.Hex())
	}
	c.programs[addr] = p
}

// IsProgram returns true if a program is deployed at addr.
func (c *Controller) IsProgram(addr relay.Address) bool {
	_, ok := c.programs[addr]
	return ok
}

// BalanceOf returns the balance of addr.
func (c *Controller) BalanceOf(db relay.ReadOnlyKVStore, addr relay.Address) (*big.Int, error) {
	return c.cash.Balance(db, addr)
}

// Transfer moves amount between two accounts. Moving zero is a no-op.
func (c *Controller) Transfer(db relay.KVStore, from, to relay.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() == 0 {
		return nil
	}
	return c.cash.MoveCoins(db, from, to, amount)
}

// Call sends amount and data from one account to another, limited to
// gasLimit gas.
//
// The outcome of the call is success. A failed call, including running out
// of gas or an unaffordable value, is not an error: its state changes are
// discarded and success is false. Returned gasUsed is what the call
// consumed, it is not charged to the meter of ctx.
// An error is returned only when the ledger itself cannot proceed.
func (c *Controller) Call(ctx relay.Context, db relay.KVStore, from, to relay.Address, amount *big.Int, data []byte, gasLimit uint64) (success bool, ret []byte, gasUsed uint64, err error) {
	cstore, ok := db.(relay.CacheableKVStore)
	if !ok {
		return false, nil, 0, errors.Wrap(errors.ErrHuman, "need cachable kvstore")
	}
	meter := gas.NewMeter(gasLimit)
	logger := relay.GetLogger(ctx).With("module", "ledger", "to", to.Hex())

	cache := cstore.CacheWrap()
	ret, cerr := c.call(gas.WithMeter(ctx, meter), cache, meter, from, to, amount, data)
	if cerr != nil {
		cache.Discard()
		logger.Debug("call failed", "err", cerr, "gas", meter.Consumed())
		return false, nil, meter.Consumed(), nil
	}
	if err := cache.Write(); err != nil {
		return false, nil, meter.Consumed(), errors.Wrap(err, "write call state")
	}
	return true, ret, meter.Consumed(), nil
}

func (c *Controller) call(ctx relay.Context, db relay.KVStore, meter *gas.Meter, from, to relay.Address, amount *big.Int, data []byte) ([]byte, error) {
	if err := meter.Consume(gas.CALL, "call"); err != nil {
		return nil, err
	}
	if amount != nil && amount.Sign() > 0 {
		if err := meter.Consume(gas.TRANSFER, "value transfer"); err != nil {
			return nil, err
		}
		if err := c.Transfer(db, from, to, amount); err != nil {
			return nil, err
		}
	}
	prog, ok := c.programs[to]
	if !ok {
		return nil, nil
	}
	if err := meter.Consume(gas.SizeGas(gas.HASH, len(data)), "call data"); err != nil {
		return nil, err
	}
	return prog.Call(ctx, db, to, from, amount, data)
}
