package relay

import (
	"context"
	"fmt"
	"math/big"

	"github.com/tendermint/tendermint/libs/log"
)

// Context is just an alias for the standard implementation.
// We use functions to extend it to our domain.
type Context = context.Context

type contextKey int // local to the relay package

const (
	contextKeyChainID contextKey = iota
	contextKeyLogger
	contextKeyCaller
	contextKeyGasPrice
)

var (
	// DefaultLogger is used for all context that have not
	// set anything themselves
	DefaultLogger = log.NewNopLogger()
)

// WithChainID sets the chain id for the Context. The chain id is the EIP-155
// identifier that every signed payload must carry.
// panics if called with chain id already set
func WithChainID(ctx Context, chainID uint64) Context {
	if ctx.Value(contextKeyChainID) != nil {
		panic("Chain ID already set")
	}
	return context.WithValue(ctx, contextKeyChainID, chainID)
}

// GetChainID returns the current chain id
// panics if chain id not already set (should never happen)
func GetChainID(ctx Context) uint64 {
	if x := ctx.Value(contextKeyChainID); x == nil {
		panic("Chain id is not in context")
	}
	return ctx.Value(contextKeyChainID).(uint64)
}

// WithLogger sets the logger for this Context
func WithLogger(ctx Context, logger log.Logger) Context {
	return context.WithValue(ctx, contextKeyLogger, logger)
}

// WithLogInfo accepts keyvalue pairs, and returns another
// context like this, after passing all the keyvals to the
// Logger
func WithLogInfo(ctx Context, keyvals ...interface{}) Context {
	logger := GetLogger(ctx).With(keyvals...)
	return WithLogger(ctx, logger)
}

// GetLogger returns the currently set logger, or
// DefaultLogger if none was set
func GetLogger(ctx Context) log.Logger {
	val, ok := ctx.Value(contextKeyLogger).(log.Logger)
	if !ok {
		return DefaultLogger
	}
	return val
}

// WithCaller sets the address of the party that submitted the current
// request. It is set once, by the authentication decorator.
func WithCaller(ctx Context, caller Address) Context {
	if _, ok := ctx.Value(contextKeyCaller).(Address); ok {
		panic(fmt.Sprintf("caller already set to %s", caller))
	}
	return context.WithValue(ctx, contextKeyCaller, caller)
}

// GetCaller returns the authenticated submitter of the current request.
func GetCaller(ctx Context) (Address, bool) {
	val, ok := ctx.Value(contextKeyCaller).(Address)
	return val, ok
}

// WithGasPrice sets the price per gas unit the caller pays for the current
// request.
func WithGasPrice(ctx Context, price *big.Int) Context {
	if _, ok := ctx.Value(contextKeyGasPrice).(*big.Int); ok {
		panic("gas price already set")
	}
	return context.WithValue(ctx, contextKeyGasPrice, price)
}

// GetGasPrice returns the gas price of the current request. Zero is returned
// if the price was not set.
func GetGasPrice(ctx Context) *big.Int {
	val, ok := ctx.Value(contextKeyGasPrice).(*big.Int)
	if !ok {
		return new(big.Int)
	}
	return val
}
